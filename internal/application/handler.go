package application

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/application/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/authz"
	jobentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	userentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

var ErrJobNotOpen = fmt.Errorf("job is not accepting applications: %w", apperr.ErrConflict)

// JobLookup is what the handler needs from the job service.
type JobLookup interface {
	GetByID(ctx context.Context, id string) (*jobentity.Job, error)
}

type Handler struct {
	svc    *Service
	jobs   JobLookup
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, jobs JobLookup, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, jobs: jobs, logger: logger}
}

// List returns the applications the caller may see, optionally narrowed by
// the jobId query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := authz.ApplicationScope(authz.UserFrom(r.Context()))
	f.JobID = r.URL.Query().Get("jobId")
	apps, err := h.svc.List(r.Context(), f)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, apps)
}

type CreateRequest struct {
	JobID       string `json:"jobId" validate:"required"`
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
	ResumeURL   string `json:"resumeUrl"`
}

// Create submits an application for the calling job seeker. The job must be
// active and the seeker must not have applied already.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := utilities.DecodeJSON(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	ctx := r.Context()
	u := authz.UserFrom(ctx)
	j, err := h.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if j.Status != jobentity.StatusActive {
		utilities.WriteError(w, h.logger, ErrJobNotOpen)
		return
	}
	resume := req.ResumeURL
	if p, ok := u.Profile.(*userentity.JobSeekerProfile); ok && resume == "" {
		resume = p.ResumeURL
	}
	a, err := h.svc.Apply(ctx, &entity.Application{
		JobID:       j.ID,
		JobSeekerID: u.ID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   resume,
	})
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, a)
}

// Transition handles POST /applications/{id}/{action}; only the owner of the
// job or an admin may decide.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a, err := h.svc.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	j, err := h.jobs.GetByID(ctx, a.JobID)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if !authz.CanManageJob(authz.UserFrom(ctx), j) {
		utilities.WriteError(w, h.logger, authz.ErrForbidden)
		return
	}
	updated, err := h.svc.Transition(ctx, a.ID, entity.Action(r.PathValue("action")))
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, updated)
}
