package job

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/authz"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	userentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

// Handler contains dependencies for handling job endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

// NewHandler constructs a new Handler.
func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List returns the public listing, filtered by the search, location, type
// and remote query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := entity.Filter{
		Search:   q.Get("search"),
		Location: q.Get("location"),
		Type:     q.Get("type"),
	}
	if v := q.Get("remote"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			utilities.WriteError(w, h.logger, apperr.InvalidInput("remote must be a boolean", err))
			return
		}
		f.Remote = &b
	}
	jobs, err := h.svc.List(r.Context(), f)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, jobs)
}

// Get returns one job. Jobs that are not active are only visible to their
// owner and admins.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if !authz.CanViewJob(authz.UserFrom(r.Context()), j) {
		utilities.WriteError(w, h.logger, ErrJobNotFound)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, j)
}

// Mine lists the calling employer's jobs in every status.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	u := authz.UserFrom(r.Context())
	jobs, err := h.svc.ListByEmployer(r.Context(), u.ID)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, jobs)
}

type CreateRequest struct {
	Title        string         `json:"title" validate:"required,max=200"`
	Company      string         `json:"company"`
	Location     string         `json:"location" validate:"required"`
	Type         string         `json:"type" validate:"required,oneof=full-time part-time contract internship"`
	Remote       bool           `json:"remote"`
	Salary       *entity.Salary `json:"salary"`
	Description  string         `json:"description" validate:"required"`
	Requirements []string       `json:"requirements"`
	Benefits     []string       `json:"benefits"`
	Skills       []string       `json:"skills"`
	Experience   string         `json:"experience"`
	Status       entity.Status  `json:"status" validate:"omitempty,oneof=draft active"`
}

// Create posts a job owned by the calling employer. Company defaults to the
// employer's company name.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := utilities.DecodeJSON(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	u := authz.UserFrom(r.Context())
	company := req.Company
	if p, ok := u.Profile.(*userentity.EmployerProfile); ok && company == "" {
		company = p.CompanyName
	}
	j, err := h.svc.Create(r.Context(), &entity.Job{
		Title:        req.Title,
		Company:      company,
		Location:     req.Location,
		Type:         req.Type,
		Remote:       req.Remote,
		Salary:       req.Salary,
		Description:  req.Description,
		Requirements: req.Requirements,
		Benefits:     req.Benefits,
		Skills:       req.Skills,
		Experience:   req.Experience,
		EmployerID:   u.ID,
		Status:       req.Status,
	})
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, j)
}

// owned loads the path job and checks the caller may manage it.
func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (*entity.Job, bool) {
	j, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return nil, false
	}
	if !authz.CanManageJob(authz.UserFrom(r.Context()), j) {
		utilities.WriteError(w, h.logger, authz.ErrForbidden)
		return nil, false
	}
	return j, true
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	j, ok := h.owned(w, r)
	if !ok {
		return
	}
	var p entity.Patch
	if err := utilities.DecodeJSON(r, &p); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	updated, err := h.svc.Update(r.Context(), j.ID, p)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, updated)
}

// Transition handles POST /jobs/{id}/{action}.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	j, ok := h.owned(w, r)
	if !ok {
		return
	}
	updated, err := h.svc.Transition(r.Context(), j.ID, entity.Action(r.PathValue("action")))
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, updated)
}
