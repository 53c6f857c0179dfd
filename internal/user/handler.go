package user

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/authz"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

// Handler exposes HTTP endpoints for user operations.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !authz.CanManageUser(authz.UserFrom(r.Context()), id) {
		utilities.WriteError(w, h.logger, authz.ErrForbidden)
		return
	}
	u, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u)
}

// UpdateRequest is a partial user. The profile is decoded against the
// resulting role.
type UpdateRequest struct {
	Email   *string         `json:"email" validate:"omitempty,email"`
	Role    *entity.Role    `json:"role" validate:"omitempty,oneof=job_seeker employer admin"`
	Profile json.RawMessage `json:"profile"`
	Version int64           `json:"version"`
}

// Update patches a user. Only admins may change a role.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := authz.UserFrom(ctx)
	id := r.PathValue("id")
	if !authz.CanManageUser(caller, id) {
		utilities.WriteError(w, h.logger, authz.ErrForbidden)
		return
	}
	var req UpdateRequest
	if err := utilities.DecodeJSON(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	current, err := h.svc.GetByID(ctx, id)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	if req.Role != nil && *req.Role != current.Role && caller.Role != entity.RoleAdmin {
		utilities.WriteError(w, h.logger, authz.ErrForbidden)
		return
	}
	p := UserPatch{Email: req.Email, Role: req.Role, Version: req.Version}
	if len(req.Profile) > 0 && string(req.Profile) != "null" {
		role := current.Role
		if req.Role != nil {
			role = *req.Role
		}
		profile, err := entity.DecodeProfile(role, req.Profile)
		if err != nil {
			utilities.WriteError(w, h.logger, apperr.InvalidInput("invalid profile", err))
			return
		}
		p.Profile = profile
	}
	u, err := h.svc.Update(ctx, id, p)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u)
}

type ResumeRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
}

// UploadResume simulates a resume upload for the calling job seeker.
func (h *Handler) UploadResume(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequest
	if err := utilities.DecodeJSON(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	u := authz.UserFrom(r.Context())
	updated, err := h.svc.SetResume(r.Context(), u.ID, req.Filename)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, updated)
}
