package session

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/authz"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/session/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

type Handler struct {
	svc     *Service
	issuer  *TokenIssuer
	revoked *repo.RevocationRepo
	logger  *zap.SugaredLogger
}

func NewHandler(svc *Service, issuer *TokenIssuer, revoked *repo.RevocationRepo, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, issuer: issuer, revoked: revoked, logger: logger}
}

func (h *Handler) slot(w http.ResponseWriter, r *http.Request) *CookieSlot {
	return NewCookieSlot(w, r, h.issuer, h.revoked)
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"`
}

// SessionResponse is returned by login and register.
type SessionResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utilities.DecodeJSON(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	slot := h.slot(w, r)
	u, err := h.svc.Login(r.Context(), slot, req.Email, req.Password)
	if err != nil {
		h.logger.Debugw("login failed", "email", req.Email, "err", err)
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, SessionResponse{User: u, Token: slot.Token()})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := utilities.DecodeJSON(r, &req); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	slot := h.slot(w, r)
	u, err := h.svc.Register(r.Context(), slot, req)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, SessionResponse{User: u, Token: slot.Token()})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), h.slot(w, r)); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	utilities.WriteJSON(w, http.StatusOK, authz.UserFrom(r.Context()))
}

// Identify resolves the session user of every request and puts it on the
// context. Requests without a valid session pass through anonymously.
func (h *Handler) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := h.svc.Current(r.Context(), h.slot(w, r))
		if err == nil {
			r = r.WithContext(authz.WithUser(r.Context(), u))
		} else if !errors.Is(err, ErrNoSession) {
			h.logger.Warnw("resolve session failed", "err", err)
		}
		next.ServeHTTP(w, r)
	})
}
