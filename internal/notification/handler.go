package notification

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/authz"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List returns the caller's notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u := authz.UserFrom(r.Context())
	ns, err := h.svc.ListForUser(r.Context(), u.ID)
	if err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, ns)
}

// MarkRead flags one of the caller's notifications as read. Unknown ids
// succeed without effect; other users' notifications are not found.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	u := authz.UserFrom(r.Context())
	n, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		utilities.WriteError(w, h.logger, err)
		return
	case n.UserID != u.ID:
		utilities.WriteError(w, h.logger, ErrNotificationNotFound)
		return
	}
	if err := h.svc.MarkRead(r.Context(), n.ID); err != nil {
		utilities.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
