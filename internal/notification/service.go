package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/notification/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/notification/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

var (
	ErrNotificationNotFound = fmt.Errorf("notification %w", apperr.ErrNotFound)
	ErrInvalidType          = fmt.Errorf("unknown notification type: %w", apperr.ErrInvalidInput)
)

type Service struct {
	repo   *repo.NotificationRepo
	ids    *utilities.IDGenerator
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewService(db *database.DB, ids *utilities.IDGenerator, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:   repo.NewNotificationRepo(db),
		ids:    ids,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, database.ErrNoRows) {
		return nil, ErrNotificationNotFound
	}
	return n, err
}

// MarkRead flags the notification as read. Unknown ids are ignored.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

// Notify stores a new unread notification. Type defaults to system.
func (s *Service) Notify(ctx context.Context, in *entity.Notification) (*entity.Notification, error) {
	n := *in
	switch n.Type {
	case "":
		n.Type = entity.TypeSystem
	case entity.TypeApplicationStatus, entity.TypeNewJob, entity.TypeSystem:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	n.ID = s.ids.NewID()
	n.Read = false
	n.CreatedAt = s.now()
	if err := s.repo.Create(ctx, &n); err != nil {
		return nil, err
	}
	s.logger.Debugw("notification created", "id", n.ID, "user", n.UserID, "type", n.Type)
	return &n, nil
}
