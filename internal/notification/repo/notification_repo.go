package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/notification/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
)

type NotificationRepo struct {
	db *database.DB
}

func NewNotificationRepo(db *database.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// ListByUser returns the notifications addressed to userID, oldest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	out := []entity.Notification{}
	err := r.db.View(ctx, func(t *database.Tables) error {
		for _, n := range t.Notifications {
			if n.UserID == userID {
				out = append(out, n)
			}
		}
		return nil
	})
	return out, err
}

func (r *NotificationRepo) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	var n entity.Notification
	err := r.db.View(ctx, func(t *database.Tables) error {
		i := t.FindNotification(id)
		if i < 0 {
			return database.ErrNoRows
		}
		n = t.Notifications[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	return r.db.Update(ctx, func(t *database.Tables) error {
		t.Notifications = append(t.Notifications, *n)
		return nil
	})
}

// MarkRead sets read on the notification; a missing id is not an error.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	return r.db.Update(ctx, func(t *database.Tables) error {
		if i := t.FindNotification(id); i >= 0 {
			t.Notifications[i].Read = true
		}
		return nil
	})
}
