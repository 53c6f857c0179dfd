package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
)

// UserRepo provides data access for the users table.
type UserRepo struct {
	db *database.DB
}

func NewUserRepo(db *database.DB) *UserRepo { return &UserRepo{db: db} }

// List returns every user in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	var out []entity.User
	err := r.db.View(ctx, func(t *database.Tables) error {
		out = make([]entity.User, 0, len(t.Users))
		for i := range t.Users {
			out = append(out, t.Users[i].Clone())
		}
		return nil
	})
	return out, err
}

// GetByID fetches a user or database.ErrNoRows.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := r.db.View(ctx, func(t *database.Tables) error {
		i := t.FindUser(id)
		if i < 0 {
			return database.ErrNoRows
		}
		u = t.Users[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the first user whose email equals email exactly.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.db.View(ctx, func(t *database.Tables) error {
		for i := range t.Users {
			if t.Users[i].Email == email {
				u = t.Users[i].Clone()
				return nil
			}
		}
		return database.ErrNoRows
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create appends u.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	return r.db.Update(ctx, func(t *database.Tables) error {
		t.Users = append(t.Users, u.Clone())
		return nil
	})
}

// Update loads the user, lets fn modify it and stores the result when fn
// returns nil.
func (r *UserRepo) Update(ctx context.Context, id string, fn func(u *entity.User) error) (*entity.User, error) {
	var out entity.User
	err := r.db.Update(ctx, func(t *database.Tables) error {
		i := t.FindUser(id)
		if i < 0 {
			return database.ErrNoRows
		}
		if err := fn(&t.Users[i]); err != nil {
			return err
		}
		out = t.Users[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
