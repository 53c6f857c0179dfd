package repo

import (
	"context"
	"errors"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/application/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
)

// Repo is the repository for the applications table.
type Repo struct {
	db *database.DB
}

func NewRepo(db *database.DB) *Repo {
	return &Repo{db: db}
}

// List returns the applications matching every non-empty filter field. The
// employer join reads the jobs table in the same snapshot.
func (r *Repo) List(ctx context.Context, f entity.Filter) ([]entity.Application, error) {
	out := []entity.Application{}
	err := r.db.View(ctx, func(t *database.Tables) error {
		var owned map[string]struct{}
		if f.EmployerID != "" {
			owned = make(map[string]struct{})
			for i := range t.Jobs {
				if t.Jobs[i].EmployerID == f.EmployerID {
					owned[t.Jobs[i].ID] = struct{}{}
				}
			}
		}
		for _, a := range t.Applications {
			if f.JobID != "" && a.JobID != f.JobID {
				continue
			}
			if f.JobSeekerID != "" && a.JobSeekerID != f.JobSeekerID {
				continue
			}
			if owned != nil {
				if _, ok := owned[a.JobID]; !ok {
					continue
				}
			}
			out = append(out, a)
		}
		return nil
	})
	return out, err
}

// GetByID fetches an application or database.ErrNoRows.
func (r *Repo) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	var a entity.Application
	err := r.db.View(ctx, func(t *database.Tables) error {
		i := t.FindApplication(id)
		if i < 0 {
			return database.ErrNoRows
		}
		a = t.Applications[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ErrDuplicate reports an existing application by the same job seeker on the
// same job.
var ErrDuplicate = errors.New("duplicate application")

// Create appends a and bumps the referenced job's applicationsCount in the
// same transaction. A missing job yields database.ErrNoRows and no write.
// With unique set, an existing application by the same job seeker on the
// same job yields ErrDuplicate, checked in that transaction too.
func (r *Repo) Create(ctx context.Context, a *entity.Application, unique bool) error {
	return r.db.Update(ctx, func(t *database.Tables) error {
		j := t.FindJob(a.JobID)
		if j < 0 {
			return database.ErrNoRows
		}
		if unique {
			for i := range t.Applications {
				if t.Applications[i].JobID == a.JobID && t.Applications[i].JobSeekerID == a.JobSeekerID {
					return ErrDuplicate
				}
			}
		}
		t.Applications = append(t.Applications, *a)
		t.Jobs[j].ApplicationsCount++
		return nil
	})
}

// Update loads the application, lets fn modify it and stores the result
// when fn returns nil.
func (r *Repo) Update(ctx context.Context, id string, fn func(a *entity.Application) error) (*entity.Application, error) {
	var out entity.Application
	err := r.db.Update(ctx, func(t *database.Tables) error {
		i := t.FindApplication(id)
		if i < 0 {
			return database.ErrNoRows
		}
		if err := fn(&t.Applications[i]); err != nil {
			return err
		}
		out = t.Applications[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
