package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
)

// Repo is the repository for the jobs table.
type Repo struct {
	db *database.DB
}

// NewRepo constructs a new Repo over the shared store.
func NewRepo(db *database.DB) *Repo {
	return &Repo{db: db}
}

// List returns copies of the jobs for which keep reports true; a nil keep
// returns every job.
func (r *Repo) List(ctx context.Context, keep func(j *entity.Job) bool) ([]entity.Job, error) {
	out := []entity.Job{}
	err := r.db.View(ctx, func(t *database.Tables) error {
		for i := range t.Jobs {
			if keep == nil || keep(&t.Jobs[i]) {
				out = append(out, t.Jobs[i].Clone())
			}
		}
		return nil
	})
	return out, err
}

// GetByID fetches a job or database.ErrNoRows.
func (r *Repo) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	var j entity.Job
	err := r.db.View(ctx, func(t *database.Tables) error {
		i := t.FindJob(id)
		if i < 0 {
			return database.ErrNoRows
		}
		j = t.Jobs[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) Create(ctx context.Context, j *entity.Job) error {
	return r.db.Update(ctx, func(t *database.Tables) error {
		t.Jobs = append(t.Jobs, j.Clone())
		return nil
	})
}

// Update loads the job, lets fn modify it and stores the result when fn
// returns nil.
func (r *Repo) Update(ctx context.Context, id string, fn func(j *entity.Job) error) (*entity.Job, error) {
	var out entity.Job
	err := r.db.Update(ctx, func(t *database.Tables) error {
		i := t.FindJob(id)
		if i < 0 {
			return database.ErrNoRows
		}
		if err := fn(&t.Jobs[i]); err != nil {
			return err
		}
		out = t.Jobs[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
