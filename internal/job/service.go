package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/events"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/job/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

// sentinel errors for common failure modes
var (
	ErrJobNotFound     = fmt.Errorf("job %w", apperr.ErrNotFound)
	ErrVersionConflict = fmt.Errorf("job version %w", apperr.ErrConflict)
	ErrInvalidStatus   = fmt.Errorf("unknown job status: %w", apperr.ErrInvalidInput)
)

// Service encapsulates business logic for jobs and depends on a repo.
type Service struct {
	repo   *repo.Repo
	ids    *utilities.IDGenerator
	events events.Publisher
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewService constructs a Service with the provided repository.
func NewService(r *repo.Repo, ids *utilities.IDGenerator, pub events.Publisher, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:   r,
		ids:    ids,
		events: pub,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func notFound(err error) error {
	if errors.Is(err, database.ErrNoRows) {
		return ErrJobNotFound
	}
	return err
}

// List returns the active jobs matching f. Non-active jobs never appear,
// whatever the filter.
func (s *Service) List(ctx context.Context, f entity.Filter) ([]entity.Job, error) {
	return s.repo.List(ctx, func(j *entity.Job) bool {
		return j.Status == entity.StatusActive && f.Matches(j)
	})
}

// ListByEmployer returns every job owned by employerID, whatever its status.
func (s *Service) ListByEmployer(ctx context.Context, employerID string) ([]entity.Job, error) {
	return s.repo.List(ctx, func(j *entity.Job) bool {
		return j.EmployerID == employerID
	})
}

// ListAll returns every job.
func (s *Service) ListAll(ctx context.Context) ([]entity.Job, error) {
	return s.repo.List(ctx, nil)
}

// GetByID returns a job by id regardless of status.
func (s *Service) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return j, nil
}

// Create stores a new job. Status defaults to draft and applicationsCount
// always starts at zero.
func (s *Service) Create(ctx context.Context, in *entity.Job) (*entity.Job, error) {
	j := in.Clone()
	if j.Status == "" {
		j.Status = entity.StatusDraft
	}
	if !j.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, j.Status)
	}
	now := s.now()
	j.ID = s.ids.NewID()
	j.ApplicationsCount = 0
	j.Version = 1
	j.CreatedAt = now
	j.UpdatedAt = now
	if j.PostedDate.IsZero() {
		j.PostedDate = now
	}
	if err := s.repo.Create(ctx, &j); err != nil {
		return nil, err
	}
	s.logger.Infow("job created", "id", j.ID, "employer", j.EmployerID, "status", j.Status)
	return &j, nil
}

// Update merges p into the stored job. Any known status may be written;
// Transition is the table-checked path.
func (s *Service) Update(ctx context.Context, id string, p entity.Patch) (*entity.Job, error) {
	var from entity.Status
	j, err := s.repo.Update(ctx, id, func(j *entity.Job) error {
		if p.Version != 0 && p.Version != j.Version {
			return ErrVersionConflict
		}
		from = j.Status
		if p.Status != nil && *p.Status != j.Status {
			if !p.Status.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
			}
			j.Status = *p.Status
		}
		p.Apply(j)
		j.Version++
		j.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	s.statusChanged(ctx, j, from)
	return j, nil
}

// Transition applies an employer action (publish, close, reactivate).
func (s *Service) Transition(ctx context.Context, id string, a entity.Action) (*entity.Job, error) {
	var from entity.Status
	j, err := s.repo.Update(ctx, id, func(j *entity.Job) error {
		next, err := entity.Next(j.Status, a)
		if err != nil {
			return err
		}
		from = j.Status
		j.Status = next
		j.Version++
		j.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	s.statusChanged(ctx, j, from)
	return j, nil
}

func (s *Service) statusChanged(ctx context.Context, j *entity.Job, from entity.Status) {
	if from == j.Status {
		return
	}
	s.logger.Infow("job status changed", "id", j.ID, "from", from, "to", j.Status)
	events.Emit(ctx, s.events, s.logger, events.SubjectJobStatusChanged, events.JobStatusChanged{
		JobID:      j.ID,
		EmployerID: j.EmployerID,
		From:       string(from),
		To:         string(j.Status),
		ChangedAt:  j.UpdatedAt,
	})
}
