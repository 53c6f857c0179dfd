package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/application/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/application/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/events"
	jobentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	notificationentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/notification/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

var (
	ErrApplicationNotFound = fmt.Errorf("application %w", apperr.ErrNotFound)
	ErrJobNotFound         = fmt.Errorf("job %w", apperr.ErrNotFound)
	ErrVersionConflict     = fmt.Errorf("application version %w", apperr.ErrConflict)
	ErrInvalidStatus       = fmt.Errorf("unknown application status: %w", apperr.ErrInvalidInput)
	ErrAlreadyApplied      = fmt.Errorf("already applied to this job: %w", apperr.ErrConflict)
)

// Notifier delivers in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n *notificationentity.Notification) (*notificationentity.Notification, error)
}

// JobReader resolves the job an application belongs to.
type JobReader interface {
	GetByID(ctx context.Context, id string) (*jobentity.Job, error)
}

type Service struct {
	repo     *repo.Repo
	jobs     JobReader
	notifier Notifier
	ids      *utilities.IDGenerator
	events   events.Publisher
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewService(r *repo.Repo, jobs JobReader, notifier Notifier, ids *utilities.IDGenerator, pub events.Publisher, logger *zap.SugaredLogger) *Service {
	return &Service{
		repo:     r,
		jobs:     jobs,
		notifier: notifier,
		ids:      ids,
		events:   pub,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns the applications matching f. Callers scope f to what the
// requester may see.
func (s *Service) List(ctx context.Context, f entity.Filter) ([]entity.Application, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id string) (*entity.Application, error) {
	a, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, database.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	return a, err
}

// Create stores a new application and bumps the job's applicationsCount in
// the same write. Duplicates are not rejected here.
func (s *Service) Create(ctx context.Context, in *entity.Application) (*entity.Application, error) {
	return s.create(ctx, in, false)
}

// Apply is Create for a job seeker applying once: an existing application on
// the same job fails with ErrAlreadyApplied and nothing is written.
func (s *Service) Apply(ctx context.Context, in *entity.Application) (*entity.Application, error) {
	return s.create(ctx, in, true)
}

func (s *Service) create(ctx context.Context, in *entity.Application, unique bool) (*entity.Application, error) {
	a := *in
	if a.Status == "" {
		a.Status = entity.StatusPending
	}
	if !a.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, a.Status)
	}
	now := s.now()
	a.ID = s.ids.NewID()
	a.Version = 1
	a.AppliedAt = now
	a.UpdatedAt = now
	if err := s.repo.Create(ctx, &a, unique); err != nil {
		switch {
		case errors.Is(err, database.ErrNoRows):
			return nil, ErrJobNotFound
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}
	s.logger.Infow("application created", "id", a.ID, "job", a.JobID, "job_seeker", a.JobSeekerID)
	events.Emit(ctx, s.events, s.logger, events.SubjectApplicationCreated, events.ApplicationCreated{
		ApplicationID: a.ID,
		JobID:         a.JobID,
		JobSeekerID:   a.JobSeekerID,
		AppliedAt:     a.AppliedAt,
	})
	return &a, nil
}

// Update merges p into the stored application. Any known status may be
// written; Transition is the table-checked path.
func (s *Service) Update(ctx context.Context, id string, p entity.Patch) (*entity.Application, error) {
	var from entity.Status
	a, err := s.repo.Update(ctx, id, func(a *entity.Application) error {
		if p.Version != 0 && p.Version != a.Version {
			return ErrVersionConflict
		}
		from = a.Status
		if p.Status != nil && *p.Status != a.Status {
			if !p.Status.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
			}
			a.Status = *p.Status
		}
		p.Apply(a)
		a.Version++
		a.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	s.statusChanged(ctx, a, from)
	return a, nil
}

// Transition applies an employer decision (review, shortlist, reject, hire).
func (s *Service) Transition(ctx context.Context, id string, act entity.Action) (*entity.Application, error) {
	var from entity.Status
	a, err := s.repo.Update(ctx, id, func(a *entity.Application) error {
		next, err := entity.Next(a.Status, act)
		if err != nil {
			return err
		}
		from = a.Status
		a.Status = next
		a.Version++
		a.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	s.statusChanged(ctx, a, from)
	return a, nil
}

// statusChanged tells the job seeker about a committed status change.
// Failures are logged only.
func (s *Service) statusChanged(ctx context.Context, a *entity.Application, from entity.Status) {
	if from == a.Status {
		return
	}
	s.logger.Infow("application status changed", "id", a.ID, "from", from, "to", a.Status)
	events.Emit(ctx, s.events, s.logger, events.SubjectApplicationStatusChanged, events.ApplicationStatusChanged{
		ApplicationID: a.ID,
		JobID:         a.JobID,
		JobSeekerID:   a.JobSeekerID,
		From:          string(from),
		To:            string(a.Status),
		ChangedAt:     a.UpdatedAt,
	})
	if s.notifier == nil {
		return
	}
	title := "your application"
	if s.jobs != nil {
		if j, err := s.jobs.GetByID(ctx, a.JobID); err == nil {
			title = j.Title
		}
	}
	_, err := s.notifier.Notify(ctx, &notificationentity.Notification{
		UserID:  a.JobSeekerID,
		Type:    notificationentity.TypeApplicationStatus,
		Title:   "Application Update",
		Message: fmt.Sprintf("Your application for %s has been %s.", title, a.Status),
	})
	if err != nil {
		s.logger.Warnw("notify job seeker failed", "application", a.ID, "err", err)
	}
}
