package user

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-jobboard/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrVersionConflict = fmt.Errorf("user version %w", apperr.ErrConflict)
	ErrNotJobSeeker    = fmt.Errorf("user is not a job seeker: %w", apperr.ErrInvalidInput)
)

// UserPatch carries the fields to overwrite; nil means unchanged. Version,
// when non-zero, must equal the stored version.
type UserPatch struct {
	Email   *string
	Role    *entity.Role
	Profile entity.Profile
	Version int64
}

// UserService reads and writes accounts. It performs no caller-based
// filtering.
type UserService struct {
	repo   *userrepo.UserRepo
	ids    *utilities.IDGenerator
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewUserService(db *database.DB, ids *utilities.IDGenerator, logger *zap.SugaredLogger) *UserService {
	return &UserService{
		repo:   userrepo.NewUserRepo(db),
		ids:    ids,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func notFound(err error) error {
	if errors.Is(err, database.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetByEmail returns the first user whose email matches exactly.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// Create stores a new user. Email uniqueness is not checked.
func (s *UserService) Create(ctx context.Context, in *entity.User) (*entity.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	u := in.Clone()
	u.ID = s.ids.NewID()
	u.Version = 1
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := s.repo.Create(ctx, &u); err != nil {
		return nil, err
	}
	s.logger.Infow("user created", "id", u.ID, "role", u.Role)
	return &u, nil
}

// Update merges p into the stored user. The merged role and profile must
// still agree.
func (s *UserService) Update(ctx context.Context, id string, p UserPatch) (*entity.User, error) {
	u, err := s.repo.Update(ctx, id, func(u *entity.User) error {
		if p.Version != 0 && p.Version != u.Version {
			return ErrVersionConflict
		}
		if p.Email != nil {
			u.Email = *p.Email
		}
		if p.Role != nil {
			u.Role = *p.Role
		}
		if p.Profile != nil {
			u.Profile = p.Profile
		}
		if err := u.Validate(); err != nil {
			return err
		}
		*u = u.Clone()
		u.Version++
		u.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// ResumePath is where a simulated resume upload for userID is served from.
func ResumePath(userID, filename string) string {
	return "/uploads/resumes/" + userID + "/" + path.Base(strings.TrimSpace(filename))
}

// SetResume records a simulated resume upload on a job seeker profile.
func (s *UserService) SetResume(ctx context.Context, id, filename string) (*entity.User, error) {
	u, err := s.repo.Update(ctx, id, func(u *entity.User) error {
		p, ok := u.Profile.(*entity.JobSeekerProfile)
		if !ok {
			return ErrNotJobSeeker
		}
		p.ResumeURL = ResumePath(u.ID, filename)
		u.Version++
		u.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}
