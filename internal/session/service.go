// Package session is the login shim: it identifies a user by email and keeps
// them in a Slot. Passwords are accepted but never checked.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
)

var (
	ErrInvalidLogin = fmt.Errorf("invalid email or password: %w", apperr.ErrUnauthenticated)
	ErrNoSession    = fmt.Errorf("no active session: %w", apperr.ErrUnauthenticated)
)

// UserStore is the part of the user service the shim needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
}

type Service struct {
	users  UserStore
	logger *zap.SugaredLogger
}

func NewService(users UserStore, logger *zap.SugaredLogger) *Service {
	return &Service{users: users, logger: logger}
}

// Login stores the user registered under email in slot. The password is
// ignored.
func (s *Service) Login(ctx context.Context, slot Slot, email, password string) (*entity.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidLogin
		}
		return nil, err
	}
	if err := slot.Save(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Infow("login", "user", u.ID, "role", u.Role, "name", u.DisplayName())
	return u, nil
}

func (s *Service) Logout(ctx context.Context, slot Slot) error {
	return slot.Clear(ctx)
}

// RegisterRequest is the sign-up form. Only job seekers and employers may
// register themselves.
type RegisterRequest struct {
	Email           string      `json:"email" validate:"required,email"`
	Password        string      `json:"password" validate:"required,min=6"`
	ConfirmPassword string      `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	Role            entity.Role `json:"role" validate:"required,oneof=job_seeker employer"`

	FirstName string `json:"firstName" validate:"required_if=Role job_seeker"`
	LastName  string `json:"lastName" validate:"required_if=Role job_seeker"`

	CompanyName   string `json:"companyName" validate:"required_if=Role employer"`
	ContactPerson string `json:"contactPerson"`
	Website       string `json:"website" validate:"omitempty,url"`
	Description   string `json:"description"`
	Industry      string `json:"industry"`

	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// Profile builds the role's starting profile from the form.
func (req *RegisterRequest) Profile() (entity.Profile, error) {
	switch req.Role {
	case entity.RoleJobSeeker:
		return &entity.JobSeekerProfile{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Phone:      req.Phone,
			Location:   req.Location,
			Bio:        req.Bio,
			Skills:     []string{},
			Experience: "",
			Education:  "",
		}, nil
	case entity.RoleEmployer:
		return &entity.EmployerProfile{
			CompanyName:   req.CompanyName,
			ContactPerson: req.ContactPerson,
			Phone:         req.Phone,
			Website:       req.Website,
			Location:      req.Location,
			Description:   req.Description,
			Industry:      req.Industry,
			CompanySize:   "",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q cannot self-register", entity.ErrUnknownRole, req.Role)
	}
}

// Register creates the account and stores it in slot.
func (s *Service) Register(ctx context.Context, slot Slot, req RegisterRequest) (*entity.User, error) {
	profile, err := req.Profile()
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, &entity.User{
		Email:   strings.TrimSpace(req.Email),
		Role:    req.Role,
		Profile: profile,
	})
	if err != nil {
		return nil, err
	}
	if err := slot.Save(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Infow("registered", "user", u.ID, "role", u.Role)
	return u, nil
}

// Current returns the slot's user refreshed from the store. A user that no
// longer exists ends the session.
func (s *Service) Current(ctx context.Context, slot Slot) (*entity.User, error) {
	held, err := slot.Load(ctx)
	if err != nil {
		return nil, err
	}
	if held == nil {
		return nil, ErrNoSession
	}
	u, err := s.users.GetByID(ctx, held.ID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return u, nil
}
