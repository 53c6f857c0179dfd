package entity

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
)

// Role tags a user and decides which profile variant it carries.
type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

var (
	ErrUnknownRole     = fmt.Errorf("unknown role: %w", apperr.ErrInvalidInput)
	ErrProfileMismatch = fmt.Errorf("profile does not match role: %w", apperr.ErrInvalidInput)
)

// User represents an account in the users table of the in-memory store.
// Profile is one of *JobSeekerProfile, *EmployerProfile or *AdminProfile and
// must agree with Role (see Validate).
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Profile   Profile   `json:"profile"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the role tag and that the profile variant belongs to it.
func (u *User) Validate() error {
	if !u.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, u.Role)
	}
	if u.Profile == nil {
		return fmt.Errorf("%w: missing profile for %s", ErrProfileMismatch, u.Role)
	}
	if u.Profile.Role() != u.Role {
		return fmt.Errorf("%w: %s profile on %s user", ErrProfileMismatch, u.Profile.Role(), u.Role)
	}
	return nil
}

// DisplayName is the human name shown for the user.
func (u *User) DisplayName() string {
	switch p := u.Profile.(type) {
	case *JobSeekerProfile:
		return joinName(p.FirstName, p.LastName)
	case *EmployerProfile:
		return p.CompanyName
	case *AdminProfile:
		return joinName(p.FirstName, p.LastName)
	case nil:
		return u.Email
	default:
		panic(fmt.Sprintf("entity: unhandled profile %T", p))
	}
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	if u.Profile != nil {
		u.Profile = u.Profile.clone()
	}
	return u
}

// userJSON is the wire shape; the profile is decoded after the role is known.
type userJSON struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Role      Role            `json:"role"`
	Profile   json.RawMessage `json:"profile"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User{
		ID:        raw.ID,
		Email:     raw.Email,
		Role:      raw.Role,
		Version:   raw.Version,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}
	if len(raw.Profile) == 0 || string(raw.Profile) == "null" {
		return nil
	}
	p, err := DecodeProfile(raw.Role, raw.Profile)
	if err != nil {
		return err
	}
	u.Profile = p
	return nil
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

// MinimalView is the projection carried in session tokens.
type MinimalView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) MinimalView() MinimalView {
	return MinimalView{ID: u.ID, Email: u.Email, Role: u.Role}
}

// HasPermission reports whether an admin profile grants perm. Other roles
// never carry permissions.
func (u *User) HasPermission(perm string) bool {
	switch p := u.Profile.(type) {
	case *AdminProfile:
		return slices.Contains(p.Permissions, perm)
	case *JobSeekerProfile, *EmployerProfile, nil:
		return false
	default:
		panic(fmt.Sprintf("entity: unhandled profile %T", p))
	}
}
