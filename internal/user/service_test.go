package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

var fixedNow = time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *UserService {
	t.Helper()
	svc := NewUserService(database.Open(database.Config{Seed: true}), utilities.NewIDGenerator(1), zap.NewNop().Sugar())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestGetByEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.GetByEmail(ctx, "hr@techcorp.com")
	require.NoError(t, err)
	assert.Equal(t, "2", u.ID)
	assert.Equal(t, "TechCorp Solutions", u.DisplayName())

	_, err = svc.GetByEmail(ctx, "HR@techcorp.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetByID(ctx, "404")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateStampsUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, &entity.User{
		Email:   "jane@example.com",
		Role:    entity.RoleJobSeeker,
		Profile: &entity.JobSeekerProfile{FirstName: "Jane", LastName: "Roe", Skills: []string{}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, int64(1), u.Version)
	assert.Equal(t, fixedNow, u.CreatedAt)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCreateRejectsMismatchedProfile(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), &entity.User{
		Email:   "x@example.com",
		Role:    entity.RoleEmployer,
		Profile: &entity.JobSeekerProfile{FirstName: "X"},
	})
	assert.ErrorIs(t, err, entity.ErrProfileMismatch)

	all, _ := svc.List(context.Background())
	assert.Len(t, all, 3)
}

func TestUpdateMerges(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	email := "john@example.org"

	u, err := svc.Update(ctx, "1", UserPatch{Email: &email, Version: 1})
	require.NoError(t, err)
	assert.Equal(t, email, u.Email)
	assert.Equal(t, "John Doe", u.DisplayName())
	assert.Equal(t, int64(2), u.Version)
	assert.Equal(t, fixedNow, u.UpdatedAt)

	_, err = svc.Update(ctx, "1", UserPatch{Email: &email, Version: 1})
	assert.ErrorIs(t, err, ErrVersionConflict)

	_, err = svc.Update(ctx, "404", UserPatch{Email: &email})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateRoleNeedsMatchingProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admin := entity.RoleAdmin

	_, err := svc.Update(ctx, "1", UserPatch{Role: &admin})
	assert.ErrorIs(t, err, entity.ErrProfileMismatch)
	u, _ := svc.GetByID(ctx, "1")
	assert.Equal(t, entity.RoleJobSeeker, u.Role)

	u, err = svc.Update(ctx, "1", UserPatch{Role: &admin, Profile: &entity.AdminProfile{FirstName: "John"}})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
}

func TestUpdateDoesNotShareProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := &entity.EmployerProfile{CompanyName: "Acme"}

	_, err := svc.Update(ctx, "2", UserPatch{Profile: p})
	require.NoError(t, err)
	p.CompanyName = "mutated"

	u, _ := svc.GetByID(ctx, "2")
	assert.Equal(t, "Acme", u.DisplayName())
}

func TestSetResume(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.SetResume(ctx, "1", "../../etc/cv.pdf")
	require.NoError(t, err)
	p := u.Profile.(*entity.JobSeekerProfile)
	assert.Equal(t, "/uploads/resumes/1/cv.pdf", p.ResumeURL)

	_, err = svc.SetResume(ctx, "2", "cv.pdf")
	assert.ErrorIs(t, err, ErrNotJobSeeker)

	_, err = svc.SetResume(ctx, "404", "cv.pdf")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
