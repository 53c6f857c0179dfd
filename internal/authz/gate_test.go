package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	appentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/application/entity"
	jobentity "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
)

var (
	seeker   = &entity.User{ID: "1", Role: entity.RoleJobSeeker}
	employer = &entity.User{ID: "2", Role: entity.RoleEmployer}
	admin    = &entity.User{ID: "3", Role: entity.RoleAdmin}
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		gate Gate
		user *entity.User
		want Outcome
	}{
		{"anonymous", Require(), nil, Unauthenticated},
		{"anonymous with roles", Require(entity.RoleAdmin), nil, Unauthenticated},
		{"any role", Require(), seeker, Allowed},
		{"listed", Require(entity.RoleEmployer, entity.RoleAdmin), admin, Allowed},
		{"not listed", Require(entity.RoleEmployer, entity.RoleAdmin), seeker, Unauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gate.Check(tt.user))
		})
	}
}

func TestOutcomeErr(t *testing.T) {
	assert.NoError(t, Allowed.Err())
	assert.ErrorIs(t, Unauthenticated.Err(), apperr.ErrUnauthenticated)
	assert.ErrorIs(t, Unauthorized.Err(), apperr.ErrForbidden)
	assert.Equal(t, "unauthorized", Unauthorized.String())
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Same(t, admin, UserFrom(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	})
	h := Require(entity.RoleAdmin).Wrap(zap.NewNop().Sugar(), ok)

	serve := func(u *entity.User) int {
		req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
		if u != nil {
			req = req.WithContext(WithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(employer))
	assert.Equal(t, http.StatusTeapot, serve(admin))
}

func TestApplicationScope(t *testing.T) {
	assert.Equal(t, appentity.Filter{JobSeekerID: "1"}, ApplicationScope(seeker))
	assert.Equal(t, appentity.Filter{EmployerID: "2"}, ApplicationScope(employer))
	assert.Equal(t, appentity.Filter{}, ApplicationScope(admin))
	assert.Panics(t, func() { ApplicationScope(&entity.User{Role: "guest"}) })
}

func TestJobPolicies(t *testing.T) {
	mine := &jobentity.Job{EmployerID: "2", Status: jobentity.StatusDraft}
	theirs := &jobentity.Job{EmployerID: "9", Status: jobentity.StatusDraft}
	open := &jobentity.Job{EmployerID: "9", Status: jobentity.StatusActive}

	assert.True(t, CanManageJob(employer, mine))
	assert.False(t, CanManageJob(employer, theirs))
	assert.True(t, CanManageJob(admin, theirs))
	assert.False(t, CanManageJob(seeker, mine))
	assert.False(t, CanManageJob(nil, mine))

	assert.True(t, CanViewJob(nil, open))
	assert.False(t, CanViewJob(seeker, mine))
	assert.True(t, CanViewJob(employer, mine))
	assert.False(t, CanViewJob(employer, theirs))
}

func TestCanManageUser(t *testing.T) {
	assert.True(t, CanManageUser(seeker, "1"))
	assert.False(t, CanManageUser(seeker, "2"))
	assert.True(t, CanManageUser(admin, "2"))
	assert.False(t, CanManageUser(nil, "1"))
}
