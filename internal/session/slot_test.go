package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/session/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
)

func TestMemorySlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()

	u, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	seeker := &entity.User{
		ID:      "1",
		Email:   "john.doe@example.com",
		Role:    entity.RoleJobSeeker,
		Profile: &entity.JobSeekerProfile{FirstName: "John", LastName: "Doe", Skills: []string{"Go"}},
	}
	require.NoError(t, slot.Save(ctx, seeker))
	u, err = slot.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "John Doe", u.DisplayName())

	require.NoError(t, slot.Clear(ctx))
	u, _ = slot.Load(ctx)
	assert.Nil(t, u)
}

// cookieFrom replays the cookie set on rec into a fresh request.
func cookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestCookieSlotSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	ti := newIssuer(0, time.Now())
	revoked := repo.NewRevocationRepo(0)

	rec := httptest.NewRecorder()
	slot := NewCookieSlot(rec, httptest.NewRequest(http.MethodPost, "/", nil), ti, revoked)
	require.NoError(t, slot.Save(ctx, employer))
	require.NotEmpty(t, slot.Token())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SlotKey, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := cookieFrom(t, rec)
	u, err := NewCookieSlot(httptest.NewRecorder(), req, ti, revoked).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "2", u.ID)

	out := httptest.NewRecorder()
	require.NoError(t, NewCookieSlot(out, req, ti, revoked).Clear(ctx))
	assert.Equal(t, 1, revoked.Len())
	assert.Equal(t, -1, out.Result().Cookies()[0].MaxAge)

	u, err = NewCookieSlot(httptest.NewRecorder(), req, ti, revoked).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCookieSlotBearerHeader(t *testing.T) {
	ctx := context.Background()
	ti := newIssuer(0, time.Now())
	token, _, err := ti.Issue(employer)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	u, err := NewCookieSlot(httptest.NewRecorder(), req, ti, nil).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleEmployer, u.Role)
}

func TestCookieSlotGarbageIsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SlotKey, Value: "garbage"})
	u, err := NewCookieSlot(httptest.NewRecorder(), req, newIssuer(0, time.Now()), nil).Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, u)
}
