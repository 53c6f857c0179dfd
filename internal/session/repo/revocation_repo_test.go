package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRevokeAndCheck(t *testing.T) {
	r := NewRevocationRepo(0)
	assert.False(t, r.IsRevoked("a"))
	r.Revoke("a", time.Now().Add(time.Hour))
	assert.True(t, r.IsRevoked("a"))
	assert.False(t, r.IsRevoked("b"))
}

func TestPurgeDropsExpiredOnly(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r := NewRevocationRepo(time.Hour)
	r.now = func() time.Time { return now }

	r.Revoke("expired", now.Add(-time.Minute))
	r.Revoke("live", now.Add(time.Minute))
	r.Revoke("no-expiry", time.Time{})

	assert.Equal(t, 1, r.Purge())
	assert.False(t, r.IsRevoked("expired"))
	assert.True(t, r.IsRevoked("live"))
	assert.True(t, r.IsRevoked("no-expiry"))
	assert.Equal(t, 2, r.Len())
}

func TestNoExpiryEntriesAgeOut(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r := NewRevocationRepo(time.Hour)
	r.now = func() time.Time { return now }
	for _, jti := range []string{"a", "b", "c"} {
		r.Revoke(jti, time.Time{})
	}

	now = now.Add(59 * time.Minute)
	assert.Zero(t, r.Purge())
	assert.Equal(t, 3, r.Len())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 3, r.Purge())
	assert.Zero(t, r.Len())
	assert.False(t, r.IsRevoked("a"))
}

func TestDefaultHorizon(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	r := NewRevocationRepo(-1)
	r.now = func() time.Time { return now }
	r.Revoke("a", time.Time{})

	now = now.Add(DefaultHorizon - time.Second)
	assert.Zero(t, r.Purge())
	now = now.Add(2 * time.Second)
	assert.Equal(t, 1, r.Purge())
}

func TestRunPurgesUntilCancelled(t *testing.T) {
	r := NewRevocationRepo(0)
	r.Revoke("old", time.Now().Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
