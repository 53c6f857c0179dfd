package repo

import (
	"context"
	"sync"
	"time"
)

// DefaultHorizon bounds how long a token without an expiry stays revoked.
const DefaultHorizon = 7 * 24 * time.Hour

// RevocationRepo remembers the ids of logged-out session tokens until they
// expire. Tokens without an expiry are remembered for horizon after revocation.
type RevocationRepo struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	horizon time.Duration
	now     func() time.Time
}

// NewRevocationRepo uses DefaultHorizon when horizon is not positive.
func NewRevocationRepo(horizon time.Duration) *RevocationRepo {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &RevocationRepo{revoked: make(map[string]time.Time), horizon: horizon, now: time.Now}
}

// Run purges expired entries every interval until ctx is done.
func (r *RevocationRepo) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Purge()
		}
	}
}

// Purge drops entries whose token has expired.
func (r *RevocationRepo) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for jti, exp := range r.revoked {
		if exp.Before(now) {
			delete(r.revoked, jti)
			n++
		}
	}
	return n
}

// Revoke remembers jti until exp, or for the horizon when exp is zero.
func (r *RevocationRepo) Revoke(jti string, exp time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if exp.IsZero() {
		exp = r.now().Add(r.horizon)
	}
	r.revoked[jti] = exp
}

func (r *RevocationRepo) IsRevoked(jti string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.revoked[jti]
	return ok
}

func (r *RevocationRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}
