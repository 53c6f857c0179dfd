package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/session/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
)

// SlotKey names the place the active user is kept.
const SlotKey = "currentUser"

// Slot holds at most one session user. Load returns nil, nil when empty.
type Slot interface {
	Load(ctx context.Context) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) error
	Clear(ctx context.Context) error
}

// MemorySlot is a key/value slot holding the JSON-serialised user under
// SlotKey.
type MemorySlot struct {
	mu sync.Mutex
	kv map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{kv: make(map[string][]byte)}
}

func (s *MemorySlot) Load(context.Context) (*entity.User, error) {
	s.mu.Lock()
	raw, ok := s.kv[SlotKey]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var u entity.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, apperr.Internal("decode session slot", err)
	}
	return &u, nil
}

func (s *MemorySlot) Save(_ context.Context, u *entity.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return apperr.Internal("encode session slot", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[SlotKey] = raw
	return nil
}

func (s *MemorySlot) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, SlotKey)
	return nil
}

// CookieSlot keeps the session in a signed token carried by the client, in
// the currentUser cookie or an Authorization bearer header. It is bound to
// one request.
type CookieSlot struct {
	w       http.ResponseWriter
	r       *http.Request
	issuer  *TokenIssuer
	revoked *repo.RevocationRepo
	secure  bool
	token   string
}

func NewCookieSlot(w http.ResponseWriter, r *http.Request, issuer *TokenIssuer, revoked *repo.RevocationRepo) *CookieSlot {
	return &CookieSlot{w: w, r: r, issuer: issuer, revoked: revoked, secure: r.TLS != nil}
}

func (s *CookieSlot) raw() string {
	if auth := s.r.Header.Get("Authorization"); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	if c, err := s.r.Cookie(SlotKey); err == nil {
		return c.Value
	}
	return ""
}

func (s *CookieSlot) claims() (*Claims, error) {
	raw := s.raw()
	if raw == "" {
		return nil, nil
	}
	c, err := s.issuer.Parse(raw)
	if err != nil {
		return nil, err
	}
	if s.revoked != nil && s.revoked.IsRevoked(c.ID) {
		return nil, nil
	}
	return c, nil
}

// Load returns the minimal user carried by the token, without a profile.
// An invalid or revoked token reads as an empty slot.
func (s *CookieSlot) Load(context.Context) (*entity.User, error) {
	c, err := s.claims()
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, nil
		}
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return c.User(), nil
}

func (s *CookieSlot) Save(_ context.Context, u *entity.User) error {
	token, claims, err := s.issuer.Issue(u)
	if err != nil {
		return err
	}
	s.token = token
	cookie := &http.Cookie{
		Name:     SlotKey,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if exp := claims.expiry(); !exp.IsZero() {
		cookie.Expires = exp
	}
	http.SetCookie(s.w, cookie)
	return nil
}

// Clear revokes the presented token and expires the cookie.
func (s *CookieSlot) Clear(context.Context) error {
	if c, err := s.claims(); err == nil && c != nil && s.revoked != nil {
		s.revoked.Revoke(c.ID, c.expiry())
	}
	s.token = ""
	http.SetCookie(s.w, &http.Cookie{
		Name:     SlotKey,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return nil
}

// Token is the token minted by the last Save.
func (s *CookieSlot) Token() string {
	return s.token
}
