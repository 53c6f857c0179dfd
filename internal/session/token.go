package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
)

var ErrInvalidToken = fmt.Errorf("invalid session token: %w", apperr.ErrUnauthenticated)

type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	// RevocationHorizon is how long a logged-out token without an expiry
	// stays revoked.
	RevocationHorizon time.Duration
}

// TokenConfigFromEnv reads SESSION_SECRET, SESSION_ISSUER, SESSION_TTL and
// SESSION_REVOCATION_HORIZON.
// Without a secret a random one is generated, so tokens do not survive a
// restart.
func TokenConfigFromEnv() (TokenConfig, error) {
	cfg := TokenConfig{Issuer: os.Getenv("SESSION_ISSUER")}
	if cfg.Issuer == "" {
		cfg.Issuer = "jobboard-api"
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse SESSION_TTL: %w", err)
		}
		cfg.TTL = d
	}
	if v := os.Getenv("SESSION_REVOCATION_HORIZON"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("parse SESSION_REVOCATION_HORIZON: %w", err)
		}
		cfg.RevocationHorizon = d
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Secret = []byte(v)
		return cfg, nil
	}
	cfg.Secret = make([]byte, 32)
	if _, err := rand.Read(cfg.Secret); err != nil {
		return cfg, fmt.Errorf("generate session secret: %w", err)
	}
	return cfg, nil
}

// Claims carry the minimal user view.
type Claims struct {
	Email string      `json:"email"`
	Role  entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 session tokens.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// Issue signs a token for u. Tokens never expire when TTL is zero.
func (ti *TokenIssuer) Issue(u *entity.User) (string, *Claims, error) {
	now := ti.now()
	v := u.MinimalView()
	claims := &Claims{
		Email: v.Email,
		Role:  v.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Issuer:   ti.cfg.Issuer,
			Subject:  v.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ti.cfg.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ti.cfg.TTL))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.cfg.Secret)
	if err != nil {
		return "", nil, apperr.Internal("sign session token", err)
	}
	return signed, claims, nil
}

// Parse verifies signature, issuer and expiry.
func (ti *TokenIssuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return ti.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ti.cfg.Issuer),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// User rebuilds the minimal user carried by the claims; it has no profile.
func (c *Claims) User() *entity.User {
	return &entity.User{ID: c.Subject, Email: c.Email, Role: c.Role}
}

func (c *Claims) expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
