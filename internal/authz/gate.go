// Package authz decides whether the current user may reach a route or touch
// a record.
package authz

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

type Outcome int

const (
	Allowed Outcome = iota
	Unauthenticated
	Unauthorized
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

var (
	ErrUnauthenticated = fmt.Errorf("authentication required: %w", apperr.ErrUnauthenticated)
	ErrForbidden       = fmt.Errorf("insufficient permissions: %w", apperr.ErrForbidden)
)

// Err is nil for Allowed.
func (o Outcome) Err() error {
	switch o {
	case Unauthenticated:
		return ErrUnauthenticated
	case Unauthorized:
		return ErrForbidden
	}
	return nil
}

// Gate admits users whose role is in its allowlist. An empty allowlist
// admits any authenticated user.
type Gate struct {
	roles []entity.Role
}

func Require(roles ...entity.Role) Gate {
	return Gate{roles: slices.Clone(roles)}
}

func (g Gate) Check(u *entity.User) Outcome {
	if u == nil {
		return Unauthenticated
	}
	if len(g.roles) > 0 && !slices.Contains(g.roles, u.Role) {
		return Unauthorized
	}
	return Allowed
}

// Middleware answers 401 or 403 unless the request's user passes the gate.
func (g Gate) Middleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := UserFrom(r.Context())
			if o := g.Check(u); o != Allowed {
				logger.Debugw("access denied", "path", r.URL.Path, "outcome", o)
				utilities.WriteError(w, logger, o.Err())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Wrap is Middleware for a single handler func.
func (g Gate) Wrap(logger *zap.SugaredLogger, h http.HandlerFunc) http.Handler {
	return g.Middleware(logger)(h)
}

type ctxKey struct{}

func WithUser(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the authenticated user, or nil.
func UserFrom(ctx context.Context) *entity.User {
	u, _ := ctx.Value(ctxKey{}).(*entity.User)
	return u
}
