package router

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/analytics"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/application"
	apprepo "github.com/ovaphlow/pitchfork/service-jobboard/internal/application/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/authz"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/events"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/job"
	jobrepo "github.com/ovaphlow/pitchfork/service-jobboard/internal/job/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/notification"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/session"
	sessionrepo "github.com/ovaphlow/pitchfork/service-jobboard/internal/session/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

// Prefix is the mount point of every route.
const Prefix = "/jobboard-api"

// Deps are the process-wide resources the routes are built on.
type Deps struct {
	DB      *database.DB
	IDs     *utilities.IDGenerator
	Events  events.Publisher
	Tokens  *session.TokenIssuer
	Revoked *sessionrepo.RevocationRepo
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

type requestIDKey struct{}

// RequestIDFrom returns the id assigned by RequestIDMiddleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware keeps an incoming X-Request-ID or assigns a new one.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", RequestIDFrom(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			// HSTS only over TLS
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes wires services and handlers onto an http.ServeMux.
func RegisterRoutes(logger *zap.SugaredLogger, deps Deps) http.Handler {
	mux := http.NewServeMux()

	userSvc := user.NewUserService(deps.DB, deps.IDs, logger)
	jobSvc := job.NewService(jobrepo.NewRepo(deps.DB), deps.IDs, deps.Events, logger)
	notificationSvc := notification.NewService(deps.DB, deps.IDs, logger)
	applicationSvc := application.NewService(apprepo.NewRepo(deps.DB), jobSvc, notificationSvc, deps.IDs, deps.Events, logger)
	analyticsSvc := analytics.NewService(userSvc, jobSvc, applicationSvc)
	sessionSvc := session.NewService(userSvc, logger)

	sessionHandler := session.NewHandler(sessionSvc, deps.Tokens, deps.Revoked, logger)
	userHandler := user.NewHandler(userSvc, logger)
	jobHandler := job.NewHandler(jobSvc, logger)
	applicationHandler := application.NewHandler(applicationSvc, jobSvc, logger)
	notificationHandler := notification.NewHandler(notificationSvc, logger)
	analyticsHandler := analytics.NewHandler(analyticsSvc, logger)

	anyone := authz.Require()
	seeker := authz.Require(entity.RoleJobSeeker)
	employer := authz.Require(entity.RoleEmployer)
	manager := authz.Require(entity.RoleEmployer, entity.RoleAdmin)
	admin := authz.Require(entity.RoleAdmin)

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, h)
	}
	gated := func(pattern string, g authz.Gate, h http.HandlerFunc) {
		mux.Handle(pattern, g.Wrap(logger, h))
	}
	p := func(method, path string) string { return method + " " + Prefix + path }

	route(p("GET", "/health"), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	route(p("POST", "/auth/login"), sessionHandler.Login)
	route(p("POST", "/auth/register"), sessionHandler.Register)
	gated(p("POST", "/auth/logout"), anyone, sessionHandler.Logout)
	gated(p("GET", "/auth/me"), anyone, sessionHandler.Me)

	route(p("GET", "/jobs"), jobHandler.List)
	gated(p("GET", "/jobs/mine"), employer, jobHandler.Mine)
	route(p("GET", "/jobs/{id}"), jobHandler.Get)
	gated(p("POST", "/jobs"), employer, jobHandler.Create)
	gated(p("PATCH", "/jobs/{id}"), manager, jobHandler.Update)
	gated(p("POST", "/jobs/{id}/{action}"), manager, jobHandler.Transition)

	gated(p("GET", "/applications"), anyone, applicationHandler.List)
	gated(p("POST", "/applications"), seeker, applicationHandler.Create)
	gated(p("POST", "/applications/{id}/{action}"), manager, applicationHandler.Transition)

	gated(p("GET", "/users"), admin, userHandler.List)
	gated(p("GET", "/users/{id}"), anyone, userHandler.Get)
	gated(p("PATCH", "/users/{id}"), anyone, userHandler.Update)
	gated(p("POST", "/profile/resume"), seeker, userHandler.UploadResume)

	gated(p("GET", "/notifications"), anyone, notificationHandler.List)
	gated(p("POST", "/notifications/{id}/read"), anyone, notificationHandler.MarkRead)

	gated(p("GET", "/dashboard"), anyone, analyticsHandler.Dashboard)
	gated(p("GET", "/analytics"), admin, analyticsHandler.Analytics)

	// outermost first: request id, logging, security headers, session
	handler := RequestIDMiddleware()(LoggingMiddleware(logger)(SecurityHeadersMiddleware()(sessionHandler.Identify(mux))))
	return handler
}
