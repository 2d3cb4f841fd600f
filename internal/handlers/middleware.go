package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"casamento/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	csrf       *security.CSRFGenerator
	limiter    *security.RateLimiter
	sessionTTL time.Duration
	log        zerolog.Logger
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(csrf *security.CSRFGenerator, limiter *security.RateLimiter, sessionTTL time.Duration, log zerolog.Logger) *Middleware {
	return &Middleware{
		csrf:       csrf,
		limiter:    limiter,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// WithSession makes sure the visitor has a session cookie and puts its id in the context
func (m *Middleware) WithSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := security.EnsureSession(w, r, m.sessionTTL)
		ctx := context.WithValue(r.Context(), SessionContextKey, id)
		next(w, r.WithContext(ctx))
	}
}

// CSRFProtect rejects state-changing requests without a token bound to the session
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := security.SessionID(r)
		if !ok || !m.csrf.ValidateToken(id, security.TokenFromRequest(r)) {
			m.log.Warn().Str("path", r.URL.Path).Str("ip", security.GetClientIP(r)).Msg("CSRF validation failed")
			http.Error(w, ErrInvalidCSRF, http.StatusForbidden)
			return
		}
		ctx := context.WithValue(r.Context(), SessionContextKey, id)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit throttles a route per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			m.log.Warn().Str("path", r.URL.Path).Str("ip", ip).Msg("rate limit exceeded")
			http.Error(w, ErrTooManyRequests, http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// CSRFToken returns the token for the current session, or "" without one
func (m *Middleware) CSRFToken(r *http.Request) string {
	id := GetSessionID(r.Context())
	if id == "" {
		var ok bool
		if id, ok = security.SessionID(r); !ok {
			return ""
		}
	}
	token, err := m.csrf.GenerateToken(id)
	if err != nil {
		return ""
	}
	return token
}

// GetSessionID retrieves the session id placed by WithSession
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionContextKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush lets SSE streams through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Logging middleware logs HTTP requests
func Logging(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
