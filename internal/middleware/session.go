package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/zhouzirui/mindful-journal/backend/internal/config"
)

type sessionKey struct{}

// Sessions carries the visitor id in an HttpOnly cookie.
type Sessions struct {
	name   string
	secure bool
}

// NewSessions builds the cookie handling from config.
func NewSessions(cfg config.SessionConfig) *Sessions {
	name := cfg.CookieName
	if name == "" {
		name = "session_id"
	}
	return &Sessions{name: name, secure: cfg.CookieSecure}
}

// Load puts a valid session id from the cookie into the request context.
func (s *Sessions) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(s.name); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				r = r.WithContext(WithSessionID(r.Context(), id.String()))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Ensure issues a new session cookie when the request carries none.
func (s *Sessions) Ensure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionID(r.Context()); !ok {
			id := uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     s.name,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
			})
			r = r.WithContext(WithSessionID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// WithSessionID stores id in ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the visitor id, if any.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}
