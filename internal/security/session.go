package security

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName identifies the browser session the RSVP flow is attached to
const SessionCookieName = "casamento_session"

// GenerateSessionID creates a new UUID for session identification
func GenerateSessionID() string {
	return uuid.New().String()
}

// IsSecureRequest determines if the request is over HTTPS, directly or behind a proxy
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if r.Header.Get("X-Forwarded-Proto") == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}

// CreateSessionCookie creates a cookie with the Secure flag following the request scheme
func CreateSessionCookie(r *http.Request, name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// CreateDeleteCookie creates a cookie that removes name
func CreateDeleteCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
	}
}

// SessionID returns the session id carried by the request, if it is a valid UUID
func SessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

// EnsureSession returns the request's session id, issuing a new cookie when there is none.
// The cookie is refreshed on every call so active sessions slide forward.
func EnsureSession(w http.ResponseWriter, r *http.Request, ttl time.Duration) string {
	id, ok := SessionID(r)
	if !ok {
		id = GenerateSessionID()
	}
	http.SetCookie(w, CreateSessionCookie(r, SessionCookieName, id, time.Now().Add(ttl)))
	return id
}
