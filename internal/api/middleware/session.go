package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/promptcanvas/promptcanvas/internal/config"
)

type contextKey string

const sessionIDKey contextKey = "sessionID"

// SessionMiddleware issues each client an opaque session token via cookie.
// The token is the caller's isolation boundary; there is no authentication
// behind it.
type SessionMiddleware struct {
	cookieName string
	maxAge     int
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(cfg config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{cookieName: cfg.CookieName, maxAge: cfg.CookieMaxAge}
}

// Identify reads the session cookie, minting a fresh id on first contact,
// and puts the session id on the request context.
func (m *SessionMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			sessionID = cookie.Value
		} else {
			sessionID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     m.cookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   m.maxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID gets the session ID from context
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	return sessionID, ok
}
