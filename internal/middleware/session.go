package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/wayfarerhq/storefront/internal/service"
)

const (
	// SessionCookieName is the visitor session cookie.
	SessionCookieName = "wayfarer_session"

	// SessionHeader lets non-browser clients carry the session token
	// explicitly instead of via cookie.
	SessionHeader = "X-Session-Token"

	// SessionContextKey is the context key for the visitor session ID.
	SessionContextKey contextKey = "session_id"

	// sessionCookieMaxAge matches the cart retention horizon.
	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// VisitorSession resolves the visitor session token for every request,
// minting one on first contact. All cart, auth and checkout state is keyed
// by this token; it identifies a browser, not a customer.
func VisitorSession(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				if c, err := r.Cookie(SessionCookieName); err == nil {
					sessionID = c.Value
				}
			}

			if sessionID == "" {
				id, err := service.GenerateSessionID()
				if err != nil {
					respondWithError(w, r, err)
					return
				}
				sessionID = id
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID retrieves the visitor session ID from the context.
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionContextKey).(string); ok {
		return id
	}
	return ""
}
