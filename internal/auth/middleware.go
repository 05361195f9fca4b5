package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the authenticated identity.
type contextKey string

const userIDKey contextKey = "userID"

// cookieName is the fallback credential carrier for browser clients.
const cookieName = "token"

// RequireAuth gates protected routes. It extracts the bearer token from
// the Authorization header (or the token cookie), validates it, and stores
// the userID in the request context. Missing or invalid credentials stop
// the chain with 401 before any resource logic runs.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := extractToken(r)
			if !ok {
				unauthorized(w, "authorization required")
				return
			}

			userID, err := tokens.Validate(raw)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) if no valid token was presented — which on
// a RequireAuth-protected route means the middleware was bypassed.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// extractToken reads the credential from "Authorization: Bearer <token>"
// first and falls back to the HttpOnly cookie set on signin.
func extractToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, found := strings.CutPrefix(h, "Bearer "); found && token != "" {
			return token, true
		}
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// unauthorized writes the normalizer's 401 shape. The middleware cannot
// reach the handler package's helpers without an import cycle, so the body
// is written directly in the same {"message": ...} format.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"` + message + `"}`))
}
