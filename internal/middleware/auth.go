package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Sagar-1103/blush-build/internal/services"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Auth authenticates requests from the session cookie, with an
// Authorization Bearer fallback for non-browser clients, and rejects
// requests carrying neither.
func Auth(authService *services.AuthService, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token == "" {
				respondError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			userID, err := authService.ValidateJWT(token)
			if err != nil {
				respondError(w, "Invalid session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user ID to the context when the request carries
// a valid session, and lets the request through either way. The current-user
// endpoint answers with a null user instead of rejecting outright.
func OptionalAuth(authService *services.AuthService, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := tokenFromRequest(r, cookieName); token != "" {
				if userID, err := authService.ValidateJWT(token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenFromRequest pulls the session token from the cookie or, failing that,
// a Bearer header.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
