package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Sagar-1103/blush-build/internal/middleware"
	"github.com/Sagar-1103/blush-build/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, login, logout and the current-user endpoint
type AuthHandler struct {
	authService  *services.AuthService
	cookieName   string
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
	}
}

// credentialsRequest is the body of signup and login
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse wraps the public view of an account
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Signup failed")
		respondServiceError(w, err)
		return
	}

	if !h.issueSession(w, user.ID) {
		return
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User signed up")
	respondJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{ID: user.ID, Username: user.Username},
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		respondServiceError(w, err)
		return
	}

	if !h.issueSession(w, user.ID) {
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User logged in")
	respondJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{ID: user.ID, Username: user.Username},
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		respondJSON(w, http.StatusUnauthorized, map[string]any{"user": nil})
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]any{"user": nil})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user": userResponse{ID: user.ID, Username: user.Username},
	})
}

// issueSession sets the session cookie; reports false after responding with
// an error when token signing fails.
func (h *AuthHandler) issueSession(w http.ResponseWriter, userID string) bool {
	token, err := h.authService.GenerateJWT(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate session token")
		respondError(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(services.TokenMaxAge / time.Second),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}
