// Package handler contains the HTTP layer: request decoding, calls into
// the services, and response writing. All failures funnel through
// writeError so every endpoint shares the same error shape.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/mesto-api/internal/service"
)

// AuthHandler serves the public signup and signin endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	About    string `json:"about"`
	Avatar   string `json:"avatar"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinResponse struct {
	Token string `json:"token"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /signup
// Responses: 201 {_id, email} | 400 validation | 409 duplicate email.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid JSON body"})
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name, req.About, req.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleSignin exchanges credentials for a token.
//
// HTTP: POST /signin
// Responses: 200 {token} | 401 bad credentials.
//
// The token is returned in the body for header-based clients and also set
// as an HttpOnly cookie for browser clients; the auth middleware accepts
// either carrier.
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid JSON body"})
		return
	}

	userID, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.auth.IssueToken(userID)
	if err != nil {
		h.logger.Error("failed to issue token",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, signinResponse{Token: token})
}
