package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/mesto-api/internal/auth"
	"github.com/sakif/mesto-api/internal/service"
)

// UserHandler serves the protected /users routes. Every handler here runs
// behind RequireAuth, so the identity is always present in the context.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	About string `json:"about"`
}

type updateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

// HandleList returns all users.
//
// HTTP: GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleMe returns the caller's own record.
//
// HTTP: GET /users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth; kept as a guard.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "authorization required"})
		return
	}

	user, err := h.users.GetSelf(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleGetByID returns a user by id.
//
// HTTP: GET /users/{userId}
// Responses: 200 | 400 malformed id | 404 missing.
func (h *UserHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateProfile updates the caller's name and about fields. The
// target record is the token identity — any id in the request body or URL
// is ignored.
//
// HTTP: PATCH /users/me
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "authorization required"})
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid JSON body"})
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), identity, req.Name, req.About)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateAvatar updates the caller's avatar URL.
//
// HTTP: PATCH /users/me/avatar
func (h *UserHandler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "authorization required"})
		return
	}

	var req updateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid JSON body"})
		return
	}

	user, err := h.users.UpdateAvatar(r.Context(), identity, req.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
