package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mhalloran/golfsync/internal/api/middleware"
	"github.com/mhalloran/golfsync/internal/api/request"
	"github.com/mhalloran/golfsync/internal/api/response"
	"github.com/mhalloran/golfsync/internal/auth"
)

// AuthHandler handles account and session endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	user, err := h.authService.SignUp(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.UserFromModel(user))
}

// SignIn handles POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req request.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	user, err := h.authService.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// SignOut handles POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.authService.SignOut(r.Context())
	response.NoContent(w)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// ChangePassword handles POST /api/v1/auth/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.NewPassword == "" {
		WriteError(w, NewInvalidRequestError("new_password is required"))
		return
	}

	if err := h.authService.ChangePassword(r.Context(), req.OldPassword, req.NewPassword); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// ChangeUsername handles POST /api/v1/auth/username
func (h *AuthHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req request.ChangeUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}

	user, err := h.authService.ChangeUsername(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}

// DeleteAccount handles DELETE /api/v1/auth/account
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req request.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.authService.DeleteAccount(r.Context(), req.Password); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// SaveAvatar handles PUT /api/v1/auth/avatar
func (h *AuthHandler) SaveAvatar(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	var req request.SaveAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Image == "" {
		WriteError(w, NewInvalidRequestError("image is required"))
		return
	}

	if err := h.authService.SaveAvatar(r.Context(), user.ID, req.Image); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// GetAvatar handles GET /api/v1/auth/avatar
func (h *AuthHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	image, found, err := h.authService.Avatar(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if !found {
		WriteError(w, NewNotFoundError("No avatar set"))
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"image": image})
}

// DeleteAvatar handles DELETE /api/v1/auth/avatar
func (h *AuthHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	if err := h.authService.DeleteAvatar(r.Context(), user.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
