package handlers

import (
	"net/http"

	"perfumeadmin/internal/middleware"
	"perfumeadmin/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, accessToken, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to register user")
		return
	}

	writeSuccess(w, AuthResponse{AccessToken: accessToken, User: user}, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	user, accessToken, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to log in")
		return
	}

	writeSuccess(w, AuthResponse{AccessToken: accessToken, User: user}, http.StatusOK)
}

// Me returns the user behind the access token.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authorization required", nil)
		return
	}

	user, err := h.AuthService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch user")
		return
	}

	writeSuccess(w, user, http.StatusOK)
}
