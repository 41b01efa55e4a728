package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch users")
		return
	}

	writeSuccess(w, users, http.StatusOK)
}

func (h *Handlers) SetUserRole(w http.ResponseWriter, r *http.Request) {
	var req SetRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.UserService.SetRole(r.Context(), mux.Vars(r)["id"], req.Role); err != nil {
		h.writeServiceError(w, r, err, "Failed to update user role")
		return
	}

	writeSuccess(w, map[string]string{"message": "User role updated successfully"}, http.StatusOK)
}
