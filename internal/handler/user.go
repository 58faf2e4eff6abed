package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/service"
)

// UserHandler serves the member directory and admin user management.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleDirectory handles GET /api/users requests. The caller is left out.
func (h *UserHandler) HandleDirectory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	users, err := h.service.ListUsers(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserList{Success: true, Users: users})
}

// HandleAdminList handles GET /api/admin/users requests.
func (h *UserHandler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), "")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserList{Success: true, Users: users})
}

// HandleAdminDelete handles DELETE /api/admin/users/{id} requests.
func (h *UserHandler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true, Message: "user deleted"})
}
