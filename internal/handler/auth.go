package handler

import (
	"net/http"

	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication and the caller's own account.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleMe handles GET /api/auth/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{Success: true, User: user})
}

// HandleUpdateMe handles PUT /api/auth/me requests.
func (h *AuthHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserEnvelope{Success: true, User: user})
}

// HandleDeleteMe handles DELETE /api/auth/me requests.
func (h *AuthHandler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.StatusResponse{Success: true, Message: "account deleted"})
}
