package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/service"
)

// SwapHandler handles HTTP requests for the swap-request ledger.
type SwapHandler struct {
	service *service.LedgerService
}

// NewSwapHandler creates a new SwapHandler.
func NewSwapHandler(svc *service.LedgerService) *SwapHandler {
	return &SwapHandler{service: svc}
}

// HandleCreate handles POST /swap-requests requests.
func (h *SwapHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.CreateSwapRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sr, err := h.service.CreateRequest(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.SwapRequestEnvelope{Success: true, SwapRequest: sr})
}

// HandleList handles GET /swap-requests requests.
func (h *SwapHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /swap-requests/{id} requests.
func (h *SwapHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	sr, err := h.service.GetRequest(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SwapRequestEnvelope{Success: true, SwapRequest: sr})
}

// HandleUpdateStatus handles PUT /swap-requests/{id}/status requests.
// Only the receiver may decide, and only once.
func (h *SwapHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req model.UpdateSwapStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sr, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), userID, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SwapRequestEnvelope{Success: true, SwapRequest: sr})
}
