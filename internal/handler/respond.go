package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/swaps/swaps-go/internal/middleware"
	"github.com/swaps/swaps-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

var kindStatus = map[service.Kind]int{
	service.KindValidation:      http.StatusBadRequest,
	service.KindInvalidTarget:   http.StatusBadRequest,
	service.KindUnauthenticated: http.StatusUnauthorized,
	service.KindForbidden:       http.StatusForbidden,
	service.KindNotFound:        http.StatusNotFound,
	service.KindConflict:        http.StatusBadRequest,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]any {
	return map[string]any{"success": false, "message": msg}
}

// decodeJSON reads a bounded JSON body into dst. On failure it has already
// written the response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// writeServiceError maps a service error to its status code. Internal errors
// are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, ok := kindStatus[service.KindOf(err)]
	if !ok {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, status, errorResponse(err.Error()))
}

// callerID returns the authenticated user, writing 401 when there is none.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
	}
	return userID, ok
}
