package handler

import (
	"encoding/json"
	"net/http"

	"github.com/curio-ai/topic-platform/internal/apperr"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &apperr.Error{Status: status, Message: message})
}

// writeAppError maps an error to its {"error","status"} body. Errors outside
// the taxonomy render as an opaque 500.
func writeAppError(w http.ResponseWriter, err error) {
	if appErr, ok := apperr.From(err); ok {
		writeJSON(w, appErr.Status, appErr)
		return
	}
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
