package api

import (
	"encoding/json"
	"net/http"
)

// maxErrorDetail bounds the downstream error text echoed to clients.
const maxErrorDetail = 500

// Error is the body of every error response.
type Error struct {
	Status  string `json:"status"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, Error{
		Status:  "error",
		Message: message,
		Details: truncateDetail(details),
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message, "")
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message, "")
}

// writeMethodNotAllowed writes a 405 error response.
func writeMethodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed, use "+allowed, "")
}

// writeInternalError writes a 500 error response carrying err as detail.
func writeInternalError(w http.ResponseWriter, message string, err error) {
	var details string
	if err != nil {
		details = err.Error()
	}
	writeError(w, http.StatusInternalServerError, message, details)
}

// truncateDetail cuts s to maxErrorDetail characters plus an ellipsis.
func truncateDetail(s string) string {
	r := []rune(s)
	if len(r) <= maxErrorDetail {
		return s
	}
	return string(r[:maxErrorDetail]) + "..."
}
