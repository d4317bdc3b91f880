package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err's message as a JSON body. Server errors are logged and
// replaced with a generic message.
func Error(w http.ResponseWriter, status int, err error) {
	msg := err.Error()

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "status", status, "error", err)
		msg = http.StatusText(status)
	}

	JSON(w, status, errorResponse{Error: msg})
}

// Decode reads a JSON request body into v and reports a 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}

	return true
}
