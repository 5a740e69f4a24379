package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tutortrack/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// respondError maps domain errors onto the HTTP taxonomy: validation and
// duplicate-payment failures are the caller's fault (400), unknown tutors
// are 404, anything else is a logged 500 with a generic body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrDuplicatePayment):
		writeError(w, http.StatusBadRequest, core.ErrDuplicatePayment.Error())
	case errors.Is(err, core.ErrTutorNotFound):
		writeError(w, http.StatusNotFound, core.ErrTutorNotFound.Error())
	case core.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"url", r.URL.Path,
			"error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
