package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/examforge/examforge/internal/response"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the structured error the UI localizes on; kind is stable,
// message is advisory.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Kind: kind, Message: msg})
}

// writeSubmitError maps submission failure kinds to statuses. Anything
// unrecognized is an internal error; details stay out of the response.
func writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, response.ErrQuizNotFound):
		writeError(w, http.StatusNotFound, "not_found", "quiz not found")
	case errors.Is(err, response.ErrAuthRequired):
		writeError(w, http.StatusUnauthorized, "auth_required", "authentication required")
	case errors.Is(err, response.ErrAttemptLimit):
		writeError(w, http.StatusForbidden, "limit_exceeded", "attempt limit exceeded")
	case errors.Is(err, response.ErrThrottled):
		writeError(w, http.StatusTooManyRequests, "throttled", "too many submissions")
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
