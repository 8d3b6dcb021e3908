// Package api provides the HTTP and WebSocket surface of the FAQ chat.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ashureev/faqbot/internal/chat"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	var verr *chat.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, chat.ErrInvalidTransition), errors.Is(err, chat.ErrDataUnavailable):
		return http.StatusConflict
	case errors.Is(err, chat.ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
