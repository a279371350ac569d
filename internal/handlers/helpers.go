package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/noesis/internal/models"
)

// RequireMethod validates the request method, writing a 405 on mismatch.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteStarted writes a standard "started" response for async operations.
func WriteStarted(w http.ResponseWriter, itemID string) error {
	return WriteJSON(w, http.StatusAccepted, map[string]string{
		"status":  "started",
		"item_id": itemID,
	})
}

// statusFromError maps domain errors onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case err == models.ErrAlreadyQueued:
		return http.StatusConflict
	case err == models.ErrQueueFull:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
