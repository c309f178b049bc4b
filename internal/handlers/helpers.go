package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ternarybob/prezo/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteServiceError maps domain sentinel errors onto HTTP status codes.
func WriteServiceError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		return WriteError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, models.ErrSlideNotFound):
		return WriteError(w, http.StatusNotFound, "slide not found")
	case errors.Is(err, models.ErrEmptyDeck):
		return WriteError(w, http.StatusUnprocessableEntity, "deck has no slides")
	case errors.Is(err, models.ErrImageUnsupported):
		return WriteError(w, http.StatusBadRequest, "active provider does not support image generation")
	default:
		return WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
