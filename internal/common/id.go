package common

import (
	"github.com/google/uuid"
)

// NewSlideID generates a unique slide ID with the "slide_" prefix
// Format: slide_<uuid>
func NewSlideID() string {
	return "slide_" + uuid.New().String()
}

// NewSessionID generates a unique editing session ID with the "sess_" prefix
// Format: sess_<uuid>
func NewSessionID() string {
	return "sess_" + uuid.New().String()
}
