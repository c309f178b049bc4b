package models

import "errors"

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSlideNotFound is returned when a slide ID is absent from a deck.
	ErrSlideNotFound = errors.New("slide not found")

	// ErrImageUnsupported is returned when the active provider cannot
	// generate images.
	ErrImageUnsupported = errors.New("image generation not supported by provider")

	// ErrEmptyDeck is returned when the generator produced no usable slides.
	ErrEmptyDeck = errors.New("generated deck contains no slides")
)
