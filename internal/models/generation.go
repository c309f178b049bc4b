package models

import (
	"encoding/json"
	"fmt"
)

// FlexStrings unmarshals either a JSON array of strings or a bare string
// (wrapped as a single-element sequence). The generator occasionally returns
// a bare string where the contract asks for an array.
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*f = nil
		} else {
			*f = []string{single}
		}
		return nil
	}

	return fmt.Errorf("content must be a string or an array of strings")
}

// RawSlide is one slide as returned by the generative collaborator,
// before normalization. Every field is untrusted.
type RawSlide struct {
	Title       string      `json:"title"`
	Content     FlexStrings `json:"content"`
	ImagePrompt string      `json:"imagePrompt"`
	Layout      string      `json:"layout"`
}

// RawDeck is the generative collaborator's full response payload.
type RawDeck struct {
	Slides []RawSlide `json:"slides"`
}

// AudioSource carries a recorded audio payload for transcription-based
// generation.
type AudioSource struct {
	MIMEType string // e.g. "audio/webm", "audio/mp3"
	Data     []byte // raw audio bytes
}

// GenerateRequest describes one generation attempt against the external
// generative collaborator. Exactly one of Text or Audio is set.
type GenerateRequest struct {
	Text       string
	Audio      *AudioSource
	SlideCount int // target slide count, not exact
}

// ImageCandidate is one photo-search result: a preview thumbnail plus the
// full-resolution reference the user may assign to a slide.
type ImageCandidate struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnail_url"`
	FullURL      string `json:"full_url"`
	Alt          string `json:"alt,omitempty"`
}
