package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	EventGenerationStarted  EventType = "generation_started"
	EventDeckGenerated      EventType = "deck_generated"
	EventImagesStarted      EventType = "images_started"
	EventImageReady         EventType = "image_ready"
	EventImageFailed        EventType = "image_failed"
	EventGenerationComplete EventType = "generation_complete"
	EventExportStarted      EventType = "export_started"
	EventExportComplete     EventType = "export_complete"
)

// Event represents a system event
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// EventService manages the pub/sub event bus feeding progress updates to
// websocket clients.
type EventService interface {
	// Subscribe to an event type
	Subscribe(eventType EventType, handler EventHandler) error

	// Unsubscribe from an event type
	Unsubscribe(eventType EventType, handler EventHandler) error

	// Publish an event to all subscribers
	Publish(ctx context.Context, event Event) error

	// Close shuts down the event service
	Close() error
}
