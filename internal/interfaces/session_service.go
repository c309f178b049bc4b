package interfaces

import (
	"context"

	"github.com/ternarybob/prezo/internal/models"
)

// SessionService manages in-memory editing sessions. Each session wraps one
// deck; all mutation happens through Update so concurrent edits serialize
// per session.
type SessionService interface {
	// Create registers a new session around the deck and returns it.
	Create(ctx context.Context, deck *models.Deck) (*models.Session, error)

	// Get returns a deep-copied snapshot of the session, or an error
	// wrapping ErrSessionNotFound.
	Get(ctx context.Context, id string) (*models.Session, error)

	// Update applies mutate to the session's deck under the session lock
	// and returns the updated snapshot. A mutate error rolls nothing back;
	// mutators must leave the deck consistent on failure.
	Update(ctx context.Context, id string, mutate func(*models.Deck) error) (*models.Session, error)

	// Delete discards the session. Deleting an unknown session is a no-op.
	Delete(ctx context.Context, id string) error

	// Count returns the number of live sessions.
	Count() int

	// Close stops the expiry janitor.
	Close() error
}
