// Package session keeps editing sessions in process memory. A session wraps
// one deck; the manager serializes all mutation per session and expires idle
// sessions on a cron schedule. Nothing here is persisted: a restart loses
// every session.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

type entry struct {
	mu         sync.Mutex
	session    *models.Session
	lastAccess time.Time
}

// Manager implements interfaces.SessionService.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	ttl      time.Duration
	cron     *cron.Cron
	logger   arbor.ILogger
}

// NewManager creates a session manager and starts its expiry janitor on the
// given cron schedule (e.g. "@every 15m").
func NewManager(ttl time.Duration, sweepSchedule string, logger arbor.ILogger) (*Manager, error) {
	m := &Manager{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		cron:     cron.New(),
		logger:   logger,
	}

	if _, err := m.cron.AddFunc(sweepSchedule, m.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", sweepSchedule, err)
	}
	m.cron.Start()

	logger.Info().
		Str("ttl", ttl.String()).
		Str("sweep_schedule", sweepSchedule).
		Msg("Session manager started")

	return m, nil
}

// Create registers a new session around the deck.
func (m *Manager) Create(ctx context.Context, deck *models.Deck) (*models.Session, error) {
	if deck == nil {
		return nil, fmt.Errorf("deck cannot be nil")
	}

	now := time.Now().UTC()
	session := &models.Session{
		ID:        common.NewSessionID(),
		Deck:      deck,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.sessions[session.ID] = &entry{session: session, lastAccess: now}
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info().
		Str("session_id", session.ID).
		Int("slides", len(deck.Slides)).
		Int("sessions", count).
		Msg("Session created")

	return snapshot(session), nil
}

// Get returns a deep-copied snapshot of the session.
func (m *Manager) Get(ctx context.Context, id string) (*models.Session, error) {
	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastAccess = time.Now().UTC()
	return snapshot(e.session), nil
}

// Update applies mutate to the session's deck under the session lock.
func (m *Manager) Update(ctx context.Context, id string, mutate func(*models.Deck) error) (*models.Session, error) {
	if mutate == nil {
		return nil, fmt.Errorf("mutate cannot be nil")
	}

	e, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := mutate(e.session.Deck); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	e.session.UpdatedAt = now
	e.lastAccess = now
	return snapshot(e.session), nil
}

// Delete discards the session. Unknown IDs are a no-op.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; ok {
		delete(m.sessions, id)
		m.logger.Info().Str("session_id", id).Msg("Session deleted")
	}
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the expiry janitor.
func (m *Manager) Close() error {
	m.cron.Stop()
	return nil
}

func (m *Manager) lookup(id string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrSessionNotFound, id)
	}
	return e, nil
}

// sweep removes sessions idle for longer than the TTL.
func (m *Manager) sweep() {
	cutoff := time.Now().UTC().Add(-m.ttl)

	m.mu.Lock()
	var expired []string
	for id, e := range m.sessions {
		if e.lastAccess.Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		m.logger.Info().
			Int("expired", len(expired)).
			Int("remaining", remaining).
			Msg("Expired idle sessions")
	}
}

func snapshot(s *models.Session) *models.Session {
	return &models.Session{
		ID:        s.ID,
		Deck:      s.Deck.Clone(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

var _ interfaces.SessionService = (*Manager)(nil)
