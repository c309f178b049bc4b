package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(time.Hour, "@every 1h", arbor.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func testDeck() *models.Deck {
	return &models.Deck{
		Title: "Onboarding",
		Theme: "midnight",
		Slides: []*models.Slide{
			{ID: "slide_a", Title: "Welcome", Layout: models.LayoutTitle, Content: []string{"Day one"}},
			{ID: "slide_b", Title: "Agenda", Layout: models.LayoutDefault, Content: []string{"intro", "tour"}},
		},
	}
}

func TestCreateAndGet(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	created, err := m.Create(ctx, testDeck())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", got.Deck.Title)

	// snapshots are isolated from the stored deck
	got.Deck.Slides[0].Title = "tampered"
	again, err := m.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", again.Deck.Slides[0].Title)
}

func TestGetUnknownSession(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Get(context.Background(), "sess_missing")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestUpdate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	created, err := m.Create(ctx, testDeck())
	require.NoError(t, err)

	updated, err := m.Update(ctx, created.ID, SetDeckTitle("Renamed"))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Deck.Title)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	boom := errors.New("boom")
	_, err = m.Update(ctx, created.ID, func(d *models.Deck) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestDelete(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	created, err := m.Create(ctx, testDeck())
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, created.ID))
	assert.Equal(t, 0, m.Count())

	_, err = m.Get(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	// deleting again is a no-op
	assert.NoError(t, m.Delete(ctx, created.ID))
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	m, err := NewManager(10*time.Millisecond, "@every 1h", arbor.Logger())
	require.NoError(t, err)
	defer m.Close()

	ctx := context.Background()
	created, err := m.Create(ctx, testDeck())
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	m.sweep()

	assert.Equal(t, 0, m.Count())
	_, err = m.Get(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}
