package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/models"
	"github.com/ternarybob/prezo/internal/services/session"
)

type fakeGenerator struct {
	lastReq models.GenerateRequest
	deck    *models.Deck
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, req models.GenerateRequest) (*models.Deck, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.deck, nil
}

func (f *fakeGenerator) Provider() string                      { return "fake" }
func (f *fakeGenerator) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeGenerator) Close() error                          { return nil }

func newGenerateHandler(t *testing.T, gen *fakeGenerator, sources *sourceStub) (*GenerateHandler, *session.Manager) {
	t.Helper()
	mgr, err := session.NewManager(time.Hour, "@every 1h", arbor.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return NewGenerateHandler(gen, mgr, sources, arbor.Logger()), mgr
}

// sourceStub satisfies interfaces.SourceService.
type sourceStub struct {
	urlText string
	urlErr  error
}

func (s *sourceStub) FromPDF(ctx context.Context, r io.Reader, size int64) (string, error) {
	return "pdf text", nil
}

func (s *sourceStub) FromURL(ctx context.Context, url string) (string, error) {
	if s.urlErr != nil {
		return "", s.urlErr
	}
	return s.urlText, nil
}

func sampleDeck() *models.Deck {
	return &models.Deck{
		Title: "Generated",
		Slides: []*models.Slide{
			{ID: "s1", Title: "Generated", Layout: models.LayoutTitle, Content: []string{}},
		},
	}
}

func TestGenerateDeckHandlerText(t *testing.T) {
	gen := &fakeGenerator{deck: sampleDeck()}
	h, mgr := newGenerateHandler(t, gen, &sourceStub{})

	body := `{"text":"the history of tea","slide_count":5,"theme":"midnight"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	h.GenerateDeckHandler(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "the history of tea", gen.lastReq.Text)
	assert.Equal(t, 5, gen.lastReq.SlideCount)

	var resp struct {
		SessionID string       `json:"session_id"`
		Deck      *models.Deck `json:"deck"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "midnight", resp.Deck.Theme)
	assert.Equal(t, 1, mgr.Count())
}

func TestGenerateDeckHandlerURL(t *testing.T) {
	gen := &fakeGenerator{deck: sampleDeck()}
	h, _ := newGenerateHandler(t, gen, &sourceStub{urlText: "scraped article text"})

	body := `{"url":"https://example.com/article"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	h.GenerateDeckHandler(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "scraped article text", gen.lastReq.Text)
}

func TestGenerateDeckHandlerMissingSource(t *testing.T) {
	h, _ := newGenerateHandler(t, &fakeGenerator{deck: sampleDeck()}, &sourceStub{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "application/json")
	h.GenerateDeckHandler(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateDeckHandlerProviderFailure(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("provider unavailable")}
	h, mgr := newGenerateHandler(t, gen, &sourceStub{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"text":"topic"}`))
	r.Header.Set("Content-Type", "application/json")
	h.GenerateDeckHandler(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, mgr.Count())
}

func TestGenerateDeckHandlerEmptyDeck(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("generation produced no usable slides: %w", models.ErrEmptyDeck)}
	h, _ := newGenerateHandler(t, gen, &sourceStub{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"text":"topic"}`))
	r.Header.Set("Content-Type", "application/json")
	h.GenerateDeckHandler(w, r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
