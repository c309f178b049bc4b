package handlers

import (
	"context"
	"encoding/json"
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

func newTestSession(t *testing.T) (*session.Manager, *models.Session) {
	t.Helper()
	mgr, err := session.NewManager(time.Hour, "@every 1h", arbor.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })

	deck := &models.Deck{
		Title: "Test Deck",
		Slides: []*models.Slide{
			{ID: "s1", Title: "Intro", Layout: models.LayoutTitle, Content: []string{"sub"}},
			{ID: "s2", Title: "Points", Layout: models.LayoutDefault, Content: []string{"a", "b"}},
		},
	}
	sess, err := mgr.Create(context.Background(), deck)
	require.NoError(t, err)
	return mgr, sess
}

func TestGetSessionHandler(t *testing.T) {
	mgr, sess := newTestSession(t)
	h := NewSessionHandler(mgr, arbor.Logger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil)
	h.GetSessionHandler(w, r, sess.ID)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		SessionID string       `json:"session_id"`
		Deck      *models.Deck `json:"deck"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, sess.ID, body.SessionID)
	assert.Len(t, body.Deck.Slides, 2)
}

func TestGetSessionHandlerNotFound(t *testing.T) {
	mgr, _ := newTestSession(t)
	h := NewSessionHandler(mgr, arbor.Logger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil)
	h.GetSessionHandler(w, r, "nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyOpsHandler(t *testing.T) {
	mgr, sess := newTestSession(t)
	h := NewSessionHandler(mgr, arbor.Logger())

	body := `{"ops":[
		{"op":"set_deck_title","title":"Renamed"},
		{"op":"set_slide_title","slide_id":"s2","title":"Key Points"},
		{"op":"add_content_item","slide_id":"s2","value":"c"}
	]}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/sessions/"+sess.ID+"/ops", strings.NewReader(body))
	h.ApplyOpsHandler(w, r, sess.ID)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Deck *models.Deck `json:"deck"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Renamed", resp.Deck.Title)
	assert.Equal(t, "Key Points", resp.Deck.Slides[1].Title)
	assert.Equal(t, []string{"a", "b", "c"}, resp.Deck.Slides[1].Content)
}

func TestApplyOpsHandlerUnknownOp(t *testing.T) {
	mgr, sess := newTestSession(t)
	h := NewSessionHandler(mgr, arbor.Logger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/ops", strings.NewReader(`{"ops":[{"op":"explode"}]}`))
	h.ApplyOpsHandler(w, r, sess.ID)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// deck untouched after a rejected batch
	current, err := mgr.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Deck", current.Deck.Title)
}

func TestApplyOpsHandlerEmptyBatch(t *testing.T) {
	mgr, sess := newTestSession(t)
	h := NewSessionHandler(mgr, arbor.Logger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/ops", strings.NewReader(`{"ops":[]}`))
	h.ApplyOpsHandler(w, r, sess.ID)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceSlideHandler(t *testing.T) {
	mgr, sess := newTestSession(t)
	h := NewSessionHandler(mgr, arbor.Logger())

	slide := `{"id":"s2","title":"Replaced","layout":"quote","content":["Words","Someone"],"image_prompt":""}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/slides/s2", strings.NewReader(slide))
	h.ReplaceSlideHandler(w, r, sess.ID, "s2")

	require.Equal(t, http.StatusOK, w.Code)
	current, err := mgr.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", current.Deck.Slides[1].Title)
	assert.Equal(t, models.LayoutQuote, current.Deck.Slides[1].Layout)
}

func TestReplaceSlideHandlerIDMismatch(t *testing.T) {
	mgr, sess := newTestSession(t)
	h := NewSessionHandler(mgr, arbor.Logger())

	slide := `{"id":"s1","title":"Wrong","layout":"default","content":[]}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/slides/s2", strings.NewReader(slide))
	h.ReplaceSlideHandler(w, r, sess.ID, "s2")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSessionHandler(t *testing.T) {
	mgr, sess := newTestSession(t)
	h := NewSessionHandler(mgr, arbor.Logger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sess.ID, nil)
	h.DeleteSessionHandler(w, r, sess.ID)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, mgr.Count())
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "Quarterly-Review.pptx", exportFilename("Quarterly Review", "pptx"))
	assert.Equal(t, "presentation.pdf", exportFilename("???", "pdf"))
	assert.Equal(t, "Deck-2.pdf", exportFilename("  Deck 2! ", "pdf"))
}
