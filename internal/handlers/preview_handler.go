package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
	"github.com/ternarybob/prezo/internal/services/render"
)

// PreviewHandler serves HTML renditions of session decks.
type PreviewHandler struct {
	sessions interfaces.SessionService
	renderer interfaces.RenderService
	themes   interfaces.ThemeService
	logger   arbor.ILogger
}

func NewPreviewHandler(sessions interfaces.SessionService, renderer interfaces.RenderService, themes interfaces.ThemeService, logger arbor.ILogger) *PreviewHandler {
	return &PreviewHandler{
		sessions: sessions,
		renderer: renderer,
		themes:   themes,
		logger:   logger,
	}
}

// PreviewHandler handles GET /api/sessions/{id}/preview. With ?slide=N it
// returns that slide's HTML (index clamped into range); without it, the
// whole deck as one paged document.
func (h *PreviewHandler) PreviewSlideHandler(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if len(sess.Deck.Slides) == 0 {
		WriteServiceError(w, models.ErrEmptyDeck)
		return
	}
	theme := h.resolveTheme(sess.Deck)

	var html string
	if v := r.URL.Query().Get("slide"); v != "" {
		index, convErr := strconv.Atoi(v)
		if convErr != nil {
			WriteError(w, http.StatusBadRequest, "slide must be an integer")
			return
		}
		index = render.ClampIndex(sess.Deck, index)
		html, err = h.renderer.RenderSlide(sess.Deck.Slides[index], theme)
	} else {
		html, err = h.renderer.RenderDeck(sess.Deck, theme)
	}
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// ListThemesHandler handles GET /api/themes.
func (h *PreviewHandler) ListThemesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"themes":  h.themes.List(),
		"default": h.themes.Default().Name,
	})
}

func (h *PreviewHandler) resolveTheme(deck *models.Deck) *models.Theme {
	if deck.Theme != "" {
		return h.themes.Get(deck.Theme)
	}
	return h.themes.Default()
}
