package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/interfaces"
)

// ImageSearchHandler proxies stock-photo searches so the browser never
// sees the provider API key.
type ImageSearchHandler struct {
	search interfaces.ImageSearchService
	logger arbor.ILogger
}

func NewImageSearchHandler(search interfaces.ImageSearchService, logger arbor.ILogger) *ImageSearchHandler {
	return &ImageSearchHandler{search: search, logger: logger}
}

// SearchHandler handles GET /api/images/search?query=...&page=N.
func (h *ImageSearchHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if h.search == nil {
		WriteError(w, http.StatusServiceUnavailable, "image search is not configured")
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}

	candidates, err := h.search.Search(r.Context(), query, page)
	if err != nil {
		h.logger.Warn().Err(err).Str("query", query).Msg("Image search failed")
		WriteError(w, http.StatusBadGateway, "image search failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"page":    page,
		"results": candidates,
	})
}
