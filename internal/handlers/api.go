package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/interfaces"
)

// APIHandler serves version, health and fallback routes.
type APIHandler struct {
	generator interfaces.GeneratorService
	cache     interfaces.ImageCacheService
	sessions  interfaces.SessionService
	logger    arbor.ILogger
}

func NewAPIHandler(generator interfaces.GeneratorService, cache interfaces.ImageCacheService, sessions interfaces.SessionService, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		generator: generator,
		cache:     cache,
		sessions:  sessions,
		logger:    logger,
	}
}

// VersionHandler returns build and provider information.
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version":  common.GetVersion(),
		"build":    common.GetBuild(),
		"commit":   common.GetGitCommit(),
		"provider": h.generator.Provider(),
	})
}

// HealthHandler reports liveness plus the state of the backing services.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	status := "healthy"
	providerStatus := "ok"
	if err := h.generator.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		providerStatus = err.Error()
	}

	cached := 0
	if h.cache != nil {
		if n, err := h.cache.Count(); err == nil {
			cached = n
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":        status,
		"provider":      h.generator.Provider(),
		"provider_ok":   providerStatus,
		"sessions":      h.sessions.Count(),
		"cached_images": cached,
	})
}

// NotFoundHandler handles unmatched API routes.
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug().Str("path", r.URL.Path).Msg("Unmatched API route")
	WriteError(w, http.StatusNotFound, "not found")
}
