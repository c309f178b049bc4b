package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route (generation/export progress stream)
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Generation
	mux.HandleFunc("/api/generate", s.app.GenerateHandler.GenerateDeckHandler) // POST - generate a deck from text/url/audio/pdf

	// API routes - Sessions (deck editing)
	mux.HandleFunc("/api/sessions/", s.handleSessionRoutes) // GET/DELETE /{id}, POST /{id}/ops, PUT /{id}/slides/{slideID}, GET /{id}/preview, GET /{id}/export/{format}

	// API routes - Images
	mux.HandleFunc("/api/images/search", s.app.ImageSearchHandler.SearchHandler) // GET - stock photo candidates

	// API routes - Themes
	mux.HandleFunc("/api/themes", s.app.PreviewHandler.ListThemesHandler) // GET - available themes

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleSessionRoutes routes /api/sessions/{id}[/...] requests to the
// appropriate handler.
func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sessions/"), "/")
	if rest == "" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.app.SessionHandler.GetSessionHandler(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.app.SessionHandler.DeleteSessionHandler(w, r, id)
	case len(parts) == 2 && parts[1] == "ops" && r.Method == http.MethodPost:
		s.app.SessionHandler.ApplyOpsHandler(w, r, id)
	case len(parts) == 2 && parts[1] == "preview" && r.Method == http.MethodGet:
		s.app.PreviewHandler.PreviewSlideHandler(w, r, id)
	case len(parts) == 3 && parts[1] == "slides" && r.Method == http.MethodPut:
		s.app.SessionHandler.ReplaceSlideHandler(w, r, id, parts[2])
	case len(parts) == 3 && parts[1] == "export" && r.Method == http.MethodGet:
		s.app.ExportHandler.ExportDeckHandler(w, r, id, parts[2])
	case len(parts) == 1 || (len(parts) == 2 && (parts[1] == "ops" || parts[1] == "preview")) || (len(parts) == 3 && (parts[1] == "slides" || parts[1] == "export")):
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}
