package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/interfaces"
)

// ExportHandler serves deck downloads in both export formats.
type ExportHandler struct {
	sessions interfaces.SessionService
	export   interfaces.ExportService
	logger   arbor.ILogger
}

func NewExportHandler(sessions interfaces.SessionService, export interfaces.ExportService, logger arbor.ILogger) *ExportHandler {
	return &ExportHandler{sessions: sessions, export: export, logger: logger}
}

// ExportDeckHandler handles GET /api/sessions/{id}/export/{format} where
// format is "pptx" or "pdf".
func (h *ExportHandler) ExportDeckHandler(w http.ResponseWriter, r *http.Request, id, format string) {
	sess, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case "pptx":
		data, err = h.export.ExportPPTX(r.Context(), sess.Deck)
		contentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case "pdf":
		data, err = h.export.ExportPDF(r.Context(), sess.Deck)
		contentType = "application/pdf"
	default:
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", id).Str("format", format).Msg("Export failed")
		WriteServiceError(w, err)
		return
	}

	filename := exportFilename(sess.Deck.Title, format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}

// exportFilename derives a safe download name from the deck title.
func exportFilename(title, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, title)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "presentation"
	}
	return name + "." + ext
}
