package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

const maxUploadSize = 30 << 20

var validate = validator.New()

// GenerateRequestBody is the JSON body of POST /api/generate. Exactly one
// source (text or url) must be present; multipart requests may carry an
// audio or PDF upload instead.
type GenerateRequestBody struct {
	Text       string `json:"text" validate:"required_without=URL,omitempty,max=100000"`
	URL        string `json:"url" validate:"required_without=Text,omitempty,url"`
	SlideCount int    `json:"slide_count" validate:"omitempty,min=1,max=100"`
	Theme      string `json:"theme" validate:"omitempty,max=64"`
}

// GenerateHandler turns a source (topic text, URL, PDF or audio upload)
// into a generated deck wrapped in a new editing session.
type GenerateHandler struct {
	generator interfaces.GeneratorService
	sessions  interfaces.SessionService
	sources   interfaces.SourceService
	logger    arbor.ILogger
}

func NewGenerateHandler(generator interfaces.GeneratorService, sessions interfaces.SessionService, sources interfaces.SourceService, logger arbor.ILogger) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		sessions:  sessions,
		sources:   sources,
		logger:    logger,
	}
}

// GenerateDeckHandler handles POST /api/generate.
func (h *GenerateHandler) GenerateDeckHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var (
		req   models.GenerateRequest
		theme string
		err   error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		req, theme, err = h.parseMultipart(r)
	} else {
		req, theme, err = h.parseJSON(r)
	}
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	deck, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Deck generation failed")
		WriteServiceError(w, err)
		return
	}
	if theme != "" {
		deck.Theme = theme
	}

	session, err := h.sessions.Create(r.Context(), deck)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	h.logger.Info().
		Str("session_id", session.ID).
		Int("slides", len(deck.Slides)).
		Msg("Deck generated")
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": session.ID,
		"deck":       session.Deck,
	})
}

func (h *GenerateHandler) parseJSON(r *http.Request) (models.GenerateRequest, string, error) {
	var body GenerateRequestBody
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(&body); err != nil {
		return models.GenerateRequest{}, "", fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(&body); err != nil {
		return models.GenerateRequest{}, "", fmt.Errorf("invalid request: %w", err)
	}

	req := models.GenerateRequest{SlideCount: body.SlideCount}
	if body.URL != "" {
		text, err := h.sources.FromURL(r.Context(), body.URL)
		if err != nil {
			return models.GenerateRequest{}, "", fmt.Errorf("failed to read source page: %w", err)
		}
		req.Text = text
	} else {
		req.Text = body.Text
	}
	return req, body.Theme, nil
}

// parseMultipart accepts a "text" field plus an optional "audio" or "pdf"
// upload. An upload wins over the text field.
func (h *GenerateHandler) parseMultipart(r *http.Request) (models.GenerateRequest, string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return models.GenerateRequest{}, "", fmt.Errorf("invalid multipart form: %w", err)
	}

	var req models.GenerateRequest
	req.Text = r.FormValue("text")
	if v := r.FormValue("slide_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return models.GenerateRequest{}, "", fmt.Errorf("invalid slide_count %q", v)
		}
		req.SlideCount = n
	}

	if file, header, err := r.FormFile("audio"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
		if err != nil {
			return models.GenerateRequest{}, "", fmt.Errorf("failed to read audio upload: %w", err)
		}
		mimeType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "audio/") {
			return models.GenerateRequest{}, "", fmt.Errorf("unsupported audio content type %q", mimeType)
		}
		req.Audio = &models.AudioSource{MIMEType: mimeType, Data: data}
	} else if file, header, err := r.FormFile("pdf"); err == nil {
		defer file.Close()
		text, err := h.sources.FromPDF(r.Context(), file, header.Size)
		if err != nil {
			return models.GenerateRequest{}, "", fmt.Errorf("failed to extract PDF text: %w", err)
		}
		req.Text = text
	}

	if req.Text == "" && req.Audio == nil {
		return models.GenerateRequest{}, "", fmt.Errorf("request needs a text, audio or pdf source")
	}
	return req, r.FormValue("theme"), nil
}
