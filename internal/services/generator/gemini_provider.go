package generator

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

// GeminiProvider generates decks and cover images through the Gemini API.
// It is the only provider that also implements interfaces.ImageGenerator.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	imageModel  string
	aspectRatio string
	temperature float32
	timeout     time.Duration
	logger      arbor.ILogger
}

// NewGeminiProvider creates a Gemini-backed provider from config.
func NewGeminiProvider(ctx context.Context, config *common.Config, logger arbor.ILogger) (*GeminiProvider, error) {
	apiKey := config.Generator.GoogleAPIKey
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required for the gemini provider")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	timeout, err := time.ParseDuration(config.Generator.Timeout)
	if err != nil {
		timeout = 5 * time.Minute
	}

	return &GeminiProvider{
		client:      client,
		model:       config.Generator.GeminiModel,
		imageModel:  config.Images.Model,
		aspectRatio: config.Images.AspectRatio,
		temperature: config.Generator.Temperature,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// GenerateDeck produces a raw deck via schema-constrained JSON output.
func (p *GeminiProvider) GenerateDeck(ctx context.Context, req models.GenerateRequest) (*models.RawDeck, error) {
	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	contents, err := buildContents(req)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(p.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   deckSchema,
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(genCtx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	var deck models.RawDeck
	if err := json.Unmarshal([]byte(responseText), &deck); err != nil {
		return nil, fmt.Errorf("failed to parse deck response: %w", err)
	}

	p.logger.Info().
		Str("model", p.model).
		Int("slides", len(deck.Slides)).
		Str("duration", time.Since(start).String()).
		Msg("Deck generated")

	return &deck, nil
}

// buildContents assembles the request contents, attaching inline audio when
// the request carries a recording instead of text.
func buildContents(req models.GenerateRequest) ([]*genai.Content, error) {
	if req.Audio != nil {
		if len(req.Audio.Data) == 0 {
			return nil, fmt.Errorf("audio payload is empty")
		}
		prompt := transcriptionPreamble + buildPrompt("(see attached audio)", req.SlideCount)
		parts := []*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(req.Audio.Data, req.Audio.MIMEType),
		}
		return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
	}

	if req.Text == "" {
		return nil, fmt.Errorf("generation input is empty")
	}
	prompt := buildPrompt(req.Text, req.SlideCount)
	return []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil
}

// GenerateImage produces one cover image and returns it as a PNG data URL.
func (p *GeminiProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("image prompt is empty")
	}

	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.Models.GenerateImages(genCtx, p.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    p.aspectRatio,
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", fmt.Errorf("no image in response")
	}

	encoded := base64.StdEncoding.EncodeToString(resp.GeneratedImages[0].Image.ImageBytes)
	return "data:image/png;base64," + encoded, nil
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// HealthCheck verifies the provider is configured.
func (p *GeminiProvider) HealthCheck(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("gemini client not initialized")
	}
	return nil
}

// Close releases provider resources.
func (p *GeminiProvider) Close() error {
	return nil
}

var (
	_ interfaces.DeckProvider   = (*GeminiProvider)(nil)
	_ interfaces.ImageGenerator = (*GeminiProvider)(nil)
)
