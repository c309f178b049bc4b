package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

// ClaudeProvider generates decks through the Anthropic API. Claude has no
// schema-constrained output mode, so the provider asks for bare JSON and
// strips markdown fences from the reply. It does not generate images or
// accept audio input.
type ClaudeProvider struct {
	client      anthropic.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      arbor.ILogger
}

// NewClaudeProvider creates an Anthropic-backed provider from config.
func NewClaudeProvider(config *common.Config, logger arbor.ILogger) (*ClaudeProvider, error) {
	apiKey := config.Generator.AnthropicAPIKey
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required for the claude provider")
	}

	timeout, err := time.ParseDuration(config.Generator.Timeout)
	if err != nil {
		timeout = 5 * time.Minute
	}

	return &ClaudeProvider{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       config.Generator.ClaudeModel,
		temperature: config.Generator.Temperature,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// GenerateDeck produces a raw deck from text input.
func (p *ClaudeProvider) GenerateDeck(ctx context.Context, req models.GenerateRequest) (*models.RawDeck, error) {
	if req.Audio != nil {
		return nil, fmt.Errorf("the claude provider does not support audio input")
	}
	if req.Text == "" {
		return nil, fmt.Errorf("generation input is empty")
	}

	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt := buildPrompt(req.Text, req.SlideCount) +
		"\n\nRespond with a single JSON object of the form {\"slides\": [...]} and nothing else. No markdown, no commentary."

	start := time.Now()
	message, err := p.client.Messages.New(genCtx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   8192,
		Temperature: anthropic.Float(float64(p.temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	responseText := stripFences(sb.String())
	if responseText == "" {
		return nil, fmt.Errorf("empty response from Anthropic API")
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

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Name returns the provider identifier.
func (p *ClaudeProvider) Name() string {
	return "claude"
}

// HealthCheck verifies the provider is configured.
func (p *ClaudeProvider) HealthCheck(ctx context.Context) error {
	if p.model == "" {
		return fmt.Errorf("claude model is not configured")
	}
	return nil
}

// Close releases provider resources.
func (p *ClaudeProvider) Close() error {
	return nil
}

var _ interfaces.DeckProvider = (*ClaudeProvider)(nil)
