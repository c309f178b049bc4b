package generator

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/interfaces"
)

// NewProvider builds the configured deck provider. The second return value
// is the provider's image generator, or nil when the provider cannot
// generate images.
func NewProvider(ctx context.Context, config *common.Config, logger arbor.ILogger) (interfaces.DeckProvider, interfaces.ImageGenerator, error) {
	switch config.Generator.Provider {
	case "gemini", "":
		provider, err := NewGeminiProvider(ctx, config, logger)
		if err != nil {
			return nil, nil, err
		}
		return provider, provider, nil

	case "claude":
		provider, err := NewClaudeProvider(config, logger)
		if err != nil {
			return nil, nil, err
		}
		return provider, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown generator provider: %s", config.Generator.Provider)
	}
}
