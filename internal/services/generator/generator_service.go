// Package generator orchestrates deck generation: one structured call to a
// generative model, normalization of the untrusted response, and a
// concurrent settle-all fan-out for cover images.
package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

// Service implements interfaces.GeneratorService.
type Service struct {
	provider  interfaces.DeckProvider
	imageGen  interfaces.ImageGenerator
	cache     interfaces.ImageCacheService
	events    interfaces.EventService
	limiter   *rate.Limiter
	maxSlides int
	logger    arbor.ILogger
}

// NewService wires the generator. imageGen and cache may be nil: decks then
// generate without cover images (the provider cannot make them) or without
// reuse across regenerations.
func NewService(
	config *common.Config,
	provider interfaces.DeckProvider,
	imageGen interfaces.ImageGenerator,
	cache interfaces.ImageCacheService,
	events interfaces.EventService,
	logger arbor.ILogger,
) *Service {
	interval, err := time.ParseDuration(config.Images.RateLimit)
	if err != nil || interval <= 0 {
		interval = time.Second
	}

	return &Service{
		provider:  provider,
		imageGen:  imageGen,
		cache:     cache,
		events:    events,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		maxSlides: config.Generator.MaxSlides,
		logger:    logger,
	}
}

// Generate produces a fully normalized deck from text or audio input.
func (s *Service) Generate(ctx context.Context, req models.GenerateRequest) (*models.Deck, error) {
	s.publish(ctx, interfaces.EventGenerationStarted, map[string]any{"provider": s.provider.Name()})

	raw, err := s.provider.GenerateDeck(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("deck generation failed: %w", err)
	}

	deck := normalizeDeck("", raw, s.maxSlides)
	if len(deck.Slides) == 0 {
		return nil, models.ErrEmptyDeck
	}

	s.publish(ctx, interfaces.EventDeckGenerated, map[string]any{"slides": len(deck.Slides)})

	s.fanOutImages(ctx, deck)

	s.publish(ctx, interfaces.EventGenerationComplete, map[string]any{
		"slides": len(deck.Slides),
		"title":  deck.Title,
	})

	return deck, nil
}

// fanOutImages generates cover images for every slide with a prompt,
// concurrently, and waits for all attempts to settle. A failed or missing
// image leaves its slide's URL empty and never fails the deck.
func (s *Service) fanOutImages(ctx context.Context, deck *models.Deck) {
	if s.imageGen == nil {
		return
	}

	type target struct {
		index int
		slide *models.Slide
	}
	var targets []target
	for i, slide := range deck.Slides {
		if slide.ImagePrompt != "" && !slide.Layout.Infographic() {
			targets = append(targets, target{index: i, slide: slide})
		}
	}
	if len(targets) == 0 {
		return
	}

	s.publish(ctx, interfaces.EventImagesStarted, map[string]any{"count": len(targets)})

	var wg sync.WaitGroup
	for _, tgt := range targets {
		wg.Add(1)
		go func(tgt target) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error().
						Str("slide_id", tgt.slide.ID).
						Msgf("Panic during image generation: %v", r)
				}
			}()

			dataURL, err := s.generateOne(ctx, tgt.slide.ImagePrompt)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("slide_id", tgt.slide.ID).
					Int("index", tgt.index).
					Msg("Image generation failed, slide keeps empty image")
				s.publish(ctx, interfaces.EventImageFailed, map[string]any{
					"slide_id": tgt.slide.ID,
					"index":    tgt.index,
				})
				return
			}

			// each goroutine owns exactly its slide, matched by index
			deck.Slides[tgt.index].ImageURL = dataURL
			s.publish(ctx, interfaces.EventImageReady, map[string]any{
				"slide_id": tgt.slide.ID,
				"index":    tgt.index,
			})
		}(tgt)
	}
	wg.Wait()
}

// generateOne serves an image from cache or generates and caches it, pacing
// actual model calls through the rate limiter.
func (s *Service) generateOne(ctx context.Context, prompt string) (string, error) {
	if s.cache != nil {
		if dataURL, ok := s.cache.Get(ctx, prompt); ok {
			return dataURL, nil
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("image rate limit wait: %w", err)
	}

	dataURL, err := s.imageGen.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, prompt, dataURL); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache generated image")
		}
	}
	return dataURL, nil
}

func (s *Service) publish(ctx context.Context, eventType interfaces.EventType, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to publish event")
	}
}

// Provider returns the active provider name.
func (s *Service) Provider() string {
	return s.provider.Name()
}

// HealthCheck verifies the active provider is usable.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.provider.HealthCheck(ctx)
}

// Close releases provider resources.
func (s *Service) Close() error {
	return s.provider.Close()
}

var _ interfaces.GeneratorService = (*Service)(nil)
