package generator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/common"
	"github.com/ternarybob/prezo/internal/models"
)

type fakeProvider struct {
	deck *models.RawDeck
	err  error
}

func (f *fakeProvider) GenerateDeck(ctx context.Context, req models.GenerateRequest) (*models.RawDeck, error) {
	return f.deck, f.err
}
func (f *fakeProvider) Name() string                        { return "fake" }
func (f *fakeProvider) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeProvider) Close() error                        { return nil }

type fakeImageGen struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakeImageGen) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.mu.Unlock()

	if f.fail[prompt] {
		return "", errors.New("image model unavailable")
	}
	return "data:image/png;base64," + prompt, nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string]string{}} }

func (f *fakeCache) Get(ctx context.Context, prompt string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.store[prompt]
	return v, ok
}

func (f *fakeCache) Put(ctx context.Context, prompt, dataURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[prompt] = dataURL
	return nil
}

func (f *fakeCache) Count() (int, error) { return len(f.store), nil }
func (f *fakeCache) Close() error        { return nil }

func testConfig() *common.Config {
	config := common.DefaultConfig()
	config.Images.RateLimit = "1ms"
	return config
}

func rawDeckFixture() *models.RawDeck {
	return &models.RawDeck{Slides: []models.RawSlide{
		{Title: "Cover", Content: models.FlexStrings{"sub"}, ImagePrompt: "sunrise", Layout: "title"},
		{Title: "Points", Content: models.FlexStrings{"a", "b"}, ImagePrompt: "desk", Layout: "default"},
		{Title: "Numbers", Content: models.FlexStrings{`[{"label":"Q1","value":1}]`}, Layout: "bar-chart"},
		{Title: "Quote", Content: models.FlexStrings{"words", "someone"}, ImagePrompt: "stage", Layout: "quote"},
	}}
}

func TestGenerateSettlesAllImages(t *testing.T) {
	gen := &fakeImageGen{fail: map[string]bool{"desk": true}}
	svc := NewService(testConfig(), &fakeProvider{deck: rawDeckFixture()}, gen, newFakeCache(), nil, arbor.Logger())

	deck, err := svc.Generate(context.Background(), models.GenerateRequest{Text: "topic"})
	require.NoError(t, err)
	require.Len(t, deck.Slides, 4)

	// one failed image never fails the deck or the other slides
	assert.NotEmpty(t, deck.Slides[0].ImageURL)
	assert.Empty(t, deck.Slides[1].ImageURL)
	assert.NotEmpty(t, deck.Slides[3].ImageURL)

	// chart slides are skipped entirely
	assert.Empty(t, deck.Slides[2].ImageURL)
	assert.NotContains(t, gen.calls, "")
	assert.Len(t, gen.calls, 3)
}

func TestGenerateUsesImageCache(t *testing.T) {
	cache := newFakeCache()
	cache.store["sunrise"] = "data:image/png;base64,cached"
	gen := &fakeImageGen{}

	svc := NewService(testConfig(), &fakeProvider{deck: rawDeckFixture()}, gen, cache, nil, arbor.Logger())
	deck, err := svc.Generate(context.Background(), models.GenerateRequest{Text: "topic"})
	require.NoError(t, err)

	assert.Equal(t, "data:image/png;base64,cached", deck.Slides[0].ImageURL)
	assert.NotContains(t, gen.calls, "sunrise")
	// fresh results were written back
	_, ok := cache.store["desk"]
	assert.True(t, ok)
}

func TestGenerateWithoutImageGenerator(t *testing.T) {
	svc := NewService(testConfig(), &fakeProvider{deck: rawDeckFixture()}, nil, nil, nil, arbor.Logger())

	deck, err := svc.Generate(context.Background(), models.GenerateRequest{Text: "topic"})
	require.NoError(t, err)
	for _, s := range deck.Slides {
		assert.Empty(t, s.ImageURL)
	}
}

func TestGenerateProviderError(t *testing.T) {
	svc := NewService(testConfig(), &fakeProvider{err: errors.New("quota exceeded")}, nil, nil, nil, arbor.Logger())

	_, err := svc.Generate(context.Background(), models.GenerateRequest{Text: "topic"})
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestGenerateEmptyDeck(t *testing.T) {
	svc := NewService(testConfig(), &fakeProvider{deck: &models.RawDeck{}}, nil, nil, nil, arbor.Logger())

	_, err := svc.Generate(context.Background(), models.GenerateRequest{Text: "topic"})
	assert.ErrorIs(t, err, models.ErrEmptyDeck)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"slides":[]}`, stripFences("```json\n{\"slides\":[]}\n```"))
	assert.Equal(t, `{"slides":[]}`, stripFences("```\n{\"slides\":[]}\n```"))
	assert.Equal(t, `{"slides":[]}`, stripFences(`{"slides":[]}`))
}
