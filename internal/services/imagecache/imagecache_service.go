// Package imagecache stores generated cover images in a Badger database
// keyed by a digest of their prompt. Regenerating a deck with unchanged
// prompts reuses cached images instead of re-billing the image model.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/prezo/internal/interfaces"
)

// CachedImage is one stored image keyed by its prompt digest.
type CachedImage struct {
	Digest    string    `badgerhold:"key"`
	Prompt    string    `json:"prompt"`
	DataURL   string    `json:"data_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Service implements interfaces.ImageCacheService on badgerhold.
type Service struct {
	store  *badgerhold.Store
	logger arbor.ILogger
	stopGC chan struct{}
}

// NewService opens (or creates) the cache database at path.
func NewService(path string, logger arbor.ILogger) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	// Cached images are multi-megabyte data URLs, so size the value log for
	// large values and keep compaction quiet.
	options.Options = badger.DefaultOptions(path).
		WithValueLogFileSize(256 << 20).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open image cache database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Image cache database opened")

	s := &Service{store: store, logger: logger, stopGC: make(chan struct{})}
	go s.gcLoop()
	return s, nil
}

func (s *Service) gcLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.GC()
		case <-s.stopGC:
			return
		}
	}
}

// GC reclaims value log space left behind by overwritten entries. Safe to
// call at any time; badger.ErrNoRewrite just means there was nothing to do.
func (s *Service) GC() {
	if err := s.store.Badger().RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		s.logger.Warn().Err(err).Msg("Image cache value log GC failed")
	}
}

// Get returns the cached data URL for the prompt, or "" and false.
func (s *Service) Get(ctx context.Context, prompt string) (string, bool) {
	var cached CachedImage
	err := s.store.Get(digest(prompt), &cached)
	if err != nil {
		if !errors.Is(err, badgerhold.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("Image cache lookup failed")
		}
		return "", false
	}
	return cached.DataURL, true
}

// Put stores the data URL for the prompt, overwriting any previous entry.
func (s *Service) Put(ctx context.Context, prompt string, dataURL string) error {
	if dataURL == "" {
		return fmt.Errorf("data URL is required")
	}

	cached := CachedImage{
		Digest:    digest(prompt),
		Prompt:    prompt,
		DataURL:   dataURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Upsert(cached.Digest, cached); err != nil {
		return fmt.Errorf("failed to store cached image: %w", err)
	}
	return nil
}

// Count returns the number of cached images.
func (s *Service) Count() (int, error) {
	count, err := s.store.Count(&CachedImage{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count cached images: %w", err)
	}
	return int(count), nil
}

// Close stops the GC loop and closes the database.
func (s *Service) Close() error {
	if s.stopGC != nil {
		close(s.stopGC)
		s.stopGC = nil
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func digest(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

var _ interfaces.ImageCacheService = (*Service)(nil)
