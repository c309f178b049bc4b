// Package imagesearch queries the Pexels photo API for candidate images the
// user can assign to a slide in place of a generated one.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/httpclient"
	"github.com/ternarybob/prezo/internal/interfaces"
	"github.com/ternarybob/prezo/internal/models"
)

const defaultBaseURL = "https://api.pexels.com/v1"

// Service implements interfaces.ImageSearchService against the Pexels API.
type Service struct {
	apiKey  string
	perPage int
	baseURL string
	client  *http.Client
	logger  arbor.ILogger
}

// pexelsPhoto mirrors one photo in the Pexels search response.
type pexelsPhoto struct {
	ID  int    `json:"id"`
	Alt string `json:"alt"`
	Src struct {
		Large2x string `json:"large2x"`
		Medium  string `json:"medium"`
	} `json:"src"`
}

type pexelsResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

// NewService creates a Pexels search service. Calls are rate limited client
// side to stay under the free-tier quota.
func NewService(apiKey string, perPage int, logger arbor.ILogger) *Service {
	if perPage <= 0 {
		perPage = 24
	}
	return &Service{
		apiKey:  apiKey,
		perPage: perPage,
		baseURL: defaultBaseURL,
		client:  httpclient.NewRateLimitedClient(20*time.Second, 500*time.Millisecond, 2),
		logger:  logger,
	}
}

// Search returns one page of photo candidates for the query.
func (s *Service) Search(ctx context.Context, query string, page int) ([]models.ImageCandidate, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("image search is not configured: missing API key")
	}
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(s.perPage))
	params.Set("page", strconv.Itoa(page))

	resp, err := httpclient.Get(ctx, s.client, s.baseURL+"/search?"+params.Encode(), map[string]string{
		"Authorization": s.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("image search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn().
			Int("status", resp.StatusCode).
			Str("query", query).
			Msg("Image search returned non-200 status")
		return nil, fmt.Errorf("image search failed with status %d", resp.StatusCode)
	}

	var parsed pexelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse image search response: %w", err)
	}

	candidates := make([]models.ImageCandidate, 0, len(parsed.Photos))
	for _, photo := range parsed.Photos {
		candidates = append(candidates, models.ImageCandidate{
			ID:           strconv.Itoa(photo.ID),
			ThumbnailURL: photo.Src.Medium,
			FullURL:      photo.Src.Large2x,
			Alt:          photo.Alt,
		})
	}

	s.logger.Debug().
		Str("query", query).
		Int("page", page).
		Int("results", len(candidates)).
		Msg("Image search completed")

	return candidates, nil
}

var _ interfaces.ImageSearchService = (*Service)(nil)
