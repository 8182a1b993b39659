package met

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/cache"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/client"
)

// SearchService executes keyword queries against the collection search
// endpoint, memoizing responses per (query, hasImages) pair.
type SearchService struct {
	client *client.Client
	cache  *cache.Cache
	logger zerolog.Logger
}

// NewSearchService creates a search service over the given client and cache.
func NewSearchService(apiClient *client.Client, responseCache *cache.Cache) *SearchService {
	return &SearchService{
		client: apiClient,
		cache:  responseCache,
		logger: log.With().Str("component", "search-service").Logger(),
	}
}

// Search runs a keyword query and returns the total plus the object
// identifiers in the order the API returned them; the order is never
// changed here. A remote total of zero yields an empty result, not an
// error.
func (s *SearchService) Search(ctx context.Context, query string, onlyWithImages bool) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	hasImages := strconv.FormatBool(onlyWithImages)

	key := cache.Key{
		Kind: "search",
		Params: map[string]string{
			"q":         query,
			"hasImages": hasImages,
		},
	}

	data, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		params := url.Values{}
		params.Set("q", query)
		params.Set("hasImages", hasImages)
		return s.client.Get(ctx, "/search", params)
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("Search failed")
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, client.NewDecodeError("search", err)
	}

	// Absent objectIDs when total is 0
	if result.ObjectIDs == nil {
		result.ObjectIDs = []int{}
	}

	s.logger.Info().
		Str("query", query).
		Bool("has_images", onlyWithImages).
		Int("total", result.Total).
		Int("ids", len(result.ObjectIDs)).
		Msg("Search complete")

	return &result, nil
}
