package met

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/cache"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/client"
)

// ObjectService fetches full metadata for single collection objects,
// memoizing responses per object identifier.
type ObjectService struct {
	client *client.Client
	cache  *cache.Cache
	logger zerolog.Logger
}

// NewObjectService creates an object detail service over the given client
// and cache.
func NewObjectService(apiClient *client.Client, responseCache *cache.Cache) *ObjectService {
	return &ObjectService{
		client: apiClient,
		cache:  responseCache,
		logger: log.With().Str("component", "object-service").Logger(),
	}
}

// Details fetches the artwork record for objectID. Remote fields that are
// absent or empty stay empty on the record; no placeholder values are
// written.
func (s *ObjectService) Details(ctx context.Context, objectID int) (*Artwork, error) {
	key := cache.Key{
		Kind:   "object",
		Params: map[string]string{"id": strconv.Itoa(objectID)},
	}

	data, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		return s.client.Get(ctx, fmt.Sprintf("/objects/%d", objectID), nil)
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("object_id", objectID).Msg("Object fetch failed")
		return nil, err
	}

	var artwork Artwork
	if err := json.Unmarshal(data, &artwork); err != nil {
		return nil, client.NewDecodeError("object", err)
	}

	// Results are associated with the requesting identifier
	if artwork.ObjectID == 0 {
		artwork.ObjectID = objectID
	}

	s.logger.Debug().
		Int("object_id", objectID).
		Str("title", artwork.DisplayTitle()).
		Msg("Object details loaded")

	return &artwork, nil
}
