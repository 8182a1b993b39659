package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTTL is the time-to-live applied to successful fetches when the
// cache is built with a non-positive TTL.
const DefaultTTL = 1 * time.Hour

// FetchFunc produces the value for a key on cache miss or expiry.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache memoizes successful fetches in a Store with a fixed TTL.
// It is safe for concurrent use; concurrent misses on the same key may
// fetch more than once, which is wasteful but never incorrect.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// New creates a cache over the given store.
func New(store Store, ttl time.Duration) *Cache {
	if store == nil {
		panic("cache store cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		store:  store,
		ttl:    ttl,
		logger: log.With().Str("component", "cache").Logger(),
		now:    time.Now,
	}
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// GetOrFetch returns the cached value for key, fetching it when the key
// is absent or stale. Successful fetches are stored with
// expiresAt = now + ttl. Failed fetches are never stored, so every call
// after a failure retries the network.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, fetch FetchFunc) ([]byte, error) {
	entry, err := c.store.Get(ctx, key)
	if err == nil {
		c.logger.Debug().
			Str("key", key.String()).
			Dur("ttl", entry.TTL()).
			Msg("Cache hit")
		return entry.Data, nil
	}
	if err != ErrCacheMiss {
		// Store errors degrade to a direct fetch
		c.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get error")
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	entry = &Entry{
		Data:      data,
		ExpiresAt: now.Add(c.ttl),
		CachedAt:  now,
	}

	if err := c.store.Set(ctx, key, entry); err != nil {
		c.logger.Warn().Err(err).Str("key", key.String()).Msg("Failed to cache response")
	} else {
		c.logger.Debug().
			Str("key", key.String()).
			Dur("ttl", c.ttl).
			Msg("Cached response")
	}

	return data, nil
}

// Invalidate removes the entry for key, if present.
func (c *Cache) Invalidate(ctx context.Context, key Key) error {
	return c.store.Delete(ctx, key)
}

// SetClock sets the time source used for expiry stamps (for testing).
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}
