// Package cache memoizes successful collection API responses keyed by
// their logical request parameters, with a fixed time-to-live.
//
// The cache has the following properties:
//
// - Deterministic key generation from request parameters
// - Fixed TTL stamped at store time; staleness is the only eviction policy
// - Failed fetches are never stored (every call after a failure retries)
// - Pluggable storage: in-process MemoryStore or shared RedisStore
// - Safe for concurrent lookups on the same key
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	c := cache.New(cache.NewMemoryStore(), time.Hour)
//
//	key := cache.Key{
//		Kind:   "search",
//		Params: map[string]string{"q": "flower", "hasImages": "true"},
//	}
//
//	data, err := c.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
//		return apiClient.Get(ctx, "/search", query)
//	})
//
// # Shared Cache
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//	c := cache.New(cache.NewRedisStore(redisClient), time.Hour)
//
// # Metrics
//
// The cache exports Prometheus metrics:
//
//   - met_cache_hits_total{layer} - Cache hits by layer (memory, redis)
//   - met_cache_misses_total - Cache misses
//   - met_cache_size_bytes{layer} - Bytes written to the cache
//   - met_cache_errors_total{operation} - Cache operation errors
package cache
