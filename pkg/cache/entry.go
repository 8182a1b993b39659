package cache

import (
	"time"
)

// Entry represents a cached collection API response. Entries are owned
// by the cache; callers only ever see the Data bytes.
type Entry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// ExpiresAt is when the entry becomes stale
	ExpiresAt time.Time `json:"expires_at"`

	// CachedAt is when the response was stored
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return e.expiredAt(time.Now())
}

// expiredAt reports staleness against the supplied instant.
func (e *Entry) expiredAt(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}
