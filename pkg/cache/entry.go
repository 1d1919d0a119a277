// Package cache provides BDL response caching with a Redis backend.
// BDL serves statistical aggregates that change on publication cycles
// measured in months, so entries carry a plain configured TTL; the API
// itself sends no cache headers to honor.
package cache

import (
	"time"
)

// Entry represents a cached BDL response body.
type Entry struct {
	// Data is the raw JSON response body.
	Data []byte `json:"data"`

	// CachedAt is when the response was stored.
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
