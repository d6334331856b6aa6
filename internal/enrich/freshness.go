// Package enrich reconciles stored business records with live place-provider
// data: it decides when the cached enrichment tier is still trustworthy,
// merges the raw/cached/live field tiers by explicit precedence, and repairs
// stale caches in the background without delaying the read path.
package enrich

import "time"

// DefaultCacheTTL is how long a cache tier stays usable after an enrichment
// pass. A policy knob, not a correctness constant.
const DefaultCacheTTL = 7 * 24 * time.Hour

// CacheValid reports whether the cache tier written at lastEnrichedAt is
// still usable at now. A nil timestamp means the record was never enriched.
func CacheValid(lastEnrichedAt *time.Time, now time.Time, ttl time.Duration) bool {
	if lastEnrichedAt == nil {
		return false
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return now.Sub(*lastEnrichedAt) < ttl
}
