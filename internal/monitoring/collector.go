package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/localpages/directory-cli/internal/enrich"
	"github.com/localpages/directory-cli/internal/store"
)

// FreshnessSnapshot holds a point-in-time view of cache freshness across
// the directory.
type FreshnessSnapshot struct {
	Total         int     `json:"total"`
	Fresh         int     `json:"fresh"`
	Stale         int     `json:"stale"`
	NeverEnriched int     `json:"never_enriched"`
	StaleRate     float64 `json:"stale_rate"` // (stale + never enriched) / total

	Featured  int `json:"featured"`
	Linked    int `json:"linked"` // records with a provider place id
	WithCache int `json:"with_cache"`

	CacheTTL    string    `json:"cache_ttl"`
	CollectedAt time.Time `json:"collected_at"`
}

// Collector gathers freshness metrics from the store.
type Collector struct {
	store    store.Store
	cacheTTL time.Duration
	now      func() time.Time
}

// NewCollector creates a metrics collector. A zero ttl falls back to the
// default cache TTL.
func NewCollector(st store.Store, ttl time.Duration) *Collector {
	if ttl <= 0 {
		ttl = enrich.DefaultCacheTTL
	}
	return &Collector{store: st, cacheTTL: ttl, now: time.Now}
}

// Collect walks the directory and buckets every record by freshness.
func (c *Collector) Collect(ctx context.Context) (*FreshnessSnapshot, error) {
	now := c.now().UTC()
	snap := &FreshnessSnapshot{
		CacheTTL:    c.cacheTTL.String(),
		CollectedAt: now,
	}

	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		page, err := c.store.ListBusinesses(ctx, store.BusinessFilter{
			Limit:  pageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, eris.Wrap(err, "monitoring: list businesses")
		}

		for _, b := range page {
			snap.Total++
			switch {
			case b.LastEnrichedAt == nil:
				snap.NeverEnriched++
			case enrich.CacheValid(b.LastEnrichedAt, now, c.cacheTTL):
				snap.Fresh++
			default:
				snap.Stale++
			}
			if b.Featured {
				snap.Featured++
			}
			if b.PlaceID != nil {
				snap.Linked++
			}
			if b.LastEnrichedAt != nil {
				snap.WithCache++
			}
		}

		if len(page) < pageSize {
			break
		}
	}

	if snap.Total > 0 {
		snap.StaleRate = float64(snap.Stale+snap.NeverEnriched) / float64(snap.Total)
	}
	return snap, nil
}
