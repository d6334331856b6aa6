package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/localpages/directory-cli/internal/model"
)

// BusinessFilter specifies criteria for listing businesses.
type BusinessFilter struct {
	Category     string     `json:"category,omitempty"`
	City         string     `json:"city,omitempty"`
	State        string     `json:"state,omitempty"`
	FeaturedOnly bool       `json:"featured_only,omitempty"`
	StaleAsOf    *time.Time `json:"stale_as_of,omitempty"` // never enriched, or enriched at/before this
	Limit        int        `json:"limit,omitempty"`
	Offset       int        `json:"offset,omitempty"`
}

// Store defines the persistence interface for the directory.
type Store interface {
	// Businesses
	UpsertBusiness(ctx context.Context, b *model.Business) (created bool, err error)
	GetBusinessByID(ctx context.Context, id string) (*model.Business, error)
	GetBusinessBySlug(ctx context.Context, slug string) (*model.Business, error)
	ListBusinesses(ctx context.Context, filter BusinessFilter) ([]model.Business, error)

	// Cache tier. The patch is applied atomically: cached fields and
	// last_enriched_at always reflect a single enrichment pass.
	UpdateBusinessCache(ctx context.Context, id string, patch model.CachePatch) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// rawRecord strips the cache tier before the record blob is persisted, so an
// upsert of fresher ingestion data can never clobber the cache column.
func rawRecord(b model.Business) model.Business {
	b.CachedImageURLs = nil
	b.CachedPhone = nil
	b.CachedWebsite = nil
	b.CachedHours = nil
	b.CachedReviews = nil
	b.MapsURL = nil
	b.LastEnrichedAt = nil
	return b
}

// overlayCache re-applies a stored cache patch onto a scanned record.
func overlayCache(b *model.Business, cachedJSON []byte, lastEnrichedAt *time.Time) error {
	if len(cachedJSON) == 0 {
		return nil
	}
	var patch model.CachePatch
	if err := json.Unmarshal(cachedJSON, &patch); err != nil {
		return eris.Wrap(err, "store: unmarshal cache patch")
	}
	b.CachedImageURLs = patch.ImageURLs
	b.CachedPhone = patch.Phone
	b.CachedWebsite = patch.Website
	b.CachedHours = patch.Hours
	b.CachedReviews = patch.Reviews
	b.MapsURL = patch.MapsURL
	b.LastEnrichedAt = lastEnrichedAt
	return nil
}
