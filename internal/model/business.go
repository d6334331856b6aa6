package model

import "time"

// DataSource tags which tier supplied the fields of an enriched view.
type DataSource string

const (
	// DataSourceCached means the cache tier was valid and served the view.
	DataSourceCached DataSource = "cached"
	// DataSourceHybrid means the cache was stale and a live fetch filled in.
	DataSourceHybrid DataSource = "hybrid"
	// DataSourceDatabase means only raw ingestion fields were available.
	DataSourceDatabase DataSource = "database"
)

// Business is a directory record as persisted by the store. Raw ingestion
// fields are set once; the cached* fields are written only by the enrichment
// write-back and are either all absent or consistent with one enrichment pass.
type Business struct {
	ID      string  `json:"id"`
	Slug    string  `json:"slug"`
	PlaceID *string `json:"place_id,omitempty"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`

	Address    string   `json:"address"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode string   `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	Phone   *string `json:"phone,omitempty"`
	Website *string `json:"website,omitempty"`
	Email   *string `json:"email,omitempty"`

	PriceLevel  *int    `json:"price_level,omitempty"` // 1–4
	Rating      float64 `json:"rating"`                // 0 when unset
	ReviewCount int     `json:"review_count"`

	// Photos holds raw, provider-issued photo references (not URLs).
	// Immutable once set at ingestion; only CachedImageURLs is replaced.
	Photos []string `json:"photos,omitempty"`

	// Cache tier, populated only by the enrichment write-back.
	CachedImageURLs []string          `json:"cached_image_urls,omitempty"`
	CachedPhone     *string           `json:"cached_phone,omitempty"`
	CachedWebsite   *string           `json:"cached_website,omitempty"`
	CachedHours     map[string]string `json:"cached_hours,omitempty"` // weekday → hours text
	CachedReviews   []Review          `json:"cached_reviews,omitempty"`
	MapsURL         *string           `json:"maps_url,omitempty"`
	LastEnrichedAt  *time.Time        `json:"last_enriched_at,omitempty"`

	Verified bool `json:"verified"`
	Featured bool `json:"featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Review is a snapshot of a provider review, stored in the cache tier.
type Review struct {
	Author         string  `json:"author"`
	Rating         float64 `json:"rating"`
	Text           string  `json:"text,omitempty"`
	RelativeTime   string  `json:"relative_time,omitempty"`
	Time           int64   `json:"time,omitempty"` // epoch seconds
	AuthorPhotoURL string  `json:"author_photo_url,omitempty"`
}

// EnrichedBusiness is the reconciled per-request projection handed to callers.
// It is never persisted; DataSource records which precedence path produced it.
type EnrichedBusiness struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	PostalCode  string  `json:"postal_code,omitempty"`
	PriceLevel  *int    `json:"price_level,omitempty"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Verified    bool    `json:"verified"`
	Featured    bool    `json:"featured"`

	Phone   *string           `json:"phone,omitempty"`
	Website *string           `json:"website,omitempty"`
	Email   *string           `json:"email,omitempty"`
	Hours   map[string]string `json:"hours,omitempty"`
	Reviews []Review          `json:"reviews,omitempty"`
	MapsURL *string           `json:"maps_url,omitempty"`

	// PhotoURLs holds permanent URLs when migrated, else raw references.
	PhotoURLs []string `json:"photo_urls,omitempty"`

	DataSource DataSource `json:"data_source"`
}
