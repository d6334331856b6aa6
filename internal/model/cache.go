package model

import "time"

// CachePatch is one enrichment pass's write-back payload. All fields are
// applied together so the cache tier never reflects a partial pass.
type CachePatch struct {
	ImageURLs  []string          `json:"image_urls,omitempty"`
	Phone      *string           `json:"phone,omitempty"`
	Website    *string           `json:"website,omitempty"`
	Hours      map[string]string `json:"hours,omitempty"`
	Reviews    []Review          `json:"reviews,omitempty"`
	MapsURL    *string           `json:"maps_url,omitempty"`
	Rating     float64           `json:"rating,omitempty"`
	ReviewCnt  int               `json:"review_count,omitempty"`
	EnrichedAt time.Time         `json:"enriched_at"`
}
