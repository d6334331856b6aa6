package enrich

import (
	"github.com/localpages/directory-cli/internal/model"
	"github.com/localpages/directory-cli/pkg/places"
)

// Reconcile merges a record's three field tiers into one view. Precedence per
// field, highest first:
//
//	cache valid:              cached → raw
//	cache stale, live given:  live → cached (stale beats nothing) → raw
//	cache stale, no live:     raw only
//
// Photos are the exception: migrated permanent URLs beat raw provider
// references no matter how stale the rest of the cache tier is, because
// permanent URLs never expire. The returned DataSource records which path ran.
func Reconcile(b model.Business, live *places.PlaceDetails, cacheValid bool) model.EnrichedBusiness {
	view := model.EnrichedBusiness{
		ID:          b.ID,
		Slug:        b.Slug,
		Name:        b.Name,
		Description: b.Description,
		Category:    b.Category,
		Address:     b.Address,
		City:        b.City,
		State:       b.State,
		PostalCode:  b.PostalCode,
		PriceLevel:  b.PriceLevel,
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		Verified:    b.Verified,
		Featured:    b.Featured,
		Email:       b.Email,
	}

	switch {
	case cacheValid:
		view.DataSource = model.DataSourceCached
		view.Phone = coalesce(b.CachedPhone, b.Phone)
		view.Website = coalesce(b.CachedWebsite, b.Website)
		view.Hours = b.CachedHours
		view.Reviews = b.CachedReviews
		view.MapsURL = b.MapsURL

	case live != nil:
		view.DataSource = model.DataSourceHybrid
		view.Phone = coalesce(strPtr(live.Phone), b.CachedPhone, b.Phone)
		view.Website = coalesce(strPtr(live.Website), b.CachedWebsite, b.Website)
		view.MapsURL = coalesce(strPtr(live.MapsURL), b.MapsURL)
		view.Hours = live.Hours
		if view.Hours == nil {
			view.Hours = b.CachedHours
		}
		view.Reviews = liveReviews(live)
		if view.Reviews == nil {
			view.Reviews = b.CachedReviews
		}
		if live.Rating > 0 {
			view.Rating = live.Rating
			view.ReviewCount = live.ReviewCount
		}

	default:
		view.DataSource = model.DataSourceDatabase
		view.Phone = b.Phone
		view.Website = b.Website
	}

	view.PhotoURLs = photoTier(b, live)
	return view
}

// photoTier applies the photo asymmetry: permanent URL list, then raw
// references, then (hybrid only) live references.
func photoTier(b model.Business, live *places.PlaceDetails) []string {
	if len(b.CachedImageURLs) > 0 {
		return b.CachedImageURLs
	}
	if len(b.Photos) > 0 {
		return b.Photos
	}
	if live != nil && len(live.PhotoRefs) > 0 {
		return live.PhotoRefs
	}
	return nil
}

func liveReviews(live *places.PlaceDetails) []model.Review {
	if len(live.Reviews) == 0 {
		return nil
	}
	reviews := make([]model.Review, 0, len(live.Reviews))
	for _, r := range live.Reviews {
		reviews = append(reviews, model.Review{
			Author:         r.Author,
			Rating:         r.Rating,
			Text:           r.Text,
			RelativeTime:   r.RelativeTime,
			Time:           r.Time,
			AuthorPhotoURL: r.AuthorPhotoURL,
		})
	}
	return reviews
}

// coalesce returns the first non-nil, non-empty pointer.
func coalesce(candidates ...*string) *string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return c
		}
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
