package ingest

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/localpages/directory-cli/internal/model"
	"github.com/localpages/directory-cli/internal/resilience"
	"github.com/localpages/directory-cli/internal/store"
	"github.com/localpages/directory-cli/pkg/places"
)

// Options tunes ingestion behavior.
type Options struct {
	// FeaturedMinRating and FeaturedMinReviews gate the featured flag:
	// both thresholds must be met at ingestion time.
	FeaturedMinRating  float64
	FeaturedMinReviews int

	// Retry overrides the retry policy for provider and store calls.
	Retry resilience.RetryConfig
}

// Summary reports what one ingestion run did.
type Summary struct {
	Searches int `json:"searches"`
	Found    int `json:"found"`
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// Ingestor turns provider search results into directory records.
type Ingestor struct {
	store  store.Store
	places places.Client
	opts   Options
}

// New creates an Ingestor.
func New(st store.Store, pc places.Client, opts Options) *Ingestor {
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = resilience.DefaultRetryConfig()
	}
	return &Ingestor{store: st, places: pc, opts: opts}
}

// Run executes every search in the plan. A failed search or upsert is
// counted and logged but does not stop the run; the error return covers
// only context cancellation.
func (in *Ingestor) Run(ctx context.Context, plan *Plan) (Summary, error) {
	var sum Summary
	for _, s := range plan.Searches {
		if err := ctx.Err(); err != nil {
			return sum, eris.Wrap(err, "ingest: run cancelled")
		}
		sum.Searches++
		in.runSearch(ctx, s, &sum)
	}

	zap.L().Info("ingestion run complete",
		zap.Int("searches", sum.Searches),
		zap.Int("found", sum.Found),
		zap.Int("created", sum.Created),
		zap.Int("updated", sum.Updated),
		zap.Int("failed", sum.Failed),
	)
	return sum, nil
}

func (in *Ingestor) runSearch(ctx context.Context, s SeedSearch, sum *Summary) {
	retry := in.opts.Retry
	retry.OnRetry = resilience.RetryLogger("places", "search_text")

	results, err := resilience.DoVal(ctx, retry, func(ctx context.Context) ([]places.PlaceSummary, error) {
		return in.places.SearchText(ctx, places.SearchRequest{
			Query:      s.Query,
			Latitude:   s.Latitude,
			Longitude:  s.Longitude,
			RadiusM:    s.RadiusM,
			MaxResults: s.MaxResults,
		})
	})
	if err != nil {
		zap.L().Warn("search failed", zap.String("query", s.Query), zap.Error(err))
		sum.Failed++
		return
	}

	for _, p := range results {
		sum.Found++
		b := in.businessFromSummary(s, p)

		upsertRetry := in.opts.Retry
		upsertRetry.OnRetry = resilience.RetryLogger("store", "upsert_business")
		created, err := resilience.DoVal(ctx, upsertRetry, func(ctx context.Context) (bool, error) {
			return in.store.UpsertBusiness(ctx, b)
		})
		if err != nil {
			zap.L().Warn("upsert failed",
				zap.String("slug", b.Slug),
				zap.String("name", b.Name),
				zap.Error(err),
			)
			sum.Failed++
			continue
		}
		if created {
			sum.Created++
		} else {
			sum.Updated++
		}
	}
}

func (in *Ingestor) businessFromSummary(s SeedSearch, p places.PlaceSummary) *model.Business {
	placeID := p.ID
	b := &model.Business{
		ID:          uuid.NewString(),
		Slug:        Slugify(p.Name, s.City),
		PlaceID:     &placeID,
		Name:        p.Name,
		Category:    s.Category,
		Address:     p.Address,
		City:        s.City,
		State:       s.State,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		PriceLevel:  p.PriceLevel,
		Photos:      p.PhotoRefs,
		Verified:    true, // provider-sourced records are auto-trusted
	}
	if p.Latitude != 0 || p.Longitude != 0 {
		lat, lng := p.Latitude, p.Longitude
		b.Latitude = &lat
		b.Longitude = &lng
	}
	b.Featured = p.Rating >= in.opts.FeaturedMinRating &&
		p.ReviewCount >= in.opts.FeaturedMinReviews &&
		in.opts.FeaturedMinRating > 0
	return b
}
