package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/localpages/directory-cli/internal/model"
	"github.com/localpages/directory-cli/pkg/places"
)

// Store is the slice of the persistence layer the enricher consumes.
type Store interface {
	GetBusinessByID(ctx context.Context, id string) (*model.Business, error)
	GetBusinessBySlug(ctx context.Context, slug string) (*model.Business, error)
	UpdateBusinessCache(ctx context.Context, id string, patch model.CachePatch) error
}

// Config tunes the enricher's policy knobs.
type Config struct {
	// CacheTTL is how long an enrichment pass stays fresh. Zero = 7 days.
	CacheTTL time.Duration
	// PhotoLimit caps photos migrated per write-back. Zero = 5.
	PhotoLimit int
	// WritebackTimeout bounds one detached write-back. Zero = 30s.
	WritebackTimeout time.Duration
}

// Enricher serves reconciled business views, fetching live provider data when
// the cache tier is stale and repairing the cache in the background. Nothing
// on the read path ever returns an error to the caller: every failure mode
// degrades to the best tier available.
type Enricher struct {
	store  Store
	places places.Client
	photos Migrator
	cfg    Config

	now func() time.Time

	// wg tracks detached write-backs so shutdown and tests can drain them.
	// Their results are otherwise not observable to requesters.
	wg sync.WaitGroup
}

// New creates an Enricher. photos may be nil, which disables photo migration
// on write-back (cache fields are still persisted).
func New(st Store, pc places.Client, photos Migrator, cfg Config) *Enricher {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.PhotoLimit <= 0 {
		cfg.PhotoLimit = DefaultPhotoLimit
	}
	if cfg.WritebackTimeout <= 0 {
		cfg.WritebackTimeout = 30 * time.Second
	}
	return &Enricher{
		store:  st,
		places: pc,
		photos: photos,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Enrich returns the reconciled view for one record.
//
// Fresh cache serves immediately. A stale record with a place id triggers one
// awaited live fetch; on success the view carries the live data and a
// detached write-back persists it. A missing place id or failed fetch serves
// stored fields. Two requests racing on the same stale record may both fetch
// and both write back; last write wins, which is acceptable since both derive
// from the same provider.
func (e *Enricher) Enrich(ctx context.Context, b model.Business) model.EnrichedBusiness {
	now := e.now()
	if CacheValid(b.LastEnrichedAt, now, e.cfg.CacheTTL) {
		return Reconcile(b, nil, true)
	}

	if b.PlaceID == nil || *b.PlaceID == "" {
		return Reconcile(b, nil, false)
	}

	live := e.fetchDetails(ctx, b.ID, *b.PlaceID)
	if live == nil {
		return Reconcile(b, nil, false)
	}

	view := Reconcile(b, live, false)
	e.scheduleWriteback(b, live)
	return view
}

// EnrichByID loads a record and enriches it. The only error is a failed
// lookup; enrichment itself cannot fail.
func (e *Enricher) EnrichByID(ctx context.Context, id string) (*model.EnrichedBusiness, error) {
	b, err := e.store.GetBusinessByID(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: get business %s", id)
	}
	view := e.Enrich(ctx, *b)
	return &view, nil
}

// EnrichBySlug loads a record by slug and enriches it.
func (e *Enricher) EnrichBySlug(ctx context.Context, slug string) (*model.EnrichedBusiness, error) {
	b, err := e.store.GetBusinessBySlug(ctx, slug)
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: get business by slug %s", slug)
	}
	view := e.Enrich(ctx, *b)
	return &view, nil
}

// Wait blocks until all detached write-backs have finished.
func (e *Enricher) Wait() {
	e.wg.Wait()
}

// fetchDetails is the no-throw provider boundary: one attempt, any failure
// logged and collapsed to absence so the caller falls back to stored tiers.
func (e *Enricher) fetchDetails(ctx context.Context, businessID, placeID string) *places.PlaceDetails {
	live, err := e.places.Details(ctx, placeID)
	if err != nil {
		zap.L().Warn("live place fetch failed",
			zap.String("business_id", businessID),
			zap.String("place_id", placeID),
			zap.Error(err),
		)
		return nil
	}
	return live
}

// scheduleWriteback persists freshly-fetched data as a detached task. The
// response already left with the in-memory live data; whether this write
// succeeds only affects how the next request sources its fields. Failures are
// logged and swallowed; the next stale read retries organically.
func (e *Enricher) scheduleWriteback(b model.Business, live *places.PlaceDetails) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.WritebackTimeout)
		defer cancel()

		patch := model.CachePatch{
			Phone:      strPtr(live.Phone),
			Website:    strPtr(live.Website),
			Hours:      live.Hours,
			Reviews:    liveReviews(live),
			MapsURL:    strPtr(live.MapsURL),
			Rating:     live.Rating,
			ReviewCnt:  live.ReviewCount,
			EnrichedAt: e.now().UTC(),
		}

		if e.photos != nil && len(live.PhotoRefs) > 0 {
			patch.ImageURLs = e.photos.Migrate(ctx, live.PhotoRefs, b.ID, e.cfg.PhotoLimit)
		}
		if len(patch.ImageURLs) == 0 {
			// Keep previously migrated URLs; permanent links don't expire.
			patch.ImageURLs = b.CachedImageURLs
		}

		if err := e.store.UpdateBusinessCache(ctx, b.ID, patch); err != nil {
			zap.L().Warn("cache write-back failed",
				zap.String("business_id", b.ID),
				zap.Error(err),
			)
			return
		}
		zap.L().Debug("cache write-back complete",
			zap.String("business_id", b.ID),
			zap.Int("photos_migrated", len(patch.ImageURLs)),
		)
	}()
}
