package enrich

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/localpages/directory-cli/internal/model"
)

// BatchOptions tunes EnrichMany.
type BatchOptions struct {
	// FetchLimit caps how many records may trigger a live provider fetch.
	// Records beyond it are reconciled from stored tiers only, which bounds
	// provider cost on large listing pages. Zero = 10.
	FetchLimit int
	// Concurrency bounds simultaneous enrichments. Zero = 5.
	Concurrency int
}

// EnrichMany enriches a listing's worth of records with bounded parallelism.
// The output is index-aligned with the input. One record's provider failure
// never affects another: Enrich itself degrades instead of erroring.
func (e *Enricher) EnrichMany(ctx context.Context, records []model.Business, opts BatchOptions) []model.EnrichedBusiness {
	if len(records) == 0 {
		return nil
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = 10
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}

	views := make([]model.EnrichedBusiness, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	var lives, fallbacks atomic.Int64

	for i, rec := range records {
		g.Go(func() error {
			if i >= opts.FetchLimit {
				now := e.now()
				views[i] = Reconcile(rec, nil, CacheValid(rec.LastEnrichedAt, now, e.cfg.CacheTTL))
				return nil
			}

			views[i] = e.Enrich(gctx, rec)
			if views[i].DataSource == model.DataSourceDatabase {
				fallbacks.Add(1)
			} else {
				lives.Add(1)
			}
			return nil
		})
	}

	// Workers only ever return nil; per-item failures are absorbed upstream.
	_ = g.Wait()

	zap.L().Debug("batch enrichment complete",
		zap.Int("records", len(records)),
		zap.Int64("enriched", lives.Load()),
		zap.Int64("fallback", fallbacks.Load()),
	)
	return views
}
