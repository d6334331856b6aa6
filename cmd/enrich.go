package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localpages/directory-cli/internal/cost"
	"github.com/localpages/directory-cli/internal/enrich"
	"github.com/localpages/directory-cli/internal/model"
	"github.com/localpages/directory-cli/internal/store"
)

var (
	enrichLimit  int
	enrichSlug   string
	enrichDryRun bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Refresh stale enrichment caches from the provider",
	Long:  "Walks records whose cache has expired (or was never written), fetches live provider data, and waits for the cache write-backs to land.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if enrichSlug != "" {
			view, err := env.Enricher.EnrichBySlug(ctx, enrichSlug)
			if err != nil {
				return err
			}
			env.Enricher.Wait()
			fmt.Printf("%s: %s\n", view.Slug, view.DataSource)
			return nil
		}

		ttl := time.Duration(cfg.Enrich.CacheTTLDays) * 24 * time.Hour
		if ttl <= 0 {
			ttl = enrich.DefaultCacheTTL
		}
		cutoff := time.Now().UTC().Add(-ttl)

		stale, err := env.Store.ListBusinesses(ctx, store.BusinessFilter{
			StaleAsOf: &cutoff,
			Limit:     enrichLimit,
		})
		if err != nil {
			return err
		}

		if enrichDryRun {
			calc := cost.NewCalculator(cost.DefaultRates())
			fmt.Printf("stale records: %d\n", len(stale))
			fmt.Printf("estimated refresh cost: $%.4f\n",
				calc.EnrichmentPass(len(stale), cfg.Enrich.PhotoLimit))
			return nil
		}

		views := env.Enricher.EnrichMany(ctx, stale, enrich.BatchOptions{
			FetchLimit:  len(stale), // a refresh run wants every stale record fetched
			Concurrency: cfg.Enrich.BatchConcurrency,
		})
		env.Enricher.Wait()

		var refreshed int
		for _, v := range views {
			if v.DataSource == model.DataSourceHybrid {
				refreshed++
			}
		}
		zap.L().Info("refresh complete",
			zap.Int("stale", len(stale)),
			zap.Int("refreshed", refreshed),
		)
		fmt.Printf("refreshed %d of %d stale records\n", refreshed, len(stale))
		return nil
	},
}

func init() {
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 100, "max stale records to refresh")
	enrichCmd.Flags().StringVar(&enrichSlug, "slug", "", "refresh a single record by slug")
	enrichCmd.Flags().BoolVar(&enrichDryRun, "dry-run", false, "print stale count and estimated cost without fetching")
	rootCmd.AddCommand(enrichCmd)
}
