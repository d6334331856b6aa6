package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/localpages/directory-cli/internal/enrich"
	"github.com/localpages/directory-cli/internal/store"
	"github.com/localpages/directory-cli/pkg/places"
	"github.com/localpages/directory-cli/pkg/storage"
)

// env bundles the wired dependencies a command needs.
type env struct {
	Store    store.Store
	Places   places.Client
	Enricher *enrich.Enricher

	objects *storage.GCSStore
}

// Close drains detached write-backs before releasing connections.
func (e *env) Close() {
	if e.Enricher != nil {
		e.Enricher.Wait()
	}
	if e.objects != nil {
		if err := e.objects.Close(); err != nil {
			zap.L().Warn("close object store", zap.Error(err))
		}
	}
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "directory.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.Pool.MaxConns,
			MinConns: cfg.Store.Pool.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func initPlaces() (places.Client, error) {
	if cfg.Places.Key == "" {
		return nil, eris.New("places API key is required (DIRECTORY_PLACES_KEY)")
	}

	opts := []places.Option{}
	if cfg.Places.BaseURL != "" {
		opts = append(opts, places.WithBaseURL(cfg.Places.BaseURL))
	}
	if cfg.Places.RateLimit > 0 {
		opts = append(opts, places.WithRateLimit(cfg.Places.RateLimit))
	}
	return places.NewClient(cfg.Places.Key, opts...), nil
}

// initEnv wires store, provider client, photo storage, and the enricher.
// Photo migration is disabled when no bucket is configured.
func initEnv(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	pc, err := initPlaces()
	if err != nil {
		st.Close()
		return nil, err
	}

	e := &env{Store: st, Places: pc}

	var migrator enrich.Migrator
	if cfg.Storage.Bucket != "" {
		gcs, err := storage.NewGCS(ctx, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
		if err != nil {
			st.Close()
			return nil, err
		}
		e.objects = gcs
		migrator = enrich.NewPhotoMigrator(pc, gcs, cfg.Enrich.PhotoMaxWidthPx)
	} else {
		zap.L().Warn("no storage bucket configured, photo migration disabled")
	}

	e.Enricher = enrich.New(st, pc, migrator, enrich.Config{
		CacheTTL:         time.Duration(cfg.Enrich.CacheTTLDays) * 24 * time.Hour,
		PhotoLimit:       cfg.Enrich.PhotoLimit,
		WritebackTimeout: time.Duration(cfg.Enrich.WritebackTimeoutSecs) * time.Second,
	})
	return e, nil
}
