package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localpages/directory-cli/internal/enrich"
	"github.com/localpages/directory-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the directory read API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := newRouter(env)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(env *env) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/businesses", func(w http.ResponseWriter, req *http.Request) {
		handleListBusinesses(env, w, req)
	})

	r.Get("/businesses/{slug}", func(w http.ResponseWriter, req *http.Request) {
		handleGetBusiness(env, w, req)
	})

	return r
}

func handleListBusinesses(env *env, w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	filter := store.BusinessFilter{
		Category:     q.Get("category"),
		City:         q.Get("city"),
		State:        q.Get("state"),
		FeaturedOnly: q.Get("featured") == "true",
		Limit:        queryInt(q.Get("limit"), 50),
		Offset:       queryInt(q.Get("offset"), 0),
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}

	records, err := env.Store.ListBusinesses(req.Context(), filter)
	if err != nil {
		zap.L().Error("list businesses", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	enriched := env.Enricher.EnrichMany(req.Context(), records, enrich.BatchOptions{
		FetchLimit:  cfg.Enrich.BatchFetchLimit,
		Concurrency: cfg.Enrich.BatchConcurrency,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"businesses": enriched,
		"count":      len(enriched),
	})
}

func handleGetBusiness(env *env, w http.ResponseWriter, req *http.Request) {
	slug := chi.URLParam(req, "slug")

	b, err := env.Enricher.EnrichBySlug(req.Context(), slug)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "business not found"})
			return
		}
		zap.L().Error("get business", zap.String("slug", slug), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
