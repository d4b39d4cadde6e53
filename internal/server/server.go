// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/snagtrack/snagtrack/internal/handler"
	"github.com/snagtrack/snagtrack/internal/live"
	"github.com/snagtrack/snagtrack/internal/progress"
	"github.com/snagtrack/snagtrack/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port  int
	Store store.Store
	Rules progress.Rules
}

// Run starts the HTTP server with all routes registered and shuts it down
// when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	hub := live.NewHub()
	ph := handler.NewProgressHandler(cfg.Store, cfg.Rules, hub)

	r := chi.NewRouter()
	r.Use(handler.Recovery, handler.Logging)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/reports", ph.ImportReport)
		r.Get("/apartments", ph.ListApartments)
		r.Get("/apartments/{number}/progress", ph.GetProgress)
		r.Get("/apartments/{number}/progress/compare", ph.CompareProgress)
		r.Get("/apartments/{number}/timeline", ph.GetTimeline)
		r.Get("/readiness", ph.GetReadiness)
		r.Get("/portfolio/progress", ph.PortfolioProgress)
		r.Get("/ws/progress", hub.ServeHTTP)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Msg("starting server")

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
