// Package server exposes the REST facade over the aggregation core and
// the upstream pass-through clients.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prosperian/prosperian-api/internal/aggregate"
	"github.com/prosperian/prosperian-api/internal/config"
	"github.com/prosperian/prosperian-api/internal/store"
	"github.com/prosperian/prosperian-api/pkg/places"
	"github.com/prosperian/prosperian-api/pkg/pronto"
)

// Server is the REST facade. Store may be nil (run recording disabled).
type Server struct {
	cfg    *config.Config
	agg    *aggregate.Aggregator
	pronto pronto.Client
	places places.Client
	store  store.Store
	http   *http.Server
}

// New assembles the server and its router.
func New(cfg *config.Config, agg *aggregate.Aggregator, prontoClient pronto.Client, placesClient places.Client, st store.Store) *Server {
	s := &Server{
		cfg:    cfg,
		agg:    agg,
		pronto: prontoClient,
		places: placesClient,
		store:  st,
	}
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: s.Router(),
	}
	return s
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Api-Key"},
	}))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(apiKeyAuth(s.cfg.Auth.APIKey))

		r.Get("/api/prosperian/get/global/result", s.handleGlobalResult)
		r.Get("/api/pronto/workflow/global-results", s.handleWorkflowGlobalResults)
		r.Get("/api/pronto/searches", s.handleListSearches)
		r.Get("/api/places/search", s.handlePlacesSearch)
		r.Get("/api/linkedin/salesnav/url", s.handleSalesNavURL)
		r.Get("/api/runs", s.handleListRuns)
	})

	return r
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		zap.L().Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()

	zap.L().Info("server: listening", zap.Int("port", s.cfg.Server.Port))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}
