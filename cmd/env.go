package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prosperian/prosperian-api/internal/aggregate"
	"github.com/prosperian/prosperian-api/internal/resilience"
	"github.com/prosperian/prosperian-api/internal/store"
	"github.com/prosperian/prosperian-api/pkg/places"
	"github.com/prosperian/prosperian-api/pkg/pronto"
)

// env bundles the wired clients, aggregator and store for a command.
type env struct {
	Pronto pronto.Client
	Places places.Client
	Agg    *aggregate.Aggregator
	Store  store.Store
}

func initEnv(ctx context.Context) (*env, error) {
	prontoClient := pronto.NewClient(cfg.Pronto.Key,
		pronto.WithBaseURL(cfg.Pronto.BaseURL),
		pronto.WithRateLimit(cfg.Pronto.RateLimit, cfg.Pronto.RateBurst),
		pronto.WithRetry(resilience.RetryConfig{MaxAttempts: cfg.Pronto.MaxRetries}),
		pronto.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Pronto.TimeoutSecs) * time.Second,
		}),
	)

	placesClient := places.NewClient(cfg.Apify.Token, cfg.Apify.Actor,
		places.WithBaseURL(cfg.Apify.BaseURL),
	)

	agg := aggregate.New(prontoClient, prontoClient, aggregate.Options{
		PageSize:          cfg.Aggregate.PageSize,
		FanoutConcurrency: cfg.Aggregate.FanoutConcurrency,
		DetailTimeout:     time.Duration(cfg.Pronto.DetailTimeoutMs) * time.Millisecond,
		EnrichTimeout:     time.Duration(cfg.Pronto.EnrichTimeoutMs) * time.Millisecond,
		DefaultLimit:      cfg.Aggregate.DefaultLimit,
		MaxLimit:          cfg.Aggregate.MaxLimit,
	})

	st, err := store.Open(ctx, store.Config{
		Driver:      cfg.Store.Driver,
		Path:        cfg.Store.Path,
		DatabaseURL: cfg.Store.DatabaseURL,
		MaxConns:    cfg.Store.MaxConns,
		MinConns:    cfg.Store.MinConns,
	})
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if st != nil {
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	return &env{
		Pronto: prontoClient,
		Places: placesClient,
		Agg:    agg,
		Store:  st,
	}, nil
}

func (e *env) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
}
