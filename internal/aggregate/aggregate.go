// Package aggregate implements the global lead-aggregation workflow: it
// fans out upstream search-detail fetches, regroups the leads, applies
// multi-field substring filters, enriches companies at most once per
// request and paginates the combined result.
package aggregate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prosperian/prosperian-api/internal/model"
	"github.com/prosperian/prosperian-api/pkg/pronto"
)

// SearchAPI is the subset of the upstream client used to list searches
// and fetch their leads.
type SearchAPI interface {
	ListSearches(ctx context.Context) ([]model.Search, error)
	SearchDetail(ctx context.Context, id string) (*model.SearchDetail, error)
}

// EnrichAPI issues single-company enrichment calls.
type EnrichAPI interface {
	EnrichAccount(ctx context.Context, req pronto.EnrichRequest) (json.RawMessage, error)
}

// Options tunes the aggregation core. Zero values fall back to the
// defaults below.
type Options struct {
	// PageSize is the fixed flat-mode page size.
	PageSize int
	// FanoutConcurrency caps simultaneous detail fetches.
	FanoutConcurrency int
	// DetailTimeout bounds each flat/grouped detail fetch; negative
	// relies on the client's own timeout.
	DetailTimeout time.Duration
	// EnrichTimeout bounds each enrichment call.
	EnrichTimeout time.Duration
	// DefaultLimit and MaxLimit clamp the workflow lead limit.
	DefaultLimit int
	MaxLimit     int
}

const (
	defaultPageSize          = 12
	defaultFanoutConcurrency = 8
	defaultDetailTimeout     = 900 * time.Millisecond
	defaultEnrichTimeout     = 800 * time.Millisecond
	defaultWorkflowLimit     = 1000
	maxWorkflowLimit         = 10000
)

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	if o.FanoutConcurrency <= 0 {
		o.FanoutConcurrency = defaultFanoutConcurrency
	}
	if o.DetailTimeout == 0 {
		o.DetailTimeout = defaultDetailTimeout
	} else if o.DetailTimeout < 0 {
		o.DetailTimeout = 0
	}
	if o.EnrichTimeout <= 0 {
		o.EnrichTimeout = defaultEnrichTimeout
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = defaultWorkflowLimit
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = maxWorkflowLimit
	}
	return o
}

// Aggregator composes the collector, filter engine, enricher and
// paginator into the two public endpoint behaviors. Stateless across
// requests: the enrichment cache lives for one invocation only.
type Aggregator struct {
	search SearchAPI
	enrich EnrichAPI
	opts   Options
}

// New creates an Aggregator over the given upstream clients.
func New(search SearchAPI, enrich EnrichAPI, opts Options) *Aggregator {
	return &Aggregator{
		search: search,
		enrich: enrich,
		opts:   opts.withDefaults(),
	}
}
