package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/prosperian/prosperian-api/internal/model"
	"github.com/prosperian/prosperian-api/pkg/pronto"
)

// enrichOutcome is a cached enrichment result: either a payload or a
// failure marker. Storing failures keeps repeated occurrences of the
// same company from retrying within one request.
type enrichOutcome struct {
	payload  json.RawMessage
	err      error
	timedOut bool
}

// enrichCache deduplicates enrichment calls by exact company name for
// the lifetime of one aggregation run. The map guards interleaved access
// and the singleflight group collapses concurrent fetches for the same
// name, so N leads sharing a company cost at most one upstream call.
type enrichCache struct {
	mu      sync.Mutex
	entries map[string]enrichOutcome
	flight  singleflight.Group
}

func newEnrichCache() *enrichCache {
	return &enrichCache{entries: make(map[string]enrichOutcome)}
}

func (c *enrichCache) getOrFetch(name string, fetch func() (json.RawMessage, error)) enrichOutcome {
	c.mu.Lock()
	if out, ok := c.entries[name]; ok {
		c.mu.Unlock()
		return out
	}
	c.mu.Unlock()

	v, _, _ := c.flight.Do(name, func() (any, error) {
		payload, err := fetch()
		out := enrichOutcome{payload: payload}
		if err != nil {
			out = enrichOutcome{err: err, timedOut: errors.Is(err, context.DeadlineExceeded)}
		}
		c.mu.Lock()
		c.entries[name] = out
		c.mu.Unlock()
		return out, nil
	})
	return v.(enrichOutcome)
}

// enrichLead enriches the lead's company in place. Leads without a
// company name pass through untouched. Failures only mean the company's
// leads lack the enrich field; they never fail the request.
func (a *Aggregator) enrichLead(ctx context.Context, cache *enrichCache, lead *model.Lead) {
	name := companyNameOf(*lead)
	if name == "" {
		return
	}

	out := cache.getOrFetch(name, func() (json.RawMessage, error) {
		callCtx, cancel := context.WithTimeout(ctx, a.opts.EnrichTimeout)
		defer cancel()

		req := pronto.EnrichRequest{Name: name}
		if lead.Company != nil {
			req.Domain = lead.Company.Domain
			req.CompanyLinkedInURL = lead.Company.LinkedInURL
		}
		return a.enrich.EnrichAccount(callCtx, req)
	})

	switch {
	case out.timedOut:
		// Best effort: timeouts are swallowed entirely.
		zap.L().Debug("aggregate: enrichment timed out", zap.String("company", name))
	case out.err != nil:
		zap.L().Warn("aggregate: enrichment failed",
			zap.String("company", name),
			zap.Error(out.err),
		)
	default:
		if lead.Company == nil {
			lead.Company = &model.Company{Name: name}
		}
		lead.Company.Enrich = out.payload
	}
}

// enrichLeads enriches a flat lead slice in place, concurrently up to
// the fan-out limit. Used for the sliced page in flat mode, so cost
// scales with page size rather than corpus size.
func (a *Aggregator) enrichLeads(ctx context.Context, cache *enrichCache, leads []model.Lead) {
	g := new(errgroup.Group)
	g.SetLimit(a.opts.FanoutConcurrency)
	for i := range leads {
		g.Go(func() error {
			a.enrichLead(ctx, cache, &leads[i])
			return nil
		})
	}
	_ = g.Wait()
}

// enrichGroups eagerly enriches every lead of every group in place.
func (a *Aggregator) enrichGroups(ctx context.Context, cache *enrichCache, groups []model.SearchResult) {
	g := new(errgroup.Group)
	g.SetLimit(a.opts.FanoutConcurrency)
	for gi := range groups {
		for li := range groups[gi].Leads {
			g.Go(func() error {
				a.enrichLead(ctx, cache, &groups[gi].Leads[li])
				return nil
			})
		}
	}
	_ = g.Wait()
}
