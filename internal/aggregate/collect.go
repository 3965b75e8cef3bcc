package aggregate

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prosperian/prosperian-api/internal/model"
)

// CollectError records one failed detail fetch. The fetch is skipped,
// never fatal for the collection.
type CollectError struct {
	SearchID   string `json:"search_id"`
	SearchName string `json:"search_name"`
	Error      string `json:"error"`
}

// collect fetches details for all searches with bounded concurrency.
// The returned slice is index-aligned with the input: a failed or
// timed-out fetch leaves a nil entry. Total wall-clock time approximates
// the slowest call, not the sum.
func (a *Aggregator) collect(ctx context.Context, searches []model.Search, timeout time.Duration) ([]*model.SearchDetail, []CollectError) {
	details := make([]*model.SearchDetail, len(searches))
	errs := make([]error, len(searches))

	g := new(errgroup.Group)
	g.SetLimit(a.opts.FanoutConcurrency)
	for i, s := range searches {
		g.Go(func() error {
			callCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			details[i], errs[i] = a.search.SearchDetail(callCtx, s.ID)
			return nil
		})
	}
	_ = g.Wait()

	var collectErrs []CollectError
	for i, err := range errs {
		if err == nil {
			continue
		}
		collectErrs = append(collectErrs, CollectError{
			SearchID:   searches[i].ID,
			SearchName: searches[i].Name,
			Error:      err.Error(),
		})
		zap.L().Warn("aggregate: search detail fetch failed",
			zap.String("search_id", searches[i].ID),
			zap.String("search_name", searches[i].Name),
			zap.Error(err),
		)
	}

	zap.L().Info("aggregate: collected search details",
		zap.Int("requested", len(searches)),
		zap.Int("fetched", len(searches)-len(collectErrs)),
		zap.Int("failed", len(collectErrs)),
	)

	return details, collectErrs
}

// regroup turns index-aligned details into SearchResult groups, tagging
// every lead with its originating search. Failed fetches are skipped.
// Lead order within a group is upstream-preserved; group order follows
// the search list.
func regroup(searches []model.Search, details []*model.SearchDetail) []model.SearchResult {
	groups := make([]model.SearchResult, 0, len(searches))
	expected, actual := 0, 0

	for i, s := range searches {
		expected += s.LeadsCount
		d := details[i]
		if d == nil {
			continue
		}

		leads := make([]model.Lead, 0, len(d.Leads))
		for _, entry := range d.Leads {
			lead := entry.Lead
			if lead.Company == nil {
				lead.Company = entry.Company
			}
			lead.SearchID = s.ID
			lead.SearchName = s.Name
			leads = append(leads, lead)
		}
		actual += len(leads)

		groups = append(groups, model.SearchResult{
			SearchID:   s.ID,
			SearchName: s.Name,
			Leads:      leads,
		})
	}

	// Advisory only: upstream lead counts routinely drift from reality.
	zap.L().Debug("aggregate: regrouped leads",
		zap.Int("expected_leads", expected),
		zap.Int("actual_leads", actual),
		zap.Int("groups", len(groups)),
	)

	return groups
}

func countLeads(groups []model.SearchResult) int {
	n := 0
	for _, g := range groups {
		n += len(g.Leads)
	}
	return n
}
