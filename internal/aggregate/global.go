package aggregate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// GlobalResultParams are the inputs of the global-result operation.
// A nil Page selects grouped mode. Only the company-name, first-name
// and last-name filter fields are populated by this operation's route.
type GlobalResultParams struct {
	Page    *int
	Filters FilterSet
}

// GlobalResult runs the global-result operation: fetch the search list,
// fan out detail fetches, filter, then either paginate the flattened
// leads (flat mode, lazy enrichment of the page) or return the full
// groups (grouped mode, eager enrichment). A search-list failure is
// fatal; individual detail failures only lose that search's leads.
func (a *Aggregator) GlobalResult(ctx context.Context, p GlobalResultParams) (*Envelope, error) {
	searches, err := a.search.ListSearches(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "global result: list searches")
	}

	details, _ := a.collect(ctx, searches, a.opts.DetailTimeout)
	groups := regroup(searches, details)
	groups = ApplyFilters(groups, p.Filters)

	total := countLeads(groups)
	cache := newEnrichCache()

	if p.Page != nil {
		page := *p.Page
		if page < 1 {
			page = 1
		}
		size := a.opts.PageSize
		leads := pageSlice(flatten(groups), page, size)
		a.enrichLeads(ctx, cache, leads)

		zap.L().Info("aggregate: global result (flat)",
			zap.Int("page", page),
			zap.Int("total", total),
			zap.Int("page_leads", len(leads)),
		)
		return &Envelope{
			Page:           &page,
			PageSize:       &size,
			Total:          total,
			TotalPages:     totalPages(total, size),
			TotalCompanies: total,
			GlobalResults:  leads,
		}, nil
	}

	a.enrichGroups(ctx, cache, groups)

	zap.L().Info("aggregate: global result (grouped)",
		zap.Int("total", total),
		zap.Int("groups", len(groups)),
	)
	// One company reference per lead: totalCompanies mirrors the
	// matching-lead count.
	return &Envelope{
		Total:          total,
		TotalPages:     1,
		TotalCompanies: total,
		GlobalResults:  groups,
	}, nil
}
