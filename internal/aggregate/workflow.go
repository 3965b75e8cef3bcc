package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prosperian/prosperian-api/internal/model"
)

// WorkflowParams are the inputs of the workflow global-results
// operation. Limit <= 0 selects the default; values are clamped to the
// configured maximum.
type WorkflowParams struct {
	Filters              FilterSet
	Limit                int
	IncludeSearchDetails bool
}

// AppliedFilters echoes the normalized filter alternatives back to the
// caller.
type AppliedFilters struct {
	CompanyNames     []string `json:"company_names"`
	Titles           []string `json:"titles"`
	LeadLocations    []string `json:"lead_locations"`
	EmployeeRanges   []string `json:"employee_ranges"`
	CompanyLocations []string `json:"company_locations"`
	Industries       []string `json:"industries"`
}

// SearchSummary is the optional per-search detail block.
type SearchSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedAt  string `json:"created_at"`
	LeadsCount int    `json:"leads_count"`
	Status     string `json:"status"`
}

// WorkflowResult is the workflow global-results response body.
type WorkflowResult struct {
	Success         bool            `json:"success"`
	TotalSearches   int             `json:"total_searches"`
	TotalLeads      int             `json:"total_leads"`
	FilteredLeads   int             `json:"filtered_leads"`
	UniqueCompanies int             `json:"unique_companies"`
	AppliedFilters  AppliedFilters  `json:"applied_filters"`
	Leads           []model.Lead    `json:"leads"`
	Searches        []SearchSummary `json:"searches,omitempty"`
	Errors          []CollectError  `json:"errors,omitempty"`
	ProcessingTime  float64         `json:"processing_time"`
	Message         string          `json:"message"`
}

// WorkflowGlobalResults runs the workflow operation: collect every
// search's leads, apply the six company/lead filters, truncate to the
// limit and summarize. No enrichment is performed here. Detail fetches
// share the bounded fan-out with the global-result operation and rely on
// the client's own timeout.
func (a *Aggregator) WorkflowGlobalResults(ctx context.Context, p WorkflowParams) (*WorkflowResult, error) {
	start := time.Now()

	limit := p.Limit
	if limit <= 0 {
		limit = a.opts.DefaultLimit
	}
	if limit > a.opts.MaxLimit {
		limit = a.opts.MaxLimit
	}

	searches, err := a.search.ListSearches(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "workflow global results: list searches")
	}

	details, collectErrs := a.collect(ctx, searches, 0)
	groups := regroup(searches, details)
	totalLeads := countLeads(groups)

	filtered := ApplyFilters(groups, p.Filters)
	leads := flatten(filtered)
	if len(leads) > limit {
		leads = leads[:limit]
	}

	result := &WorkflowResult{
		Success:       true,
		TotalSearches: len(searches),
		TotalLeads:    totalLeads,
		FilteredLeads: len(leads),
		// Distinct non-empty company names within the truncated result.
		UniqueCompanies: uniqueCompanies(leads),
		AppliedFilters: AppliedFilters{
			CompanyNames:     p.Filters.CompanyNames,
			Titles:           p.Filters.Titles,
			LeadLocations:    p.Filters.LeadLocations,
			EmployeeRanges:   p.Filters.EmployeeRanges,
			CompanyLocations: p.Filters.CompanyLocations,
			Industries:       p.Filters.Industries,
		},
		Leads:          leads,
		Errors:         collectErrs,
		ProcessingTime: time.Since(start).Seconds(),
		Message: fmt.Sprintf("Processed %d searches: %d leads collected, %d returned after filtering",
			len(searches), totalLeads, len(leads)),
	}

	if p.IncludeSearchDetails {
		result.Searches = searchSummaries(searches, details)
	}

	zap.L().Info("aggregate: workflow global results",
		zap.Int("total_searches", result.TotalSearches),
		zap.Int("total_leads", result.TotalLeads),
		zap.Int("filtered_leads", result.FilteredLeads),
		zap.Int("unique_companies", result.UniqueCompanies),
		zap.Float64("processing_time", result.ProcessingTime),
	)

	return result, nil
}

func uniqueCompanies(leads []model.Lead) int {
	seen := make(map[string]struct{}, len(leads))
	for _, l := range leads {
		if name := companyNameOf(l); name != "" {
			seen[name] = struct{}{}
		}
	}
	return len(seen)
}

func searchSummaries(searches []model.Search, details []*model.SearchDetail) []SearchSummary {
	summaries := make([]SearchSummary, len(searches))
	for i, s := range searches {
		status := "completed"
		leadsCount := s.LeadsCount
		if details[i] == nil {
			status = "failed"
		} else {
			leadsCount = len(details[i].Leads)
		}
		summaries[i] = SearchSummary{
			ID:         s.ID,
			Name:       s.Name,
			CreatedAt:  s.CreatedAt,
			LeadsCount: leadsCount,
			Status:     status,
		}
	}
	return summaries
}
