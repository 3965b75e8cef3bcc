package aggregate

import "github.com/prosperian/prosperian-api/internal/model"

// Envelope is the global-result response body. Page and PageSize are
// null in grouped mode. Total is the post-filter, pre-truncation lead
// count; GlobalResults carries either the paginated flat leads or the
// full filtered groups.
type Envelope struct {
	Page           *int `json:"page"`
	PageSize       *int `json:"pageSize"`
	Total          int  `json:"total"`
	TotalPages     int  `json:"totalPages"`
	TotalCompanies int  `json:"totalCompanies"`
	GlobalResults  any  `json:"global_results"`
}

// flatten concatenates group leads preserving group traversal order and
// within-group lead order.
func flatten(groups []model.SearchResult) []model.Lead {
	leads := make([]model.Lead, 0, countLeads(groups))
	for _, g := range groups {
		leads = append(leads, g.Leads...)
	}
	return leads
}

// pageSlice returns leads [(page-1)*size, page*size), clamped to the
// slice bounds. Pages start at 1; an out-of-range page yields an empty
// (non-nil) slice so the response still carries a JSON array.
func pageSlice(leads []model.Lead, page, size int) []model.Lead {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(leads) {
		return []model.Lead{}
	}
	end := start + size
	if end > len(leads) {
		end = len(leads)
	}
	return leads[start:end]
}

func totalPages(total, size int) int {
	if total == 0 {
		return 0
	}
	return (total + size - 1) / size
}
