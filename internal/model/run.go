package model

import "time"

// Operation names recorded with each aggregation run.
const (
	OpGlobalResult          = "global_result"
	OpWorkflowGlobalResults = "workflow_global_results"
)

// Run is one recorded aggregation run. Persisted best-effort after each
// request: a store failure never fails the request that produced it.
type Run struct {
	ID              string            `json:"id"`
	Operation       string            `json:"operation"`
	Params          map[string]string `json:"params,omitempty"`
	TotalSearches   int               `json:"total_searches"`
	TotalLeads      int               `json:"total_leads"`
	FilteredLeads   int               `json:"filtered_leads"`
	UniqueCompanies int               `json:"unique_companies"`
	ProcessingTime  float64           `json:"processing_time"`
	CreatedAt       time.Time         `json:"created_at"`
}
