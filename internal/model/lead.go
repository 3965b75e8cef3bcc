// Package model defines the lead-aggregation domain types shared across
// the API clients, the aggregation core and the store.
package model

import "encoding/json"

// Search is an upstream saved-search descriptor. LeadsCount is advisory:
// the detail fetch may return a different number of leads.
type Search struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LeadsCount int    `json:"leads_count"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// Company is the company reference embedded in a lead. Enrich carries the
// raw enrichment payload when an enrichment call succeeded for it.
type Company struct {
	Name          string          `json:"name,omitempty"`
	Location      string          `json:"location,omitempty"`
	Headquarters  string          `json:"headquarters,omitempty"`
	EmployeeRange string          `json:"employee_range,omitempty"`
	Industry      string          `json:"industry,omitempty"`
	Website       string          `json:"website,omitempty"`
	Domain        string          `json:"domain,omitempty"`
	LinkedInURL   string          `json:"linkedin_url,omitempty"`
	Enrich        json.RawMessage `json:"enrich,omitempty"`
}

// Lead is a person record fetched from an upstream search. Upstream
// payloads are duck-typed: newer shapes nest the company under Company,
// older ones carry a flat CompanyName. Both are kept so field extraction
// can fall back between them.
type Lead struct {
	FirstName         string   `json:"first_name,omitempty"`
	LastName          string   `json:"last_name,omitempty"`
	Title             string   `json:"title,omitempty"`
	Location          string   `json:"location,omitempty"`
	LinkedInURL       string   `json:"linkedin_url,omitempty"`
	MostProbableEmail string   `json:"most_probable_email,omitempty"`
	CompanyName       string   `json:"company_name,omitempty"`
	Company           *Company `json:"company,omitempty"`

	// Origin tags, set when detail results are regrouped.
	SearchID   string `json:"search_id,omitempty"`
	SearchName string `json:"search_name,omitempty"`
}

// SearchResult groups the leads fetched for one search.
type SearchResult struct {
	SearchID   string `json:"search_id"`
	SearchName string `json:"search_name"`
	Leads      []Lead `json:"leads"`
}

// LeadEntry is one element of an upstream search-detail response: the
// person and their company arrive side by side.
type LeadEntry struct {
	Lead    Lead     `json:"lead"`
	Company *Company `json:"company"`
}

// SearchDetail is the upstream search-detail response.
type SearchDetail struct {
	Search Search      `json:"search"`
	Leads  []LeadEntry `json:"leads"`
}
