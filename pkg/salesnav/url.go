// Package salesnav builds LinkedIn Sales Navigator people-search URLs
// from structured filter input. Pure string assembly, no I/O.
package salesnav

import (
	"net/url"
	"strings"
)

const baseURL = "https://www.linkedin.com/sales/search/people"

// Query holds the supported Sales Navigator people-search filters.
// Empty fields are omitted from the URL.
type Query struct {
	Keywords     string
	Titles       []string
	Locations    []string
	CompanySizes []string
	Industries   []string
}

// BuildURL assembles the Sales Navigator search URL. Multi-value filters
// are encoded in the query-language format the search UI uses:
// (type:FIELD,values:List((text:v1),(text:v2))).
func BuildURL(q Query) string {
	params := url.Values{}
	if q.Keywords != "" {
		params.Set("keywords", q.Keywords)
	}

	var filters []string
	for _, f := range []struct {
		field  string
		values []string
	}{
		{"CURRENT_TITLE", q.Titles},
		{"REGION", q.Locations},
		{"COMPANY_HEADCOUNT", q.CompanySizes},
		{"INDUSTRY", q.Industries},
	} {
		if clause := filterClause(f.field, f.values); clause != "" {
			filters = append(filters, clause)
		}
	}
	if len(filters) > 0 {
		params.Set("query", "(filters:List("+strings.Join(filters, ",")+"))")
	}

	if len(params) == 0 {
		return baseURL
	}
	return baseURL + "?" + params.Encode()
}

func filterClause(field string, values []string) string {
	var parts []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		parts = append(parts, "(text:"+escapeValue(v)+")")
	}
	if len(parts) == 0 {
		return ""
	}
	return "(type:" + field + ",values:List(" + strings.Join(parts, ",") + "))"
}

// escapeValue percent-encodes the characters that delimit the query
// language so filter text cannot break the clause structure.
func escapeValue(v string) string {
	r := strings.NewReplacer(
		"(", "%28",
		")", "%29",
		",", "%2C",
		":", "%3A",
	)
	return r.Replace(v)
}
