package aggregate

import (
	"strings"

	"go.uber.org/zap"

	"github.com/prosperian/prosperian-api/internal/model"
)

// FilterSet holds the optional per-field alternative lists. Each list is
// parsed from comma-separated input: alternatives are trimmed, lowercased
// and deduplicated of empties. Within a field the alternatives are OR'd;
// across fields the filters are AND'd. An empty list means no constraint
// on that field.
type FilterSet struct {
	CompanyNames     []string
	FirstNames       []string
	LastNames        []string
	Titles           []string
	LeadLocations    []string
	EmployeeRanges   []string
	CompanyLocations []string
	Industries       []string
}

// ParseAlternatives splits comma-separated filter input into normalized
// alternatives. Empty and whitespace-only segments are discarded, so
// "a,,b" and " " behave like "a,b" and no filter respectively.
func ParseAlternatives(input string) []string {
	if input == "" {
		return nil
	}
	var alts []string
	for _, part := range strings.Split(input, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			alts = append(alts, part)
		}
	}
	return alts
}

// Empty reports whether no field carries a constraint.
func (f FilterSet) Empty() bool {
	return len(f.CompanyNames) == 0 &&
		len(f.FirstNames) == 0 &&
		len(f.LastNames) == 0 &&
		len(f.Titles) == 0 &&
		len(f.LeadLocations) == 0 &&
		len(f.EmployeeRanges) == 0 &&
		len(f.CompanyLocations) == 0 &&
		len(f.Industries) == 0
}

// accessor derives one filterable field value from a lead. Upstream
// payload shapes vary, so accessors try known locations in order and
// return the first non-empty value; a missing value is the empty string,
// which never matches a non-empty filter.
type accessor func(model.Lead) string

func companyNameOf(l model.Lead) string {
	if l.Company != nil && l.Company.Name != "" {
		return l.Company.Name
	}
	return l.CompanyName
}

func leadLocationOf(l model.Lead) string {
	if l.Location != "" {
		return l.Location
	}
	if l.Company != nil {
		return l.Company.Location
	}
	return ""
}

func employeeRangeOf(l model.Lead) string {
	if l.Company != nil {
		return l.Company.EmployeeRange
	}
	return ""
}

func companyLocationOf(l model.Lead) string {
	if l.Company == nil {
		return ""
	}
	if l.Company.Location != "" {
		return l.Company.Location
	}
	return l.Company.Headquarters
}

func industryOf(l model.Lead) string {
	if l.Company != nil {
		return l.Company.Industry
	}
	return ""
}

// fieldFilter pairs a filter field with its accessor for logging and
// sequential application.
type fieldFilter struct {
	name string
	alts []string
	get  accessor
}

func (f FilterSet) fields() []fieldFilter {
	return []fieldFilter{
		{"company_name", f.CompanyNames, companyNameOf},
		{"first_name", f.FirstNames, func(l model.Lead) string { return l.FirstName }},
		{"last_name", f.LastNames, func(l model.Lead) string { return l.LastName }},
		{"title", f.Titles, func(l model.Lead) string { return l.Title }},
		{"lead_location", f.LeadLocations, leadLocationOf},
		{"employee_range", f.EmployeeRanges, employeeRangeOf},
		{"company_location", f.CompanyLocations, companyLocationOf},
		{"industry", f.Industries, industryOf},
	}
}

// matchesAny reports whether any alternative is a case-insensitive
// substring of value. Alternatives are already lowercased at parse time.
func matchesAny(value string, alts []string) bool {
	value = strings.ToLower(value)
	for _, alt := range alts {
		if strings.Contains(value, alt) {
			return true
		}
	}
	return false
}

// ApplyFilters keeps each lead iff it satisfies every non-empty field
// filter, then drops groups left without leads. An all-empty FilterSet
// returns the input unchanged. Idempotent: filtering twice with the same
// set yields the same result.
func ApplyFilters(groups []model.SearchResult, fs FilterSet) []model.SearchResult {
	if fs.Empty() {
		return groups
	}

	active := make([]fieldFilter, 0, 8)
	for _, f := range fs.fields() {
		if len(f.alts) > 0 {
			active = append(active, f)
		}
	}

	before := countLeads(groups)
	out := make([]model.SearchResult, 0, len(groups))
	for _, g := range groups {
		kept := make([]model.Lead, 0, len(g.Leads))
	leads:
		for _, lead := range g.Leads {
			for _, f := range active {
				if !matchesAny(f.get(lead), f.alts) {
					continue leads
				}
			}
			kept = append(kept, lead)
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, model.SearchResult{
			SearchID:   g.SearchID,
			SearchName: g.SearchName,
			Leads:      kept,
		})
	}

	fieldNames := make([]string, len(active))
	for i, f := range active {
		fieldNames[i] = f.name
	}
	zap.L().Info("aggregate: filtered leads",
		zap.Strings("fields", fieldNames),
		zap.Int("before", before),
		zap.Int("after", countLeads(out)),
	)

	return out
}
