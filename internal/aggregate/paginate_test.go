package aggregate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prosperian/prosperian-api/internal/model"
)

func numberedLeads(n int) []model.Lead {
	leads := make([]model.Lead, n)
	for i := range leads {
		leads[i] = model.Lead{FirstName: fmt.Sprintf("lead-%02d", i)}
	}
	return leads
}

func TestPageSlice(t *testing.T) {
	leads := numberedLeads(30)

	tests := []struct {
		name      string
		page      int
		wantFirst string
		wantLen   int
	}{
		{"first page", 1, "lead-00", 12},
		{"second page", 2, "lead-12", 12},
		{"partial last page", 3, "lead-24", 6},
		{"past the end", 4, "", 0},
		{"page below one clamps to one", 0, "lead-00", 12},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pageSlice(leads, tc.page, 12)
			assert.Len(t, got, tc.wantLen)
			if tc.wantLen > 0 {
				assert.Equal(t, tc.wantFirst, got[0].FirstName)
			}
		})
	}
}

func TestPageSlice_EmptyCorpusReturnsJSONArray(t *testing.T) {
	got := pageSlice(nil, 1, 12)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 12))
	assert.Equal(t, 1, totalPages(1, 12))
	assert.Equal(t, 1, totalPages(12, 12))
	assert.Equal(t, 2, totalPages(13, 12))
	assert.Equal(t, 3, totalPages(30, 12))
}

func TestFlatten_PreservesTraversalOrder(t *testing.T) {
	groups := []model.SearchResult{
		{SearchID: "s1", Leads: numberedLeads(2)},
		{SearchID: "s2", Leads: []model.Lead{{FirstName: "zz"}}},
	}

	got := flatten(groups)
	assert.Equal(t, []string{"lead-00", "lead-01", "zz"}, []string{
		got[0].FirstName, got[1].FirstName, got[2].FirstName,
	})
}
