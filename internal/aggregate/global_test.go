package aggregate

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperian/prosperian-api/internal/model"
)

func globalFixture() *mockSearchAPI {
	searches := []model.Search{
		{ID: "s1", Name: "enterprise", LeadsCount: 2},
		{ID: "s2", Name: "startups", LeadsCount: 2},
	}
	l1 := lead("Jean", "Dupont", "Acme Corp")
	l1.Title = "CTO"
	l2 := lead("Marie", "Curie", "Globex")
	l2.Title = "VP Engineering"
	l3 := lead("Jean", "Valjean", "Initech")
	l3.Title = "Founder"
	l4 := lead("Ada", "Lovelace", "Acme Corp")
	l4.Title = "Engineer"
	return &mockSearchAPI{
		searches: searches,
		details: map[string]*model.SearchDetail{
			"s1": detail(searches[0], l1, l2),
			"s2": detail(searches[1], l3, l4),
		},
	}
}

func TestGlobalResult_GroupedMode(t *testing.T) {
	api := globalFixture()
	enrich := newMockEnrichAPI()
	agg := New(api, enrich, Options{})

	env, err := agg.GlobalResult(context.Background(), GlobalResultParams{
		Filters: FilterSet{FirstNames: []string{"jean"}},
	})
	require.NoError(t, err)

	assert.Nil(t, env.Page)
	assert.Nil(t, env.PageSize)
	assert.Equal(t, 2, env.Total)
	assert.Equal(t, 1, env.TotalPages)
	assert.Equal(t, 2, env.TotalCompanies)

	groups, ok := env.GlobalResults.([]model.SearchResult)
	require.True(t, ok)
	require.Len(t, groups, 2)
	assert.Equal(t, "Jean", groups[0].Leads[0].FirstName)
	assert.Equal(t, "Jean", groups[1].Leads[0].FirstName)

	// Grouped mode enriches every matching lead eagerly.
	assert.Equal(t, 1, enrich.calls["Acme Corp"])
	assert.Equal(t, 1, enrich.calls["Initech"])
	for _, g := range groups {
		for _, l := range g.Leads {
			assert.NotEmpty(t, l.Company.Enrich)
		}
	}
}

func TestGlobalResult_FlatMode(t *testing.T) {
	api := globalFixture()
	enrich := newMockEnrichAPI()
	agg := New(api, enrich, Options{PageSize: 3})

	page := 1
	env, err := agg.GlobalResult(context.Background(), GlobalResultParams{Page: &page})
	require.NoError(t, err)

	require.NotNil(t, env.Page)
	require.NotNil(t, env.PageSize)
	assert.Equal(t, 1, *env.Page)
	assert.Equal(t, 3, *env.PageSize)
	assert.Equal(t, 4, env.Total)
	assert.Equal(t, 2, env.TotalPages)

	leads, ok := env.GlobalResults.([]model.Lead)
	require.True(t, ok)
	require.Len(t, leads, 3)
	// Only distinct companies on this page hit the enricher.
	assert.Equal(t, 2, enrich.totalCalls())
}

func TestGlobalResult_FlatModeSecondPage(t *testing.T) {
	api := globalFixture()
	enrich := newMockEnrichAPI()
	agg := New(api, enrich, Options{PageSize: 3})

	page := 2
	env, err := agg.GlobalResult(context.Background(), GlobalResultParams{Page: &page})
	require.NoError(t, err)

	leads := env.GlobalResults.([]model.Lead)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ada", leads[0].FirstName)
	// Lazy: the single lead on this page means a single enrich call.
	assert.Equal(t, 1, enrich.totalCalls())
}

func TestGlobalResult_PageBelowOneClamps(t *testing.T) {
	api := globalFixture()
	agg := New(api, newMockEnrichAPI(), Options{PageSize: 3})

	page := 0
	env, err := agg.GlobalResult(context.Background(), GlobalResultParams{Page: &page})
	require.NoError(t, err)
	assert.Equal(t, 1, *env.Page)
	assert.Len(t, env.GlobalResults.([]model.Lead), 3)
}

func TestGlobalResult_ListSearchesFatal(t *testing.T) {
	api := &mockSearchAPI{listErr: eris.New("pronto down")}
	agg := New(api, newMockEnrichAPI(), Options{})

	_, err := agg.GlobalResult(context.Background(), GlobalResultParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list searches")
}

func TestGlobalResult_DetailFailureNotFatal(t *testing.T) {
	api := globalFixture()
	api.detailErrs = map[string]error{"s2": eris.New("timeout")}
	delete(api.details, "s2")
	agg := New(api, newMockEnrichAPI(), Options{})

	env, err := agg.GlobalResult(context.Background(), GlobalResultParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, env.Total)
	groups := env.GlobalResults.([]model.SearchResult)
	require.Len(t, groups, 1)
	assert.Equal(t, "s1", groups[0].SearchID)
}
