package aggregate

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/prosperian/prosperian-api/internal/model"
	"github.com/prosperian/prosperian-api/pkg/pronto"
)

// mockSearchAPI serves canned searches and details, tracking calls.
type mockSearchAPI struct {
	mu          sync.Mutex
	searches    []model.Search
	details     map[string]*model.SearchDetail
	detailErrs  map[string]error
	listErr     error
	detailCalls []string
}

func (m *mockSearchAPI) ListSearches(_ context.Context) ([]model.Search, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.searches, nil
}

func (m *mockSearchAPI) SearchDetail(_ context.Context, id string) (*model.SearchDetail, error) {
	m.mu.Lock()
	m.detailCalls = append(m.detailCalls, id)
	m.mu.Unlock()

	if err, ok := m.detailErrs[id]; ok {
		return nil, err
	}
	return m.details[id], nil
}

// mockEnrichAPI counts enrichment calls per company name.
type mockEnrichAPI struct {
	mu      sync.Mutex
	calls   map[string]int
	payload json.RawMessage
	err     error
	// block makes calls wait for context expiry, simulating a slow
	// upstream that trips the per-call timeout.
	block bool
}

func newMockEnrichAPI() *mockEnrichAPI {
	return &mockEnrichAPI{
		calls:   make(map[string]int),
		payload: json.RawMessage(`{"revenue":"10M"}`),
	}
}

func (m *mockEnrichAPI) EnrichAccount(ctx context.Context, req pronto.EnrichRequest) (json.RawMessage, error) {
	m.mu.Lock()
	m.calls[req.Name]++
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

func (m *mockEnrichAPI) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// lead builds a minimal lead with a nested company.
func lead(first, last, company string) model.Lead {
	return model.Lead{
		FirstName: first,
		LastName:  last,
		Company:   &model.Company{Name: company},
	}
}

// detail wraps leads into an upstream search-detail response.
func detail(s model.Search, leads ...model.Lead) *model.SearchDetail {
	entries := make([]model.LeadEntry, len(leads))
	for i, l := range leads {
		company := l.Company
		l.Company = nil
		entries[i] = model.LeadEntry{Lead: l, Company: company}
	}
	return &model.SearchDetail{Search: s, Leads: entries}
}
