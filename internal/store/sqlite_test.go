package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperian/prosperian-api/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_RecordAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.RecordRun(ctx, model.Run{
		Operation:       model.OpWorkflowGlobalResults,
		Params:          map[string]string{"company_filter": "acme,initech", "limit": "10"},
		TotalSearches:   2,
		TotalLeads:      5,
		FilteredLeads:   4,
		UniqueCompanies: 2,
		ProcessingTime:  1.25,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := st.GetRun(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OpWorkflowGlobalResults, got.Operation)
	assert.Equal(t, map[string]string{"company_filter": "acme,initech", "limit": "10"}, got.Params)
	assert.Equal(t, 2, got.TotalSearches)
	assert.Equal(t, 5, got.TotalLeads)
	assert.Equal(t, 4, got.FilteredLeads)
	assert.Equal(t, 2, got.UniqueCompanies)
	assert.Equal(t, 1.25, got.ProcessingTime)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestSQLite_RecordRunKeepsProvidedID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.RecordRun(ctx, model.Run{
		ID:        "run-42",
		Operation: model.OpGlobalResult,
	})
	require.NoError(t, err)
	assert.Equal(t, "run-42", created.ID)

	got, err := st.GetRun(ctx, "run-42")
	require.NoError(t, err)
	assert.Nil(t, got.Params)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, op := range []string{
		model.OpGlobalResult,
		model.OpWorkflowGlobalResults,
		model.OpWorkflowGlobalResults,
	} {
		_, err := st.RecordRun(ctx, model.Run{
			Operation: op,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
	assert.True(t, all[1].CreatedAt.After(all[2].CreatedAt))

	workflows, err := st.ListRuns(ctx, RunFilter{Operation: model.OpWorkflowGlobalResults})
	require.NoError(t, err)
	assert.Len(t, workflows, 2)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, all[0].ID, limited[0].ID)

	offset, err := st.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, offset, 1)
	assert.Equal(t, all[1].ID, offset[0].ID)
}

func TestOpen_DisabledDriver(t *testing.T) {
	st, err := Open(context.Background(), Config{Driver: ""})
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestOpen_SQLiteDriver(t *testing.T) {
	st, err := Open(context.Background(), Config{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	require.NotNil(t, st)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	require.NoError(t, st.Migrate(context.Background()))
	_, err = st.RecordRun(context.Background(), model.Run{Operation: model.OpGlobalResult})
	require.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle"})
	require.Error(t, err)
}
