package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prosperian/prosperian-api/internal/aggregate"
	"github.com/prosperian/prosperian-api/internal/model"
	"github.com/prosperian/prosperian-api/internal/store"
	"github.com/prosperian/prosperian-api/pkg/salesnav"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGlobalResult(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var page *int
	// paginate is a legacy alias of page.
	for _, name := range []string{"page", "paginate"} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, eris.Errorf("invalid %s parameter", name))
			return
		}
		page = &n
		break
	}

	params := aggregate.GlobalResultParams{
		Page: page,
		Filters: aggregate.FilterSet{
			CompanyNames: aggregate.ParseAlternatives(q.Get("company_name")),
			FirstNames:   aggregate.ParseAlternatives(q.Get("first_name")),
			LastNames:    aggregate.ParseAlternatives(q.Get("last_name")),
		},
	}

	start := time.Now()
	envelope, err := s.agg.GlobalResult(r.Context(), params)
	if err != nil {
		zap.L().Error("server: global result failed", zap.Error(err))
		writeError(w, upstreamStatus(err), err)
		return
	}

	s.recordRun(model.Run{
		Operation: model.OpGlobalResult,
		Params: map[string]string{
			"page":         q.Get("page"),
			"paginate":     q.Get("paginate"),
			"company_name": q.Get("company_name"),
			"first_name":   q.Get("first_name"),
			"last_name":    q.Get("last_name"),
		},
		TotalLeads:     envelope.Total,
		FilteredLeads:  envelope.Total,
		ProcessingTime: time.Since(start).Seconds(),
	})

	writeJSON(w, http.StatusOK, envelope)
}

func (s *Server) handleWorkflowGlobalResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start := time.Now()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success":         false,
				"error":           "invalid limit parameter",
				"details":         raw,
				"processing_time": time.Since(start).Seconds(),
			})
			return
		}
		limit = n
	}

	params := aggregate.WorkflowParams{
		Filters: aggregate.FilterSet{
			CompanyNames:     aggregate.ParseAlternatives(q.Get("company_filter")),
			Titles:           aggregate.ParseAlternatives(q.Get("title_filter")),
			LeadLocations:    aggregate.ParseAlternatives(q.Get("lead_location_filter")),
			EmployeeRanges:   aggregate.ParseAlternatives(q.Get("employee_range_filter")),
			CompanyLocations: aggregate.ParseAlternatives(q.Get("company_location_filter")),
			Industries:       aggregate.ParseAlternatives(q.Get("industry_filter")),
		},
		Limit:                limit,
		IncludeSearchDetails: q.Get("include_search_details") == "true",
	}

	result, err := s.agg.WorkflowGlobalResults(r.Context(), params)
	if err != nil {
		zap.L().Error("server: workflow global results failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":         false,
			"error":           "workflow failed",
			"details":         err.Error(),
			"processing_time": time.Since(start).Seconds(),
		})
		return
	}

	s.recordRun(model.Run{
		Operation: model.OpWorkflowGlobalResults,
		Params: map[string]string{
			"company_filter":          q.Get("company_filter"),
			"title_filter":            q.Get("title_filter"),
			"lead_location_filter":    q.Get("lead_location_filter"),
			"employee_range_filter":   q.Get("employee_range_filter"),
			"company_location_filter": q.Get("company_location_filter"),
			"industry_filter":         q.Get("industry_filter"),
			"limit":                   q.Get("limit"),
		},
		TotalSearches:   result.TotalSearches,
		TotalLeads:      result.TotalLeads,
		FilteredLeads:   result.FilteredLeads,
		UniqueCompanies: result.UniqueCompanies,
		ProcessingTime:  result.ProcessingTime,
	})

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := s.pronto.ListSearches(r.Context())
	if err != nil {
		zap.L().Error("server: list searches failed", zap.Error(err))
		writeError(w, upstreamStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"searches": searches})
}

func (s *Server) handlePlacesSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, eris.New("query is required"))
		return
	}

	maxResults := 20
	if raw := q.Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, eris.New("invalid max_results parameter"))
			return
		}
		maxResults = n
	}

	results, err := s.places.Search(r.Context(), query, q.Get("location"), maxResults)
	if err != nil {
		zap.L().Error("server: places search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"places": results, "total": len(results)})
}

func (s *Server) handleSalesNavURL(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	built := salesnav.BuildURL(salesnav.Query{
		Keywords:     q.Get("keywords"),
		Titles:       aggregate.ParseAlternatives(q.Get("titles")),
		Locations:    aggregate.ParseAlternatives(q.Get("locations")),
		CompanySizes: aggregate.ParseAlternatives(q.Get("company_sizes")),
		Industries:   aggregate.ParseAlternatives(q.Get("industries")),
	})
	writeJSON(w, http.StatusOK, map[string]string{"url": built})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, eris.New("run history is disabled"))
		return
	}

	q := r.URL.Query()
	filter := store.RunFilter{Operation: q.Get("operation"), Limit: 50}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if raw := q.Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("server: list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs, "total": len(runs)})
}

// recordRun persists run history in the background. Best effort only: a
// nil store disables it and failures are logged, never surfaced.
func (s *Server) recordRun(run model.Run) {
	if s.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.store.RecordRun(ctx, run); err != nil {
			zap.L().Warn("server: record run failed",
				zap.String("operation", run.Operation),
				zap.Error(err),
			)
		}
	}()
}
