// Package pronto provides a client for the Pronto lead-generation API:
// saved-search listing, search detail (leads grouped by company) and
// single-company account enrichment.
package pronto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/prosperian/prosperian-api/internal/model"
	"github.com/prosperian/prosperian-api/internal/resilience"
)

// Client defines the Pronto API operations consumed by the aggregator.
type Client interface {
	// ListSearches returns all saved searches visible to the API key.
	ListSearches(ctx context.Context) ([]model.Search, error)
	// SearchDetail fetches one search with its leads.
	SearchDetail(ctx context.Context, id string) (*model.SearchDetail, error)
	// EnrichAccount enriches a single company and returns the raw payload.
	EnrichAccount(ctx context.Context, req EnrichRequest) (json.RawMessage, error)
}

// EnrichRequest is the enrichment call input. Name is required; the rest
// are hints that improve upstream matching.
type EnrichRequest struct {
	Name               string `json:"name"`
	Domain             string `json:"domain,omitempty"`
	CompanyLinkedInURL string `json:"company_linkedin_url,omitempty"`
}

// APIError is a non-2xx response from the Pronto API. Handlers mirror
// StatusCode back to the caller when the failure is fatal for a request.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pronto: status %d: %s", e.StatusCode, e.Body)
}

// Option configures the Pronto client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry overrides the retry policy for the search-list call.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a new Pronto API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://app.prontohq.com/api/v2",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(10, 10),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one request: rate-limit wait, auth header, body read. Non-2xx
// responses come back as *APIError wrapped as transient when the status
// is retryable, so resilience.Do can tell them apart.
func (c *httpClient) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "pronto: rate limiter wait")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, eris.Wrap(err, "pronto: create request")
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "pronto: request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "pronto: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(apiErr, resp.StatusCode)
		}
		return nil, apiErr
	}

	return respBody, nil
}

type listResponse struct {
	Searches []model.Search `json:"searches"`
}

func (c *httpClient) ListSearches(ctx context.Context) ([]model.Search, error) {
	// The search list is fatal for every aggregation request, so it gets
	// the retry policy; per-search and enrichment calls do not (their
	// failures are tolerated upstream of here).
	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, http.MethodGet, c.baseURL+"/searches", nil)
	})
	if err != nil {
		return nil, eris.Wrap(err, "pronto: list searches")
	}

	var result listResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "pronto: unmarshal search list")
	}
	return result.Searches, nil
}

func (c *httpClient) SearchDetail(ctx context.Context, id string) (*model.SearchDetail, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/searches/"+id, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "pronto: search detail %s", id)
	}

	var result model.SearchDetail
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrapf(err, "pronto: unmarshal search detail %s", id)
	}
	return &result, nil
}

func (c *httpClient) EnrichAccount(ctx context.Context, req EnrichRequest) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "pronto: marshal enrich request")
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/accounts/enrich", payload)
	if err != nil {
		return nil, eris.Wrapf(err, "pronto: enrich %q", req.Name)
	}
	return json.RawMessage(body), nil
}
