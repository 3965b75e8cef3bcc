// Package places provides a client for Google Places searches run
// through an Apify actor.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Place is one reshaped Google Places result.
type Place struct {
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone,omitempty"`
	Website      string  `json:"website,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	ReviewsCount int     `json:"reviews_count,omitempty"`
}

// Client runs Google Places searches through an Apify actor.
type Client interface {
	Search(ctx context.Context, query, location string, maxResults int) ([]Place, error)
}

// Option configures the places client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	actor   string
	http    *http.Client
}

// NewClient creates a places client for the given Apify actor.
func NewClient(token, actor string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: "https://api.apify.com/v2",
		actor:   actor,
		http: &http.Client{
			// Synchronous actor runs routinely take tens of seconds.
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type actorInput struct {
	SearchStrings []string `json:"searchStringsArray"`
	Location      string   `json:"locationQuery,omitempty"`
	MaxPlaces     int      `json:"maxCrawledPlacesPerSearch,omitempty"`
}

type actorItem struct {
	Title        string  `json:"title"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Website      string  `json:"website"`
	TotalScore   float64 `json:"totalScore"`
	ReviewsCount int     `json:"reviewsCount"`
}

func (c *httpClient) Search(ctx context.Context, query, location string, maxResults int) ([]Place, error) {
	input := actorInput{
		SearchStrings: []string{query},
		Location:      location,
		MaxPlaces:     maxResults,
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, eris.Wrap(err, "places: marshal actor input")
	}

	reqURL := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, url.PathEscape(c.actor), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "places: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "places: actor run failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("places: actor run status %d", resp.StatusCode)
	}

	var items []actorItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, eris.Wrap(err, "places: decode dataset items")
	}

	places := make([]Place, len(items))
	for i, item := range items {
		places[i] = Place{
			Name:         item.Title,
			Address:      item.Address,
			Phone:        item.Phone,
			Website:      item.Website,
			Rating:       item.TotalScore,
			ReviewsCount: item.ReviewsCount,
		}
	}
	return places, nil
}
