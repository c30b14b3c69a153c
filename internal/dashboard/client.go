// Package dashboard is a terminal client for the NPS Explorer API. It only
// talks to the HTTP surface and never opens the store.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"nps-explorer/pkg/config"
	"nps-explorer/pkg/model"
)

// APIError is a non-200 answer from the API
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API returned %d: %s", e.StatusCode, e.Message)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return msg
}

// APIClient calls the read-only API
type APIClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewAPIClient creates a new API client
func NewAPIClient(cfg config.DashboardConfig) *APIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
	}
}

// EventQuery mirrors the /events filters
type EventQuery struct {
	ParkCode string
	Start    string
	End      string
	FreeOnly bool
}

// Parks calls GET /parks
func (c *APIClient) Parks(ctx context.Context, stateCode string, maxFee *int) ([]model.Park, error) {
	q := url.Values{}
	setString(q, "state_code", stateCode)
	setInt(q, "max_fee", maxFee)
	return getList[model.Park](ctx, c, "/parks", q)
}

// Park calls GET /parks/:park_code
func (c *APIClient) Park(ctx context.Context, code string) (*model.Park, error) {
	var out model.Park
	if err := c.get(ctx, "/parks/"+url.PathEscape(code), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VisitorCenters calls GET /visitor-centers
func (c *APIClient) VisitorCenters(ctx context.Context, parkCode string) ([]model.VisitorCenterWithPark, error) {
	q := url.Values{}
	setString(q, "park_code", parkCode)
	return getList[model.VisitorCenterWithPark](ctx, c, "/visitor-centers", q)
}

// Events calls GET /events
func (c *APIClient) Events(ctx context.Context, eq EventQuery) ([]model.Event, error) {
	q := url.Values{}
	setString(q, "park_code", eq.ParkCode)
	setString(q, "start", eq.Start)
	setString(q, "end", eq.End)
	if eq.FreeOnly {
		q.Set("free_only", "true")
	}
	return getList[model.Event](ctx, c, "/events", q)
}

// EventsPerPark calls GET /stats/events-per-park
func (c *APIClient) EventsPerPark(ctx context.Context, year *int) ([]model.EventCountPerPark, error) {
	q := url.Values{}
	setInt(q, "year", year)
	return getList[model.EventCountPerPark](ctx, c, "/stats/events-per-park", q)
}

// VisitorCentersPerPark calls GET /stats/visitor-centers-per-park
func (c *APIClient) VisitorCentersPerPark(ctx context.Context) ([]model.VisitorCenterCountPerPark, error) {
	return getList[model.VisitorCenterCountPerPark](ctx, c, "/stats/visitor-centers-per-park", nil)
}

// AboveAverageEventParks calls GET /stats/above-average-event-parks
func (c *APIClient) AboveAverageEventParks(ctx context.Context, year *int) ([]model.AboveAverageEventPark, error) {
	q := url.Values{}
	setInt(q, "year", year)
	return getList[model.AboveAverageEventPark](ctx, c, "/stats/above-average-event-parks", q)
}

// TopFreeEventParks calls GET /stats/top-free-event-parks
func (c *APIClient) TopFreeEventParks(ctx context.Context, limit int) ([]model.FreeEventCountPerPark, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	return getList[model.FreeEventCountPerPark](ctx, c, "/stats/top-free-event-parks", q)
}

// UnderservedParks calls GET /stats/underserved-parks
func (c *APIClient) UnderservedParks(ctx context.Context, maxEvents int, year *int) ([]model.EventCountPerPark, error) {
	q := url.Values{}
	q.Set("max_events", strconv.Itoa(maxEvents))
	setInt(q, "year", year)
	return getList[model.EventCountPerPark](ctx, c, "/stats/underserved-parks", q)
}

// QualifyingParks calls GET /stats/qualifying-parks
func (c *APIClient) QualifyingParks(ctx context.Context, minCenters, minEvents int, year *int) ([]model.QualifyingPark, error) {
	q := url.Values{}
	q.Set("min_centers", strconv.Itoa(minCenters))
	q.Set("min_events", strconv.Itoa(minEvents))
	setInt(q, "year", year)
	return getList[model.QualifyingPark](ctx, c, "/stats/qualifying-parks", q)
}

func getList[T any](ctx context.Context, c *APIClient, path string, q url.Values) ([]T, error) {
	var out []T
	if err := c.get(ctx, path, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) get(ctx context.Context, path string, q url.Values, dest interface{}) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			apiErr.Message, apiErr.Details = payload.Error, payload.Details
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func setString(q url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value *int) {
	if value != nil {
		q.Set(key, strconv.Itoa(*value))
	}
}
