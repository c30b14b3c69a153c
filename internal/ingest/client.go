// Package ingest fetches park data from the NPS API, normalizes it and
// loads it into the store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"nps-explorer/internal/logging"
	"nps-explorer/pkg/config"
)

// APIError is a non-2xx response from the NPS API
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NPS API %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ErrMalformedResponse marks a 200 response whose body could not be decoded
var ErrMalformedResponse = errors.New("malformed NPS response")

// Client calls the NPS API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	pageLimit  int
}

// NewClient creates a new NPS API client
func NewClient(cfg config.NPSConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 50
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		pageLimit:  cfg.PageLimit,
	}
}

// Parks returns the park records for one park code
func (c *Client) Parks(ctx context.Context, parkCode string) ([]RawPark, error) {
	var resp response[RawPark]
	if err := c.get(ctx, "parks", parkCode, 1, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// VisitorCenters returns the visitor centers of one park
func (c *Client) VisitorCenters(ctx context.Context, parkCode string) ([]RawVisitorCenter, error) {
	var resp response[RawVisitorCenter]
	if err := c.get(ctx, "visitorcenters", parkCode, c.pageLimit, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Events returns the events of one park
func (c *Client) Events(ctx context.Context, parkCode string) ([]RawEvent, error) {
	var resp response[RawEvent]
	if err := c.get(ctx, "events", parkCode, c.pageLimit, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// get fetches one endpoint, retrying transport errors, 429 and 5xx
func (c *Client) get(ctx context.Context, endpoint, parkCode string, limit int, dest interface{}) error {
	params := url.Values{}
	params.Set("parkCode", parkCode)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("api_key", c.apiKey)
	apiURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(attempt)
			logging.Warn().Err(lastErr).Str("endpoint", endpoint).Str("park_code", parkCode).
				Int("attempt", attempt).Dur("delay", delay).Msg("Retrying NPS request")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		lastErr = c.do(ctx, endpoint, apiURL, dest)
		if lastErr == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(lastErr, &apiErr) && !apiErr.retryable() {
			return lastErr
		}
		if errors.Is(lastErr, ErrMalformedResponse) {
			return lastErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("NPS %s request for %s failed after %d attempts: %w", endpoint, parkCode, c.maxRetries+1, lastErr)
}

func (c *Client) do(ctx context.Context, endpoint, apiURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "nps-explorer-ingest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: snippet}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w from %s: %v", ErrMalformedResponse, endpoint, err)
	}
	return nil
}
