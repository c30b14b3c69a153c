package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"nps-explorer/pkg/config"
)

func testClient(url string) *Client {
	return NewClient(config.NPSConfig{
		APIKey:     "test-key",
		BaseURL:    url,
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		PageLimit:  50,
	})
}

func TestClient_Parks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/parks" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("parkCode") != "yose" || q.Get("limit") != "1" || q.Get("api_key") != "test-key" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":"1","limit":"1","start":"0","data":[
			{"parkCode":"yose","fullName":"Yosemite National Park","states":"CA",
			 "entranceFees":[{"cost":"35.00","title":"Entrance - Private Vehicle"}],
			 "activities":[{"id":"1","name":"Hiking"}]}]}`))
	}))
	defer server.Close()

	parks, err := testClient(server.URL).Parks(context.Background(), "yose")
	if err != nil {
		t.Fatalf("Parks: %v", err)
	}
	if len(parks) != 1 || parks[0].FullName != "Yosemite National Park" || len(parks[0].Activities) != 1 {
		t.Errorf("unexpected parks: %+v", parks)
	}
	if parks[0].EntranceFees[0].Cost != "35.00" {
		t.Errorf("cost = %q", parks[0].EntranceFees[0].Cost)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"name":"Valley Visitor Center","parkCode":"yose"}]}`))
	}))
	defer server.Close()

	centers, err := testClient(server.URL).VisitorCenters(context.Background(), "yose")
	if err != nil {
		t.Fatalf("VisitorCenters: %v", err)
	}
	if len(centers) != 1 || calls != 3 {
		t.Errorf("centers = %d, calls = %d", len(centers), calls)
	}
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Events(context.Background(), "yose")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want wrapped 429 APIError", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"API_KEY_INVALID"}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Parks(context.Background(), "yose")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("err = %v, want 403 APIError", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"data": [`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Parks(context.Background(), "yose")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := testClient(server.URL)
	c.retryDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Parks(ctx, "yose")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}
