package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"nps-explorer/internal/handler"
	"nps-explorer/internal/park"
	"nps-explorer/internal/store"
	"nps-explorer/internal/store/storetest"
	"nps-explorer/pkg/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, s *store.Store) *gin.Engine {
	t.Helper()
	return handler.NewRouter(handler.RouterConfig{
		Parks:  park.NewParkService(s),
		Stats:  park.NewStatsService(s),
		Health: s,
	})
}

func southwestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newRouter(t, storetest.NewWithFixture(t, storetest.Southwest()))
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
}

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func TestRoot(t *testing.T) {
	w := get(t, southwestRouter(t), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "backend running" || body["project"] == "" || body["description"] == "" {
		t.Errorf("unexpected body: %v", body)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

type downPinger struct{}

func (downPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	w := get(t, southwestRouter(t), "/health")
	if w.Code != http.StatusOK {
		t.Errorf("healthy status = %d", w.Code)
	}

	s := storetest.New(t)
	r := handler.NewRouter(handler.RouterConfig{
		Parks:  park.NewParkService(s),
		Stats:  park.NewStatsService(s),
		Health: downPinger{},
	})
	if w := get(t, r, "/health"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy status = %d, want 503", w.Code)
	}
}

func TestListParks(t *testing.T) {
	r := southwestRouter(t)

	tests := []struct {
		target string
		want   []string
	}{
		{"/parks", []string{"arch", "brca", "grca", "jotr", "yose", "zion"}},
		{"/parks?state_code=CA", []string{"jotr", "yose"}},
		{"/parks?state_code=ut", []string{"arch", "brca", "zion"}},
		{"/parks?max_fee=35", []string{"arch", "jotr", "zion"}},
		{"/parks?state_code=CA&max_fee=35", []string{"jotr"}},
		{"/parks?state_code=CO", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, r, tt.target)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			var parks []model.Park
			decode(t, w, &parks)
			if parks == nil {
				t.Fatalf("expected JSON array, got %s", w.Body.String())
			}
			got := make([]string, len(parks))
			for i, p := range parks {
				got[i] = p.ParkCode
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	r := southwestRouter(t)

	tests := []struct {
		target string
		detail string
	}{
		{"/parks?state_code=WY", "state_code must be one of"},
		{"/parks?max_fee=-1", "max_fee must be at least 0"},
		{"/parks?max_fee=abc", "max_fee must be an integer"},
		{"/parks?max_fee=", "max_fee must be an integer"},
		{"/parks/bad-code", "park_code must be alphanumeric"},
		{"/events?start=2025-13-01", "start must be a date"},
		{"/events?start=2025-06-15&end=2025-06-01", "end must not be before start"},
		{"/events?free_only=maybe", "free_only must be a boolean"},
		{"/events?free_only=", "free_only must be a boolean"},
		{"/stats/events-per-park?year=0", "year must be at least 1000"},
		{"/stats/events-per-park?year=25", "year must be at least 1000"},
		{"/stats/events-per-park?year=", "year must be an integer"},
		{"/stats/events-per-park?top_n=0", "top_n must be at least 1"},
		{"/stats/visitor-centers-per-park?min_centers=-2", "min_centers"},
		{"/stats/visitor-centers-per-park?min_centers=", "min_centers must be an integer"},
		{"/stats/top-free-event-parks?limit=0", "limit must be at least 1"},
		{"/stats/underserved-parks?max_events=-1", "max_events"},
		{"/stats/underserved-parks?max_events=", "max_events must be an integer"},
		{"/stats/qualifying-parks?min_events=-1", "min_events"},
		{"/stats/qualifying-parks?min_events=", "min_events must be an integer"},
		{"/stats/qualifying-parks?min_centers=1.5", "min_centers must be an integer"},
		{"/stats/above-average-event-parks?year=abcd", "year must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, r, tt.target)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422: %s", w.Code, w.Body.String())
			}
			var body errorBody
			decode(t, w, &body)
			if body.Error == "" || len(body.Details) == 0 {
				t.Fatalf("expected error and details, got %+v", body)
			}
			if tt.detail != "" && !strings.Contains(strings.Join(body.Details, "; "), tt.detail) {
				t.Errorf("details %v missing %q", body.Details, tt.detail)
			}
		})
	}
}

func TestGetPark(t *testing.T) {
	r := southwestRouter(t)

	w := get(t, r, "/parks/YOSE")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var p model.Park
	decode(t, w, &p)
	if p.ParkCode != "yose" || p.StateCode != "CA" || p.EntranceFee != 35 {
		t.Errorf("unexpected park: %+v", p)
	}

	w = get(t, r, "/parks/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body errorBody
	decode(t, w, &body)
	if body.Error != "Park not found" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestListVisitorCenters(t *testing.T) {
	w := get(t, southwestRouter(t), "/visitor-centers?park_code=grca")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var centers []model.VisitorCenterWithPark
	decode(t, w, &centers)
	if len(centers) != 3 {
		t.Fatalf("got %d centers, want 3", len(centers))
	}
	for _, vc := range centers {
		if vc.ParkCode != "grca" || vc.ParkName != "Grand Canyon National Park" {
			t.Errorf("unexpected center: %+v", vc)
		}
	}
}

func TestListEvents_DateRange(t *testing.T) {
	w := get(t, southwestRouter(t), "/events?park_code=yose&start=2025-06-01&end=2025-06-15")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var raw []map[string]interface{}
	decode(t, w, &raw)
	if len(raw) != 2 {
		t.Fatalf("got %d events, want 2", len(raw))
	}
	if raw[0]["event_title"] != "Ranger Walk" || raw[0]["start_date"] != "2025-06-01" {
		t.Errorf("unexpected first event: %v", raw[0])
	}
	if raw[1]["event_title"] != "Night Sky Program" || raw[1]["end_date"] != nil {
		t.Errorf("unexpected second event: %v", raw[1])
	}
}

func TestStatsEndpoints(t *testing.T) {
	r := southwestRouter(t)

	firstCodes := func(t *testing.T, target string) []string {
		t.Helper()
		w := get(t, r, target)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d: %s", target, w.Code, w.Body.String())
		}
		var rows []struct {
			ParkCode string `json:"park_code"`
		}
		decode(t, w, &rows)
		codes := make([]string, len(rows))
		for i, row := range rows {
			codes[i] = row.ParkCode
		}
		return codes
	}

	tests := []struct {
		target string
		want   string
	}{
		{"/stats/events-per-park?year=2025", "grca,yose,arch,zion,brca,jotr"},
		{"/stats/events-per-park?year=2025&top_n=2", "grca,yose"},
		{"/stats/visitor-centers-per-park", "grca,brca,yose,arch,zion,jotr"},
		{"/stats/visitor-centers-per-park?min_centers=2", "grca,brca,yose"},
		{"/stats/above-average-event-parks", "grca,yose"},
		{"/stats/above-average-event-parks?year=2025", "grca"},
		{"/stats/top-free-event-parks", "grca,arch,yose,zion"},
		{"/stats/top-free-event-parks?limit=2", "grca,arch"},
		{"/stats/underserved-parks", "jotr,brca,zion,arch"},
		{"/stats/underserved-parks?max_events=2&year=2025", "brca,jotr,zion,arch"},
		{"/stats/qualifying-parks", "grca"},
		{"/stats/qualifying-parks?min_centers=1&min_events=2&year=2025", "grca,yose,arch"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := strings.Join(firstCodes(t, tt.target), ","); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAboveAverageIncludesAverage(t *testing.T) {
	w := get(t, southwestRouter(t), "/stats/above-average-event-parks")
	var rows []model.AboveAverageEventPark
	decode(t, w, &rows)
	if len(rows) == 0 || rows[0].AverageEventCount != 2.8 {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestWriteMethodsNotAllowed(t *testing.T) {
	r := southwestRouter(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/parks", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s /parks status = %d, want 405", method, w.Code)
		}
	}
}

func TestStoreFailureIs500(t *testing.T) {
	s := storetest.New(t)
	r := newRouter(t, s)
	_ = s.Close()

	w := get(t, r, "/parks")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body errorBody
	decode(t, w, &body)
	if body.Error == "" {
		t.Error("expected error message")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := southwestRouter(t)
	get(t, r, "/parks")

	w := get(t, r, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "nps_api_requests_total") {
		t.Error("metrics output missing nps_api_requests_total")
	}
}
