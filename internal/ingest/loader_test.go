package ingest

import (
	"context"
	"errors"
	"testing"

	"nps-explorer/internal/park"
	"nps-explorer/internal/store"
	"nps-explorer/internal/store/storetest"
)

// fakeSource serves canned records keyed by park code
type fakeSource struct {
	parks   map[string][]RawPark
	centers map[string][]RawVisitorCenter
	events  map[string][]RawEvent
	err     error
}

func (f *fakeSource) Parks(ctx context.Context, code string) ([]RawPark, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.parks[code], nil
}

func (f *fakeSource) VisitorCenters(ctx context.Context, code string) ([]RawVisitorCenter, error) {
	return f.centers[code], nil
}

func (f *fakeSource) Events(ctx context.Context, code string) ([]RawEvent, error) {
	return f.events[code], nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		parks: map[string][]RawPark{
			"yose": {{FullName: "Yosemite National Park", States: "CA",
				EntranceFees: []EntranceFee{{Title: "Entrance - Private Vehicle", Cost: "35.00"}}}},
			"zion": {{FullName: "Zion National Park", States: "UT",
				EntranceFees: []EntranceFee{{Title: "Private Vehicle", Cost: "20"}}}},
			"acad": {{FullName: "Acadia National Park", States: "ME"}},
		},
		centers: map[string][]RawVisitorCenter{
			"yose": {{Name: "Valley Visitor Center"}, {Name: "Wawona Visitor Center"}},
		},
		events: map[string][]RawEvent{
			"yose": {
				{Title: "Ranger Walk", DateStart: "2025-06-01", IsFree: "true"},
				{Title: "Night Sky Program", DateStart: "2025-06-15", IsFree: "true"},
				{Title: "Photography Workshop", DateStart: "2025-07-04", DateEnd: "2025-07-05", FeeInfo: "$40"},
				{Title: "", DateStart: "2025-08-01"},
			},
			"zion": {
				{Title: "Canyon Geology Talk", DateStart: "2025-06-10"},
				{Title: "Backwards", DateStart: "2025-06-10", DateEnd: "2025-06-01"},
			},
		},
	}
}

func TestLoader_Run(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	report, err := NewLoader(s, newFakeSource(), []string{"yose", "ZION", "acad", "missing"}).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Parks != 2 || report.VisitorCenters != 2 || report.Events != 4 {
		t.Errorf("report counts = %+v", report)
	}
	// acad (region), missing (no data), one untitled event, one backwards event
	if len(report.Skipped) != 4 {
		t.Errorf("skipped = %+v, want 4 records", report.Skipped)
	}

	stats := park.NewStatsService(s)
	rows, err := stats.EventsPerPark(ctx, nil, nil)
	if err != nil {
		t.Fatalf("EventsPerPark: %v", err)
	}
	if len(rows) != 2 || rows[0].ParkCode != "yose" || rows[0].EventCount != 3 || rows[1].EventCount != 1 {
		t.Errorf("events per park = %+v", rows)
	}

	qualifying, err := stats.QualifyingParks(ctx, 1, 2, nil)
	if err != nil {
		t.Fatalf("QualifyingParks: %v", err)
	}
	if len(qualifying) != 1 || qualifying[0].ParkCode != "yose" {
		t.Errorf("qualifying = %+v", qualifying)
	}
}

func TestLoader_RecordsForUnknownParksAreSkipped(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	src := newFakeSource()
	src.centers["yose"] = append(src.centers["yose"], RawVisitorCenter{Name: "Hulls Cove Visitor Center", ParkCode: "acad"})
	src.events["zion"] = []RawEvent{
		{Title: "Tide Pool Walk", ParkCode: "ACAD", DateStart: "2025-06-02"},
		{Title: "Valley Stroll", ParkCode: "yose", DateStart: "2025-06-03"},
	}

	report, err := NewLoader(s, src, []string{"yose", "zion"}).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var orphans []SkippedRecord
	for _, sk := range report.Skipped {
		if sk.ParkCode == "acad" {
			orphans = append(orphans, sk)
		}
	}
	if len(orphans) != 2 {
		t.Fatalf("skipped = %+v, want the acad center and event", report.Skipped)
	}
	for _, sk := range orphans {
		if sk.Reason != `unknown park "acad"` {
			t.Errorf("reason = %q", sk.Reason)
		}
	}
	if report.VisitorCenters != 2 {
		t.Errorf("visitor centers = %d, want 2", report.VisitorCenters)
	}

	yose := "yose"
	centers, err := park.NewParkService(s).ListVisitorCenters(ctx, park.VisitorCenterFilter{ParkCode: &yose})
	if err != nil {
		t.Fatalf("ListVisitorCenters: %v", err)
	}
	if len(centers) != 2 {
		t.Errorf("yose centers = %+v", centers)
	}

	rows, err := park.NewStatsService(s).EventsPerPark(ctx, nil, nil)
	if err != nil {
		t.Fatalf("EventsPerPark: %v", err)
	}
	// the zion-listed event that reports yose is stored under yose
	if len(rows) != 2 || rows[0].ParkCode != "yose" || rows[0].EventCount != 4 || rows[1].EventCount != 0 {
		t.Errorf("events per park = %+v", rows)
	}
}

func TestLoader_RunReplacesExistingData(t *testing.T) {
	s := storetest.NewWithFixture(t, storetest.Southwest())
	ctx := context.Background()

	if _, err := NewLoader(s, newFakeSource(), []string{"yose"}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	parks, err := park.NewParkService(s).ListParks(ctx, park.ParkFilter{})
	if err != nil {
		t.Fatalf("ListParks: %v", err)
	}
	if len(parks) != 1 || parks[0].ParkCode != "yose" {
		t.Errorf("parks after reload = %+v", parks)
	}
}

func TestLoader_ConstraintViolationAbortsBatch(t *testing.T) {
	s := storetest.New(t)

	// the same park twice violates the unique park code
	_, err := NewLoader(s, newFakeSource(), []string{"yose", "YOSE"}).Run(context.Background())
	if !errors.Is(err, store.ErrConstraintViolation) {
		t.Fatalf("err = %v, want constraint violation", err)
	}

	parks, err := park.NewParkService(s).ListParks(context.Background(), park.ParkFilter{})
	if err != nil {
		t.Fatalf("ListParks: %v", err)
	}
	if len(parks) != 0 {
		t.Errorf("expected rolled back batch, found %d parks", len(parks))
	}
}

func TestLoader_FetchErrorLeavesStoreUntouched(t *testing.T) {
	s := storetest.NewWithFixture(t, storetest.Scenario())
	src := newFakeSource()
	src.err = errors.New("network down")

	if _, err := NewLoader(s, src, []string{"yose"}).Run(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}

	parks, err := park.NewParkService(s).ListParks(context.Background(), park.ParkFilter{})
	if err != nil {
		t.Fatalf("ListParks: %v", err)
	}
	if len(parks) != 2 {
		t.Errorf("store modified after failed fetch: %d parks", len(parks))
	}
}
