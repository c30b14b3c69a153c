// Package storetest builds in-memory DuckDB stores with fixture data for
// tests in other packages.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"nps-explorer/internal/store"
	"nps-explorer/pkg/config"
	"nps-explorer/pkg/model"
)

// Fixture is a set of rows to load into a fresh store
type Fixture struct {
	Parks          []model.Park
	VisitorCenters []model.VisitorCenter
	Events         []model.Event
}

// New opens an empty in-memory DuckDB store with the schema applied
func New(t testing.TB) *store.Store {
	t.Helper()

	s, err := store.Open(config.DatabaseConfig{Driver: store.DriverDuckDB})
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return s
}

// NewWithFixture opens a store and loads f into it
func NewWithFixture(t testing.TB, f Fixture) *store.Store {
	t.Helper()
	s := New(t)
	Load(t, s, f)
	return s
}

// Load inserts every row of f, failing the test on any error
func Load(t testing.TB, s *store.Store, f Fixture) {
	t.Helper()
	ctx := context.Background()

	err := s.WithConn(ctx, func(q sqlx.QueryerContext) error {
		for _, p := range f.Parks {
			if _, err := store.InsertPark(ctx, q, p); err != nil {
				return err
			}
		}
		for _, vc := range f.VisitorCenters {
			if _, err := store.InsertVisitorCenter(ctx, q, vc); err != nil {
				return err
			}
		}
		for _, ev := range f.Events {
			if _, err := store.InsertEvent(ctx, q, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}
}

// Date is shorthand for model.NewDate
func Date(year int, month time.Month, day int) model.Date {
	return model.NewDate(year, month, day)
}

// DatePtr returns a pointer to a new Date
func DatePtr(year int, month time.Month, day int) *model.Date {
	d := model.NewDate(year, month, day)
	return &d
}

// Scenario is the two-park dataset: yose (CA, fee 35) with two visitor
// centers and three 2025 events, zion (UT, fee 20) with no visitor centers
// and one 2025 event.
func Scenario() Fixture {
	return Fixture{
		Parks: []model.Park{
			{ParkCode: "yose", Name: "Yosemite National Park", StateCode: "CA", EntranceFee: 35, TotalActivities: 40},
			{ParkCode: "zion", Name: "Zion National Park", StateCode: "UT", EntranceFee: 20, TotalActivities: 30},
		},
		VisitorCenters: []model.VisitorCenter{
			{ParkCode: "yose", CenterName: "Valley Visitor Center"},
			{ParkCode: "yose", CenterName: "Wawona Visitor Center"},
		},
		Events: []model.Event{
			{ParkCode: "yose", EventTitle: "Ranger Walk", StartDate: Date(2025, time.June, 1), EndDate: DatePtr(2025, time.June, 1), IsFree: true},
			{ParkCode: "yose", EventTitle: "Night Sky Program", StartDate: Date(2025, time.June, 15), IsFree: true},
			{ParkCode: "yose", EventTitle: "Photography Workshop", StartDate: Date(2025, time.July, 4), EndDate: DatePtr(2025, time.July, 5), IsFree: false},
			{ParkCode: "zion", EventTitle: "Canyon Geology Talk", StartDate: Date(2025, time.June, 10), IsFree: true},
		},
	}
}

// Southwest is a larger dataset covering zero-event parks, zero-center
// parks, events in two years and mixed free flags.
//
//	park  state fee  centers  events (2025/2024)  free
//	arch  UT    30   1        2/0                 2
//	brca  UT    35   2        0/1                 0
//	grca  AZ    35   3        6/1                 4
//	jotr  CA    30   0        0/0                 0
//	yose  CA    35   2        3/0                 2
//	zion  UT    20   1        1/0                 1
func Southwest() Fixture {
	f := Fixture{
		Parks: []model.Park{
			{ParkCode: "arch", Name: "Arches National Park", StateCode: "UT", EntranceFee: 30, TotalActivities: 20},
			{ParkCode: "brca", Name: "Bryce Canyon National Park", StateCode: "UT", EntranceFee: 35, TotalActivities: 25},
			{ParkCode: "grca", Name: "Grand Canyon National Park", StateCode: "AZ", EntranceFee: 35, TotalActivities: 45},
			{ParkCode: "jotr", Name: "Joshua Tree National Park", StateCode: "CA", EntranceFee: 30, TotalActivities: 28},
			{ParkCode: "yose", Name: "Yosemite National Park", StateCode: "CA", EntranceFee: 35, TotalActivities: 40},
			{ParkCode: "zion", Name: "Zion National Park", StateCode: "UT", EntranceFee: 20, TotalActivities: 30},
		},
		VisitorCenters: []model.VisitorCenter{
			{ParkCode: "arch", CenterName: "Arches Visitor Center"},
			{ParkCode: "brca", CenterName: "Bryce Canyon Visitor Center"},
			{ParkCode: "brca", CenterName: "Mossy Cave Station"},
			{ParkCode: "grca", CenterName: "Grand Canyon Visitor Center"},
			{ParkCode: "grca", CenterName: "North Rim Visitor Center"},
			{ParkCode: "grca", CenterName: "Desert View Watchtower"},
			{ParkCode: "yose", CenterName: "Valley Visitor Center"},
			{ParkCode: "yose", CenterName: "Wawona Visitor Center"},
			{ParkCode: "zion", CenterName: "Zion Canyon Visitor Center"},
		},
		Events: []model.Event{
			{ParkCode: "arch", EventTitle: "Delicate Arch Hike", StartDate: Date(2025, time.May, 3), IsFree: true},
			{ParkCode: "arch", EventTitle: "Star Party", StartDate: Date(2025, time.September, 20), EndDate: DatePtr(2025, time.September, 21), IsFree: true},
			{ParkCode: "brca", EventTitle: "Astronomy Festival", StartDate: Date(2024, time.June, 12), EndDate: DatePtr(2024, time.June, 15), IsFree: false},
			{ParkCode: "grca", EventTitle: "Old Rim Walk", StartDate: Date(2024, time.December, 31), IsFree: true},
			{ParkCode: "yose", EventTitle: "Ranger Walk", StartDate: Date(2025, time.June, 1), IsFree: true},
			{ParkCode: "yose", EventTitle: "Night Sky Program", StartDate: Date(2025, time.June, 15), IsFree: true},
			{ParkCode: "yose", EventTitle: "Photography Workshop", StartDate: Date(2025, time.July, 4), EndDate: DatePtr(2025, time.July, 5), IsFree: false},
			{ParkCode: "zion", EventTitle: "Canyon Geology Talk", StartDate: Date(2025, time.June, 10), IsFree: true},
		},
	}

	grca2025 := []struct {
		title string
		month time.Month
		day   int
		free  bool
	}{
		{"Condor Talk", time.January, 2, true},
		{"Geology Walk", time.March, 8, true},
		{"Fossil Walk", time.June, 1, true},
		{"Mule Ride Briefing", time.June, 30, false},
		{"Desert View Sunset", time.August, 14, false},
		{"Junior Ranger Day", time.October, 11, false},
	}
	for _, e := range grca2025 {
		f.Events = append(f.Events, model.Event{
			ParkCode:   "grca",
			EventTitle: e.title,
			StartDate:  Date(2025, e.month, e.day),
			IsFree:     e.free,
		})
	}
	return f
}
