package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"nps-explorer/internal/logging"
	"nps-explorer/internal/metrics"
	"nps-explorer/internal/store"
	"nps-explorer/pkg/model"
)

// Source supplies raw NPS records per park. *Client implements it.
type Source interface {
	Parks(ctx context.Context, parkCode string) ([]RawPark, error)
	VisitorCenters(ctx context.Context, parkCode string) ([]RawVisitorCenter, error)
	Events(ctx context.Context, parkCode string) ([]RawEvent, error)
}

// SkippedRecord is a fetched record rejected before insert
type SkippedRecord struct {
	Table    string `json:"table"`
	ParkCode string `json:"park_code"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
}

// Report summarizes one ingestion run
type Report struct {
	Parks          int             `json:"parks"`
	VisitorCenters int             `json:"visitor_centers"`
	Events         int             `json:"events"`
	Skipped        []SkippedRecord `json:"skipped"`
}

// Loader replaces the store contents with freshly fetched data
type Loader struct {
	store     *store.Store
	source    Source
	parkCodes []string
}

// NewLoader creates a new loader for the given park codes
func NewLoader(s *store.Store, source Source, parkCodes []string) *Loader {
	return &Loader{store: s, source: source, parkCodes: parkCodes}
}

// batch is the validated set of rows for one run
type batch struct {
	parks   []model.Park
	centers []model.VisitorCenter
	events  []model.Event
	known   map[string]bool
	report  *Report
}

func (b *batch) skip(table, parkCode, name string, err error) {
	logging.Warn().Str("table", table).Str("park_code", parkCode).Str("name", name).
		Str("reason", err.Error()).Msg("Skipping record")
	b.report.Skipped = append(b.report.Skipped, SkippedRecord{
		Table: table, ParkCode: parkCode, Name: name, Reason: err.Error(),
	})
}

// Run fetches every configured park before touching the store, then resets
// it and inserts the batch in one transaction. A constraint violation rolls
// the whole batch back.
func (l *Loader) Run(ctx context.Context) (*Report, error) {
	b := &batch{known: map[string]bool{}, report: &Report{Skipped: []SkippedRecord{}}}

	if err := l.fetch(ctx, b); err != nil {
		return nil, err
	}

	logging.Info().Msg("Initializing database schema")
	if err := l.store.InitSchema(ctx); err != nil {
		return nil, err
	}
	logging.Info().Msg("Clearing existing data (events, visitor centers, parks)")
	if err := l.store.Reset(ctx); err != nil {
		return nil, err
	}

	err := l.store.InTx(ctx, func(tx *sqlx.Tx) error {
		return insertBatch(ctx, tx, b)
	})
	if err != nil {
		return nil, fmt.Errorf("ingestion aborted, batch rolled back: %w", err)
	}

	r := b.report
	r.Parks, r.VisitorCenters, r.Events = len(b.parks), len(b.centers), len(b.events)
	recordMetrics(r)

	logging.Info().Int("parks", r.Parks).Int("visitor_centers", r.VisitorCenters).
		Int("events", r.Events).Int("skipped", len(r.Skipped)).Msg("Data loading complete")
	return r, nil
}

func (l *Loader) fetch(ctx context.Context, b *batch) error {
	logging.Info().Int("parks", len(l.parkCodes)).Msg("Fetching park details")
	for _, code := range l.parkCodes {
		code = strings.ToLower(strings.TrimSpace(code))
		raws, err := l.source.Parks(ctx, code)
		if err != nil {
			return fmt.Errorf("failed to fetch park %s: %w", code, err)
		}
		if len(raws) == 0 {
			b.skip("parks", code, "", fmt.Errorf("no park data returned"))
			continue
		}

		p, err := NormalizePark(code, raws[0])
		if err != nil {
			b.skip("parks", code, p.Name, err)
			continue
		}
		b.parks = append(b.parks, p)
		b.known[p.ParkCode] = true
		logging.Info().Str("park_code", code).Str("name", p.Name).Msg("Fetched park")
	}

	for _, p := range b.parks {
		code := p.ParkCode

		centers, err := l.source.VisitorCenters(ctx, code)
		if err != nil {
			return fmt.Errorf("failed to fetch visitor centers for %s: %w", code, err)
		}
		for _, raw := range centers {
			owner := recordPark(code, raw.ParkCode)
			if !b.known[owner] {
				b.skip("visitor_centers", owner, raw.Name, fmt.Errorf("unknown park %q", owner))
				continue
			}
			b.centers = append(b.centers, NormalizeVisitorCenter(owner, raw))
		}

		events, err := l.source.Events(ctx, code)
		if err != nil {
			return fmt.Errorf("failed to fetch events for %s: %w", code, err)
		}
		for _, raw := range events {
			owner := recordPark(code, raw.ParkCode)
			if !b.known[owner] {
				b.skip("events", owner, raw.Title, fmt.Errorf("unknown park %q", owner))
				continue
			}
			ev, err := NormalizeEvent(owner, raw)
			if err != nil {
				b.skip("events", owner, ev.EventTitle, err)
				continue
			}
			b.events = append(b.events, ev)
		}

		logging.Info().Str("park_code", code).Int("visitor_centers", len(centers)).
			Int("events", len(events)).Msg("Fetched park children")
	}
	return nil
}

// recordPark returns the park a child record belongs to: its own park code
// when the API reports one, otherwise the park it was requested for
func recordPark(requested, reported string) string {
	if reported = strings.ToLower(strings.TrimSpace(reported)); reported != "" {
		return reported
	}
	return requested
}

func insertBatch(ctx context.Context, tx *sqlx.Tx, b *batch) error {
	for _, p := range b.parks {
		if _, err := store.InsertPark(ctx, tx, p); err != nil {
			return fmt.Errorf("park %s: %w", p.ParkCode, err)
		}
	}
	for _, vc := range b.centers {
		if _, err := store.InsertVisitorCenter(ctx, tx, vc); err != nil {
			return fmt.Errorf("visitor center %q of %s: %w", vc.CenterName, vc.ParkCode, err)
		}
	}
	for _, ev := range b.events {
		if _, err := store.InsertEvent(ctx, tx, ev); err != nil {
			return fmt.Errorf("event %q of %s: %w", ev.EventTitle, ev.ParkCode, err)
		}
	}
	return nil
}

func recordMetrics(r *Report) {
	metrics.RecordIngest("parks", "inserted", r.Parks)
	metrics.RecordIngest("visitor_centers", "inserted", r.VisitorCenters)
	metrics.RecordIngest("events", "inserted", r.Events)

	skipped := map[string]int{}
	for _, s := range r.Skipped {
		skipped[s.Table]++
	}
	for table, n := range skipped {
		metrics.RecordIngest(table, "skipped", n)
	}
}
