// Package park is the query layer: parameterized reads over parks,
// visitor centers and events, plus the aggregate statistics.
package park

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"nps-explorer/internal/metrics"
	"nps-explorer/pkg/model"
)

// ParkFilter narrows ListParks. Nil fields are not applied.
type ParkFilter struct {
	StateCode *string
	MaxFee    *int // strict upper bound on entrance_fee
}

// VisitorCenterFilter narrows ListVisitorCenters
type VisitorCenterFilter struct {
	ParkCode *string
}

// EventFilter narrows ListEvents. Start and End bound start_date inclusively.
type EventFilter struct {
	ParkCode *string
	Start    *model.Date
	End      *model.Date
	FreeOnly bool
}

// ParkService handles park, visitor center and event listings
type ParkService struct {
	db Querier
}

// NewParkService creates a new park service
func NewParkService(db Querier) *ParkService {
	return &ParkService{db: db}
}

// ListParks returns parks ordered by park code
func (s *ParkService) ListParks(ctx context.Context, f ParkFilter) ([]model.Park, error) {
	var v validator
	if f.StateCode != nil {
		v.check(model.IsValidRegion(*f.StateCode),
			fmt.Sprintf("state_code must be one of %s", strings.Join(model.Regions, ", ")))
	}
	v.nonNegative("max_fee", f.MaxFee)
	if err := v.err(); err != nil {
		return nil, err
	}

	var c conditions
	if f.StateCode != nil {
		c.add("state_code = ?", strings.ToUpper(strings.TrimSpace(*f.StateCode)))
	}
	if f.MaxFee != nil {
		c.add("entrance_fee < ?", *f.MaxFee)
	}

	parks := []model.Park{}
	query := `
        SELECT id, park_code, name, state_code, entrance_fee, total_activities
        FROM parks` + c.where() + `
        ORDER BY park_code`
	if err := selectAll(ctx, s.db, "list_parks", &parks, query, c.args...); err != nil {
		return nil, err
	}
	return parks, nil
}

// GetPark returns one park by its code, case-insensitively
func (s *ParkService) GetPark(ctx context.Context, code string) (*model.Park, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, &ValidationError{Details: []string{"park_code must not be empty"}}
	}

	var p model.Park
	start := time.Now()
	err := s.db.WithConn(ctx, func(q sqlx.QueryerContext) error {
		return sqlx.GetContext(ctx, q, &p, `
            SELECT id, park_code, name, state_code, entrance_fee, total_activities
            FROM parks
            WHERE park_code = $1
        `, code)
	})
	if errors.Is(err, sql.ErrNoRows) {
		metrics.ObserveQuery("get_park", start, nil)
		return nil, ErrNotFound
	}
	metrics.ObserveQuery("get_park", start, err)
	if err != nil {
		return nil, fmt.Errorf("get_park: %w", err)
	}
	return &p, nil
}

// ListVisitorCenters returns visitor centers with their park name, ordered
// by center name
func (s *ParkService) ListVisitorCenters(ctx context.Context, f VisitorCenterFilter) ([]model.VisitorCenterWithPark, error) {
	var c conditions
	if f.ParkCode != nil {
		c.add("vc.park_code = ?", normalizeCode(*f.ParkCode))
	}

	centers := []model.VisitorCenterWithPark{}
	query := `
        SELECT vc.id, vc.park_code, vc.center_name, p.name AS park_name
        FROM visitor_centers vc
        JOIN parks p ON p.park_code = vc.park_code` + c.where() + `
        ORDER BY vc.center_name, vc.id`
	if err := selectAll(ctx, s.db, "list_visitor_centers", &centers, query, c.args...); err != nil {
		return nil, err
	}
	return centers, nil
}

// ListEvents returns events ordered by start date then title
func (s *ParkService) ListEvents(ctx context.Context, f EventFilter) ([]model.Event, error) {
	if f.Start != nil && f.End != nil && f.End.Before(f.Start.Time) {
		return nil, &ValidationError{Details: []string{"end must not be before start"}}
	}

	var c conditions
	if f.ParkCode != nil {
		c.add("park_code = ?", normalizeCode(*f.ParkCode))
	}
	if f.Start != nil {
		c.add("start_date >= CAST(? AS DATE)", f.Start.String())
	}
	if f.End != nil {
		c.add("start_date <= CAST(? AS DATE)", f.End.String())
	}
	if f.FreeOnly {
		c.add("is_free = ?", true)
	}

	events := []model.Event{}
	query := `
        SELECT id, park_code, event_title, start_date, end_date, is_free
        FROM events` + c.where() + `
        ORDER BY start_date, event_title, id`
	if err := selectAll(ctx, s.db, "list_events", &events, query, c.args...); err != nil {
		return nil, err
	}
	return events, nil
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
