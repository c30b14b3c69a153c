package park

import (
	"context"

	"nps-explorer/pkg/model"
)

const (
	DefaultTopFreeLimit      = 5
	DefaultUnderservedMax    = 2
	DefaultQualifyingCenters = 1
	DefaultQualifyingEvents  = 6
)

// yearPredicate filters rows of alias e by the calendar year of start_date
const yearPredicate = "EXTRACT(YEAR FROM e.start_date) = ?"

// StatsService computes per-park aggregates
type StatsService struct {
	db Querier
}

// NewStatsService creates a new stats service
func NewStatsService(db Querier) *StatsService {
	return &StatsService{db: db}
}

// EventsPerPark counts events for every park, including parks with none.
// The year filter sits in the join condition so zero-event parks survive.
func (s *StatsService) EventsPerPark(ctx context.Context, year, topN *int) ([]model.EventCountPerPark, error) {
	var v validator
	v.year(year)
	v.positive("top_n", topN)
	if err := v.err(); err != nil {
		return nil, err
	}

	var c conditions
	if year != nil {
		c.add(yearPredicate, *year)
	}
	query := `
        SELECT p.park_code, p.name, COUNT(e.id) AS event_count
        FROM parks p
        LEFT JOIN events e ON e.park_code = p.park_code` + c.and() + `
        GROUP BY p.park_code, p.name
        ORDER BY COUNT(e.id) DESC, p.name`
	if topN != nil {
		query += " LIMIT " + c.bind(*topN)
	}

	rows := []model.EventCountPerPark{}
	if err := selectAll(ctx, s.db, "events_per_park", &rows, query, c.args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// VisitorCentersPerPark counts visitor centers for every park. When
// minCenters is set, parks below it are dropped after grouping.
func (s *StatsService) VisitorCentersPerPark(ctx context.Context, minCenters *int) ([]model.VisitorCenterCountPerPark, error) {
	var v validator
	v.nonNegative("min_centers", minCenters)
	if err := v.err(); err != nil {
		return nil, err
	}

	var c conditions
	query := `
        SELECT p.park_code, p.name, COUNT(vc.id) AS visitor_center_count
        FROM parks p
        LEFT JOIN visitor_centers vc ON vc.park_code = p.park_code
        GROUP BY p.park_code, p.name`
	if minCenters != nil {
		query += " HAVING COUNT(vc.id) >= " + c.bind(*minCenters)
	}
	query += " ORDER BY COUNT(vc.id) DESC, p.name"

	rows := []model.VisitorCenterCountPerPark{}
	if err := selectAll(ctx, s.db, "visitor_centers_per_park", &rows, query, c.args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// AboveAverageEventParks returns parks whose event count is strictly greater
// than the mean count over parks with at least one event.
func (s *StatsService) AboveAverageEventParks(ctx context.Context, year *int) ([]model.AboveAverageEventPark, error) {
	var v validator
	v.year(year)
	if err := v.err(); err != nil {
		return nil, err
	}

	var c conditions
	if year != nil {
		c.add(yearPredicate, *year)
	}
	query := `
        WITH per_park AS (
            SELECT e.park_code, COUNT(*) AS event_count
            FROM events e` + c.where() + `
            GROUP BY e.park_code
        )
        SELECT
            p.park_code,
            p.name,
            pp.event_count,
            CAST((SELECT AVG(event_count) FROM per_park) AS DOUBLE PRECISION) AS average_event_count
        FROM per_park pp
        JOIN parks p ON p.park_code = pp.park_code
        WHERE pp.event_count > (SELECT AVG(event_count) FROM per_park)
        ORDER BY pp.event_count DESC, p.name`

	rows := []model.AboveAverageEventPark{}
	if err := selectAll(ctx, s.db, "above_average_event_parks", &rows, query, c.args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// TopFreeEventParks ranks parks with at least one free event by their free
// event count. Ties are broken by park code.
func (s *StatsService) TopFreeEventParks(ctx context.Context, limit int) ([]model.FreeEventCountPerPark, error) {
	var v validator
	v.positive("limit", &limit)
	if err := v.err(); err != nil {
		return nil, err
	}

	rows := []model.FreeEventCountPerPark{}
	err := selectAll(ctx, s.db, "top_free_event_parks", &rows, `
        SELECT p.park_code, p.name, COUNT(e.id) AS free_event_count
        FROM parks p
        JOIN events e ON e.park_code = p.park_code
        WHERE e.is_free = TRUE
        GROUP BY p.park_code, p.name
        ORDER BY COUNT(e.id) DESC, p.park_code
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UnderservedParks returns parks with at most maxEvents events, zero-event
// parks included, fewest first.
func (s *StatsService) UnderservedParks(ctx context.Context, maxEvents int, year *int) ([]model.EventCountPerPark, error) {
	var v validator
	v.nonNegative("max_events", &maxEvents)
	v.year(year)
	if err := v.err(); err != nil {
		return nil, err
	}

	var c conditions
	maxParam := c.bind(maxEvents)
	if year != nil {
		c.add(yearPredicate, *year)
	}
	query := `
        WITH per_park AS (
            SELECT e.park_code, COUNT(*) AS event_count
            FROM events e` + c.where() + `
            GROUP BY e.park_code
        )
        SELECT p.park_code, p.name, COALESCE(pp.event_count, 0) AS event_count
        FROM parks p
        LEFT JOIN per_park pp ON pp.park_code = p.park_code
        WHERE pp.event_count IS NULL OR pp.event_count <= ` + maxParam + `
        ORDER BY COALESCE(pp.event_count, 0), p.name`

	rows := []model.EventCountPerPark{}
	if err := selectAll(ctx, s.db, "underserved_parks", &rows, query, c.args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// QualifyingParks returns parks with at least minCenters distinct visitor
// centers and at least minEvents distinct events. Thresholds apply after
// grouping.
func (s *StatsService) QualifyingParks(ctx context.Context, minCenters, minEvents int, year *int) ([]model.QualifyingPark, error) {
	var v validator
	v.nonNegative("min_centers", &minCenters)
	v.nonNegative("min_events", &minEvents)
	v.year(year)
	if err := v.err(); err != nil {
		return nil, err
	}

	var c conditions
	centersParam := c.bind(minCenters)
	eventsParam := c.bind(minEvents)
	if year != nil {
		c.add(yearPredicate, *year)
	}
	query := `
        SELECT
            p.park_code,
            p.name,
            COUNT(DISTINCT vc.id) AS visitor_center_count,
            COUNT(DISTINCT e.id) AS event_count
        FROM parks p
        LEFT JOIN visitor_centers vc ON vc.park_code = p.park_code
        LEFT JOIN events e ON e.park_code = p.park_code` + c.and() + `
        GROUP BY p.park_code, p.name
        HAVING COUNT(DISTINCT vc.id) >= ` + centersParam + `
           AND COUNT(DISTINCT e.id) >= ` + eventsParam + `
        ORDER BY COUNT(DISTINCT e.id) DESC, COUNT(DISTINCT vc.id) DESC, p.name`

	rows := []model.QualifyingPark{}
	if err := selectAll(ctx, s.db, "qualifying_parks", &rows, query, c.args...); err != nil {
		return nil, err
	}
	return rows, nil
}
