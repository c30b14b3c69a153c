package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"nps-explorer/pkg/model"
)

// InsertPark inserts a park and returns its surrogate id
func InsertPark(ctx context.Context, q sqlx.QueryerContext, p model.Park) (int, error) {
	var id int
	err := sqlx.GetContext(ctx, q, &id, `
        INSERT INTO parks (park_code, name, state_code, entrance_fee, total_activities)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, p.ParkCode, p.Name, p.StateCode, p.EntranceFee, p.TotalActivities)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// InsertVisitorCenter inserts a visitor center and returns its surrogate id
func InsertVisitorCenter(ctx context.Context, q sqlx.QueryerContext, vc model.VisitorCenter) (int, error) {
	var id int
	err := sqlx.GetContext(ctx, q, &id, `
        INSERT INTO visitor_centers (park_code, center_name)
        VALUES ($1, $2)
        RETURNING id
    `, vc.ParkCode, vc.CenterName)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// InsertEvent inserts an event and returns its surrogate id
func InsertEvent(ctx context.Context, q sqlx.QueryerContext, ev model.Event) (int, error) {
	var id int
	err := sqlx.GetContext(ctx, q, &id, `
        INSERT INTO events (park_code, event_title, start_date, end_date, is_free)
        VALUES ($1, $2, CAST($3 AS DATE), CAST($4 AS DATE), $5)
        RETURNING id
    `, ev.ParkCode, ev.EventTitle, ev.StartDate.String(), model.SQLParam(ev.EndDate), ev.IsFree)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}
