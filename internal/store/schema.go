package store

import (
	"context"
	"fmt"
	"strings"

	"nps-explorer/pkg/model"
)

// schemaStatements returns the DDL for the driver. DuckDB rejects
// referential actions, so ON DELETE CASCADE is only declared on postgres.
func schemaStatements(driver string) []string {
	cascade := ""
	if driver == DriverPostgres {
		cascade = " ON DELETE CASCADE"
	}

	regions := make([]string, len(model.Regions))
	for i, r := range model.Regions {
		regions[i] = "'" + r + "'"
	}

	return []string{
		`CREATE SEQUENCE IF NOT EXISTS parks_id_seq`,
		`CREATE SEQUENCE IF NOT EXISTS visitor_centers_id_seq`,
		`CREATE SEQUENCE IF NOT EXISTS events_id_seq`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS parks (
            id               INTEGER PRIMARY KEY DEFAULT nextval('parks_id_seq'),
            park_code        VARCHAR(10) NOT NULL UNIQUE,
            name             VARCHAR NOT NULL,
            state_code       VARCHAR(2) NOT NULL CHECK (state_code IN (%s)),
            entrance_fee     INTEGER NOT NULL DEFAULT 0 CHECK (entrance_fee >= 0),
            total_activities INTEGER NOT NULL DEFAULT 0 CHECK (total_activities >= 0)
        )`, strings.Join(regions, ", ")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS visitor_centers (
            id          INTEGER PRIMARY KEY DEFAULT nextval('visitor_centers_id_seq'),
            park_code   VARCHAR(10) NOT NULL REFERENCES parks (park_code)%s,
            center_name VARCHAR NOT NULL
        )`, cascade),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS events (
            id          INTEGER PRIMARY KEY DEFAULT nextval('events_id_seq'),
            park_code   VARCHAR(10) NOT NULL REFERENCES parks (park_code)%s,
            event_title VARCHAR NOT NULL,
            start_date  DATE NOT NULL,
            end_date    DATE,
            is_free     BOOLEAN NOT NULL DEFAULT TRUE,
            CHECK (end_date IS NULL OR end_date >= start_date)
        )`, cascade),
		`CREATE INDEX IF NOT EXISTS idx_visitor_centers_park_code ON visitor_centers (park_code)`,
		`CREATE INDEX IF NOT EXISTS idx_events_park_code ON events (park_code)`,
		`CREATE INDEX IF NOT EXISTS idx_events_start_date ON events (start_date)`,
	}
}

// InitSchema creates the sequences, tables and indexes if they do not exist
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements(s.driver) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
