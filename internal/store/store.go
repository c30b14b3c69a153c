// Package store owns the relational database: connection management,
// schema creation, ingestion inserts and driver error mapping.
//
// Two drivers are supported. "postgres" (lib/pq) is the production store;
// "duckdb" runs embedded, either from a file or in memory, and backs the
// test suites. Both drivers are registered by the imports in errors.go.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nps-explorer/internal/logging"
	"nps-explorer/pkg/config"
)

const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// Store wraps the connection pool
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the configured database and verifies the connection
func Open(cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverDuckDB:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Connect(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	logging.Info().Str("driver", cfg.Driver).Msg("Connected to database")
	return &Store{db: db, driver: cfg.Driver}, nil
}

// Driver returns the database driver name
func (s *Store) Driver() string {
	return s.driver
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithConn acquires one connection from the pool, runs fn with it and
// releases it whether fn succeeds or fails.
func (s *Store) WithConn(ctx context.Context, fn func(q sqlx.QueryerContext) error) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// InTx runs fn inside a transaction, committing on success and rolling
// back on any error.
func (s *Store) InTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Error().Err(rbErr).Msg("Failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapError(err))
	}
	return nil
}

// Reset deletes all rows, children first. Each statement commits on its
// own so parents are never deleted in the same transaction as children.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"events", "visitor_centers", "parks"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, mapError(err))
		}
	}
	return nil
}
