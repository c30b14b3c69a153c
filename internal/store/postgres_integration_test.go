//go:build integration

package store_test

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"nps-explorer/internal/store"
	"nps-explorer/internal/store/storetest"
	"nps-explorer/pkg/config"
	"nps-explorer/pkg/model"
)

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

func startPostgres(t *testing.T) *store.Store {
	t.Helper()
	skipIfNoDocker(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "nps",
				"POSTGRES_PASSWORD": "nps",
				"POSTGRES_DB":       "nps",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatal(err)
	}

	dsn := fmt.Sprintf("postgres://nps:nps@%s:%s/nps?sslmode=disable", host, port.Port())
	s, err := store.Open(config.DatabaseConfig{Driver: store.DriverPostgres, URL: dsn})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return s
}

func TestPostgres_ConstraintsAndCascade(t *testing.T) {
	s := startPostgres(t)
	storetest.Load(t, s, storetest.Scenario())
	ctx := context.Background()

	err := s.WithConn(ctx, func(q sqlx.QueryerContext) error {
		_, err := store.InsertPark(ctx, q, model.Park{ParkCode: "yell", Name: "Yellowstone", StateCode: "WY"})
		return err
	})
	var ce *store.ConstraintError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConstraintError", err)
	}
	if ce.Constraint == "" {
		t.Error("expected postgres to report the constraint name")
	}

	err = s.InTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM parks WHERE park_code = $1", "yose"); err != nil {
			return err
		}
		for _, table := range []string{"events", "visitor_centers"} {
			var n int
			if err := tx.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table+" WHERE park_code = $1", "yose"); err != nil {
				return err
			}
			if n != 0 {
				return fmt.Errorf("%d %s rows survived park deletion", n, table)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("cascade: %v", err)
	}
}
