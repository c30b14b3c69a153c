package park

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"nps-explorer/internal/logging"
	"nps-explorer/internal/metrics"
)

// Querier runs fn on one scoped connection. *store.Store implements it.
type Querier interface {
	WithConn(ctx context.Context, fn func(q sqlx.QueryerContext) error) error
}

// conditions accumulates constant SQL predicates and their bound values.
// Each clause holds a single "?" that becomes the next $n placeholder.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, arg interface{}) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, strings.Replace(clause, "?", fmt.Sprintf("$%d", len(c.args)), 1))
}

// bind appends a value without a predicate and returns its placeholder
func (c *conditions) bind(arg interface{}) string {
	c.args = append(c.args, arg)
	return fmt.Sprintf("$%d", len(c.args))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

func (c *conditions) and() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(c.clauses, " AND ")
}

// selectAll runs one query on a scoped connection and records its metrics
func selectAll(ctx context.Context, db Querier, op string, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := db.WithConn(ctx, func(q sqlx.QueryerContext) error {
		return sqlx.SelectContext(ctx, q, dest, query, args...)
	})
	metrics.ObserveQuery(op, start, err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("operation", op).Msg("Query failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
