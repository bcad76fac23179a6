// Package rdbms owns the target database connection and the batched
// conflict-skip inserts the pipeline issues against it.
package rdbms

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/datbolt/dbmigrate/logger"
)

// WriteError wraps a database error from a batch insert. Uniqueness
// conflicts never surface here - the generated statements skip them - so
// any WriteError aborts the current table's migration loop.
type WriteError struct {
	Table string
	Err   error
}

func (e *WriteError) Error() string {
	if pgErr := (*pgconn.PgError)(nil); errors.As(e.Err, &pgErr) {
		return fmt.Sprintf("write to table %v failed (SQLSTATE %v): %v", e.Table, pgErr.Code, pgErr.Message)
	}
	return fmt.Sprintf("write to table %v failed: %v", e.Table, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Connection is the process-scoped handle to the target database,
// acquired once at startup and released once at shutdown.
type Connection struct {
	log  logger.Logger
	pool *pgxpool.Pool
}

// Connect opens and pings the target database. A failure here is fatal to
// the whole run.
func Connect(ctx context.Context, log logger.Logger, dsn string) (*Connection, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open target database connection")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "unable to reach target database")
	}
	return &Connection{log: log, pool: pool}, nil
}

// Close releases the connection pool.
func (c *Connection) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// InsertBatch executes one multi-row INSERT ... ON CONFLICT DO NOTHING for
// the supplied rows and returns the number of rows actually inserted
// (conflict-skipped rows are not counted). An empty batch is a no-op.
func (c *Connection) InsertBatch(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	batch := NewInsertBatch(table, columns)
	for _, row := range rows {
		if err := batch.Add(row); err != nil {
			return 0, &WriteError{Table: table, Err: err}
		}
	}
	tag, err := c.pool.Exec(ctx, batch.Statement(), batch.Values()...)
	if err != nil {
		return 0, &WriteError{Table: table, Err: err}
	}
	c.log.Debug("inserted ", tag.RowsAffected(), " of ", len(rows), " rows into ", table)
	return tag.RowsAffected(), nil
}

// InsertRow inserts a single row, skipping conflicts on the given target
// columns (or on any uniqueness constraint when none are named).
func (c *Connection) InsertRow(ctx context.Context, table string, columns []string, values []interface{}, conflictCols ...string) (int64, error) {
	batch := NewInsertBatch(table, columns, conflictCols...)
	if err := batch.Add(values); err != nil {
		return 0, &WriteError{Table: table, Err: err}
	}
	tag, err := c.pool.Exec(ctx, batch.Statement(), batch.Values()...)
	if err != nil {
		return 0, &WriteError{Table: table, Err: err}
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of rows currently in the target table.
func (c *Connection) Count(ctx context.Context, table string) (int, error) {
	var n int
	if err := c.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %v`, quoteIdent(table))).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "unable to count rows in target table %v", table)
	}
	return n, nil
}
