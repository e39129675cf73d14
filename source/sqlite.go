package source

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/recq/errors"
	"github.com/kbukum/recq/logger"
	"github.com/kbukum/recq/observability"
	"github.com/kbukum/recq/resilience"
)

// SQLite is a record source backed by a SQLite database.
type SQLite struct {
	db    *sql.DB
	dsn   string
	retry resilience.RetryConfig
}

// SQLiteOption configures a SQLite source.
type SQLiteOption func(*SQLite)

// WithRetry replaces the retry policy for queries that hit a busy or locked
// database. Other failures are never retried.
func WithRetry(cfg resilience.RetryConfig) SQLiteOption {
	return func(s *SQLite) { s.retry = cfg }
}

// OpenSQLite opens the database at dsn (a file path or ":memory:") and
// verifies the connection.
func OpenSQLite(ctx context.Context, dsn string, opts ...SQLiteOption) (*SQLite, error) {
	s := &SQLite{dsn: dsn, retry: resilience.DefaultRetryConfig()}
	for _, opt := range opts {
		opt(s)
	}
	s.retry.RetryIf = isBusy
	if s.retry.OnRetry == nil {
		s.retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
			logger.Debug("sqlite busy, retrying", logger.Fields(
				logger.FieldOperation, "sqlite.query", "attempt", attempt,
				"backoff", backoff.String(), logger.FieldError, err.Error(),
			))
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.SourceError("sqlite", err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.SourceError("sqlite", err)
	}
	s.db = db
	return s, nil
}

// DB exposes the underlying handle, e.g. for seeding tables.
func (s *SQLite) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// Query runs query and returns each row as a record keyed by column name.
// A busy or locked database is retried with backoff.
func (s *SQLite) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSourceLoad)
	defer span.End()
	span.SetAttributes(attribute.String(observability.AttrSource, "sqlite"))

	records, err := resilience.Retry(ctx, s.retry, func(ctx context.Context) ([]map[string]any, error) {
		return s.query(ctx, query, args...)
	})
	if err != nil {
		observability.SetSpanError(ctx, err)
		if _, ok := errors.AsAppError(err); ok {
			return nil, err
		}
		return nil, errors.SourceError("sqlite", err)
	}
	span.SetAttributes(attribute.Int(observability.AttrRecordsOut, len(records)))
	return records, nil
}

func (s *SQLite) query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.SourceError("sqlite", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, errors.SourceError("sqlite", err)
	}
	return records, nil
}

// isBusy reports whether err comes from a database held by another writer.
func isBusy(err error) bool {
	var se sqlite3.Error
	if !stderrors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
}

// CheckHealth pings the database.
func (s *SQLite) CheckHealth(ctx context.Context) observability.Health {
	h := observability.Health{Name: "sqlite", Status: observability.HealthStatusUp}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		h.Status = observability.HealthStatusDown
		h.Message = err.Error()
	}
	return h
}

// QuerySQLite opens dsn, runs one query and closes the database.
func QuerySQLite(ctx context.Context, dsn, query string, args ...any) ([]map[string]any, error) {
	db, err := OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.Query(ctx, query, args...)
}

func scanRecords(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	records := []map[string]any{}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", len(records), err)
		}
		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
			} else {
				rec[col] = values[i]
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
