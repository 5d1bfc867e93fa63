// Package sqlite provides a SQLite-backed implementation of
// reservelog.Repository.
//
// WAL mode is enabled on Open so that readers never block the writer —
// the order-creation path writes while an operator may be querying the
// log to reconcile stock levels.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/ecommerce-orders/internal/order-service/reservelog"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, keeping Docker builds (Alpine) simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
// The table is append-only: each row is an immutable record of one
// order-creation attempt.
const schema = `
CREATE TABLE IF NOT EXISTS reservation_logs (
    -- Attempt identifier (UUID), assigned by the orchestrator.
    id          TEXT PRIMARY KEY,

    -- Correlation id of the originating HTTP request.
    request_id  TEXT    NOT NULL DEFAULT '',

    -- Order created by a successful attempt; 0 when rejected.
    order_id    INTEGER NOT NULL DEFAULT 0,

    -- Final outcome: RESERVED or REJECTED.
    status      TEXT    NOT NULL,

    -- Requested line items as a JSON array.
    items       TEXT    NOT NULL DEFAULT '[]',

    -- Failure description; empty on success.
    detail      TEXT    NOT NULL DEFAULT '',

    -- W3C trace_id (32 hex chars) from the active OTel span.
    trace_id    TEXT    NOT NULL DEFAULT '',

    -- W3C span_id (16 hex chars).
    span_id     TEXT    NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    created_at  TEXT    NOT NULL
);

-- Query path: "what happened to request X".
CREATE INDEX IF NOT EXISTS idx_reservation_logs_request_id ON reservation_logs(request_id);

-- Observability query: "find the attempt for trace Y".
CREATE INDEX IF NOT EXISTS idx_reservation_logs_trace_id ON reservation_logs(trace_id);
`

// Repository is the SQLite implementation of reservelog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/reservations.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver uses _pragma query parameters to configure
	// connection state. busy_timeout waits for locks instead of failing.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new reservation log entry. Safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *reservelog.Entry) error {
	const q = `
		INSERT INTO reservation_logs
			(id, request_id, order_id, status, items, detail, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.ID,
		entry.RequestID,
		entry.OrderID,
		string(entry.Status),
		entry.Items,
		entry.Detail,
		entry.TraceID,
		entry.SpanID,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save reservation log %q: %w", entry.ID, err)
	}
	return nil
}

// GetByRequestID returns the log entry for a given request correlation id.
// Useful when tracing a specific client call through the system.
func (r *Repository) GetByRequestID(ctx context.Context, requestID string) (*reservelog.Entry, error) {
	const q = `
		SELECT id, request_id, order_id, status, items, detail, trace_id, span_id, created_at
		FROM   reservation_logs
		WHERE  request_id = ?
		ORDER  BY created_at DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, requestID)

	var entry reservelog.Entry
	var createdAt string
	err := row.Scan(
		&entry.ID,
		&entry.RequestID,
		&entry.OrderID,
		&entry.Status,
		&entry.Items,
		&entry.Detail,
		&entry.TraceID,
		&entry.SpanID,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: no reservation log for request %q", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get by request %q: %w", requestID, err)
	}

	entry.CreatedAt, err = parseRFC3339(createdAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CountByStatus reports how many attempts finished with the given status.
// Used by tests and handy for a quick operational sanity check.
func (r *Repository) CountByStatus(ctx context.Context, status reservelog.Status) (int, error) {
	const q = `SELECT COUNT(*) FROM reservation_logs WHERE status = ?`

	var n int
	if err := r.db.QueryRowContext(ctx, q, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count by status %q: %w", status, err)
	}
	return n, nil
}
