package reservelog

import "context"

// Repository is the port (interface) for persisting reservation log entries.
// The orchestrator depends on this abstraction, not on SQLite directly, so
// the implementation can be swapped for Postgres, in-memory (tests), etc.
// A nil Repository is valid and disables audit logging.
type Repository interface {
	// Save persists a new log entry. Each call appends a row; the log is
	// append-only, never an upsert.
	Save(ctx context.Context, entry *Entry) error
}
