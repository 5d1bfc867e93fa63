// Package reservelog defines the domain types for the reservation audit log.
//
// The log is a durable audit trail of every order-creation attempt and its
// reservation outcome. Stock decrements applied before a later line item
// fails are deliberately never rolled back, so the log is the only place
// that records which attempt left which decrements behind — query it to
// reconcile stock levels, and correlate rows with distributed traces via
// the trace_id column.
package reservelog

import "time"

// Status is the final outcome of one order-creation attempt.
type Status string

const (
	StatusReserved Status = "RESERVED"
	StatusRejected Status = "REJECTED"
)

// Entry is a single row in the reservation log. It captures a completed
// attempt, never an in-flight one.
type Entry struct {
	// ID is a unique identifier for this attempt (UUID).
	ID string

	// RequestID is the correlation id of the HTTP request that started the
	// attempt, as propagated to the product service on every stock call.
	RequestID string

	// OrderID is the order created by a successful attempt; 0 on rejection,
	// since no partial order is ever persisted.
	OrderID int

	// Status is the outcome: RESERVED or REJECTED.
	Status Status

	// Items is the requested line items as a JSON array of
	// {"product_id","quantity"} objects.
	Items string

	// Detail is the failure description on rejection, empty on success.
	Detail string

	// TraceID is the W3C trace ID from the OpenTelemetry span that was
	// active when the attempt finished. Links the row to the full trace.
	TraceID string

	// SpanID pinpoints the exact span within the trace.
	SpanID string

	// CreatedAt is the wall-clock time the entry was written.
	CreatedAt time.Time
}
