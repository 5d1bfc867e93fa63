package reservelog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/ecommerce-orders/internal/order-service/domain"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	// TraceID is the W3C trace ID (32 lowercase hex chars).
	// Empty string if no active span is found in the context.
	TraceID string

	// SpanID is the W3C span ID (16 lowercase hex chars).
	SpanID string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx and returns
// its trace_id and span_id as hex strings. If the context carries no active
// span (e.g. in unit tests), both fields are empty strings.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds a log entry for a finished attempt, with the trace info
// automatically extracted from ctx. cause is nil for a successful attempt.
func NewEntry(
	ctx context.Context,
	requestID string,
	orderID int,
	status Status,
	items []domain.LineItem,
	cause error,
) *Entry {
	ti := ExtractTraceInfo(ctx)

	itemsJSON := "[]"
	if b, err := json.Marshal(items); err == nil && len(items) > 0 {
		itemsJSON = string(b)
	}

	detail := ""
	if cause != nil {
		detail = cause.Error()
	}

	return &Entry{
		ID:        uuid.NewString(),
		RequestID: requestID,
		OrderID:   orderID,
		Status:    status,
		Items:     itemsJSON,
		Detail:    detail,
		TraceID:   ti.TraceID,
		SpanID:    ti.SpanID,
		CreatedAt: time.Now().UTC(),
	}
}
