package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/ecommerce-orders/internal/order-service/app"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-orders/internal/pkg/cache"
)

const serviceName = "order-service"

// orderCacheTTL bounds staleness of the order read cache. Orders are
// immutable after creation, so the TTL only limits memory in Redis.
const orderCacheTTL = 5 * time.Minute

// Handler serves the order endpoints: creation via the reservation
// orchestrator and reads from the order ledger, with an optional
// read-through cache for single-order lookups.
type Handler struct {
	orchestrator *app.Orchestrator
	ledger       *app.OrderLedger
	cache        cache.Cache // nil-safe: caching skipped if nil
	tracer       trace.Tracer
}

// NewHandler initializes the handler. c may be nil — single-order reads
// then always hit the ledger.
func NewHandler(orchestrator *app.Orchestrator, ledger *app.OrderLedger, c cache.Cache) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		ledger:       ledger,
		cache:        c,
		tracer:       otel.Tracer(serviceName),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Service: serviceName})
}

// CreateOrder validates the request and runs the reservation protocol.
// Any line-item failure aborts the whole order; stock already reserved for
// earlier items stays reserved (documented no-rollback policy).
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "items are required")
		return
	}

	items := make([]domain.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID <= 0 || it.Quantity < 1 {
			writeError(w, http.StatusBadRequest, "invalid_item",
				"product_id must be positive and quantity at least 1")
			return
		}
		items = append(items, domain.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	ctx, span := h.tracer.Start(r.Context(), "order-service.CreateOrder",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.Int("order.items", len(items))),
	)
	defer span.End()

	order, err := h.orchestrator.CreateOrder(ctx, items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order creation failed")
		status, code := statusForError(err)
		writeError(w, status, code, err.Error())
		return
	}

	span.SetAttributes(attribute.Int("order.id", order.ID))
	writeJSON(w, http.StatusCreated, mapOrder(order))
}

// GetOrders returns all orders in creation order.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.ledger.List()
	out := make([]OrderResponse, len(orders))
	for i, order := range orders {
		out[i] = mapOrder(order)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetOrderByID returns a single order. Orders are immutable after creation,
// so cached responses can never go stale within their TTL.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a positive integer")
		return
	}

	var key string
	if h.cache != nil {
		key = h.cache.GenerateKey("order", strconv.Itoa(id))
		if body, err := h.cache.Get(r.Context(), key); err == nil && body != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(body))
			return
		}
	}

	order, err := h.ledger.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
		return
	}

	body, err := json.Marshal(mapOrder(order))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, string(body), orderCacheTTL); err != nil {
			slog.WarnContext(r.Context(), "failed to cache order", "order_id", id, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// statusForError maps the typed reservation errors to transport status.
// Unavailability and adjust-time rejections are checked before the bare
// kinds because ReservationFailedError wraps its cause.
func statusForError(err error) (int, string) {
	var unavailable *domain.StockUnavailableError
	var failed *domain.ReservationFailedError
	var notFound *domain.ProductNotFoundError
	var insufficient *domain.InsufficientStockError

	switch {
	case errors.As(err, &unavailable):
		return http.StatusInternalServerError, "stock_service_unavailable"
	case errors.As(err, &failed):
		return http.StatusInternalServerError, "stock_reservation_failed"
	case errors.As(err, &notFound):
		return http.StatusNotFound, "product_not_found"
	case errors.As(err, &insufficient):
		return http.StatusBadRequest, "insufficient_stock"
	}
	return http.StatusInternalServerError, "internal_error"
}

// mapOrder converts the internal order entity to the HTTP response format.
func mapOrder(order *domain.Order) OrderResponse {
	items := make([]PricedItemDTO, len(order.Items))
	for i, it := range order.Items {
		items[i] = PricedItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.UnitPrice,
			Subtotal:    it.Subtotal,
		}
	}
	return OrderResponse{
		ID:     order.ID,
		Items:  items,
		Total:  order.Total,
		Status: string(order.Status),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
