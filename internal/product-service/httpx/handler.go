package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/ecommerce-orders/internal/product-service/app"
	"github.com/jcmexdev/ecommerce-orders/internal/product-service/domain"
)

const serviceName = "product-service"

// Handler serves the product catalog and stock endpoints on top of the
// stock ledger.
type Handler struct {
	ledger *app.StockLedger
	tracer trace.Tracer
}

func NewHandler(ledger *app.StockLedger) *Handler {
	return &Handler{
		ledger: ledger,
		tracer: otel.Tracer(serviceName),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Service: serviceName})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.ledger.List()
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.ledger.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	stock, err := h.ledger.StockOf(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StockResponse{ProductID: id, Stock: stock})
}

// UpdateStock applies a signed delta to a product's stock level. This is the
// reservation path used by the order service, so it carries a server-side
// span continuing the caller's trace.
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	_, span := h.tracer.Start(ctx, "product-service.UpdateStock",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	id, ok := productID(w, r)
	if !ok {
		span.SetStatus(codes.Error, "invalid product id")
		return
	}

	var req StockUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		span.SetStatus(codes.Error, "invalid json")
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	span.SetAttributes(
		attribute.Int("product.id", id),
		attribute.Int("stock.delta", req.Quantity),
	)

	newStock, err := h.ledger.Adjust(id, req.Quantity)
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		span.SetStatus(codes.Error, err.Error())
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	case errors.Is(err, domain.ErrInsufficientStock):
		span.SetStatus(codes.Error, err.Error())
		writeError(w, http.StatusBadRequest, "insufficient_stock", err.Error())
		return
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, StockResponse{ProductID: id, Stock: newStock})
}

// productID parses the {id} path parameter. A non-numeric or non-positive id
// can never reference a product, so it is rejected up front.
func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return 0, false
	}
	return id, true
}

func mapProduct(p domain.Product) ProductResponse {
	return ProductResponse{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
