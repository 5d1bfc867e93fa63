// Package stockhttp implements the order service's StockService port over
// the product service's REST API.
package stockhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/ecommerce-orders/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/ports"
	"github.com/jcmexdev/ecommerce-orders/internal/pkg/requestmeta"
)

// callTimeout bounds every stock call. The original system inherited the
// transport's unbounded default; 5s keeps order creation from hanging on a
// stalled product service while leaving headroom for slow starts.
const callTimeout = 5 * time.Second

// Ensure Client implements the port at compile time.
var _ ports.StockService = (*Client)(nil)

// Client is a traced HTTP client for the product service. Every call runs
// in a client-kind span and propagates W3C trace context plus the request
// correlation id, so a reservation can be followed across both services.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
	timeout time.Duration
}

// NewClient builds a client for the product service at baseURL
// (e.g. "http://localhost:5001").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client-level Timeout: each call is bounded by its own context
		// so the deadline composes with the caller's.
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		tracer:  otel.Tracer("stockhttp"),
		timeout: callTimeout,
	}
}

type productDTO struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type stockUpdateDTO struct {
	Quantity int `json:"quantity"`
}

type stockDTO struct {
	ProductID int `json:"product_id"`
	Stock     int `json:"stock"`
}

// GetProduct fetches a product, including its current stock level.
func (c *Client) GetProduct(ctx context.Context, id int) (ports.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "stock.GetProduct",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("product.id", id)),
	)
	defer span.End()

	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.Product{}, fmt.Errorf("build request: %w", err)
	}
	c.decorate(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return ports.Product{}, c.unavailable(span, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		err := &domain.ProductNotFoundError{ProductID: id}
		span.SetStatus(codes.Error, err.Error())
		return ports.Product{}, err
	default:
		err := &domain.ReservationFailedError{
			ProductID: id,
			Err:       fmt.Errorf("product service returned %s", resp.Status),
		}
		span.SetStatus(codes.Error, err.Error())
		return ports.Product{}, err
	}

	var dto productDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return ports.Product{}, c.unavailable(span, fmt.Errorf("decode product: %w", err))
	}

	return ports.Product{ID: dto.ID, Name: dto.Name, Price: dto.Price, Stock: dto.Stock}, nil
}

// AdjustStock applies a signed delta to the product's stock. A negative
// delta reserves stock for an order.
func (c *Client) AdjustStock(ctx context.Context, id, delta int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "stock.AdjustStock",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("product.id", id),
			attribute.Int("stock.delta", delta),
		),
	)
	defer span.End()

	body, err := json.Marshal(stockUpdateDTO{Quantity: delta})
	if err != nil {
		return 0, fmt.Errorf("encode stock update: %w", err)
	}

	url := fmt.Sprintf("%s/products/%d/stock", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.decorate(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, c.unavailable(span, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		err := &domain.ProductNotFoundError{ProductID: id}
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	case http.StatusBadRequest:
		// The ledger rejected the delta: stock would go negative.
		err := &domain.InsufficientStockError{ProductID: id, Requested: -delta, Available: -1}
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	default:
		err := &domain.ReservationFailedError{
			ProductID: id,
			Err:       fmt.Errorf("product service returned %s", resp.Status),
		}
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	var dto stockDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return 0, c.unavailable(span, fmt.Errorf("decode stock: %w", err))
	}
	return dto.Stock, nil
}

// decorate injects the W3C trace context and the request correlation id
// into the outgoing request headers.
func (c *Client) decorate(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	if id := requestmeta.RequestID(ctx); id != "" {
		req.Header.Set(requestmeta.HeaderXRequestID, id)
	}
}

// unavailable records the transport failure on the span and wraps it.
func (c *Client) unavailable(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return &domain.StockUnavailableError{Err: err}
}
