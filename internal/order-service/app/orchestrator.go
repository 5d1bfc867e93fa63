package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jcmexdev/ecommerce-orders/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/ports"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/reservelog"
	"github.com/jcmexdev/ecommerce-orders/internal/pkg/requestmeta"
)

// Orchestrator reserves stock for a set of line items against the stock
// service and, once every item is reserved, stores the resulting order in
// the order ledger.
//
// Reservation is strictly sequential in input order, one stock call at a
// time. Stock already decremented for earlier items is NOT released when a
// later item fails: there is no compensation in this scope, and the partial
// decrement is the documented at-least-reserved policy. The reservation log
// records every attempt so leftover decrements can be reconciled.
type Orchestrator struct {
	stock  ports.StockService
	ledger *OrderLedger
	audit  reservelog.Repository // nil-safe: audit logging skipped if nil
}

// NewOrchestrator wires the orchestrator to its stock service port, order
// ledger, and optional reservation audit log (may be nil).
func NewOrchestrator(stock ports.StockService, ledger *OrderLedger, audit reservelog.Repository) *Orchestrator {
	return &Orchestrator{
		stock:  stock,
		ledger: ledger,
		audit:  audit,
	}
}

// CreateOrder runs the reservation protocol for the requested items and
// returns the stored order. On any failure the whole operation aborts with
// one of the typed domain errors and no order is persisted.
func (o *Orchestrator) CreateOrder(ctx context.Context, items []domain.LineItem) (*domain.Order, error) {
	priced := make([]domain.PricedItem, 0, len(items))

	for _, item := range items {
		product, err := o.stock.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, o.reject(ctx, items, err)
		}

		if product.Stock < item.Quantity {
			return nil, o.reject(ctx, items, &domain.InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: product.Stock,
			})
		}

		if _, err := o.stock.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			// A rejected adjustment after the check passed means a concurrent
			// order won the race; transport failures keep their own kind.
			var unavailable *domain.StockUnavailableError
			if !errors.As(err, &unavailable) {
				err = &domain.ReservationFailedError{ProductID: item.ProductID, Err: err}
			}
			return nil, o.reject(ctx, items, err)
		}

		priced = append(priced, domain.PricedItem{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    product.Price * float64(item.Quantity),
		})
	}

	total := 0.0
	for _, item := range priced {
		total += item.Subtotal
	}

	order := &domain.Order{
		ID:     o.ledger.NextID(),
		Items:  priced,
		Total:  total,
		Status: domain.StatusCreated,
	}
	o.ledger.Put(order)

	o.record(ctx, reservelog.NewEntry(ctx, requestmeta.RequestID(ctx), order.ID,
		reservelog.StatusReserved, items, nil))

	slog.InfoContext(ctx, "order created",
		"order_id", order.ID, "items", len(order.Items), "total", order.Total)
	return order, nil
}

// reject records the failed attempt and passes the error through.
func (o *Orchestrator) reject(ctx context.Context, items []domain.LineItem, cause error) error {
	o.record(ctx, reservelog.NewEntry(ctx, requestmeta.RequestID(ctx), 0,
		reservelog.StatusRejected, items, cause))

	slog.WarnContext(ctx, "order rejected", "error", cause)
	return cause
}

func (o *Orchestrator) record(ctx context.Context, entry *reservelog.Entry) {
	if o.audit == nil {
		return
	}
	if err := o.audit.Save(ctx, entry); err != nil {
		// The audit trail must never fail an order that already reserved
		// its stock, so log write errors are reported and swallowed.
		slog.ErrorContext(ctx, "failed to save reservation log", "entry_id", entry.ID, "error", err)
	}
}
