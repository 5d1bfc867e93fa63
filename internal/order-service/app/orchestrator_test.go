package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcmexdev/ecommerce-orders/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/ports"
	"github.com/jcmexdev/ecommerce-orders/internal/order-service/reservelog"
)

// fakeStockService serves products from an in-memory map and records every
// adjustment it applied, so tests can assert what was (and stays) reserved.
type fakeStockService struct {
	products    map[int]ports.Product
	adjustments []adjustment
	adjustErr   map[int]error
}

type adjustment struct {
	productID int
	delta     int
}

func newFakeStockService() *fakeStockService {
	return &fakeStockService{
		products: map[int]ports.Product{
			1: {ID: 1, Name: "Laptop", Price: 999.99, Stock: 10},
			2: {ID: 2, Name: "Mouse", Price: 29.99, Stock: 50},
		},
		adjustErr: map[int]error{},
	}
}

func (f *fakeStockService) GetProduct(_ context.Context, id int) (ports.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return ports.Product{}, &domain.ProductNotFoundError{ProductID: id}
	}
	return p, nil
}

func (f *fakeStockService) AdjustStock(_ context.Context, id, delta int) (int, error) {
	if err := f.adjustErr[id]; err != nil {
		return 0, err
	}
	p, ok := f.products[id]
	if !ok {
		return 0, &domain.ProductNotFoundError{ProductID: id}
	}
	newStock := p.Stock + delta
	if newStock < 0 {
		return 0, &domain.InsufficientStockError{ProductID: id, Requested: -delta, Available: -1}
	}
	p.Stock = newStock
	f.products[id] = p
	f.adjustments = append(f.adjustments, adjustment{productID: id, delta: delta})
	return newStock, nil
}

type fakeAuditLog struct {
	entries []*reservelog.Entry
	saveErr error
}

func (f *fakeAuditLog) Save(_ context.Context, entry *reservelog.Entry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func TestOrchestrator_CreateOrder(t *testing.T) {
	stock := newFakeStockService()
	audit := &fakeAuditLog{}
	ledger := NewOrderLedger()
	orchestrator := NewOrchestrator(stock, ledger, audit)

	order, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{
		{ProductID: 1, Quantity: 3},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, order.ID)
	assert.Equal(t, domain.StatusCreated, order.Status)
	assert.InDelta(t, 2999.97, order.Total, 0.001)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "Laptop", order.Items[0].ProductName)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.InDelta(t, 999.99, order.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 2999.97, order.Items[0].Subtotal, 0.001)

	assert.Equal(t, 7, stock.products[1].Stock)

	stored, err := ledger.Get(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, order, stored)

	assert.Len(t, audit.entries, 1)
	assert.Equal(t, reservelog.StatusReserved, audit.entries[0].Status)
	assert.Equal(t, order.ID, audit.entries[0].OrderID)
}

func TestOrchestrator_CreateOrder_MultipleItems(t *testing.T) {
	stock := newFakeStockService()
	ledger := NewOrderLedger()
	orchestrator := NewOrchestrator(stock, ledger, nil)

	order, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 2},
	})

	assert.NoError(t, err)
	assert.InDelta(t, 999.99+2*29.99, order.Total, 0.001)
	assert.Equal(t, []adjustment{{1, -1}, {2, -2}}, stock.adjustments)
}

func TestOrchestrator_CreateOrder_ProductNotFound(t *testing.T) {
	stock := newFakeStockService()
	audit := &fakeAuditLog{}
	ledger := NewOrderLedger()
	orchestrator := NewOrchestrator(stock, ledger, audit)

	_, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{
		{ProductID: 99, Quantity: 1},
	})

	var notFound *domain.ProductNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, 99, notFound.ProductID)

	assert.Equal(t, 0, ledger.Count())
	assert.Empty(t, stock.adjustments)
	assert.Len(t, audit.entries, 1)
	assert.Equal(t, reservelog.StatusRejected, audit.entries[0].Status)
	assert.Equal(t, 0, audit.entries[0].OrderID)
}

func TestOrchestrator_CreateOrder_InsufficientStock(t *testing.T) {
	stock := newFakeStockService()
	ledger := NewOrderLedger()
	orchestrator := NewOrchestrator(stock, ledger, nil)

	_, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{
		{ProductID: 1, Quantity: 11},
	})

	var insufficient *domain.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.ProductID)
	assert.Equal(t, 11, insufficient.Requested)
	assert.Equal(t, 10, insufficient.Available)

	assert.Equal(t, 10, stock.products[1].Stock)
	assert.Equal(t, 0, ledger.Count())
}

func TestOrchestrator_CreateOrder_AdjustRejectedAfterCheck(t *testing.T) {
	stock := newFakeStockService()
	stock.adjustErr[1] = &domain.InsufficientStockError{ProductID: 1, Requested: 2, Available: -1}
	ledger := NewOrderLedger()
	orchestrator := NewOrchestrator(stock, ledger, nil)

	_, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{
		{ProductID: 1, Quantity: 2},
	})

	var failed *domain.ReservationFailedError
	assert.ErrorAs(t, err, &failed)
	assert.Equal(t, 1, failed.ProductID)
	assert.Equal(t, 0, ledger.Count())
}

func TestOrchestrator_CreateOrder_StockServiceUnavailable(t *testing.T) {
	stock := newFakeStockService()
	stock.adjustErr[1] = &domain.StockUnavailableError{Err: errors.New("connection refused")}
	ledger := NewOrderLedger()
	orchestrator := NewOrchestrator(stock, ledger, nil)

	_, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{
		{ProductID: 1, Quantity: 2},
	})

	// Transport failures keep their own kind instead of being wrapped as a
	// reservation rejection.
	var unavailable *domain.StockUnavailableError
	assert.ErrorAs(t, err, &unavailable)
	var failed *domain.ReservationFailedError
	assert.False(t, errors.As(err, &failed))
	assert.Equal(t, 0, ledger.Count())
}

// When the second item fails, the first item's decrement is kept: there is
// no compensation, only the audit record of the rejected attempt.
func TestOrchestrator_CreateOrder_PartialFailureKeepsEarlierDecrements(t *testing.T) {
	stock := newFakeStockService()
	audit := &fakeAuditLog{}
	ledger := NewOrderLedger()
	orchestrator := NewOrchestrator(stock, ledger, audit)

	_, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 100},
	})

	var insufficient *domain.InsufficientStockError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.ProductID)

	assert.Equal(t, []adjustment{{1, -2}}, stock.adjustments)
	assert.Equal(t, 8, stock.products[1].Stock)
	assert.Equal(t, 50, stock.products[2].Stock)

	assert.Equal(t, 0, ledger.Count())
	assert.Len(t, audit.entries, 1)
	assert.Equal(t, reservelog.StatusRejected, audit.entries[0].Status)
}

func TestOrchestrator_CreateOrder_IDsAreMonotonic(t *testing.T) {
	stock := newFakeStockService()
	ledger := NewOrderLedger()
	orchestrator := NewOrchestrator(stock, ledger, nil)

	first, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{{ProductID: 2, Quantity: 1}})
	assert.NoError(t, err)

	// A failed attempt must not consume an id.
	_, err = orchestrator.CreateOrder(context.Background(), []domain.LineItem{{ProductID: 99, Quantity: 1}})
	assert.Error(t, err)

	second, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{{ProductID: 2, Quantity: 1}})
	assert.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
}

func TestOrchestrator_CreateOrder_AuditFailureDoesNotFailOrder(t *testing.T) {
	stock := newFakeStockService()
	audit := &fakeAuditLog{saveErr: errors.New("disk full")}
	ledger := NewOrderLedger()
	orchestrator := NewOrchestrator(stock, ledger, audit)

	order, err := orchestrator.CreateOrder(context.Background(), []domain.LineItem{
		{ProductID: 1, Quantity: 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, order.ID)
	assert.Equal(t, 9, stock.products[1].Stock)
}
