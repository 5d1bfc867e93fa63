package app

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/jcmexdev/ecommerce-orders/internal/product-service/domain"
)

// StockLedger is the authoritative in-memory store for products and their
// stock levels. All access goes through the mutex so Adjust is atomic with
// respect to its own read-check-write; there is no cross-request transaction
// spanning multiple calls.
type StockLedger struct {
	mu       sync.Mutex
	products map[int]*domain.Product
}

// DefaultCatalog returns the demo seed data.
func DefaultCatalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Laptop", Price: 999.99, Stock: 10},
		{ID: 2, Name: "Mouse", Price: 29.99, Stock: 50},
		{ID: 3, Name: "Keyboard", Price: 79.99, Stock: 30},
	}
}

func NewStockLedger(seed []domain.Product) *StockLedger {
	products := make(map[int]*domain.Product, len(seed))
	for _, p := range seed {
		cp := p
		products[p.ID] = &cp
	}
	return &StockLedger{products: products}
}

// List returns a snapshot of all products ordered by id.
func (l *StockLedger) List() []domain.Product {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.Product, 0, len(l.products))
	for _, p := range l.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a copy of the product with the given id.
func (l *StockLedger) Get(id int) (domain.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return *p, nil
}

// StockOf returns the current stock level for the given product id.
func (l *StockLedger) StockOf(id int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[id]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	return p.Stock, nil
}

// Adjust applies a delta to the product's stock and returns the new level.
// A negative delta is a reservation; a positive one a restock. When the
// result would be negative the stock is left unchanged and
// ErrInsufficientStock is returned. This is the only mutation path.
func (l *StockLedger) Adjust(id, delta int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.products[id]
	if !ok {
		return 0, domain.ErrProductNotFound
	}

	newStock := p.Stock + delta
	if newStock < 0 {
		slog.Warn("stock adjustment rejected",
			"product_id", id, "delta", delta, "available", p.Stock)
		return 0, domain.ErrInsufficientStock
	}

	p.Stock = newStock
	slog.Info("stock adjusted", "product_id", id, "delta", delta, "stock", newStock)
	return newStock, nil
}
