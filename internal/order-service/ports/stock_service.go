package ports

import "context"

// Product is the view of a catalog product as served by the stock service.
type Product struct {
	ID    int
	Name  string
	Price float64
	Stock int
}

// StockService is the outbound port to the product service's stock ledger.
// Implementations return the typed errors from the order-service domain
// package (ProductNotFoundError, InsufficientStockError, ...).
type StockService interface {
	// GetProduct fetches a product, including its current stock level.
	GetProduct(ctx context.Context, id int) (Product, error)

	// AdjustStock applies a signed delta to the product's stock and returns
	// the new level. A negative delta reserves stock for an order.
	AdjustStock(ctx context.Context, id, delta int) (int, error)
}
