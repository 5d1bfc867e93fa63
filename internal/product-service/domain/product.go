package domain

import "errors"

// Product is a catalog entry together with its current stock level.
// It is owned exclusively by the stock ledger and mutated only through
// the ledger's Adjust operation.
type Product struct {
	ID    int
	Name  string
	Price float64
	Stock int
}

var (
	// ErrProductNotFound is returned when the referenced product id is absent.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned when an adjustment would drive the
	// stock level below zero. The stock is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")
)
