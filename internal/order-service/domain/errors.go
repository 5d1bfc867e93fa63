package domain

import (
	"errors"
	"fmt"
)

// ErrOrderNotFound is returned by the order ledger for unknown order ids.
var ErrOrderNotFound = errors.New("order not found")

// ProductNotFoundError means a requested product id does not exist in the
// stock service's catalog.
type ProductNotFoundError struct {
	ProductID int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// InsufficientStockError means the requested quantity exceeded the available
// stock at check time. Available is -1 when the stock service rejected an
// adjustment without reporting the current level.
type InsufficientStockError struct {
	ProductID int
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Available >= 0 {
		return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
			e.ProductID, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %d", e.ProductID)
}

// ReservationFailedError means the adjust-stock call was rejected after the
// availability check passed — typically a concurrent order won the race.
type ReservationFailedError struct {
	ProductID int
	Err       error
}

func (e *ReservationFailedError) Error() string {
	return fmt.Sprintf("failed to reserve stock for product %d: %v", e.ProductID, e.Err)
}

func (e *ReservationFailedError) Unwrap() error { return e.Err }

// StockUnavailableError means the stock service could not be reached at all
// (connection failure, timeout, or an unreadable response).
type StockUnavailableError struct {
	Err error
}

func (e *StockUnavailableError) Error() string {
	return fmt.Sprintf("stock service unavailable: %v", e.Err)
}

func (e *StockUnavailableError) Unwrap() error { return e.Err }
