package domain

// LineItem is a single (product, quantity) pair in an order request.
type LineItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// PricedItem is a line item after a successful reservation, priced with the
// product data observed at reservation time. Immutable once created.
type PricedItem struct {
	ProductID   int
	ProductName string
	Quantity    int
	UnitPrice   float64
	Subtotal    float64
}

type Order struct {
	ID     int
	Items  []PricedItem
	Total  float64
	Status OrderStatus
}

type OrderStatus string

// Orders never leave the created state in this scope: a failed reservation
// means no order exists at all.
const StatusCreated OrderStatus = "created"
