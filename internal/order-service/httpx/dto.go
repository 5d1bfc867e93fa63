package httpx

type CreateOrderRequest struct {
	Items []OrderItemDTO `json:"items"`
}

type OrderItemDTO struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type OrderResponse struct {
	ID     int             `json:"id"`
	Items  []PricedItemDTO `json:"items"`
	Total  float64         `json:"total"`
	Status string          `json:"status"`
}

// PricedItemDTO mirrors the original wire format: the unit price serialises
// as "price".
type PricedItemDTO struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
