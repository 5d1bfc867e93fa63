package httpx

type ProductResponse struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type StockResponse struct {
	ProductID int `json:"product_id"`
	Stock     int `json:"stock"`
}

// StockUpdateRequest carries a signed delta, not an absolute level.
type StockUpdateRequest struct {
	Quantity int `json:"quantity"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
