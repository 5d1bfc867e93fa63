package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcmexdev/ecommerce-orders/internal/product-service/app"
	"github.com/jcmexdev/ecommerce-orders/internal/product-service/domain"
)

func newTestServer() (http.Handler, *app.StockLedger) {
	ledger := app.NewStockLedger([]domain.Product{
		{ID: 1, Name: "Laptop", Price: 999.99, Stock: 10},
		{ID: 2, Name: "Mouse", Price: 29.99, Stock: 50},
	})
	return NewRouter(NewHandler(ledger)), ledger
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestServer()

	rec := doRequest(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "product-service", resp.Service)
}

func TestListProducts(t *testing.T) {
	router, _ := newTestServer()

	rec := doRequest(t, router, http.MethodGet, "/products", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var products []ProductResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.Equal(t, 2, products[1].ID)
}

func TestGetProduct(t *testing.T) {
	router, _ := newTestServer()

	rec := doRequest(t, router, http.MethodGet, "/products/1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var p ProductResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, ProductResponse{ID: 1, Name: "Laptop", Price: 999.99, Stock: 10}, p)
}

func TestGetProduct_NotFound(t *testing.T) {
	router, _ := newTestServer()

	rec := doRequest(t, router, http.MethodGet, "/products/99", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "product_not_found", resp.Error)
}

func TestGetProduct_InvalidID(t *testing.T) {
	router, _ := newTestServer()

	for _, target := range []string{"/products/abc", "/products/0", "/products/-1"} {
		rec := doRequest(t, router, http.MethodGet, target, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		var resp ErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "invalid_product_id", resp.Error)
	}
}

func TestGetStock(t *testing.T) {
	router, _ := newTestServer()

	rec := doRequest(t, router, http.MethodGet, "/products/2/stock", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp StockResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StockResponse{ProductID: 2, Stock: 50}, resp)
}

func TestGetStock_NotFound(t *testing.T) {
	router, _ := newTestServer()

	rec := doRequest(t, router, http.MethodGet, "/products/99/stock", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStock(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStock  int
		wantErrTag string
	}{
		{name: "reserve three units", body: `{"quantity": -3}`, wantCode: http.StatusOK, wantStock: 7},
		{name: "restock", body: `{"quantity": 5}`, wantCode: http.StatusOK, wantStock: 15},
		{name: "reserve everything", body: `{"quantity": -10}`, wantCode: http.StatusOK, wantStock: 0},
		{name: "over-reserve", body: `{"quantity": -11}`, wantCode: http.StatusBadRequest, wantErrTag: "insufficient_stock"},
		{name: "malformed body", body: `{"quantity": `, wantCode: http.StatusBadRequest, wantErrTag: "invalid_json"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, ledger := newTestServer()

			rec := doRequest(t, router, http.MethodPut, "/products/1/stock", tc.body)

			assert.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusOK {
				var resp StockResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, StockResponse{ProductID: 1, Stock: tc.wantStock}, resp)

				stock, err := ledger.StockOf(1)
				assert.NoError(t, err)
				assert.Equal(t, tc.wantStock, stock)
				return
			}

			var resp ErrorResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantErrTag, resp.Error)

			stock, err := ledger.StockOf(1)
			assert.NoError(t, err)
			assert.Equal(t, 10, stock, "failed update must not touch the stock")
		})
	}
}

func TestUpdateStock_UnknownProduct(t *testing.T) {
	router, _ := newTestServer()

	rec := doRequest(t, router, http.MethodPut, "/products/99/stock", `{"quantity": -1}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "product_not_found", resp.Error)
}
