package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-api/internal/models"
	"shop-api/internal/service"
	"shop-api/internal/store/memory"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memory.NewStore()
	handler := NewHandler(
		service.NewCategoryService(st),
		service.NewProductService(st),
		service.NewCustomerService(st),
		service.NewOrderService(st, nil),
		"test",
	)

	router := gin.New()
	handler.SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// seedShop creates a category, a product priced 20.00 and a customer through
// the API, returning their ids.
func seedShop(t *testing.T, router *gin.Engine) (productID, customerID int64) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/categories", gin.H{"name": "Books"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category models.Category
	decodeInto(t, w, &category)

	w = doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"name":        "Go Guide",
		"price":       "20.00",
		"category_id": category.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product models.Product
	decodeInto(t, w, &product)

	w = doJSON(t, router, http.MethodPost, "/api/v1/customers", gin.H{
		"full_name": "Ada Lovelace",
		"email":     "a@b.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var customer models.Customer
	decodeInto(t, w, &customer)

	return product.ID, customer.ID
}

func TestValidation(t *testing.T) {
	router := setupRouter(t)
	productID, customerID := seedShop(t, router)

	tests := []struct {
		name  string
		path  string
		body  gin.H
		field string
	}{
		{
			name:  "category without name",
			path:  "/api/v1/categories",
			body:  gin.H{"description": "no name"},
			field: "Name",
		},
		{
			name:  "product with zero price",
			path:  "/api/v1/products",
			body:  gin.H{"name": "Free Book", "price": "0", "category_id": 1},
			field: "Price",
		},
		{
			name:  "product without category",
			path:  "/api/v1/products",
			body:  gin.H{"name": "Orphan", "price": "5.00"},
			field: "CategoryID",
		},
		{
			name:  "customer with bad email",
			path:  "/api/v1/customers",
			body:  gin.H{"full_name": "Ada", "email": "not-an-email"},
			field: "Email",
		},
		{
			name:  "order without items",
			path:  "/api/v1/orders",
			body:  gin.H{"customer_id": customerID, "items": []gin.H{}},
			field: "Items",
		},
		{
			name:  "order item with zero quantity",
			path:  "/api/v1/orders",
			body:  gin.H{"customer_id": customerID, "items": []gin.H{{"product_id": productID, "quantity": 0}}},
			field: "Quantity",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Error  string `json:"error"`
				Fields []struct {
					Field string `json:"field"`
				} `json:"fields"`
			}
			decodeInto(t, w, &resp)
			assert.Equal(t, "validation failed", resp.Error)

			found := false
			for _, f := range resp.Fields {
				if f.Field == tc.field {
					found = true
				}
			}
			assert.True(t, found, "expected a violation on %s, got %s", tc.field, w.Body.String())
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	router := setupRouter(t)
	productID, customerID := seedShop(t, router)

	// create: 2 x 20.00 = 40.00
	w := doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": customerID,
		"items":       []gin.H{{"product_id": productID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order service.OrderResponse
	decodeInto(t, w, &order)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("40.00")),
		"expected 40.00, got %s", order.TotalPrice)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Go Guide", order.Items[0].ProductName)

	orderPath := fmt.Sprintf("/api/v1/orders/%d", order.ID)

	// add one more unit: 60.00
	w = doJSON(t, router, http.MethodPost, orderPath+"/items", gin.H{
		"product_id": productID,
		"quantity":   1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item models.OrderItem
	decodeInto(t, w, &item)

	w = doJSON(t, router, http.MethodGet, orderPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeInto(t, w, &order)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("60.00")),
		"expected 60.00, got %s", order.TotalPrice)
	assert.Len(t, order.Items, 2)

	// drop the added item: back to 40.00
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("%s/items/%d", orderPath, item.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, orderPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeInto(t, w, &order)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("40.00")),
		"expected 40.00, got %s", order.TotalPrice)

	// full replacement via PUT
	w = doJSON(t, router, http.MethodPut, orderPath, gin.H{
		"customer_id": customerID,
		"items":       []gin.H{{"product_id": productID, "quantity": 3}},
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, orderPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeInto(t, w, &order)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("60.00")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)

	// delete
	w = doJSON(t, router, http.MethodDelete, orderPath, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, orderPath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotFound(t *testing.T) {
	router := setupRouter(t)

	paths := []string{
		"/api/v1/categories/99",
		"/api/v1/products/99",
		"/api/v1/customers/99",
		"/api/v1/orders/99",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestInvalidIDParam(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/orders/-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	router := setupRouter(t)
	seedShop(t, router)

	w := doJSON(t, router, http.MethodDelete, "/api/v1/categories/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	router := setupRouter(t)
	productID, _ := seedShop(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": 999,
		"items":       []gin.H{{"product_id": productID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []service.OrderResponse
	decodeInto(t, w, &orders)
	assert.Empty(t, orders)
}

func TestDuplicateCustomerEmail(t *testing.T) {
	router := setupRouter(t)
	seedShop(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/customers", gin.H{
		"full_name": "Grace Hopper",
		"email":     "a@b.com",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCorrelationIDEchoed(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Correlation-ID", "test-corr-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-corr-1", w.Header().Get("X-Correlation-ID"))
}

func TestCorrelationIDGenerated(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}
