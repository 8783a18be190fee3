package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/logger"

	"github.com/gorilla/mux"
)

type stubProductService struct {
	getAllFn     func() ([]*models.Product, error)
	getFn        func(string) (*models.Product, error)
	orderItemsFn func(int64) ([]models.OrderItem, error)
}

func (s *stubProductService) GetAllProducts() ([]*models.Product, error) {
	return s.getAllFn()
}

func (s *stubProductService) GetProductByID(id string) (*models.Product, error) {
	return s.getFn(id)
}

func (s *stubProductService) GetOrderItems(orderID int64) ([]models.OrderItem, error) {
	return s.orderItemsFn(orderID)
}

func productRouter(svc *stubProductService) *mux.Router {
	log := logger.New(logger.Config{Level: logger.LevelError, Output: "stderr"})
	h := NewProductHandler(svc, log)

	r := mux.NewRouter()
	r.HandleFunc("/api/products", h.GetAllProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.MutationDisabled).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id}", h.GetProductByID).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", h.MutationDisabled).Methods(http.MethodPut, http.MethodDelete)
	return r
}

func TestGetAllProductsReturnsCatalog(t *testing.T) {
	price := decimal.RequireFromString("4.50")
	svc := &stubProductService{
		getAllFn: func() ([]*models.Product, error) {
			return []*models.Product{
				{ID: "p1", Text: "Empanada", Metadata: models.ProductMetadata{Title: "Empanada", Price: &price}},
			}, nil
		},
	}
	router := productRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Empanada", products[0].Metadata.Title)
}

func TestGetAllProductsWithOrderFilter(t *testing.T) {
	svc := &stubProductService{
		orderItemsFn: func(orderID int64) ([]models.OrderItem, error) {
			assert.Equal(t, int64(12), orderID)
			return []models.OrderItem{{ID: 1, OrderID: 12, ProductID: "p1", Amount: 2}}, nil
		},
	}
	router := productRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products?order_id=12", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.OrderItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, int64(12), items[0].OrderID)
}

func TestGetAllProductsRejectsBadOrderFilter(t *testing.T) {
	svc := &stubProductService{
		orderItemsFn: func(int64) ([]models.OrderItem, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	router := productRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products?order_id=twelve", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductByIDNotFound(t *testing.T) {
	svc := &stubProductService{
		getFn: func(id string) (*models.Product, error) {
			return nil, errors.Wrapf(models.ErrProductNotFound, "product %s", id)
		},
	}
	router := productRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductMutationsAreForbidden(t *testing.T) {
	svc := &stubProductService{}
	router := productRouter(svc)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/products", nil),
		httptest.NewRequest(http.MethodPut, "/api/products/p1", nil),
		httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil),
	}

	for _, req := range requests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code, "%s %s", req.Method, req.URL.Path)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Product catalog is read-only", resp["error"])
	}
}
