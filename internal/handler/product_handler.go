package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/ADCairex/dashboard-app/internal/service"
	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

// ProductHandler serves the read-only catalog
type ProductHandler struct {
	productService service.ProductServiceInterface
	logger         *logger.Logger
}

// NewProductHandler creates a new ProductHandler with the given service and logger
func NewProductHandler(productService service.ProductServiceInterface, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger.WithComponent("product_handler"),
	}
}

// GetAllProducts handles GET /api/products. With ?order_id= it returns that
// order's line items joined with product data instead of the catalog.
func (h *ProductHandler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	if rawOrderID := r.URL.Query().Get("order_id"); rawOrderID != "" {
		orderID, err := strconv.ParseInt(rawOrderID, 10, 64)
		if err != nil {
			h.logger.Warn("Invalid order_id filter", "order_id", rawOrderID)
			h.respondError(w, reqCtx, http.StatusBadRequest, "Invalid order_id filter")
			return
		}

		items, err := h.productService.GetOrderItems(orderID)
		if err != nil {
			h.logger.Error("Failed to get order items", "order_id", orderID, "error", err)
			h.respondError(w, reqCtx, http.StatusInternalServerError, "Failed to fetch order items")
			return
		}

		h.respondJSON(w, reqCtx, http.StatusOK, items)
		return
	}

	products, err := h.productService.GetAllProducts()
	if err != nil {
		h.logger.Error("Failed to get products", "error", err)
		h.respondError(w, reqCtx, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	h.respondJSON(w, reqCtx, http.StatusOK, products)
}

// GetProductByID handles GET /api/products/{id}
func (h *ProductHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	id := mux.Vars(r)["id"]
	product, err := h.productService.GetProductByID(id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, models.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		h.logger.Warn("Failed to get product", "product_id", id, "error", err)
		h.respondError(w, reqCtx, statusCode, "Product not found")
		return
	}

	h.respondJSON(w, reqCtx, http.StatusOK, product)
}

// MutationDisabled handles POST/PUT/DELETE on /api/products: the catalog is
// managed outside this service, so every mutation answers 403.
func (h *ProductHandler) MutationDisabled(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	h.logger.Warn("Rejected product mutation", "method", r.Method)
	h.respondError(w, reqCtx, http.StatusForbidden, "Product catalog is read-only")
}

func (h *ProductHandler) respondJSON(w http.ResponseWriter, reqCtx *logger.RequestContext, statusCode int, data interface{}) {
	writeJSONResponse(h.logger, w, statusCode, data)
	reqCtx.StatusCode = statusCode
	h.logger.LogResponse(reqCtx)
}

func (h *ProductHandler) respondError(w http.ResponseWriter, reqCtx *logger.RequestContext, statusCode int, message string) {
	writeErrorResponse(h.logger, w, statusCode, message)
	reqCtx.StatusCode = statusCode
	h.logger.LogResponse(reqCtx)
}
