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

// OrderHandler struct
type OrderHandler struct {
	orderService service.OrderServiceInterface
	logger       *logger.Logger
}

// NewOrderHandler creates a new OrderHandler with the given service and logger
func NewOrderHandler(orderService service.OrderServiceInterface, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger.WithComponent("order_handler"),
	}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	var createReq service.CreateOrderRequest
	if err := parseRequestBody(r, &createReq); err != nil {
		h.logger.Warn("Invalid request body for create order", "error", err)
		h.respondError(w, reqCtx, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(createReq)
	if err != nil {
		h.logger.Warn("Failed to create order", "error", err)
		h.respondError(w, reqCtx, h.statusFromError(err), err.Error())
		return
	}

	h.respondJSON(w, reqCtx, http.StatusCreated, order)
}

// GetAllOrders handles GET /api/orders
func (h *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		h.logger.Error("Failed to get all orders", "error", err)
		h.respondError(w, reqCtx, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	h.respondJSON(w, reqCtx, http.StatusOK, orders)
}

// GetOrderByID handles GET /api/orders/{id}
func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	id, err := h.orderID(r)
	if err != nil {
		h.logger.Warn("Invalid order ID", "error", err)
		h.respondError(w, reqCtx, http.StatusNotFound, "Order not found")
		return
	}

	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		h.logger.Warn("Failed to get order", "order_id", id, "error", err)
		h.respondError(w, reqCtx, h.statusFromError(err), "Order not found")
		return
	}

	h.respondJSON(w, reqCtx, http.StatusOK, order)
}

// UpdateOrder handles PUT /api/orders/{id}
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	id, err := h.orderID(r)
	if err != nil {
		h.logger.Warn("Invalid order ID", "error", err)
		h.respondError(w, reqCtx, http.StatusNotFound, "Order not found")
		return
	}

	var updateReq service.UpdateOrderRequest
	if err := parseRequestBody(r, &updateReq); err != nil {
		h.logger.Warn("Invalid request body for update order", "error", err)
		h.respondError(w, reqCtx, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrder(id, updateReq)
	if err != nil {
		h.logger.Warn("Failed to update order", "order_id", id, "error", err)
		h.respondError(w, reqCtx, h.statusFromError(err), err.Error())
		return
	}

	h.respondJSON(w, reqCtx, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/orders/{id}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	id, err := h.orderID(r)
	if err != nil {
		h.logger.Warn("Invalid order ID", "error", err)
		h.respondError(w, reqCtx, http.StatusNotFound, "Order not found")
		return
	}

	if err := h.orderService.DeleteOrder(id); err != nil {
		h.logger.Warn("Failed to delete order", "order_id", id, "error", err)
		h.respondError(w, reqCtx, h.statusFromError(err), err.Error())
		return
	}

	h.respondJSON(w, reqCtx, http.StatusOK, map[string]bool{"success": true})
}

// Private helper methods

// orderID extracts the numeric order id from the route
func (h *OrderHandler) orderID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(models.ErrOrderNotFound, "invalid order id %q", raw)
	}
	return id, nil
}

// statusFromError maps service errors to HTTP status codes
func (h *OrderHandler) statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoFields), errors.Is(err, models.ErrInvalidOrderItem):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *OrderHandler) respondJSON(w http.ResponseWriter, reqCtx *logger.RequestContext, statusCode int, data interface{}) {
	writeJSONResponse(h.logger, w, statusCode, data)
	reqCtx.StatusCode = statusCode
	h.logger.LogResponse(reqCtx)
}

func (h *OrderHandler) respondError(w http.ResponseWriter, reqCtx *logger.RequestContext, statusCode int, message string) {
	writeErrorResponse(h.logger, w, statusCode, message)
	reqCtx.StatusCode = statusCode
	h.logger.LogResponse(reqCtx)
}
