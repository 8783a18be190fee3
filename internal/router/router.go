package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ADCairex/dashboard-app/internal/handler"
)

// NewRouter wires the HTTP route table. /health and /api/login are open;
// everything else under /api requires a live session.
func NewRouter(
	orderHandler *handler.OrderHandler,
	productHandler *handler.ProductHandler,
	metricsHandler *handler.MetricsHandler,
	authHandler *handler.AuthHandler,
	healthHandler *handler.HealthHandler,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)
	r.HandleFunc("/api/login", authHandler.Login).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authHandler.RequireSession)

	api.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	api.HandleFunc("/orders", orderHandler.GetAllOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", orderHandler.CreateOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", orderHandler.GetOrderByID).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", orderHandler.UpdateOrder).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id}", orderHandler.DeleteOrder).Methods(http.MethodDelete)

	api.HandleFunc("/products", productHandler.GetAllProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", productHandler.GetProductByID).Methods(http.MethodGet)

	// The catalog is read-only over the API.
	api.HandleFunc("/products", productHandler.MutationDisabled).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", productHandler.MutationDisabled).
		Methods(http.MethodPut, http.MethodDelete)

	api.HandleFunc("/metrics", metricsHandler.GetMetrics).Methods(http.MethodGet)

	return r
}
