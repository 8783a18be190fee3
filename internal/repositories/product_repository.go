package repositories

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/database"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

// ProductRepositoryInterface is the read-only catalog access. The API never
// mutates products; catalog management happens outside this service.
type ProductRepositoryInterface interface {
	GetAll() ([]*models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetOrderItems(orderID int64) ([]models.OrderItem, error)
}

type ProductRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewProductRepository creates a ProductRepository over the given connection
func NewProductRepository(log *logger.Logger, db *database.DB) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: log.WithComponent("product_repository"),
	}
}

// GetAll retrieves the whole catalog
func (r *ProductRepository) GetAll() ([]*models.Product, error) {
	products := []*models.Product{}
	err := r.db.Select(&products, "SELECT id, text, metadata FROM products ORDER BY id")
	if err != nil {
		r.logger.Error("Failed to select products", "error", err)
		return nil, errors.Wrap(err, "select products")
	}

	r.logger.Debug("Retrieved all products", "count", len(products))
	return products, nil
}

// GetByID retrieves a single product
func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Get(&product, "SELECT id, text, metadata FROM products WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Warn("Product not found", "product_id", id)
			return nil, models.ErrProductNotFound
		}
		r.logger.Error("Failed to select product", "product_id", id, "error", err)
		return nil, errors.Wrap(err, "select product")
	}

	return &product, nil
}

// GetOrderItems retrieves one order's line items joined with product data.
// Backs the ?order_id= filter on the products listing endpoint.
func (r *ProductRepository) GetOrderItems(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	err := r.db.Select(&items, `
		SELECT op.id, op.order_id, op.product_id, op.amount, op.unit_price, op.line_total,
		       p.text AS product_text, p.metadata AS product_metadata
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = $1
		ORDER BY op.id`, orderID)
	if err != nil {
		r.logger.Error("Failed to select order items", "order_id", orderID, "error", err)
		return nil, errors.Wrap(err, "select order items")
	}

	r.logger.Debug("Retrieved order items", "order_id", orderID, "count", len(items))
	return items, nil
}
