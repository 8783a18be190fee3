package repositories

import (
	"github.com/pkg/errors"

	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/database"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

// MetricsRepositoryInterface produces read-only sales aggregates. Every call
// recomputes from current state; nothing is cached.
type MetricsRepositoryInterface interface {
	GetProductSales() ([]models.ProductSales, error)
}

type MetricsRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewMetricsRepository creates a MetricsRepository over the given connection
func NewMetricsRepository(log *logger.Logger, db *database.DB) *MetricsRepository {
	return &MetricsRepository{
		db:     db,
		logger: log.WithComponent("metrics_repository"),
	}
}

// GetProductSales aggregates units and revenue per product across all line
// items, highest revenue first. Products never ordered are omitted (inner
// join).
func (r *MetricsRepository) GetProductSales() ([]models.ProductSales, error) {
	sales := []models.ProductSales{}
	err := r.db.Select(&sales, `
		SELECT op.product_id,
		       p.text AS product_text,
		       SUM(op.amount)::bigint AS units_sold,
		       SUM(op.line_total) AS revenue
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		GROUP BY op.product_id, p.text
		ORDER BY revenue DESC`)
	if err != nil {
		r.logger.Error("Failed to aggregate product sales", "error", err)
		return nil, errors.Wrap(err, "aggregate product sales")
	}

	r.logger.Debug("Aggregated product sales", "product_count", len(sales))
	return sales, nil
}
