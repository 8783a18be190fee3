package service

import (
	"github.com/ADCairex/dashboard-app/internal/repositories"
	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

// MetricsService interface
type MetricsServiceInterface interface {
	GetMetrics() (*models.MetricsReport, error)
}

type MetricsService struct {
	metricsRepo repositories.MetricsRepositoryInterface
	logger      *logger.Logger
}

// NewMetricsService creates a new MetricsService with the given repository and logger
func NewMetricsService(metricsRepo repositories.MetricsRepositoryInterface, logger *logger.Logger) *MetricsService {
	return &MetricsService{
		metricsRepo: metricsRepo,
		logger:      logger.WithComponent("metrics_service"),
	}
}

// GetMetrics builds the sales report: per-product totals ordered by revenue
// descending, with the top product as best seller. No line items at all
// means an empty product list and no best seller.
func (s *MetricsService) GetMetrics() (*models.MetricsReport, error) {
	s.logger.Info("Calculating sales metrics")

	sales, err := s.metricsRepo.GetProductSales()
	if err != nil {
		s.logger.Error("Failed to calculate sales metrics", "error", err)
		return nil, err
	}

	report := &models.MetricsReport{Products: sales}
	if len(sales) > 0 {
		report.BestSeller = &sales[0]
	}

	s.logger.Info("Sales metrics calculated", "product_count", len(sales))
	return report, nil
}
