package service

import (
	"github.com/ADCairex/dashboard-app/internal/repositories"
	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

// ProductService interface. The catalog is read-only over the API; mutations
// are rejected at the handler layer before reaching this service.
type ProductServiceInterface interface {
	GetAllProducts() ([]*models.Product, error)
	GetProductByID(id string) (*models.Product, error)
	GetOrderItems(orderID int64) ([]models.OrderItem, error)
}

type ProductService struct {
	productRepo repositories.ProductRepositoryInterface
	logger      *logger.Logger
}

// NewProductService creates a new ProductService with the given repository and logger
func NewProductService(productRepo repositories.ProductRepositoryInterface, logger *logger.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger.WithComponent("product_service"),
	}
}

// GetAllProducts retrieves the whole catalog
func (s *ProductService) GetAllProducts() ([]*models.Product, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		s.logger.Error("Failed to fetch products", "error", err)
		return nil, err
	}

	s.logger.Debug("Fetched products", "count", len(products))
	return products, nil
}

// GetProductByID retrieves a single product
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		s.logger.Warn("Failed to fetch product", "product_id", id, "error", err)
		return nil, err
	}
	return product, nil
}

// GetOrderItems retrieves an order's line items joined with product data
func (s *ProductService) GetOrderItems(orderID int64) ([]models.OrderItem, error) {
	items, err := s.productRepo.GetOrderItems(orderID)
	if err != nil {
		s.logger.Error("Failed to fetch order items", "order_id", orderID, "error", err)
		return nil, err
	}
	return items, nil
}
