package service

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ADCairex/dashboard-app/internal/repositories"
	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

// Define request structs
type CreateOrderRequest struct {
	Name            string             `json:"name"`
	Phone           string             `json:"phone"`
	Collected       bool               `json:"collected"`
	BlackList       bool               `json:"black_list"`
	Date            *time.Time         `json:"date"`
	CollectionPlace string             `json:"collection_place"`
	Observations    string             `json:"observations"`
	Items           []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Amount    int             `json:"amount"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateOrderRequest distinguishes its two modes solely by Items: nil means
// a partial update of the supplied scalar fields; non-nil (even empty) means
// a full replace of the order and all its line items.
type UpdateOrderRequest struct {
	Name            *string             `json:"name"`
	Phone           *string             `json:"phone"`
	Collected       *bool               `json:"collected"`
	BlackList       *bool               `json:"black_list"`
	Date            *time.Time          `json:"date"`
	CollectionPlace *string             `json:"collection_place"`
	Observations    *string             `json:"observations"`
	Items           *[]OrderItemRequest `json:"items"`
}

// OrderService interface
type OrderServiceInterface interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	GetAllOrders() ([]*models.Order, error)
	GetOrderByID(id int64) (*models.Order, error)
	UpdateOrder(id int64, req UpdateOrderRequest) (*models.Order, error)
	DeleteOrder(id int64) error
}

// OrderService is the only path through which orders and their line items
// are mutated. Each mutation runs as one transaction covering the order row,
// its line items, the recomputed total and the blacklist propagation.
type OrderService struct {
	orderRepo repositories.OrderRepositoryInterface
	logger    *logger.Logger
}

// NewOrderService creates a new OrderService with the given repository and logger
func NewOrderService(orderRepo repositories.OrderRepositoryInterface, logger *logger.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger.WithComponent("order_service"),
	}
}

// CreateOrder creates an order together with its line items. If any existing
// order with the same phone is blacklisted, the new order is blacklisted
// regardless of the requested value: the flag is customer-scoped and sticky.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	s.logger.Info("Creating new order", "customer", req.Name, "item_count", len(req.Items))

	items, totalPrice, err := s.buildItems(req.Items)
	if err != nil {
		s.logger.Warn("Create failed: invalid items", "error", err)
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	order := &models.Order{
		Name:            req.Name,
		Phone:           req.Phone,
		Collected:       req.Collected,
		BlackList:       req.BlackList,
		Date:            date,
		TotalPrice:      totalPrice,
		CollectionPlace: req.CollectionPlace,
		Observations:    req.Observations,
	}

	var created *models.Order
	err = s.orderRepo.InTransaction(func(tx repositories.OrderTx) error {
		if order.Phone != "" && !order.BlackList {
			blackListed, err := tx.PhoneBlackListed(order.Phone)
			if err != nil {
				return err
			}
			order.BlackList = blackListed
		}

		created, err = tx.InsertOrder(order)
		if err != nil {
			return err
		}

		if err := tx.InsertItems(created.ID, items); err != nil {
			return err
		}

		if created.Phone != "" {
			return tx.SyncBlackListForPhone(created.Phone, created.BlackList, created.ID)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create order", "error", err)
		return nil, err
	}

	s.logger.Info("Order created", "order_id", created.ID, "total_price", created.TotalPrice)
	return created, nil
}

// GetAllOrders retrieves all orders, newest first
func (s *OrderService) GetAllOrders() ([]*models.Order, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		s.logger.Error("Failed to fetch orders", "error", err)
		return nil, err
	}

	s.logger.Debug("Fetched orders", "count", len(orders))
	return orders, nil
}

// GetOrderByID retrieves one order with its line items expanded
func (s *OrderService) GetOrderByID(id int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		s.logger.Warn("Failed to fetch order", "order_id", id, "error", err)
		return nil, err
	}
	return order, nil
}

// UpdateOrder updates an order. With Items nil only the supplied scalar
// fields change and the total and line items stay untouched; with Items
// present the total is recomputed and every line item is replaced. Either
// way, the resulting blacklist value is propagated to all other orders
// sharing the phone, inside the same transaction.
func (s *OrderService) UpdateOrder(id int64, req UpdateOrderRequest) (*models.Order, error) {
	s.logger.Info("Updating order", "order_id", id, "full_replace", req.Items != nil)

	if req.Items == nil {
		return s.updateOrderFields(id, req)
	}
	return s.replaceOrder(id, req)
}

// updateOrderFields handles the partial/status mode
func (s *OrderService) updateOrderFields(id int64, req UpdateOrderRequest) (*models.Order, error) {
	patch := repositories.OrderPatch{
		Name:            req.Name,
		Phone:           req.Phone,
		Collected:       req.Collected,
		BlackList:       req.BlackList,
		Date:            req.Date,
		CollectionPlace: req.CollectionPlace,
		Observations:    req.Observations,
	}
	if patch.IsEmpty() {
		s.logger.Warn("Update failed: no fields supplied", "order_id", id)
		return nil, models.ErrNoFields
	}

	var updated *models.Order
	err := s.orderRepo.InTransaction(func(tx repositories.OrderTx) error {
		var err error
		updated, err = tx.UpdateOrderFields(id, patch)
		if err != nil {
			return err
		}

		if updated.Phone != "" {
			return tx.SyncBlackListForPhone(updated.Phone, updated.BlackList, updated.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order updated", "order_id", id)
	return updated, nil
}

// replaceOrder handles the full mode: all fields plus a fresh item set
func (s *OrderService) replaceOrder(id int64, req UpdateOrderRequest) (*models.Order, error) {
	items, totalPrice, err := s.buildItems(*req.Items)
	if err != nil {
		s.logger.Warn("Update failed: invalid items", "order_id", id, "error", err)
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	order := &models.Order{
		ID:              id,
		Name:            stringValue(req.Name),
		Phone:           stringValue(req.Phone),
		Collected:       boolValue(req.Collected),
		BlackList:       boolValue(req.BlackList),
		Date:            date,
		TotalPrice:      totalPrice,
		CollectionPlace: stringValue(req.CollectionPlace),
		Observations:    stringValue(req.Observations),
	}

	var updated *models.Order
	err = s.orderRepo.InTransaction(func(tx repositories.OrderTx) error {
		var err error
		updated, err = tx.ReplaceOrder(order)
		if err != nil {
			return err
		}

		// Full replace: old items always go, the supplied set comes in fresh.
		if err := tx.DeleteItems(id); err != nil {
			return err
		}
		if err := tx.InsertItems(id, items); err != nil {
			return err
		}

		if updated.Phone != "" {
			return tx.SyncBlackListForPhone(updated.Phone, updated.BlackList, updated.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order replaced", "order_id", id, "total_price", updated.TotalPrice)
	return updated, nil
}

// DeleteOrder removes the order and all its line items. Deleting an order
// never changes the customer's blacklist status on remaining orders.
func (s *OrderService) DeleteOrder(id int64) error {
	s.logger.Info("Deleting order", "order_id", id)

	err := s.orderRepo.InTransaction(func(tx repositories.OrderTx) error {
		if err := tx.DeleteItems(id); err != nil {
			return err
		}
		return tx.DeleteOrder(id)
	})
	if err != nil {
		s.logger.Warn("Failed to delete order", "order_id", id, "error", err)
		return err
	}

	s.logger.Info("Order deleted", "order_id", id)
	return nil
}

// buildItems validates the requested items and derives line totals plus the
// order total from the caller-supplied snapshot prices. Catalog prices are
// never consulted: a later price change must not alter historical orders.
func (s *OrderService) buildItems(reqItems []OrderItemRequest) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, len(reqItems))
	totalPrice := decimal.Zero

	for i, reqItem := range reqItems {
		if reqItem.ProductID == "" {
			return nil, decimal.Zero, errors.Wrapf(models.ErrInvalidOrderItem,
				"item %d: product ID is required", i+1)
		}
		if reqItem.Amount <= 0 {
			return nil, decimal.Zero, errors.Wrapf(models.ErrInvalidOrderItem,
				"item %d: amount must be positive", i+1)
		}
		if reqItem.UnitPrice.IsNegative() {
			return nil, decimal.Zero, errors.Wrapf(models.ErrInvalidOrderItem,
				"item %d: unit price cannot be negative", i+1)
		}

		lineTotal := reqItem.UnitPrice.Mul(decimal.NewFromInt(int64(reqItem.Amount)))
		items[i] = models.OrderItem{
			ProductID: reqItem.ProductID,
			Amount:    reqItem.Amount,
			UnitPrice: reqItem.UnitPrice,
			LineTotal: lineTotal,
		}
		totalPrice = totalPrice.Add(lineTotal)
	}

	return items, totalPrice, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolValue(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
