package repositories

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/database"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

const orderColumns = "id, name, phone, collected, black_list, date, total_price, collection_place, observations"

// OrderRepositoryInterface exposes order reads plus a transactional write
// scope. Every mutation of an order and its line items runs inside a single
// InTransaction call: all writes commit together or none do.
type OrderRepositoryInterface interface {
	GetAll() ([]*models.Order, error)
	GetByID(id int64) (*models.Order, error)
	InTransaction(fn func(OrderTx) error) error
}

// OrderTx is the write surface available inside one atomic order
// transaction.
type OrderTx interface {
	InsertOrder(order *models.Order) (*models.Order, error)
	UpdateOrderFields(id int64, patch OrderPatch) (*models.Order, error)
	ReplaceOrder(order *models.Order) (*models.Order, error)
	InsertItems(orderID int64, items []models.OrderItem) error
	DeleteItems(orderID int64) error
	DeleteOrder(id int64) error
	PhoneBlackListed(phone string) (bool, error)
	SyncBlackListForPhone(phone string, blackList bool, excludeOrderID int64) error
}

// OrderPatch carries the scalar fields of a partial update. Nil fields are
// left untouched; total_price and line items are never part of a patch.
type OrderPatch struct {
	Name            *string
	Phone           *string
	Collected       *bool
	BlackList       *bool
	Date            *time.Time
	CollectionPlace *string
	Observations    *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p OrderPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Collected == nil &&
		p.BlackList == nil && p.Date == nil && p.CollectionPlace == nil &&
		p.Observations == nil
}

// columns returns the SET columns and values in a fixed order.
func (p OrderPatch) columns() ([]string, []interface{}) {
	var cols []string
	var vals []interface{}

	add := func(col string, val interface{}) {
		cols = append(cols, col)
		vals = append(vals, val)
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.Collected != nil {
		add("collected", *p.Collected)
	}
	if p.BlackList != nil {
		add("black_list", *p.BlackList)
	}
	if p.Date != nil {
		add("date", *p.Date)
	}
	if p.CollectionPlace != nil {
		add("collection_place", *p.CollectionPlace)
	}
	if p.Observations != nil {
		add("observations", *p.Observations)
	}

	return cols, vals
}

type OrderRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewOrderRepository creates an OrderRepository over the given connection
func NewOrderRepository(log *logger.Logger, db *database.DB) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: log.WithComponent("order_repository"),
	}
}

// GetAll retrieves all orders, newest date first, without line items
func (r *OrderRepository) GetAll() ([]*models.Order, error) {
	orders := []*models.Order{}
	err := r.db.Select(&orders, "SELECT "+orderColumns+" FROM orders ORDER BY date DESC")
	if err != nil {
		r.logger.Error("Failed to select orders", "error", err)
		return nil, errors.Wrap(err, "select orders")
	}

	r.logger.Debug("Retrieved all orders", "count", len(orders))
	return orders, nil
}

// GetByID retrieves one order with its line items joined with product data
func (r *OrderRepository) GetByID(id int64) (*models.Order, error) {
	var order models.Order
	err := r.db.Get(&order, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Warn("Order not found", "order_id", id)
			return nil, models.ErrOrderNotFound
		}
		r.logger.Error("Failed to select order", "order_id", id, "error", err)
		return nil, errors.Wrap(err, "select order")
	}

	order.Items = []models.OrderItem{}
	err = r.db.Select(&order.Items, `
		SELECT op.id, op.order_id, op.product_id, op.amount, op.unit_price, op.line_total,
		       p.text AS product_text, p.metadata AS product_metadata
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = $1
		ORDER BY op.id`, id)
	if err != nil {
		r.logger.Error("Failed to select order items", "order_id", id, "error", err)
		return nil, errors.Wrap(err, "select order items")
	}

	return &order, nil
}

// InTransaction runs fn against a transactional write scope
func (r *OrderRepository) InTransaction(fn func(OrderTx) error) error {
	return r.db.ExecuteInTransaction(func(tx *sqlx.Tx) error {
		return fn(&orderTx{tx: tx, logger: r.logger})
	})
}

// orderTx implements OrderTx over one sqlx transaction
type orderTx struct {
	tx     *sqlx.Tx
	logger *logger.Logger
}

// InsertOrder inserts the order row; the id comes from the table sequence
func (t *orderTx) InsertOrder(order *models.Order) (*models.Order, error) {
	var created models.Order
	err := t.tx.QueryRowx(`
		INSERT INTO orders (name, phone, collected, black_list, date, total_price, collection_place, observations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+orderColumns,
		order.Name, order.Phone, order.Collected, order.BlackList,
		order.Date, order.TotalPrice, order.CollectionPlace, order.Observations,
	).StructScan(&created)
	if err != nil {
		t.logger.Error("Failed to insert order", "error", err)
		return nil, errors.Wrap(err, "insert order")
	}

	t.logger.Info("Inserted order", "order_id", created.ID, "customer", created.Name)
	return &created, nil
}

// UpdateOrderFields applies a partial update of scalar fields only
func (t *orderTx) UpdateOrderFields(id int64, patch OrderPatch) (*models.Order, error) {
	cols, vals := patch.columns()
	if len(cols) == 0 {
		return nil, models.ErrNoFields
	}

	query := "UPDATE orders SET "
	for i, col := range cols {
		if i > 0 {
			query += ", "
		}
		query += col + " = ?"
	}
	query += " WHERE id = ? RETURNING " + orderColumns
	query = t.tx.Rebind(query)
	vals = append(vals, id)

	var updated models.Order
	err := t.tx.QueryRowx(query, vals...).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			t.logger.Warn("Attempted to update non-existent order", "order_id", id)
			return nil, models.ErrOrderNotFound
		}
		t.logger.Error("Failed to update order fields", "order_id", id, "error", err)
		return nil, errors.Wrap(err, "update order fields")
	}

	t.logger.Info("Updated order fields", "order_id", id, "field_count", len(cols))
	return &updated, nil
}

// ReplaceOrder rewrites every scalar field including the recomputed total
func (t *orderTx) ReplaceOrder(order *models.Order) (*models.Order, error) {
	var updated models.Order
	err := t.tx.QueryRowx(`
		UPDATE orders
		SET name = $1, phone = $2, collected = $3, black_list = $4, date = $5,
		    total_price = $6, collection_place = $7, observations = $8
		WHERE id = $9
		RETURNING `+orderColumns,
		order.Name, order.Phone, order.Collected, order.BlackList, order.Date,
		order.TotalPrice, order.CollectionPlace, order.Observations, order.ID,
	).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			t.logger.Warn("Attempted to replace non-existent order", "order_id", order.ID)
			return nil, models.ErrOrderNotFound
		}
		t.logger.Error("Failed to replace order", "order_id", order.ID, "error", err)
		return nil, errors.Wrap(err, "replace order")
	}

	t.logger.Info("Replaced order", "order_id", order.ID)
	return &updated, nil
}

// InsertItems inserts one row per line item; ids come from the sequence
func (t *orderTx) InsertItems(orderID int64, items []models.OrderItem) error {
	for i := range items {
		item := &items[i]
		err := t.tx.QueryRowx(`
			INSERT INTO order_products (order_id, product_id, amount, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			orderID, item.ProductID, item.Amount, item.UnitPrice, item.LineTotal,
		).Scan(&item.ID)
		if err != nil {
			t.logger.Error("Failed to insert order item",
				"order_id", orderID, "product_id", item.ProductID, "error", err)
			return errors.Wrapf(err, "insert item for product %s", item.ProductID)
		}
		item.OrderID = orderID
	}

	t.logger.Debug("Inserted order items", "order_id", orderID, "count", len(items))
	return nil
}

// DeleteItems removes every line item owned by the order
func (t *orderTx) DeleteItems(orderID int64) error {
	if _, err := t.tx.Exec("DELETE FROM order_products WHERE order_id = $1", orderID); err != nil {
		t.logger.Error("Failed to delete order items", "order_id", orderID, "error", err)
		return errors.Wrap(err, "delete order items")
	}
	return nil
}

// DeleteOrder removes the order row itself
func (t *orderTx) DeleteOrder(id int64) error {
	result, err := t.tx.Exec("DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		t.logger.Error("Failed to delete order", "order_id", id, "error", err)
		return errors.Wrap(err, "delete order")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete order rows affected")
	}
	if affected == 0 {
		t.logger.Warn("Attempted to delete non-existent order", "order_id", id)
		return models.ErrOrderNotFound
	}

	t.logger.Info("Deleted order", "order_id", id)
	return nil
}

// PhoneBlackListed reports whether any order with this phone is blacklisted
func (t *orderTx) PhoneBlackListed(phone string) (bool, error) {
	var blackListed bool
	err := t.tx.Get(&blackListed,
		"SELECT EXISTS (SELECT 1 FROM orders WHERE phone = $1 AND black_list)", phone)
	if err != nil {
		t.logger.Error("Failed to check blacklist for phone", "error", err)
		return false, errors.Wrap(err, "check blacklist for phone")
	}
	return blackListed, nil
}

// SyncBlackListForPhone propagates the blacklist flag to every other order
// sharing the phone. Keeps the customer-scoped blacklist invariant: all
// orders of one phone number agree on black_list.
func (t *orderTx) SyncBlackListForPhone(phone string, blackList bool, excludeOrderID int64) error {
	result, err := t.tx.Exec(
		"UPDATE orders SET black_list = $1 WHERE phone = $2 AND id <> $3 AND black_list <> $1",
		blackList, phone, excludeOrderID)
	if err != nil {
		t.logger.Error("Failed to sync blacklist for phone", "error", err)
		return errors.Wrap(err, "sync blacklist for phone")
	}

	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		t.logger.Info("Propagated blacklist status",
			"black_list", blackList, "orders_updated", affected)
	}
	return nil
}
