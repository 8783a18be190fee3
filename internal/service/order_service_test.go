package service

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADCairex/dashboard-app/internal/repositories"
	"github.com/ADCairex/dashboard-app/models"
	"github.com/ADCairex/dashboard-app/pkg/logger"
)

// fakeOrderStore is an in-memory OrderRepositoryInterface. InTransaction
// snapshots state and restores it when fn fails, so tests can assert that
// failed mutations leave nothing behind.
type fakeOrderStore struct {
	orders      map[int64]*models.Order
	items       map[int64][]models.OrderItem
	nextOrderID int64
	nextItemID  int64

	failInsertItems bool
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders:      make(map[int64]*models.Order),
		items:       make(map[int64][]models.OrderItem),
		nextOrderID: 1,
		nextItemID:  1,
	}
}

func (f *fakeOrderStore) GetAll() ([]*models.Order, error) {
	orders := make([]*models.Order, 0, len(f.orders))
	for _, order := range f.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

func (f *fakeOrderStore) GetByID(id int64) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	copied := *order
	copied.Items = append([]models.OrderItem{}, f.items[id]...)
	return &copied, nil
}

func (f *fakeOrderStore) InTransaction(fn func(repositories.OrderTx) error) error {
	ordersBackup := make(map[int64]*models.Order, len(f.orders))
	for id, order := range f.orders {
		copied := *order
		ordersBackup[id] = &copied
	}
	itemsBackup := make(map[int64][]models.OrderItem, len(f.items))
	for id, items := range f.items {
		itemsBackup[id] = append([]models.OrderItem{}, items...)
	}
	orderID, itemID := f.nextOrderID, f.nextItemID

	if err := fn(&fakeOrderTx{store: f}); err != nil {
		f.orders, f.items = ordersBackup, itemsBackup
		f.nextOrderID, f.nextItemID = orderID, itemID
		return err
	}
	return nil
}

type fakeOrderTx struct {
	store *fakeOrderStore
}

func (t *fakeOrderTx) InsertOrder(order *models.Order) (*models.Order, error) {
	created := *order
	created.ID = t.store.nextOrderID
	t.store.nextOrderID++
	t.store.orders[created.ID] = &created
	result := created
	return &result, nil
}

func (t *fakeOrderTx) UpdateOrderFields(id int64, patch repositories.OrderPatch) (*models.Order, error) {
	order, ok := t.store.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	if patch.IsEmpty() {
		return nil, models.ErrNoFields
	}
	if patch.Name != nil {
		order.Name = *patch.Name
	}
	if patch.Phone != nil {
		order.Phone = *patch.Phone
	}
	if patch.Collected != nil {
		order.Collected = *patch.Collected
	}
	if patch.BlackList != nil {
		order.BlackList = *patch.BlackList
	}
	if patch.Date != nil {
		order.Date = *patch.Date
	}
	if patch.CollectionPlace != nil {
		order.CollectionPlace = *patch.CollectionPlace
	}
	if patch.Observations != nil {
		order.Observations = *patch.Observations
	}
	copied := *order
	return &copied, nil
}

func (t *fakeOrderTx) ReplaceOrder(order *models.Order) (*models.Order, error) {
	if _, ok := t.store.orders[order.ID]; !ok {
		return nil, models.ErrOrderNotFound
	}
	copied := *order
	t.store.orders[order.ID] = &copied
	result := copied
	return &result, nil
}

func (t *fakeOrderTx) InsertItems(orderID int64, items []models.OrderItem) error {
	if t.store.failInsertItems {
		return errors.New("insert items failed")
	}
	for _, item := range items {
		item.ID = t.store.nextItemID
		item.OrderID = orderID
		t.store.nextItemID++
		t.store.items[orderID] = append(t.store.items[orderID], item)
	}
	return nil
}

func (t *fakeOrderTx) DeleteItems(orderID int64) error {
	delete(t.store.items, orderID)
	return nil
}

func (t *fakeOrderTx) DeleteOrder(id int64) error {
	if _, ok := t.store.orders[id]; !ok {
		return models.ErrOrderNotFound
	}
	delete(t.store.orders, id)
	return nil
}

func (t *fakeOrderTx) PhoneBlackListed(phone string) (bool, error) {
	for _, order := range t.store.orders {
		if order.Phone == phone && order.BlackList {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeOrderTx) SyncBlackListForPhone(phone string, blackList bool, excludeOrderID int64) error {
	for _, order := range t.store.orders {
		if order.Phone == phone && order.ID != excludeOrderID {
			order.BlackList = blackList
		}
	}
	return nil
}

func setupOrderService(t *testing.T) (*OrderService, *fakeOrderStore) {
	t.Helper()
	store := newFakeOrderStore()
	log := logger.New(logger.Config{Level: logger.LevelError, Output: "stderr"})
	return NewOrderService(store, log), store
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateOrderComputesTotal(t *testing.T) {
	svc, store := setupOrderService(t)

	created, err := svc.CreateOrder(CreateOrderRequest{
		Name:  "Ana",
		Phone: "555-2222",
		Items: []OrderItemRequest{
			{ProductID: "p1", Amount: 2, UnitPrice: price("5.00")},
			{ProductID: "p2", Amount: 1, UnitPrice: price("3.50")},
		},
	})

	require.NoError(t, err)
	assert.True(t, created.TotalPrice.Equal(price("13.50")),
		"expected total 13.50, got %s", created.TotalPrice)

	items := store.items[created.ID]
	require.Len(t, items, 2)
	assert.True(t, items[0].LineTotal.Equal(price("10.00")))
	assert.True(t, items[1].LineTotal.Equal(price("3.50")))

	// The create response carries no items expanded.
	assert.Nil(t, created.Items)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	svc, _ := setupOrderService(t)

	created, err := svc.CreateOrder(CreateOrderRequest{Name: "Ana"})

	require.NoError(t, err)
	assert.True(t, created.TotalPrice.IsZero())
}

func TestCreateOrderInvalidItems(t *testing.T) {
	svc, store := setupOrderService(t)

	_, err := svc.CreateOrder(CreateOrderRequest{
		Name:  "Ana",
		Items: []OrderItemRequest{{ProductID: "p1", Amount: 0, UnitPrice: price("5.00")}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidOrderItem)

	_, err = svc.CreateOrder(CreateOrderRequest{
		Name:  "Ana",
		Items: []OrderItemRequest{{ProductID: "p1", Amount: 1, UnitPrice: price("-1.00")}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidOrderItem)

	_, err = svc.CreateOrder(CreateOrderRequest{
		Name:  "Ana",
		Items: []OrderItemRequest{{Amount: 1, UnitPrice: price("1.00")}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidOrderItem)

	assert.Empty(t, store.orders)
}

func TestCreateOrderStickyBlackList(t *testing.T) {
	svc, store := setupOrderService(t)
	store.orders[7] = &models.Order{ID: 7, Phone: "555-1111", BlackList: true}

	// The caller asks for false; the customer is blacklisted, so the flag
	// is forced regardless.
	created, err := svc.CreateOrder(CreateOrderRequest{
		Name:      "Luis",
		Phone:     "555-1111",
		BlackList: false,
	})

	require.NoError(t, err)
	assert.True(t, created.BlackList)
	assert.True(t, store.orders[7].BlackList)
}

func TestCreateOrderPropagatesBlackList(t *testing.T) {
	svc, store := setupOrderService(t)
	store.orders[7] = &models.Order{ID: 7, Phone: "555-1111", BlackList: false}

	created, err := svc.CreateOrder(CreateOrderRequest{
		Name:      "Luis",
		Phone:     "555-1111",
		BlackList: true,
	})

	require.NoError(t, err)
	assert.True(t, created.BlackList)
	assert.True(t, store.orders[7].BlackList, "existing order must pick up the blacklist flag")
}

func TestCreateOrderRollsBackOnItemFailure(t *testing.T) {
	svc, store := setupOrderService(t)
	store.failInsertItems = true

	_, err := svc.CreateOrder(CreateOrderRequest{
		Name:  "Ana",
		Items: []OrderItemRequest{{ProductID: "p1", Amount: 1, UnitPrice: price("2.00")}},
	})

	require.Error(t, err)
	assert.Empty(t, store.orders, "failed create must persist nothing")
	assert.Empty(t, store.items)
}

func TestUpdateOrderPartialLeavesTotalAndItems(t *testing.T) {
	svc, store := setupOrderService(t)
	store.orders[3] = &models.Order{ID: 3, Name: "Eva", Phone: "555-3333", TotalPrice: price("20.00")}
	store.items[3] = []models.OrderItem{
		{ID: 1, OrderID: 3, ProductID: "p1", Amount: 4, UnitPrice: price("5.00"), LineTotal: price("20.00")},
	}

	collected := true
	updated, err := svc.UpdateOrder(3, UpdateOrderRequest{Collected: &collected})

	require.NoError(t, err)
	assert.True(t, updated.Collected)
	assert.True(t, updated.TotalPrice.Equal(price("20.00")))
	require.Len(t, store.items[3], 1)
	assert.Equal(t, 4, store.items[3][0].Amount)
}

func TestUpdateOrderNoFields(t *testing.T) {
	svc, store := setupOrderService(t)
	store.orders[3] = &models.Order{ID: 3}

	_, err := svc.UpdateOrder(3, UpdateOrderRequest{})
	assert.ErrorIs(t, err, models.ErrNoFields)
}

func TestUpdateOrderPartialPropagatesBlackList(t *testing.T) {
	svc, store := setupOrderService(t)
	store.orders[1] = &models.Order{ID: 1, Phone: "555-1111"}
	store.orders[2] = &models.Order{ID: 2, Phone: "555-1111"}

	blackList := true
	updated, err := svc.UpdateOrder(1, UpdateOrderRequest{BlackList: &blackList})

	require.NoError(t, err)
	assert.True(t, updated.BlackList)
	assert.True(t, store.orders[2].BlackList, "sibling order must agree on black_list")

	// And back again.
	blackList = false
	_, err = svc.UpdateOrder(2, UpdateOrderRequest{BlackList: &blackList})
	require.NoError(t, err)
	assert.False(t, store.orders[1].BlackList)
}

func TestUpdateOrderFullReplace(t *testing.T) {
	svc, store := setupOrderService(t)
	name := "Eva"
	store.orders[3] = &models.Order{ID: 3, Name: name, TotalPrice: price("20.00")}
	store.items[3] = []models.OrderItem{
		{ID: 1, OrderID: 3, ProductID: "p1", Amount: 4, UnitPrice: price("5.00"), LineTotal: price("20.00")},
	}

	items := []OrderItemRequest{
		{ProductID: "p2", Amount: 3, UnitPrice: price("2.00")},
	}
	updated, err := svc.UpdateOrder(3, UpdateOrderRequest{Name: &name, Items: &items})

	require.NoError(t, err)
	assert.True(t, updated.TotalPrice.Equal(price("6.00")))
	require.Len(t, store.items[3], 1)
	assert.Equal(t, "p2", store.items[3][0].ProductID)
}

func TestUpdateOrderFullReplaceEmptyItems(t *testing.T) {
	svc, store := setupOrderService(t)
	name := "Eva"
	store.orders[3] = &models.Order{ID: 3, Name: name, TotalPrice: price("20.00")}
	store.items[3] = []models.OrderItem{
		{ID: 1, OrderID: 3, ProductID: "p1", Amount: 4, UnitPrice: price("5.00"), LineTotal: price("20.00")},
	}

	// An explicit empty set is still a full replace: every item goes.
	items := []OrderItemRequest{}
	updated, err := svc.UpdateOrder(3, UpdateOrderRequest{Name: &name, Items: &items})

	require.NoError(t, err)
	assert.True(t, updated.TotalPrice.IsZero())
	assert.Empty(t, store.items[3])
}

func TestUpdateOrderNotFound(t *testing.T) {
	svc, _ := setupOrderService(t)

	collected := true
	_, err := svc.UpdateOrder(99, UpdateOrderRequest{Collected: &collected})
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	items := []OrderItemRequest{}
	_, err = svc.UpdateOrder(99, UpdateOrderRequest{Items: &items})
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestDeleteOrder(t *testing.T) {
	svc, store := setupOrderService(t)
	store.orders[3] = &models.Order{ID: 3, Phone: "555-1111", BlackList: true}
	store.orders[4] = &models.Order{ID: 4, Phone: "555-1111", BlackList: true}
	store.items[3] = []models.OrderItem{{ID: 1, OrderID: 3, ProductID: "p1", Amount: 1}}

	require.NoError(t, svc.DeleteOrder(3))

	assert.NotContains(t, store.orders, int64(3))
	assert.Empty(t, store.items[3])
	_, err := svc.GetOrderByID(3)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	// Deleting never un-blacklists the customer's remaining orders.
	assert.True(t, store.orders[4].BlackList)

	assert.ErrorIs(t, svc.DeleteOrder(99), models.ErrOrderNotFound)
}

func TestCreateOrderDefaultsDate(t *testing.T) {
	svc, _ := setupOrderService(t)

	before := time.Now()
	created, err := svc.CreateOrder(CreateOrderRequest{Name: "Ana"})
	require.NoError(t, err)
	assert.False(t, created.Date.Before(before))

	when := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	created, err = svc.CreateOrder(CreateOrderRequest{Name: "Ana", Date: &when})
	require.NoError(t, err)
	assert.True(t, created.Date.Equal(when))
}
