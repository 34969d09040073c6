package gormdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

func openSQLiteStoreForTest(t *testing.T) *Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "ims_test.db")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := Open(ctx, DriverSQLite, dsn)
	if err != nil {
		t.Skipf("sqlite is not available for tests: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	require.NoError(t, store.AutoMigrate(ctx))
	return store
}

func seedLaptopAndJohn(t *testing.T, store *Store) (productID, customerID int64) {
	t.Helper()
	ctx := context.Background()

	productID, err := store.Products().Create(ctx, domain.Product{
		Name:        "Laptop",
		Category:    "Electronics",
		Price:       decimal.RequireFromString("999.99"),
		Stock:       50,
		Description: "High-performance laptop",
	})
	require.NoError(t, err)

	customerID, err = store.Customers().Create(ctx, domain.Customer{
		Name:    "John Doe",
		Email:   "john@email.com",
		Phone:   "123-456-7890",
		Address: "123 Main St",
	})
	require.NoError(t, err)
	return productID, customerID
}

func TestBuildDialector(t *testing.T) {
	_, err := buildDialector("oracle", "x")
	require.Error(t, err)

	_, err = buildDialector(DriverSQLite, "  ")
	require.Error(t, err)

	d, err := buildDialector(DriverMySQL, "root:root@tcp(127.0.0.1:3306)/ims")
	require.NoError(t, err)
	require.Equal(t, "mysql", d.Name())
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t, "ims.db?_foreign_keys=on", sqliteDSN("ims.db"))
	require.Equal(t, "file:ims.db?cache=shared&_foreign_keys=on", sqliteDSN("file:ims.db?cache=shared"))
	require.Equal(t, "ims.db?_fk=1", sqliteDSN("ims.db?_fk=1"))
}

func TestTranslateError(t *testing.T) {
	err := translateError("insert order", errors.New("FOREIGN KEY constraint failed"))
	require.ErrorIs(t, err, domain.ErrIntegrity)

	err = translateError("update product", errors.New("Error 3819 (HY000): Check constraint 'chk_products_stock' is violated."))
	require.ErrorIs(t, err, domain.ErrIntegrity)

	plain := errors.New("disk I/O error")
	err = translateError("list products", plain)
	require.ErrorIs(t, err, plain)
	require.False(t, domain.IsIntegrity(err))
}

func TestStore_ProductCRUD(t *testing.T) {
	store := openSQLiteStoreForTest(t)
	ctx := context.Background()
	productID, _ := seedLaptopAndJohn(t, store)

	got, err := store.Products().Get(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, "Laptop", got.Name)
	require.True(t, got.Price.Equal(decimal.RequireFromString("999.99")), got.Price.String())
	require.Equal(t, 50, got.Stock)

	got.Stock = 40
	got.Description = ""
	require.NoError(t, store.Products().Update(ctx, got))
	// повторное сохранение тех же значений не должно считаться «не найдено»
	require.NoError(t, store.Products().Update(ctx, got))

	updated, err := store.Products().Get(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, 40, updated.Stock)
	require.Empty(t, updated.Description)

	err = store.Products().Update(ctx, domain.Product{ID: 999, Name: "X", Category: "Y"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := store.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, store.Products().Delete(ctx, productID))
	_, err = store.Products().Get(ctx, productID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, store.Products().Delete(ctx, productID), domain.ErrNotFound)
}

func TestStore_AdjustStock(t *testing.T) {
	store := openSQLiteStoreForTest(t)
	ctx := context.Background()
	productID, _ := seedLaptopAndJohn(t, store)

	require.NoError(t, store.Products().AdjustStock(ctx, productID, -5))
	require.NoError(t, store.Products().AdjustStock(ctx, productID, 0))

	err := store.Products().AdjustStock(ctx, productID, -46)
	require.ErrorIs(t, err, domain.ErrIntegrity)

	err = store.Products().AdjustStock(ctx, 404, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)

	p, err := store.Products().Get(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, 45, p.Stock)
}

func TestStore_OrdersJoinRevenueAndRestrict(t *testing.T) {
	store := openSQLiteStoreForTest(t)
	ctx := context.Background()
	productID, customerID := seedLaptopAndJohn(t, store)

	revenue, err := store.Orders().Revenue(ctx)
	require.NoError(t, err)
	require.True(t, revenue.IsZero())

	orderID, err := store.Orders().Create(ctx, domain.Order{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   5,
		TotalPrice: decimal.RequireFromString("4999.95"),
		OrderDate:  time.Now().UTC(),
		Status:     domain.OrderStatusPending,
	})
	require.NoError(t, err)

	_, err = store.Orders().Create(ctx, domain.Order{
		CustomerID: 777,
		ProductID:  productID,
		Quantity:   1,
		TotalPrice: decimal.RequireFromString("999.99"),
		OrderDate:  time.Now().UTC(),
		Status:     domain.OrderStatusPending,
	})
	require.ErrorIs(t, err, domain.ErrIntegrity)

	details, err := store.Orders().ListDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, orderID, details[0].ID)
	require.Equal(t, "John Doe", details[0].CustomerName)
	require.Equal(t, "Laptop", details[0].ProductName)
	require.True(t, details[0].TotalPrice.Equal(decimal.RequireFromString("4999.95")))

	require.NoError(t, store.Orders().UpdateStatus(ctx, orderID, domain.OrderStatusShipped))
	require.NoError(t, store.Orders().UpdateStatus(ctx, orderID, domain.OrderStatusShipped))
	require.ErrorIs(t, store.Orders().UpdateStatus(ctx, 404, domain.OrderStatusShipped), domain.ErrNotFound)

	got, err := store.Orders().Get(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusShipped, got.Status)

	n, err := store.Orders().CountByProduct(ctx, productID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	n, err = store.Orders().CountByCustomer(ctx, customerID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	revenue, err = store.Orders().Revenue(ctx)
	require.NoError(t, err)
	require.Equal(t, "4999.95", revenue.StringFixed(2))

	require.ErrorIs(t, store.Products().Delete(ctx, productID), domain.ErrIntegrity)
	require.ErrorIs(t, store.Customers().Delete(ctx, customerID), domain.ErrIntegrity)

	require.NoError(t, store.Orders().Delete(ctx, orderID))
	require.ErrorIs(t, store.Orders().Delete(ctx, orderID), domain.ErrNotFound)

	count, err := store.Orders().Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	store := openSQLiteStoreForTest(t)
	ctx := context.Background()
	productID, _ := seedLaptopAndJohn(t, store)

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx domain.Repositories) error {
		require.NoError(t, tx.Products().AdjustStock(ctx, productID, -10))
		require.NoError(t, tx.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID: 1,
			Type:    domain.TimelineOrderPlaced,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := store.Products().Get(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, 50, p.Stock)

	events, err := store.Timeline().List(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestStore_TimelineOrder(t *testing.T) {
	store := openSQLiteStoreForTest(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Timeline().Append(ctx, domain.TimelineEvent{
		OrderID: 7, Type: domain.TimelineOrderStatusChanged, Status: domain.OrderStatusShipped, Occurred: base.Add(time.Minute),
	}))
	require.NoError(t, store.Timeline().Append(ctx, domain.TimelineEvent{
		OrderID: 7, Type: domain.TimelineOrderPlaced, Status: domain.OrderStatusPending, Quantity: 3, Occurred: base,
	}))
	require.NoError(t, store.Timeline().Append(ctx, domain.TimelineEvent{OrderID: 8, Type: domain.TimelineOrderPlaced}))

	events, err := store.Timeline().List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, domain.TimelineOrderPlaced, events[0].Type)
	require.Equal(t, 3, events[0].Quantity)
	require.Equal(t, domain.OrderStatusShipped, events[1].Status)
}

func TestStore_NilGuards(t *testing.T) {
	var store *Store
	ctx := context.Background()

	require.Error(t, store.Ping(ctx))
	require.Error(t, store.AutoMigrate(ctx))
	require.Error(t, store.WithinTx(ctx, func(domain.Repositories) error { return nil }))
	require.NoError(t, store.Close())
}
