package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

func TestStore_PostgresOpenPingEnsureAndClose(t *testing.T) {
	store := openRawPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping store: %v", err)
	}
	if store.DB() == nil {
		t.Fatal("expected non-nil raw DB")
	}
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	// повторный вызов не должен ничего применять
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema twice: %v", err)
	}
}

func TestStore_NilGuards(t *testing.T) {
	var store *Store

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := store.Ping(ctx); err == nil {
		t.Fatal("expected ping error for nil store")
	}
	if err := store.WithinTx(ctx, func(domain.Repositories) error { return nil }); err == nil {
		t.Fatal("expected tx error for nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store should not fail: %v", err)
	}
}

func TestStore_PostgresCatalogOrdersAndRestrict(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	ctx := context.Background()

	productID, err := store.Products().Create(ctx, domain.Product{
		Name: "Laptop", Category: "Electronics", Price: decimal.RequireFromString("999.99"), Stock: 50,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	customerID, err := store.Customers().Create(ctx, domain.Customer{Name: "John Doe", Email: "john@email.com"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	orderID, err := store.Orders().Create(ctx, domain.Order{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   5,
		TotalPrice: decimal.RequireFromString("4999.95"),
		OrderDate:  time.Now().UTC(),
		Status:     domain.OrderStatusPending,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	got, err := store.Orders().Get(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !got.TotalPrice.Equal(decimal.RequireFromString("4999.95")) || got.Status != domain.OrderStatusPending {
		t.Fatalf("unexpected order payload: %+v", got)
	}

	details, err := store.Orders().ListDetailed(ctx)
	if err != nil {
		t.Fatalf("list detailed: %v", err)
	}
	if len(details) != 1 || details[0].CustomerName != "John Doe" || details[0].ProductName != "Laptop" {
		t.Fatalf("unexpected details: %+v", details)
	}

	revenue, err := store.Orders().Revenue(ctx)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if !revenue.Equal(decimal.RequireFromString("4999.95")) {
		t.Fatalf("unexpected revenue: %s", revenue)
	}

	// RESTRICT на уровне схемы
	err = store.Products().Delete(ctx, productID)
	if !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected integrity error on referenced product delete, got %v", err)
	}

	if err := store.Products().AdjustStock(ctx, productID, -51); !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected integrity error for negative stock, got %v", err)
	}
	if err := store.Products().AdjustStock(ctx, 9999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func TestStore_PostgresWithinTxRollsBack(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	ctx := context.Background()

	productID, err := store.Products().Create(ctx, domain.Product{
		Name: "Mug", Category: "Home", Price: decimal.RequireFromString("9.99"), Stock: 10,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	boom := errors.New("boom")
	err = store.WithinTx(ctx, func(tx domain.Repositories) error {
		if err := tx.Products().AdjustStock(ctx, productID, -3); err != nil {
			return err
		}
		if err := tx.Timeline().Append(ctx, domain.TimelineEvent{OrderID: 1, Type: domain.TimelineOrderPlaced}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	p, err := store.Products().Get(ctx, productID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if p.Stock != 10 {
		t.Fatalf("expected stock to stay 10 after rollback, got %d", p.Stock)
	}
	events, err := store.Timeline().List(ctx, 1)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events after rollback, got %d", len(events))
	}
}

func TestStore_PostgresTimestampsReturnInUTC(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	ctx := context.Background()

	productID, err := store.Products().Create(ctx, domain.Product{
		Name: "Book", Category: "Education", Price: decimal.RequireFromString("29.99"), Stock: 80,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	customerID, err := store.Customers().Create(ctx, domain.Customer{Name: "Jane Smith", Email: "jane@email.com"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	placed := time.Date(2026, 3, 14, 12, 30, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	orderID, err := store.Orders().Create(ctx, domain.Order{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   1,
		TotalPrice: decimal.RequireFromString("29.99"),
		OrderDate:  placed,
		Status:     domain.OrderStatusPending,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if err := store.Timeline().Append(ctx, domain.TimelineEvent{
		OrderID:  orderID,
		Type:     domain.TimelineOrderPlaced,
		Status:   domain.OrderStatusPending,
		Quantity: 1,
		Occurred: placed,
	}); err != nil {
		t.Fatalf("append event: %v", err)
	}

	got, err := store.Orders().Get(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.OrderDate.Location() != time.UTC || !got.OrderDate.Equal(placed) {
		t.Fatalf("expected %s in UTC, got %s", placed.UTC(), got.OrderDate)
	}

	details, err := store.Orders().ListDetailed(ctx)
	if err != nil {
		t.Fatalf("list detailed: %v", err)
	}
	if len(details) != 1 || details[0].OrderDate.Location() != time.UTC {
		t.Fatalf("expected UTC order date in listing, got %+v", details)
	}

	events, err := store.Timeline().List(ctx, orderID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 || events[0].Occurred.Location() != time.UTC || !events[0].Occurred.Equal(placed) {
		t.Fatalf("expected UTC event time, got %+v", events)
	}
}
