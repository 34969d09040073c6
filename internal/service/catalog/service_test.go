package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/service/catalog"
	"github.com/vladislavdragonenkov/ims/internal/storage/memory"
)

func newTestService(t *testing.T) (*catalog.Service, *memory.Store) {
	t.Helper()

	logger := log.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	t.Cleanup(func() { _ = store.Close() })
	return catalog.NewService(store, logger.WithField("component", "catalog")), store
}

func laptop() domain.Product {
	return domain.Product{
		Name:        "Laptop",
		Category:    "Electronics",
		Price:       decimal.RequireFromString("999.99"),
		Stock:       50,
		Description: "High-performance laptop",
	}
}

func johnDoe() domain.Customer {
	return domain.Customer{Name: "John Doe", Email: "john@email.com", Phone: "123-456-7890", Address: "123 Main St"}
}

func placeOrder(t *testing.T, store *memory.Store, customerID, productID int64) int64 {
	t.Helper()

	id, err := store.Orders().Create(context.Background(), domain.Order{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   1,
		TotalPrice: decimal.RequireFromString("999.99"),
		OrderDate:  time.Now().UTC(),
		Status:     domain.OrderStatusPending,
	})
	require.NoError(t, err)
	return id
}

func TestAddProduct_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddProduct(ctx, laptop())
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := svc.GetProduct(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Laptop", got.Name)
	require.Equal(t, "Electronics", got.Category)
	require.True(t, got.Price.Equal(decimal.RequireFromString("999.99")))
	require.Equal(t, 50, got.Stock)
	require.Equal(t, "High-performance laptop", got.Description)
}

func TestAddProduct_Validation(t *testing.T) {
	svc, store := newTestService(t)

	tests := []struct {
		name  string
		mut   func(p *domain.Product)
		field string
	}{
		{name: "empty name", mut: func(p *domain.Product) { p.Name = "  " }, field: "name"},
		{name: "empty category", mut: func(p *domain.Product) { p.Category = "" }, field: "category"},
		{name: "negative price", mut: func(p *domain.Product) { p.Price = decimal.RequireFromString("-1") }, field: "price"},
		{name: "negative stock", mut: func(p *domain.Product) { p.Stock = -1 }, field: "stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := laptop()
			tt.mut(&p)

			_, err := svc.AddProduct(context.Background(), p)
			require.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.field, verr.Field)
		})
	}

	n, err := store.Products().Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddProduct(ctx, laptop())
	require.NoError(t, err)

	updated := domain.Product{
		ID:       id,
		Name:     "Laptop Pro",
		Category: "Electronics",
		Price:    decimal.RequireFromString("1299.00"),
		Stock:    10,
	}
	require.NoError(t, svc.UpdateProduct(ctx, updated))

	got, err := svc.GetProduct(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Laptop Pro", got.Name)
	require.Equal(t, 10, got.Stock)
	require.Empty(t, got.Description, "update must overwrite every mutable field")

	updated.ID = 999
	require.ErrorIs(t, svc.UpdateProduct(ctx, updated), domain.ErrNotFound)

	updated.ID = id
	updated.Category = ""
	require.ErrorIs(t, svc.UpdateProduct(ctx, updated), domain.ErrValidation)
}

func TestDeleteProduct_RestrictedByOrders(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	productID, err := svc.AddProduct(ctx, laptop())
	require.NoError(t, err)
	customerID, err := svc.AddCustomer(ctx, johnDoe())
	require.NoError(t, err)
	placeOrder(t, store, customerID, productID)

	err = svc.DeleteProduct(ctx, productID)
	require.ErrorIs(t, err, domain.ErrIntegrity)

	_, err = svc.GetProduct(ctx, productID)
	require.NoError(t, err, "restricted delete must leave the product in place")

	err = svc.DeleteCustomer(ctx, customerID)
	require.ErrorIs(t, err, domain.ErrIntegrity)

	_, err = svc.GetCustomer(ctx, customerID)
	require.NoError(t, err)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddProduct(ctx, laptop())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, id))
	_, err = svc.GetProduct(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)

	var nf *domain.NotFoundError
	err = svc.DeleteProduct(ctx, id)
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "product", nf.Entity)
	require.Equal(t, id, nf.ID)
}

func TestListProducts_OrderedByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"C", "A", "B"} {
		p := laptop()
		p.Name = name
		_, err := svc.AddProduct(ctx, p)
		require.NoError(t, err)
	}

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	for i := 1; i < len(products); i++ {
		require.Less(t, products[i-1].ID, products[i].ID)
	}
	require.Equal(t, "C", products[0].Name)
}

func TestCustomerLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddCustomer(ctx, domain.Customer{Name: "Nobody"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "email", verr.Field)

	id, err := svc.AddCustomer(ctx, johnDoe())
	require.NoError(t, err)

	c := johnDoe()
	c.ID = id
	c.Phone = ""
	c.Address = "789 Pine Rd"
	require.NoError(t, svc.UpdateCustomer(ctx, c))

	got, err := svc.GetCustomer(ctx, id)
	require.NoError(t, err)
	require.Empty(t, got.Phone)
	require.Equal(t, "789 Pine Rd", got.Address)

	customers, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)

	require.NoError(t, svc.DeleteCustomer(ctx, id))
	require.ErrorIs(t, svc.DeleteCustomer(ctx, id), domain.ErrNotFound)
	require.ErrorIs(t, svc.UpdateCustomer(ctx, c), domain.ErrNotFound)
}

func TestSeedSampleData(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seeded, err := svc.SeedSampleData(ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 5)
	require.Equal(t, "Laptop", products[0].Name)
	require.Equal(t, 50, products[0].Stock)
	require.Equal(t, "999.99", products[0].Price.StringFixed(2))

	customers, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	require.Equal(t, "Jane Smith", customers[1].Name)

	seeded, err = svc.SeedSampleData(ctx)
	require.NoError(t, err)
	require.False(t, seeded)

	products, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 5)
}

func TestNewService_DefaultsToStandardLogger(t *testing.T) {
	std := log.StandardLogger()
	oldOut, oldLevel, oldFormatter := std.Out, std.GetLevel(), std.Formatter
	t.Cleanup(func() {
		std.SetOutput(oldOut)
		std.SetLevel(oldLevel)
		std.SetFormatter(oldFormatter)
	})

	var buf bytes.Buffer
	std.SetOutput(&buf)
	std.SetLevel(log.InfoLevel)
	std.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	store := memory.NewStore()
	t.Cleanup(func() { _ = store.Close() })

	_, err := catalog.NewService(store, nil).AddProduct(context.Background(), laptop())
	require.NoError(t, err)
	require.Contains(t, buf.String(), "component=catalog")
}
