package dashboard_test

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
	"github.com/vladislavdragonenkov/ims/internal/service/dashboard"
	"github.com/vladislavdragonenkov/ims/internal/storage/memory"
)

func quietLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "dashboard")
}

func TestStats_EmptyStore(t *testing.T) {
	svc := dashboard.NewService(memory.NewStore(), quietLogger())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.Products)
	require.Zero(t, stats.Customers)
	require.Zero(t, stats.Orders)
	require.True(t, stats.Revenue.IsZero())
	require.Equal(t, "0.00", stats.Revenue.StringFixed(2))
}

func TestStats_CountsAndRevenueAcrossStatuses(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	productID, err := store.Products().Create(ctx, domain.Product{
		Name: "Laptop", Category: "Electronics", Price: decimal.RequireFromString("999.99"), Stock: 50,
	})
	require.NoError(t, err)
	_, err = store.Products().Create(ctx, domain.Product{
		Name: "Book", Category: "Education", Price: decimal.RequireFromString("29.99"), Stock: 80,
	})
	require.NoError(t, err)
	customerID, err := store.Customers().Create(ctx, domain.Customer{Name: "John Doe", Email: "john@email.com"})
	require.NoError(t, err)

	for _, o := range []struct {
		total  string
		status domain.OrderStatus
	}{
		{total: "4999.95", status: domain.OrderStatusPending},
		{total: "0.10", status: domain.OrderStatusCancelled},
		{total: "0.20", status: domain.OrderStatusDelivered},
	} {
		_, err := store.Orders().Create(ctx, domain.Order{
			CustomerID: customerID,
			ProductID:  productID,
			Quantity:   1,
			TotalPrice: decimal.RequireFromString(o.total),
			OrderDate:  time.Now().UTC(),
			Status:     o.status,
		})
		require.NoError(t, err)
	}

	stats, err := dashboard.NewService(store, quietLogger()).Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Products)
	require.EqualValues(t, 1, stats.Customers)
	require.EqualValues(t, 3, stats.Orders)
	require.Equal(t, "5000.25", stats.Revenue.StringFixed(2))
}

type failingOrders struct {
	domain.OrderRepository
	err error
}

func (f failingOrders) Count(context.Context) (int64, error) { return 0, f.err }

type failingRepos struct {
	domain.Repositories
	orders domain.OrderRepository
}

func (f failingRepos) Orders() domain.OrderRepository { return f.orders }

func TestStats_PropagatesStorageError(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("disk full")
	repos := failingRepos{Repositories: store, orders: failingOrders{OrderRepository: store.Orders(), err: boom}}

	_, err := dashboard.NewService(repos, quietLogger()).Stats(context.Background())
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "aggregate orders")
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
	std.SetLevel(log.DebugLevel)
	std.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	_, err := dashboard.NewService(memory.NewStore(), nil).Stats(context.Background())
	require.NoError(t, err)
	require.Contains(t, buf.String(), "component=dashboard")
	require.Contains(t, buf.String(), "dashboard stats computed")
}
