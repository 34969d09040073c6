package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) (int64, error) {
	m := orderModel{
		CustomerID: order.CustomerID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		OrderDate:  order.OrderDate.UTC(),
		Status:     string(order.Status),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return 0, translateError("insert order", err)
	}
	return m.ID, nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (domain.Order, error) {
	var m orderModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Order{}, &domain.NotFoundError{Entity: "order", ID: id}
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	return orderFromModel(m), nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&orderModel{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return translateError("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return ensureExists(db, &orderModel{}, "order", id)
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&orderModel{}, id)
	if res.Error != nil {
		return translateError("delete order", res.Error)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "order", ID: id}
	}
	return nil
}

type orderDetailsRow struct {
	ID           int64
	CustomerID   int64
	ProductID    int64
	Quantity     int
	TotalPrice   decimal.Decimal
	OrderDate    time.Time
	Status       string
	CustomerName string
	ProductName  string
}

func (r *orderRepository) ListDetailed(ctx context.Context) ([]domain.OrderDetails, error) {
	var rows []orderDetailsRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id, orders.customer_id, orders.product_id, orders.quantity,
			orders.total_price, orders.order_date, orders.status,
			customers.name AS customer_name, products.name AS product_name`).
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Joins("JOIN products ON products.id = orders.product_id").
		Order("orders.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]domain.OrderDetails, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, domain.OrderDetails{
			Order: domain.Order{
				ID:         row.ID,
				CustomerID: row.CustomerID,
				ProductID:  row.ProductID,
				Quantity:   row.Quantity,
				TotalPrice: row.TotalPrice,
				OrderDate:  row.OrderDate.UTC(),
				Status:     domain.OrderStatus(row.Status),
			},
			CustomerName: row.CustomerName,
			ProductName:  row.ProductName,
		})
	}
	return orders, nil
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	return r.countWhere(ctx, "", nil)
}

// Revenue суммирует в decimal на стороне приложения: SQLite складывает NUMERIC как REAL.
func (r *orderRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var totals []decimal.Decimal
	if err := r.db.WithContext(ctx).Model(&orderModel{}).Pluck("total_price", &totals).Error; err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}

	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum, nil
}

func (r *orderRepository) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	return r.countWhere(ctx, "product_id = ?", productID)
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	return r.countWhere(ctx, "customer_id = ?", customerID)
}

func (r *orderRepository) countWhere(ctx context.Context, cond string, arg any) (int64, error) {
	q := r.db.WithContext(ctx).Model(&orderModel{})
	if cond != "" {
		q = q.Where(cond, arg)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
