package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type orderRepository struct {
	q querier
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var id int64
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO orders (
			customer_id, product_id, quantity, total_price, order_date, status
		) VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		order.CustomerID, order.ProductID, order.Quantity,
		order.TotalPrice, order.OrderDate.UTC(), string(order.Status),
	).Scan(&id)
	if err != nil {
		return 0, translateError("insert order", err)
	}
	return id, nil
}

func (r *orderRepository) Get(ctx context.Context, id int64) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		order  domain.Order
		status string
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT id, customer_id, product_id, quantity, total_price, order_date, status
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &order.ProductID, &order.Quantity,
		&order.TotalPrice, &order.OrderDate, &status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, &domain.NotFoundError{Entity: "order", ID: id}
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	order.OrderDate = order.OrderDate.UTC()
	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return translateError("update order status", err)
	}
	return requireAffected(res, "order", id)
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return translateError("delete order", err)
	}
	return requireAffected(res, "order", id)
}

func (r *orderRepository) ListDetailed(ctx context.Context) ([]domain.OrderDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT o.id, o.customer_id, o.product_id, o.quantity, o.total_price,
		       o.order_date, o.status, c.name, p.name
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		JOIN products p ON p.id = o.product_id
		ORDER BY o.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.OrderDetails, 0)
	for rows.Next() {
		var (
			d      domain.OrderDetails
			status string
		)
		if err := rows.Scan(
			&d.ID, &d.CustomerID, &d.ProductID, &d.Quantity, &d.TotalPrice,
			&d.OrderDate, &status, &d.CustomerName, &d.ProductName,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		d.Status = domain.OrderStatus(status)
		d.OrderDate = d.OrderDate.UTC()
		orders = append(orders, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM orders`)
}

func (r *orderRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var total decimal.Decimal
	if err := r.q.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_price), 0) FROM orders`).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum revenue: %w", err)
	}
	return total, nil
}

func (r *orderRepository) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM orders WHERE product_id = $1`, productID)
}

func (r *orderRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID)
}

var _ domain.OrderRepository = (*orderRepository)(nil)
