package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type productRepository struct {
	q querier
}

func (r *productRepository) Create(ctx context.Context, p domain.Product) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var id int64
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO products (name, category, price, stock, description)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, p.Name, p.Category, p.Price, p.Stock, p.Description).Scan(&id)
	if err != nil {
		return 0, translateError("insert product", err)
	}
	return id, nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var p domain.Product
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, category, price, stock, description
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, &domain.NotFoundError{Entity: "product", ID: id}
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET name = $1,
		    category = $2,
		    price = $3,
		    stock = $4,
		    description = $5
		WHERE id = $6
	`, p.Name, p.Category, p.Price, p.Stock, p.Description, p.ID)
	if err != nil {
		return translateError("update product", err)
	}
	return requireAffected(res, "product", p.ID)
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translateError("delete product", err)
	}
	return requireAffected(res, "product", id)
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, category, price, stock, description
		FROM products
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Description); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM products`)
}

// AdjustStock меняет остаток одним UPDATE; условие не даёт уйти в минус.
func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $1
		WHERE id = $2
		  AND stock + $1 >= 0
	`, delta, id)
	if err != nil {
		return translateError("adjust stock", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists int64
	err = r.q.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: "product", ID: id}
	}
	if err != nil {
		return fmt.Errorf("check product exists: %w", err)
	}
	return &domain.IntegrityError{Op: "adjust stock below zero"}
}

type customerRepository struct {
	q querier
}

func (r *customerRepository) Create(ctx context.Context, c domain.Customer) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var id int64
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, phone, address)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, c.Name, c.Email, c.Phone, c.Address).Scan(&id)
	if err != nil {
		return 0, translateError("insert customer", err)
	}
	return id, nil
}

func (r *customerRepository) Get(ctx context.Context, id int64) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var c domain.Customer
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, email, phone, address
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, &domain.NotFoundError{Entity: "customer", ID: id}
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `
		UPDATE customers
		SET name = $1,
		    email = $2,
		    phone = $3,
		    address = $4
		WHERE id = $5
	`, c.Name, c.Email, c.Phone, c.Address, c.ID)
	if err != nil {
		return translateError("update customer", err)
	}
	return requireAffected(res, "customer", c.ID)
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.q.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return translateError("delete customer", err)
	}
	return requireAffected(res, "customer", id)
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, email, phone, address
		FROM customers
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM customers`)
}

func requireAffected(res sql.Result, entity string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

func count(ctx context.Context, q querier, query string, args ...any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var n int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

var (
	_ domain.ProductRepository  = (*productRepository)(nil)
	_ domain.CustomerRepository = (*customerRepository)(nil)
)
