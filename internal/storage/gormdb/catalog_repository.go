package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) Create(ctx context.Context, p domain.Product) (int64, error) {
	m := productModel{
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, translateError("insert product", err)
	}
	return m.ID, nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (domain.Product, error) {
	var m productModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, &domain.NotFoundError{Entity: "product", ID: id}
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return productFromModel(m), nil
}

func (r *productRepository) Update(ctx context.Context, p domain.Product) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&productModel{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":        p.Name,
		"category":    p.Category,
		"price":       p.Price,
		"stock":       p.Stock,
		"description": p.Description,
	})
	if res.Error != nil {
		return translateError("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return ensureExists(db, &productModel{}, "product", p.ID)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&productModel{}, id)
	if res.Error != nil {
		return translateError("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	var models []productModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]domain.Product, 0, len(models))
	for _, m := range models {
		products = append(products, productFromModel(m))
	}
	return products, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&productModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// AdjustStock меняет остаток одним условным UPDATE, не давая уйти в минус.
func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	db := r.db.WithContext(ctx)
	if delta == 0 {
		return ensureExists(db, &productModel{}, "product", id)
	}

	res := db.Model(&productModel{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return translateError("adjust stock", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if err := ensureExists(db, &productModel{}, "product", id); err != nil {
		return err
	}
	return &domain.IntegrityError{Op: "adjust stock below zero"}
}

type customerRepository struct {
	db *gorm.DB
}

func (r *customerRepository) Create(ctx context.Context, c domain.Customer) (int64, error) {
	m := customerModel{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, translateError("insert customer", err)
	}
	return m.ID, nil
}

func (r *customerRepository) Get(ctx context.Context, id int64) (domain.Customer, error) {
	var m customerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Customer{}, &domain.NotFoundError{Entity: "customer", ID: id}
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	return customerFromModel(m), nil
}

func (r *customerRepository) Update(ctx context.Context, c domain.Customer) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&customerModel{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":    c.Name,
		"email":   c.Email,
		"phone":   c.Phone,
		"address": c.Address,
	})
	if res.Error != nil {
		return translateError("update customer", res.Error)
	}
	if res.RowsAffected == 0 {
		return ensureExists(db, &customerModel{}, "customer", c.ID)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&customerModel{}, id)
	if res.Error != nil {
		return translateError("delete customer", res.Error)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "customer", ID: id}
	}
	return nil
}

func (r *customerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	var models []customerModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(models))
	for _, m := range models {
		customers = append(customers, customerFromModel(m))
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&customerModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

var (
	_ domain.ProductRepository  = (*productRepository)(nil)
	_ domain.CustomerRepository = (*customerRepository)(nil)
)
