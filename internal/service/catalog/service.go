// Package catalog управляет товарами и клиентами: валидация, CRUD и
// запрет удаления строк, на которые ссылаются заказы.
package catalog

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// Service: операции над каталогом поверх domain.Store.
type Service struct {
	store  domain.Store
	logger *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(store domain.Store, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog")
	}
	return &Service{store: store, logger: logger}
}

// AddProduct проверяет и сохраняет товар, возвращает его id.
func (s *Service) AddProduct(ctx context.Context, p domain.Product) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.Products().Create(ctx, p)
	if err != nil {
		s.logFailure(err, log.Fields{"name": p.Name}, "add product failed")
		return 0, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": id,
		"name":       p.Name,
		"stock":      p.Stock,
	}).Info("product added")
	return id, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.store.Products().Get(ctx, id)
}

// UpdateProduct перезаписывает все изменяемые поля товара.
func (s *Service) UpdateProduct(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := s.store.Products().Update(ctx, p); err != nil {
		s.logFailure(err, log.Fields{"product_id": p.ID}, "update product failed")
		return err
	}

	s.logger.WithField("product_id", p.ID).Info("product updated")
	return nil
}

// DeleteProduct удаляет товар, если на него нет заказов.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx domain.Repositories) error {
		if _, err := tx.Products().Get(ctx, id); err != nil {
			return err
		}

		refs, err := tx.Orders().CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &domain.IntegrityError{
				Op:  "delete product",
				Err: fmt.Errorf("product %d is referenced by %d order(s)", id, refs),
			}
		}

		return tx.Products().Delete(ctx, id)
	})
	if err != nil {
		s.logFailure(err, log.Fields{"product_id": id}, "delete product failed")
		return err
	}

	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}

// ListProducts возвращает все товары по возрастанию id.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.Products().List(ctx)
}

// AddCustomer проверяет и сохраняет клиента, возвращает его id.
func (s *Service) AddCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.Customers().Create(ctx, c)
	if err != nil {
		s.logFailure(err, log.Fields{"email": c.Email}, "add customer failed")
		return 0, err
	}

	s.logger.WithFields(log.Fields{
		"customer_id": id,
		"name":        c.Name,
	}).Info("customer added")
	return id, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	return s.store.Customers().Get(ctx, id)
}

func (s *Service) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if err := s.store.Customers().Update(ctx, c); err != nil {
		s.logFailure(err, log.Fields{"customer_id": c.ID}, "update customer failed")
		return err
	}

	s.logger.WithField("customer_id", c.ID).Info("customer updated")
	return nil
}

// DeleteCustomer удаляет клиента, если у него нет заказов.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx domain.Repositories) error {
		if _, err := tx.Customers().Get(ctx, id); err != nil {
			return err
		}

		refs, err := tx.Orders().CountByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &domain.IntegrityError{
				Op:  "delete customer",
				Err: fmt.Errorf("customer %d is referenced by %d order(s)", id, refs),
			}
		}

		return tx.Customers().Delete(ctx, id)
	})
	if err != nil {
		s.logFailure(err, log.Fields{"customer_id": id}, "delete customer failed")
		return err
	}

	s.logger.WithField("customer_id", id).Info("customer deleted")
	return nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.store.Customers().List(ctx)
}

// logFailure пишет ожидаемые отказы предупреждением, а сбои хранилища ошибкой.
func (s *Service) logFailure(err error, fields log.Fields, msg string) {
	entry := s.logger.WithError(err).WithFields(fields)
	switch {
	case domain.IsValidation(err), domain.IsNotFound(err), domain.IsIntegrity(err):
		entry.Warn(msg)
	default:
		entry.Error(msg)
	}
}
