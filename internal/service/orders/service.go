// Package orders реализует оформление, смену статуса и удаление заказов.
// Каждая составная операция выполняется в одной транзакции хранилища:
// остаток товара, строка заказа и запись в журнале либо меняются вместе, либо не меняются.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
)

// Service: движок сценариев заказа.
type Service struct {
	store   domain.Store
	policy  domain.TransitionPolicy
	metrics *metrics.WorkflowMetrics
	logger  *log.Entry
	now     func() time.Time
}

// NewService создаёт сервис заказов поверх открытого хранилища.
func NewService(store domain.Store, options ...Option) *Service {
	opts := Options{}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "orders")
	}
	policy := opts.Policy
	if policy == nil {
		policy = domain.OpenTransitions{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		store:   store,
		policy:  policy,
		metrics: opts.Metrics,
		logger:  logger,
		now:     clock,
	}
}

// CreateOrder оформляет заказ: проверяет товар, клиента и остаток, фиксирует цену,
// списывает остаток и пишет событие OrderPlaced в одной транзакции.
func (s *Service) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	start := time.Now()
	defer func() { s.metrics.RecordDuration(metrics.OperationCreateOrder, time.Since(start)) }()

	fields := log.Fields{
		"customer_id": req.CustomerID,
		"product_id":  req.ProductID,
		"quantity":    req.Quantity,
	}

	if err := req.Validate(); err != nil {
		s.fail(metrics.OperationCreateOrder, err, fields)
		return domain.Order{}, err
	}

	var order domain.Order
	err := s.store.WithinTx(ctx, func(tx domain.Repositories) error {
		product, err := tx.Products().Get(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if _, err := tx.Customers().Get(ctx, req.CustomerID); err != nil {
			return err
		}

		if req.Quantity > product.Stock {
			return &domain.InsufficientStockError{
				ProductID: product.ID,
				Requested: req.Quantity,
				Available: product.Stock,
			}
		}

		order = domain.Order{
			CustomerID: req.CustomerID,
			ProductID:  product.ID,
			Quantity:   req.Quantity,
			TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
			OrderDate:  s.now().UTC().Truncate(time.Microsecond),
			Status:     domain.OrderStatusPending,
		}
		if err := domain.ValidateMoney("total_price", order.TotalPrice); err != nil {
			return err
		}

		id, err := tx.Orders().Create(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id

		if err := tx.Products().AdjustStock(ctx, product.ID, -req.Quantity); err != nil {
			return err
		}

		return tx.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  id,
			Type:     domain.TimelineOrderPlaced,
			Status:   order.Status,
			Quantity: order.Quantity,
			Occurred: order.OrderDate,
		})
	})
	if err != nil {
		s.fail(metrics.OperationCreateOrder, err, fields)
		return domain.Order{}, err
	}

	s.metrics.RecordOrderCreated(order.Quantity)
	s.logger.WithFields(fields).WithFields(log.Fields{
		"order_id":    order.ID,
		"total_price": order.TotalPrice.StringFixed(2),
	}).Info("order placed")
	return order, nil
}

// UpdateOrderStatus назначает заказу новый статус. Остатки не меняются.
// Повторное назначение текущего статуса ничего не делает.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	start := time.Now()
	defer func() { s.metrics.RecordDuration(metrics.OperationUpdateStatus, time.Since(start)) }()

	fields := log.Fields{"order_id": orderID, "status": string(status)}

	if !status.Valid() {
		err := domain.NewValidationError("status", "must be one of Pending, Processing, Shipped, Delivered, Cancelled")
		s.fail(metrics.OperationUpdateStatus, err, fields)
		return err
	}

	var (
		previous domain.OrderStatus
		changed  bool
	)
	err := s.store.WithinTx(ctx, func(tx domain.Repositories) error {
		order, err := tx.Orders().Get(ctx, orderID)
		if err != nil {
			return err
		}
		previous = order.Status

		if err := s.policy.Allow(order.Status, status); err != nil {
			return err
		}
		if order.Status == status {
			return nil
		}

		if err := tx.Orders().UpdateStatus(ctx, orderID, status); err != nil {
			return err
		}
		changed = true

		return tx.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  orderID,
			Type:     domain.TimelineOrderStatusChanged,
			Status:   status,
			Quantity: order.Quantity,
			Reason:   "status changed from " + string(previous),
			Occurred: s.now().UTC(),
		})
	})
	if err != nil {
		s.fail(metrics.OperationUpdateStatus, err, fields)
		return err
	}

	if !changed {
		s.logger.WithFields(fields).Debug("order already has requested status")
		return nil
	}

	s.metrics.RecordStatusChange(string(status))
	s.logger.WithFields(fields).WithField("previous_status", string(previous)).Info("order status changed")
	return nil
}

// DeleteOrder удаляет заказ и возвращает его количество на склад независимо от статуса.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	start := time.Now()
	defer func() { s.metrics.RecordDuration(metrics.OperationDeleteOrder, time.Since(start)) }()

	fields := log.Fields{"order_id": orderID}

	var order domain.Order
	err := s.store.WithinTx(ctx, func(tx domain.Repositories) error {
		var err error
		order, err = tx.Orders().Get(ctx, orderID)
		if err != nil {
			return err
		}

		if err := tx.Products().AdjustStock(ctx, order.ProductID, order.Quantity); err != nil {
			return err
		}
		if err := tx.Orders().Delete(ctx, orderID); err != nil {
			return err
		}

		return tx.Timeline().Append(ctx, domain.TimelineEvent{
			OrderID:  orderID,
			Type:     domain.TimelineOrderDeleted,
			Status:   order.Status,
			Quantity: order.Quantity,
			Reason:   "stock restored",
			Occurred: s.now().UTC(),
		})
	})
	if err != nil {
		s.fail(metrics.OperationDeleteOrder, err, fields)
		return err
	}

	s.metrics.RecordOrderDeleted(order.Quantity)
	s.logger.WithFields(fields).WithFields(log.Fields{
		"product_id": order.ProductID,
		"quantity":   order.Quantity,
		"status":     string(order.Status),
	}).Info("order deleted, stock restored")
	return nil
}

// GetOrder возвращает заказ по id.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	return s.store.Orders().Get(ctx, orderID)
}

// ListOrders возвращает заказы с именами клиента и товара по возрастанию id.
func (s *Service) ListOrders(ctx context.Context) ([]domain.OrderDetails, error) {
	return s.store.Orders().ListDetailed(ctx)
}

// History возвращает журнал заказа в хронологическом порядке. Журнал удалённого
// заказа остаётся доступным; NotFoundError только если нет ни заказа, ни событий.
func (s *Service) History(ctx context.Context, orderID int64) ([]domain.TimelineEvent, error) {
	events, err := s.store.Timeline().List(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		return events, nil
	}

	if _, err := s.store.Orders().Get(ctx, orderID); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Service) fail(operation string, err error, fields log.Fields) {
	reason := failureReason(err)
	s.metrics.RecordFailure(operation, reason)

	entry := s.logger.WithError(err).WithFields(fields).WithField("operation", operation)
	if reason == "storage" {
		entry.Error("order operation failed")
		return
	}
	entry.Warn("order operation rejected")
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrIntegrity):
		return "integrity"
	default:
		return "storage"
	}
}
