// Package dashboard считает сводные показатели для главного экрана.
package dashboard

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// Service читает агрегаты из хранилища.
type Service struct {
	store  domain.Repositories
	logger *log.Entry
}

func NewService(store domain.Repositories, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "dashboard")
	}
	return &Service{store: store, logger: logger}
}

// Stats возвращает число товаров, клиентов, заказов и выручку по всем заказам
// независимо от статуса. Без заказов выручка равна нулю.
func (s *Service) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var (
		stats domain.DashboardStats
		err   error
	)

	if stats.Products, err = s.store.Products().Count(ctx); err != nil {
		return domain.DashboardStats{}, s.fail(err, "products")
	}
	if stats.Customers, err = s.store.Customers().Count(ctx); err != nil {
		return domain.DashboardStats{}, s.fail(err, "customers")
	}
	if stats.Orders, err = s.store.Orders().Count(ctx); err != nil {
		return domain.DashboardStats{}, s.fail(err, "orders")
	}
	if stats.Revenue, err = s.store.Orders().Revenue(ctx); err != nil {
		return domain.DashboardStats{}, s.fail(err, "revenue")
	}

	s.logger.WithFields(log.Fields{
		"products":  stats.Products,
		"customers": stats.Customers,
		"orders":    stats.Orders,
		"revenue":   stats.Revenue.StringFixed(2),
	}).Debug("dashboard stats computed")
	return stats, nil
}

func (s *Service) fail(err error, metric string) error {
	s.logger.WithError(err).WithField("metric", metric).Error("dashboard aggregate failed")
	return fmt.Errorf("aggregate %s: %w", metric, err)
}
