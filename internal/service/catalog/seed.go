package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

var sampleProducts = []domain.Product{
	{Name: "Laptop", Category: "Electronics", Price: decimal.RequireFromString("999.99"), Stock: 50, Description: "High-performance laptop"},
	{Name: "Smartphone", Category: "Electronics", Price: decimal.RequireFromString("699.99"), Stock: 100, Description: "Latest smartphone"},
	{Name: "T-Shirt", Category: "Clothing", Price: decimal.RequireFromString("19.99"), Stock: 200, Description: "Cotton t-shirt"},
	{Name: "Coffee Mug", Category: "Home", Price: decimal.RequireFromString("9.99"), Stock: 150, Description: "Ceramic coffee mug"},
	{Name: "Book", Category: "Education", Price: decimal.RequireFromString("29.99"), Stock: 80, Description: "Programming book"},
}

var sampleCustomers = []domain.Customer{
	{Name: "John Doe", Email: "john@email.com", Phone: "123-456-7890", Address: "123 Main St"},
	{Name: "Jane Smith", Email: "jane@email.com", Phone: "098-765-4321", Address: "456 Oak Ave"},
}

// SeedSampleData заполняет пустой каталог демонстрационными товарами и клиентами.
// Если товары уже есть, ничего не делает и возвращает false.
func (s *Service) SeedSampleData(ctx context.Context) (bool, error) {
	seeded := false
	err := s.store.WithinTx(ctx, func(tx domain.Repositories) error {
		n, err := tx.Products().Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		for _, p := range sampleProducts {
			if _, err := tx.Products().Create(ctx, p); err != nil {
				return err
			}
		}
		for _, c := range sampleCustomers {
			if _, err := tx.Customers().Create(ctx, c); err != nil {
				return err
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("seed sample data failed")
		return false, err
	}

	if seeded {
		s.logger.WithFields(log.Fields{
			"products":  len(sampleProducts),
			"customers": len(sampleCustomers),
		}).Info("sample data inserted")
	}
	return seeded, nil
}
