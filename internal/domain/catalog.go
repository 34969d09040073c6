package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product: позиция каталога.
type Product struct {
	ID          int64
	Name        string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Description string
}

// Validate проверяет обязательные поля, цену в пределах decimal(12,2) и остаток.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return NewValidationError("category", "is required")
	}
	if err := ValidateMoney("price", p.Price); err != nil {
		return err
	}
	if p.Stock < 0 {
		return NewValidationError("stock", "must be non-negative")
	}
	if p.Stock > MaxCount {
		return NewValidationError("stock", "is too large")
	}
	return nil
}

// Customer: покупатель.
type Customer struct {
	ID      int64
	Name    string
	Email   string
	Phone   string
	Address string
}

// Validate проверяет имя и email.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return NewValidationError("email", "is required")
	}
	return nil
}
