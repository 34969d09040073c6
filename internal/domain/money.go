package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// MoneyScale: число знаков после запятой в колонках decimal(12,2).
const MoneyScale = 2

// MaxCount: верхняя граница остатка и количества, колонки INTEGER 32-битные.
const MaxCount = math.MaxInt32

var maxMoney = decimal.New(1, 12-MoneyScale)

// ValidateMoney проверяет, что сумма помещается в decimal(12,2) без округления.
func ValidateMoney(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewValidationError(field, "must be non-negative")
	}
	if !amount.Equal(amount.Round(MoneyScale)) {
		return NewValidationError(field, "must have at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxMoney) {
		return NewValidationError(field, "must be less than 10000000000")
	}
	return nil
}
