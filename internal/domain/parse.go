package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseID разбирает идентификатор, введённый пользователем.
func ParseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewValidationError(field, "must be a positive integer")
	}
	return id, nil
}

// parseCount разбирает целое, которое помещается в колонку INTEGER.
func parseCount(field, raw string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, NewValidationError(field, "is too large")
		}
		return 0, NewValidationError(field, "must be a number")
	}
	return int(n), nil
}

// ParseQuantity разбирает количество заказа (строго больше нуля).
func ParseQuantity(raw string) (int, error) {
	qty, err := parseCount("quantity", raw)
	if err != nil {
		return 0, err
	}
	if qty <= 0 {
		return 0, NewValidationError("quantity", "must be greater than zero")
	}
	return qty, nil
}

// ParseStock разбирает остаток товара (ноль допустим).
func ParseStock(raw string) (int, error) {
	stock, err := parseCount("stock", raw)
	if err != nil {
		return 0, err
	}
	if stock < 0 {
		return 0, NewValidationError("stock", "must be non-negative")
	}
	return stock, nil
}

// ParsePrice разбирает цену в десятичном виде, например "999.99".
// Больше двух знаков после запятой не принимается: хранилища не должны округлять цену.
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, NewValidationError("price", "must be a decimal number")
	}
	if err := ValidateMoney("price", price); err != nil {
		return decimal.Zero, err
	}
	return price.Round(MoneyScale), nil
}
