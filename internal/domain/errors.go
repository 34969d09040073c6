package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation: входные данные не прошли проверку (пустое поле, не число, qty <= 0).
	ErrValidation = errors.New("validation failed")
	// ErrNotFound: идентификатор не соответствует существующей записи.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock: запрошенное количество превышает остаток на складе.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrIntegrity: хранилище отклонило операцию (constraint, внешний ключ, отрицательный остаток).
	ErrIntegrity = errors.New("integrity violation")
)

// ValidationError описывает некорректное поле.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError создаёт ошибку валидации для поля.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError сообщает, какую сущность не удалось найти.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError несёт доступный остаток, чтобы показать его пользователю.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// IntegrityError оборачивает отказ хранилища.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("integrity violation: %s", e.Op)
	}
	return fmt.Sprintf("integrity violation: %s: %v", e.Op, e.Err)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

func (e *IntegrityError) Unwrap() error { return e.Err }

// IsValidation проверяет, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound проверяет, является ли ошибка отсутствием записи.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInsufficientStock проверяет нехватку остатка.
func IsInsufficientStock(err error) bool { return errors.Is(err, ErrInsufficientStock) }

// IsIntegrity проверяет отказ хранилища по целостности.
func IsIntegrity(err error) bool { return errors.Is(err, ErrIntegrity) }
