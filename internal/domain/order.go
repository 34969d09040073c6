package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending: заказ создан, товар зарезервирован.
	OrderStatusPending OrderStatus = "Pending"
	// OrderStatusProcessing: заказ собирается.
	OrderStatusProcessing OrderStatus = "Processing"
	// OrderStatusShipped: заказ передан в доставку.
	OrderStatusShipped OrderStatus = "Shipped"
	// OrderStatusDelivered: заказ получен клиентом.
	OrderStatusDelivered OrderStatus = "Delivered"
	// OrderStatusCancelled: заказ отменён.
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// OrderStatuses возвращает все допустимые статусы в порядке жизненного цикла.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// Valid сообщает, входит ли статус в закрытый перечень.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

// ParseOrderStatus разбирает статус без учёта регистра и приводит к каноничному виду.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	trimmed := strings.TrimSpace(raw)
	for _, known := range OrderStatuses() {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", NewValidationError("status", "must be one of Pending, Processing, Shipped, Delivered, Cancelled")
}

// Order: строка заказа. TotalPrice фиксируется при создании и больше не пересчитывается.
type Order struct {
	ID         int64
	CustomerID int64
	ProductID  int64
	Quantity   int
	TotalPrice decimal.Decimal
	OrderDate  time.Time
	Status     OrderStatus
}

// OrderDetails: заказ вместе с именами клиента и товара для отображения в таблице.
type OrderDetails struct {
	Order
	CustomerName string
	ProductName  string
}

// OrderRequest: входные данные оформления заказа.
type OrderRequest struct {
	CustomerID int64
	ProductID  int64
	Quantity   int
}

// Validate проверяет запрос до обращения к хранилищу.
func (r OrderRequest) Validate() error {
	if r.CustomerID <= 0 {
		return NewValidationError("customer_id", "must be a positive integer")
	}
	if r.ProductID <= 0 {
		return NewValidationError("product_id", "must be a positive integer")
	}
	if r.Quantity <= 0 {
		return NewValidationError("quantity", "must be greater than zero")
	}
	if r.Quantity > MaxCount {
		return NewValidationError("quantity", "is too large")
	}
	return nil
}

// DashboardStats: агрегаты для панели статистики.
type DashboardStats struct {
	Products  int64
	Customers int64
	Orders    int64
	Revenue   decimal.Decimal
}
