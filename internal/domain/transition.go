package domain

import "fmt"

// TransitionPolicy решает, допустим ли переход статуса заказа.
type TransitionPolicy interface {
	Allow(from, to OrderStatus) error
}

// OpenTransitions разрешает любой статус из любого: заказ просто получает новое значение.
type OpenTransitions struct{}

// Allow проверяет только принадлежность статуса перечню.
func (OpenTransitions) Allow(_, to OrderStatus) error {
	if !to.Valid() {
		return NewValidationError("status", fmt.Sprintf("unknown status %q", to))
	}
	return nil
}

// StrictTransitions ограничивает переходы графом Pending→Processing→Shipped→Delivered
// с возможностью отмены до отгрузки.
type StrictTransitions struct{}

var strictGraph = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// Allow пропускает повторную установку того же статуса.
func (StrictTransitions) Allow(from, to OrderStatus) error {
	if !to.Valid() {
		return NewValidationError("status", fmt.Sprintf("unknown status %q", to))
	}
	if from == to {
		return nil
	}
	for _, next := range strictGraph[from] {
		if next == to {
			return nil
		}
	}
	return NewValidationError("status", fmt.Sprintf("transition %s -> %s is not allowed", from, to))
}
