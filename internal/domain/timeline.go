package domain

import "time"

// Типы событий журнала заказа.
const (
	TimelineOrderPlaced        = "OrderPlaced"
	TimelineOrderStatusChanged = "OrderStatusChanged"
	TimelineOrderDeleted       = "OrderDeleted"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
// Журнал не ссылается на orders внешним ключом и переживает удаление заказа.
type TimelineEvent struct {
	ID       int64
	OrderID  int64
	Type     string
	Status   OrderStatus
	Quantity int
	Reason   string
	Occurred time.Time
}
