package gormdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type timelineRepository struct {
	db *gorm.DB
}

func (r *timelineRepository) Append(ctx context.Context, event domain.TimelineEvent) error {
	if event.Occurred.IsZero() {
		event.Occurred = time.Now().UTC()
	}

	m := orderEventModel{
		OrderID:  event.OrderID,
		Type:     event.Type,
		Status:   string(event.Status),
		Quantity: event.Quantity,
		Reason:   event.Reason,
		Occurred: event.Occurred.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translateError("append order event", err)
	}
	return nil
}

func (r *timelineRepository) List(ctx context.Context, orderID int64) ([]domain.TimelineEvent, error) {
	var models []orderEventModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("occurred ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list order events: %w", err)
	}

	events := make([]domain.TimelineEvent, 0, len(models))
	for _, m := range models {
		events = append(events, domain.TimelineEvent{
			ID:       m.ID,
			OrderID:  m.OrderID,
			Type:     m.Type,
			Status:   domain.OrderStatus(m.Status),
			Quantity: m.Quantity,
			Reason:   m.Reason,
			Occurred: m.Occurred.UTC(),
		})
	}
	return events, nil
}

var _ domain.TimelineRepository = (*timelineRepository)(nil)
