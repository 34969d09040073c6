package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// timelineRepositoryInMemory хранит события в памяти (для разработки/тестов).
type timelineRepositoryInMemory struct {
	access accessor
}

// Append добавляет событие в журнал.
func (r *timelineRepositoryInMemory) Append(_ context.Context, event domain.TimelineEvent) error {
	if event.Occurred.IsZero() {
		event.Occurred = time.Now().UTC()
	}
	return r.access(true, func(st *state) error {
		st.nextEventID++
		event.ID = st.nextEventID
		st.events = append(st.events, event)
		return nil
	})
}

// List возвращает события заказа в хронологическом порядке.
func (r *timelineRepositoryInMemory) List(_ context.Context, orderID int64) ([]domain.TimelineEvent, error) {
	var result []domain.TimelineEvent
	err := r.access(false, func(st *state) error {
		result = make([]domain.TimelineEvent, 0)
		for _, event := range st.events {
			if event.OrderID == orderID {
				result = append(result, event)
			}
		}
		sort.SliceStable(result, func(i, j int) bool {
			if !result[i].Occurred.Equal(result[j].Occurred) {
				return result[i].Occurred.Before(result[j].Occurred)
			}
			return result[i].ID < result[j].ID
		})
		return nil
	})
	return result, err
}

var _ domain.TimelineRepository = (*timelineRepositoryInMemory)(nil)
