package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Имена операций для лейбла operation.
const (
	OperationCreateOrder  = "create_order"
	OperationUpdateStatus = "update_status"
	OperationDeleteOrder  = "delete_order"
)

// WorkflowMetrics содержит метрики сценариев работы с заказами.
// Все методы безопасны для nil-получателя: сервис можно собрать без метрик.
type WorkflowMetrics struct {
	ordersCreated  prometheus.Counter
	ordersDeleted  prometheus.Counter
	statusChanges  *prometheus.CounterVec
	failures       *prometheus.CounterVec
	unitsReserved  prometheus.Counter
	unitsRestored  prometheus.Counter
	operationTimer *prometheus.HistogramVec
}

// NewWorkflowMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewWorkflowMetrics() *WorkflowMetrics {
	return NewWorkflowMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWorkflowMetricsWithRegisterer регистрирует метрики в заданном registerer.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewWorkflowMetricsWithRegisterer(registerer prometheus.Registerer) *WorkflowMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &WorkflowMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_orders_created_total",
			Help: "Total number of orders placed",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_orders_deleted_total",
			Help: "Total number of orders deleted with stock restored",
		}),
		statusChanges: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ims_order_status_changes_total",
			Help: "Total number of order status assignments by target status",
		}, []string{"status"}),
		failures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ims_workflow_failures_total",
			Help: "Total number of failed order operations by reason",
		}, []string{"operation", "reason"}),
		unitsReserved: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_stock_units_reserved_total",
			Help: "Total stock units taken by placed orders",
		}),
		unitsRestored: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ims_stock_units_restored_total",
			Help: "Total stock units returned by deleted orders",
		}),
		operationTimer: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "ims_workflow_duration_seconds",
			Help:    "Duration of order operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"operation"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated учитывает оформленный заказ и списанные единицы товара.
func (m *WorkflowMetrics) RecordOrderCreated(quantity int) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.unitsReserved.Add(float64(quantity))
}

// RecordOrderDeleted учитывает удалённый заказ и возвращённые на склад единицы.
func (m *WorkflowMetrics) RecordOrderDeleted(quantity int) {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
	m.unitsRestored.Add(float64(quantity))
}

// RecordStatusChange учитывает назначение статуса.
func (m *WorkflowMetrics) RecordStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

// RecordFailure учитывает неудачную операцию.
func (m *WorkflowMetrics) RecordFailure(operation, reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(operation, reason).Inc()
}

// RecordDuration записывает время выполнения операции.
func (m *WorkflowMetrics) RecordDuration(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operationTimer.WithLabelValues(operation).Observe(duration.Seconds())
}
