package orders

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
)

// Options задаёт зависимости сервиса заказов.
type Options struct {
	Logger  *log.Entry
	Metrics *metrics.WorkflowMetrics
	Policy  domain.TransitionPolicy
	Clock   func() time.Time
}

// Option настраивает Service.
type Option func(*Options)

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMetrics включает prometheus-метрики. Без опции метрики не пишутся.
func WithMetrics(m *metrics.WorkflowMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithTransitionPolicy задаёт правила смены статуса (по умолчанию OpenTransitions).
func WithTransitionPolicy(policy domain.TransitionPolicy) Option {
	return func(opts *Options) {
		opts.Policy = policy
	}
}

// WithClock подменяет источник времени для даты заказа и событий.
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) {
		opts.Clock = clock
	}
}
