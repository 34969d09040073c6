// Package app собирает приложение: конфигурация, хранилище, сервисы, метрики.
// Хранилище открывается один раз при старте и закрывается при остановке.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/health"
	"github.com/vladislavdragonenkov/ims/internal/metrics"
	"github.com/vladislavdragonenkov/ims/internal/service/catalog"
	"github.com/vladislavdragonenkov/ims/internal/service/dashboard"
	"github.com/vladislavdragonenkov/ims/internal/service/orders"
	"github.com/vladislavdragonenkov/ims/internal/version"
)

const shutdownTimeout = 5 * time.Second

// App владеет хранилищем и сервисами поверх него.
type App struct {
	Config    Config
	Store     domain.Store
	Catalog   *catalog.Service
	Orders    *orders.Service
	Dashboard *dashboard.Service

	logger    *log.Entry
	closeOnce sync.Once
	closeErr  error
}

// New проверяет конфигурацию, открывает хранилище и собирает сервисы.
// При включённом seed_sample_data пустой каталог заполняется примерами.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	appLogger := logger.WithField("component", "app")

	store, err := openStore(ctx, cfg, logger.WithField("component", "storage"))
	if err != nil {
		return nil, err
	}

	var workflowMetrics *metrics.WorkflowMetrics
	if cfg.MetricsAddr != "" {
		workflowMetrics = metrics.NewWorkflowMetrics()
	}

	var policy domain.TransitionPolicy = domain.OpenTransitions{}
	if cfg.Orders.StrictStatusTransitions {
		policy = domain.StrictTransitions{}
	}

	a := &App{
		Config:    cfg,
		Store:     store,
		Catalog:   catalog.NewService(store, logger.WithField("component", "catalog")),
		Dashboard: dashboard.NewService(store, logger.WithField("component", "dashboard")),
		Orders: orders.NewService(store,
			orders.WithLogger(logger.WithField("component", "orders")),
			orders.WithMetrics(workflowMetrics),
			orders.WithTransitionPolicy(policy),
		),
		logger: appLogger,
	}

	if cfg.Catalog.SeedSampleData {
		if _, err := a.Catalog.SeedSampleData(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("seed sample data: %w", err)
		}
	}

	appLogger.WithFields(log.Fields{
		"driver":        cfg.Storage.Driver,
		"strict_status": cfg.Orders.StrictStatusTransitions,
		"version":       version.GetVersion(),
	}).Debug("application initialized")
	return a, nil
}

// Close закрывает хранилище. Повторный вызов возвращает результат первого.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.Store.Close()
		if a.closeErr != nil {
			a.logger.WithError(a.closeErr).Warn("storage close failed")
			return
		}
		a.logger.Debug("storage closed")
	})
	return a.closeErr
}

// OpsServer отдаёт /metrics, /healthz, /readyz и /livez.
type OpsServer struct {
	srv    *http.Server
	addr   string
	logger *log.Entry
}

// Addr возвращает фактический адрес (полезно при порте 0).
func (s *OpsServer) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Shutdown аккуратно останавливает HTTP-сервер.
func (s *OpsServer) Shutdown() {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.WithError(err).Warn("ops server shutdown with error")
	}
}

// StartOpsServer запускает операционный HTTP-сервер, если задан metrics_addr.
// Без адреса возвращает nil, nil. Сервер останавливается при отмене ctx.
func (a *App) StartOpsServer(ctx context.Context) (*OpsServer, error) {
	if a.Config.MetricsAddr == "" {
		return nil, nil
	}

	buildVersion, buildCommit, buildDate := version.Info()
	healthHandler := health.NewHandler(buildVersion, buildCommit, buildDate)
	healthHandler.RegisterChecker("storage", health.NewPingChecker("storage", a.Store, 0))

	lis, err := net.Listen("tcp", a.Config.MetricsAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", a.Config.MetricsAddr, err)
	}

	ops := &OpsServer{
		srv: &http.Server{
			Handler:           health.NewMux(healthHandler, promhttp.Handler()),
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr:   lis.Addr().String(),
		logger: a.logger,
	}

	go func() {
		a.logger.WithField("addr", ops.addr).Info("ops server listening: /metrics /healthz /readyz /livez")
		if err := ops.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		ops.Shutdown()
	}()

	return ops, nil
}
