package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/storage/gormdb"
	"github.com/vladislavdragonenkov/ims/internal/storage/memory"
	"github.com/vladislavdragonenkov/ims/internal/storage/postgres"
)

// openStore открывает хранилище выбранного драйвера и при необходимости готовит схему.
func openStore(ctx context.Context, cfg Config, logger *log.Entry) (domain.Store, error) {
	driver := cfg.Storage.Driver
	logger = logger.WithField("driver", driver)

	switch driver {
	case StorageDriverMemory:
		logger.Warn("using in-memory storage, data is lost on exit")
		return memory.NewStore(), nil

	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.StorageDSN())
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("ensure postgres schema: %w", err)
			}
		}
		logger.Info("postgres storage opened")
		return store, nil

	case StorageDriverSQLite, StorageDriverMySQL:
		store, err := gormdb.Open(ctx, driver, cfg.StorageDSN())
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := store.AutoMigrate(ctx); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
		logger.Info("storage opened")
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
