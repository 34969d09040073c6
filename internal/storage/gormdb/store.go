// Package gormdb реализует domain.Store поверх gorm для встроенного файла SQLite
// и для клиент-серверного MySQL.
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 4
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 30 * time.Minute
)

// Store хранит открытое gorm-подключение.
type Store struct {
	db    *gorm.DB
	repos repositories
}

// Open открывает базу выбранного драйвера и проверяет подключение.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(defaultMaxOpenConns)
	sqlDB.SetMaxIdleConns(defaultMaxIdleConns)
	sqlDB.SetConnMaxLifetime(defaultConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	return &Store{db: db, repos: newRepositories(db)}, nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty dsn for driver %q", driver)
	}

	switch driver {
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(dsn)), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q (supported: sqlite, mysql)", driver)
	}
}

// sqliteDSN включает проверку внешних ключей: в SQLite она выключена по умолчанию.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// AutoMigrate создаёт недостающие таблицы, колонки и индексы.
func (s *Store) AutoMigrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store is not initialized")
	}
	if err := s.db.WithContext(ctx).AutoMigrate(
		&productModel{},
		&customerModel{},
		&orderModel{},
		&orderEventModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Store) Products() domain.ProductRepository   { return s.repos.products }
func (s *Store) Customers() domain.CustomerRepository { return s.repos.customers }
func (s *Store) Orders() domain.OrderRepository       { return s.repos.orders }
func (s *Store) Timeline() domain.TimelineRepository  { return s.repos.timeline }

// WithinTx выполняет fn в gorm-транзакции; ошибка fn откатывает все изменения.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Repositories) error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store is not initialized")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store is not initialized")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

type repositories struct {
	products  *productRepository
	customers *customerRepository
	orders    *orderRepository
	timeline  *timelineRepository
}

func newRepositories(db *gorm.DB) repositories {
	return repositories{
		products:  &productRepository{db: db},
		customers: &customerRepository{db: db},
		orders:    &orderRepository{db: db},
		timeline:  &timelineRepository{db: db},
	}
}

func (r repositories) Products() domain.ProductRepository   { return r.products }
func (r repositories) Customers() domain.CustomerRepository { return r.customers }
func (r repositories) Orders() domain.OrderRepository       { return r.orders }
func (r repositories) Timeline() domain.TimelineRepository  { return r.timeline }

// translateError сводит нарушения ограничений обоих движков к IntegrityError.
// Нарушения CHECK gorm не переводит, их узнаём по тексту ошибки.
func translateError(op string, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.IntegrityError{Op: op, Err: err}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "constraint failed") || strings.Contains(msg, "check constraint") ||
		strings.Contains(msg, "foreign key constraint fails") {
		return &domain.IntegrityError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ensureExists различает «строка не найдена» и «значения не изменились»:
// MySQL по умолчанию не считает такие строки затронутыми.
func ensureExists(db *gorm.DB, model any, entity string, id int64) error {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check %s exists: %w", entity, err)
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

var (
	_ domain.Store        = (*Store)(nil)
	_ domain.Repositories = repositories{}
)
