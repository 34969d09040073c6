package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

const (
	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 4
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute

	opTimeout = 5 * time.Second
)

// querier: общее подмножество *sql.DB и *sql.Tx, поверх которого работают репозитории.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store оборачивает SQL-подключение к PostgreSQL.
type Store struct {
	db    *sql.DB
	repos repositories
}

// Open открывает подключение к PostgreSQL и проверяет доступность базы.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db, repos: newRepositories(db)}, nil
}

// DB возвращает raw SQL DB, когда нужен низкоуровневый доступ.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Products() domain.ProductRepository   { return s.repos.products }
func (s *Store) Customers() domain.CustomerRepository { return s.repos.customers }
func (s *Store) Orders() domain.OrderRepository       { return s.repos.orders }
func (s *Store) Timeline() domain.TimelineRepository  { return s.repos.timeline }

// WithinTx выполняет fn в транзакции; ошибка fn или commit откатывает все изменения.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Repositories) error) (err error) {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(newRepositories(tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// Close закрывает подключение к БД.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type repositories struct {
	products  *productRepository
	customers *customerRepository
	orders    *orderRepository
	timeline  *timelineRepository
}

func newRepositories(q querier) repositories {
	return repositories{
		products:  &productRepository{q: q},
		customers: &customerRepository{q: q},
		orders:    &orderRepository{q: q},
		timeline:  &timelineRepository{q: q},
	}
}

func (r repositories) Products() domain.ProductRepository   { return r.products }
func (r repositories) Customers() domain.CustomerRepository { return r.customers }
func (r repositories) Orders() domain.OrderRepository       { return r.orders }
func (r repositories) Timeline() domain.TimelineRepository  { return r.timeline }

// translateError переводит нарушения ограничений PostgreSQL в IntegrityError.
func translateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "23505", "23514", "23502":
			return &domain.IntegrityError{Op: op, Err: err}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

var (
	_ domain.Store        = (*Store)(nil)
	_ domain.Repositories = repositories{}
)
