package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

var errStoreClosed = errors.New("memory store is closed")

// state: всё содержимое хранилища. Транзакция работает с копией и подменяет оригинал при успехе.
type state struct {
	products  map[int64]domain.Product
	customers map[int64]domain.Customer
	orders    map[int64]domain.Order
	events    []domain.TimelineEvent

	nextProductID  int64
	nextCustomerID int64
	nextOrderID    int64
	nextEventID    int64
}

func newState() *state {
	return &state{
		products:  make(map[int64]domain.Product),
		customers: make(map[int64]domain.Customer),
		orders:    make(map[int64]domain.Order),
	}
}

func (s *state) clone() *state {
	cp := &state{
		products:       make(map[int64]domain.Product, len(s.products)),
		customers:      make(map[int64]domain.Customer, len(s.customers)),
		orders:         make(map[int64]domain.Order, len(s.orders)),
		events:         make([]domain.TimelineEvent, len(s.events)),
		nextProductID:  s.nextProductID,
		nextCustomerID: s.nextCustomerID,
		nextOrderID:    s.nextOrderID,
		nextEventID:    s.nextEventID,
	}
	for id, p := range s.products {
		cp.products[id] = p
	}
	for id, c := range s.customers {
		cp.customers[id] = c
	}
	for id, o := range s.orders {
		cp.orders[id] = o
	}
	copy(cp.events, s.events)
	return cp
}

// accessor выполняет fn над состоянием: с блокировкой вне транзакции или напрямую внутри неё.
type accessor func(write bool, fn func(st *state) error) error

// Store: in-memory реализация domain.Store для локальной разработки и тестов.
type Store struct {
	mu     sync.RWMutex
	st     *state
	closed bool

	repos repositories
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	s := &Store{st: newState()}
	s.repos = newRepositories(s.access)
	return s
}

func (s *Store) access(write bool, fn func(st *state) error) error {
	if write {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	if s.closed {
		return errStoreClosed
	}
	return fn(s.st)
}

func (s *Store) Products() domain.ProductRepository   { return s.repos.products }
func (s *Store) Customers() domain.CustomerRepository { return s.repos.customers }
func (s *Store) Orders() domain.OrderRepository       { return s.repos.orders }
func (s *Store) Timeline() domain.TimelineRepository  { return s.repos.timeline }

// WithinTx выполняет fn над копией состояния и публикует её только при успехе.
// Блокировка удерживается всю транзакцию, поэтому fn не должна обращаться к самому Store.
func (s *Store) WithinTx(ctx context.Context, fn func(tx domain.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	draft := s.st.clone()
	txRepos := newRepositories(func(_ bool, fn func(st *state) error) error {
		return fn(draft)
	})
	if err := fn(txRepos); err != nil {
		return err
	}

	s.st = draft
	return nil
}

// Ping проверяет, что хранилище не закрыто.
func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errStoreClosed
	}
	return nil
}

// Close закрывает хранилище; повторный вызов безопасен.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type repositories struct {
	products  *productRepositoryInMemory
	customers *customerRepositoryInMemory
	orders    *orderRepositoryInMemory
	timeline  *timelineRepositoryInMemory
}

func newRepositories(access accessor) repositories {
	return repositories{
		products:  &productRepositoryInMemory{access: access},
		customers: &customerRepositoryInMemory{access: access},
		orders:    &orderRepositoryInMemory{access: access},
		timeline:  &timelineRepositoryInMemory{access: access},
	}
}

func (r repositories) Products() domain.ProductRepository   { return r.products }
func (r repositories) Customers() domain.CustomerRepository { return r.customers }
func (r repositories) Orders() domain.OrderRepository       { return r.orders }
func (r repositories) Timeline() domain.TimelineRepository  { return r.timeline }

var (
	_ domain.Store        = (*Store)(nil)
	_ domain.Repositories = repositories{}
)
