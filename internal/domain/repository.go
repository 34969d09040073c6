package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет товар и возвращает сгенерированный идентификатор.
	Create(ctx context.Context, product Product) (int64, error)
	// Get возвращает товар или *NotFoundError.
	Get(ctx context.Context, id int64) (Product, error)
	// Update перезаписывает все изменяемые поля товара.
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id int64) error
	// List возвращает все товары по возрастанию id.
	List(ctx context.Context) ([]Product, error)
	Count(ctx context.Context) (int64, error)
	// AdjustStock меняет остаток на delta. При отрицательном итоге возвращает *IntegrityError.
	AdjustStock(ctx context.Context, id int64, delta int) error
}

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	Create(ctx context.Context, customer Customer) (int64, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Update(ctx context.Context, customer Customer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Customer, error)
	Count(ctx context.Context) (int64, error)
}

// OrderRepository описывает требования к хранилищу заказов.
// Заказы создаются только через сервис оформления, напрямую репозиторий не вызывается.
type OrderRepository interface {
	Create(ctx context.Context, order Order) (int64, error)
	Get(ctx context.Context, id int64) (Order, error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error
	Delete(ctx context.Context, id int64) error
	// ListDetailed возвращает заказы с именами клиента и товара (inner join).
	ListDetailed(ctx context.Context) ([]OrderDetails, error)
	Count(ctx context.Context) (int64, error)
	// Revenue возвращает сумму total_price по всем заказам, ноль при их отсутствии.
	Revenue(ctx context.Context) (decimal.Decimal, error)
	CountByProduct(ctx context.Context, productID int64) (int64, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID int64) ([]TimelineEvent, error)
}

// Repositories: набор репозиториев, работающих в одной области видимости
// (обычное подключение или транзакция).
type Repositories interface {
	Products() ProductRepository
	Customers() CustomerRepository
	Orders() OrderRepository
	Timeline() TimelineRepository
}

// Store: открытое хранилище. Открывается при старте приложения и закрывается при остановке.
type Store interface {
	Repositories
	// WithinTx выполняет fn в одной транзакции: при ошибке fn ничего не сохраняется.
	WithinTx(ctx context.Context, fn func(tx Repositories) error) error
	Ping(ctx context.Context) error
	Close() error
}
