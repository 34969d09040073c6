package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// orderRepositoryInMemory: in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	access accessor
}

// Create сохраняет заказ. Ссылки на клиента и товар проверяются как внешние ключи.
func (r *orderRepositoryInMemory) Create(_ context.Context, order domain.Order) (int64, error) {
	var id int64
	err := r.access(true, func(st *state) error {
		if _, ok := st.customers[order.CustomerID]; !ok {
			return &domain.IntegrityError{Op: "insert order: unknown customer"}
		}
		if _, ok := st.products[order.ProductID]; !ok {
			return &domain.IntegrityError{Op: "insert order: unknown product"}
		}
		st.nextOrderID++
		id = st.nextOrderID
		order.ID = id
		st.orders[id] = order
		return nil
	})
	return id, err
}

func (r *orderRepositoryInMemory) Get(_ context.Context, id int64) (domain.Order, error) {
	var order domain.Order
	err := r.access(false, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return &domain.NotFoundError{Entity: "order", ID: id}
		}
		order = o
		return nil
	})
	return order, err
}

func (r *orderRepositoryInMemory) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	return r.access(true, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return &domain.NotFoundError{Entity: "order", ID: id}
		}
		o.Status = status
		st.orders[id] = o
		return nil
	})
}

func (r *orderRepositoryInMemory) Delete(_ context.Context, id int64) error {
	return r.access(true, func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return &domain.NotFoundError{Entity: "order", ID: id}
		}
		delete(st.orders, id)
		return nil
	})
}

// ListDetailed повторяет inner join: заказы без клиента или товара не попадают в выборку.
func (r *orderRepositoryInMemory) ListDetailed(context.Context) ([]domain.OrderDetails, error) {
	var result []domain.OrderDetails
	err := r.access(false, func(st *state) error {
		result = make([]domain.OrderDetails, 0, len(st.orders))
		for _, o := range st.orders {
			customer, ok := st.customers[o.CustomerID]
			if !ok {
				continue
			}
			product, ok := st.products[o.ProductID]
			if !ok {
				continue
			}
			result = append(result, domain.OrderDetails{
				Order:        o,
				CustomerName: customer.Name,
				ProductName:  product.Name,
			})
		}
		sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
		return nil
	})
	return result, err
}

func (r *orderRepositoryInMemory) Count(context.Context) (int64, error) {
	var n int64
	err := r.access(false, func(st *state) error {
		n = int64(len(st.orders))
		return nil
	})
	return n, err
}

func (r *orderRepositoryInMemory) Revenue(context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.access(false, func(st *state) error {
		for _, o := range st.orders {
			total = total.Add(o.TotalPrice)
		}
		return nil
	})
	return total, err
}

func (r *orderRepositoryInMemory) CountByProduct(_ context.Context, productID int64) (int64, error) {
	return r.countWhere(func(o domain.Order) bool { return o.ProductID == productID })
}

func (r *orderRepositoryInMemory) CountByCustomer(_ context.Context, customerID int64) (int64, error) {
	return r.countWhere(func(o domain.Order) bool { return o.CustomerID == customerID })
}

func (r *orderRepositoryInMemory) countWhere(match func(domain.Order) bool) (int64, error) {
	var n int64
	err := r.access(false, func(st *state) error {
		for _, o := range st.orders {
			if match(o) {
				n++
			}
		}
		return nil
	})
	return n, err
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
