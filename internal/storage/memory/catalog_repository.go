package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// productRepositoryInMemory: in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	access accessor
}

func (r *productRepositoryInMemory) Create(_ context.Context, product domain.Product) (int64, error) {
	var id int64
	err := r.access(true, func(st *state) error {
		st.nextProductID++
		id = st.nextProductID
		product.ID = id
		st.products[id] = product
		return nil
	})
	return id, err
}

func (r *productRepositoryInMemory) Get(_ context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	err := r.access(false, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return &domain.NotFoundError{Entity: "product", ID: id}
		}
		product = p
		return nil
	})
	return product, err
}

func (r *productRepositoryInMemory) Update(_ context.Context, product domain.Product) error {
	return r.access(true, func(st *state) error {
		if _, ok := st.products[product.ID]; !ok {
			return &domain.NotFoundError{Entity: "product", ID: product.ID}
		}
		st.products[product.ID] = product
		return nil
	})
}

func (r *productRepositoryInMemory) Delete(_ context.Context, id int64) error {
	return r.access(true, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return &domain.NotFoundError{Entity: "product", ID: id}
		}
		for _, o := range st.orders {
			if o.ProductID == id {
				return &domain.IntegrityError{Op: "delete product referenced by order"}
			}
		}
		delete(st.products, id)
		return nil
	})
}

func (r *productRepositoryInMemory) List(context.Context) ([]domain.Product, error) {
	var result []domain.Product
	err := r.access(false, func(st *state) error {
		result = make([]domain.Product, 0, len(st.products))
		for _, p := range st.products {
			result = append(result, p)
		}
		sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
		return nil
	})
	return result, err
}

func (r *productRepositoryInMemory) Count(context.Context) (int64, error) {
	var n int64
	err := r.access(false, func(st *state) error {
		n = int64(len(st.products))
		return nil
	})
	return n, err
}

// AdjustStock меняет остаток, не допуская отрицательного значения.
func (r *productRepositoryInMemory) AdjustStock(_ context.Context, id int64, delta int) error {
	return r.access(true, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return &domain.NotFoundError{Entity: "product", ID: id}
		}
		if p.Stock+delta < 0 {
			return &domain.IntegrityError{Op: "adjust stock below zero"}
		}
		p.Stock += delta
		st.products[id] = p
		return nil
	})
}

// customerRepositoryInMemory: in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	access accessor
}

func (r *customerRepositoryInMemory) Create(_ context.Context, customer domain.Customer) (int64, error) {
	var id int64
	err := r.access(true, func(st *state) error {
		st.nextCustomerID++
		id = st.nextCustomerID
		customer.ID = id
		st.customers[id] = customer
		return nil
	})
	return id, err
}

func (r *customerRepositoryInMemory) Get(_ context.Context, id int64) (domain.Customer, error) {
	var customer domain.Customer
	err := r.access(false, func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return &domain.NotFoundError{Entity: "customer", ID: id}
		}
		customer = c
		return nil
	})
	return customer, err
}

func (r *customerRepositoryInMemory) Update(_ context.Context, customer domain.Customer) error {
	return r.access(true, func(st *state) error {
		if _, ok := st.customers[customer.ID]; !ok {
			return &domain.NotFoundError{Entity: "customer", ID: customer.ID}
		}
		st.customers[customer.ID] = customer
		return nil
	})
}

func (r *customerRepositoryInMemory) Delete(_ context.Context, id int64) error {
	return r.access(true, func(st *state) error {
		if _, ok := st.customers[id]; !ok {
			return &domain.NotFoundError{Entity: "customer", ID: id}
		}
		for _, o := range st.orders {
			if o.CustomerID == id {
				return &domain.IntegrityError{Op: "delete customer referenced by order"}
			}
		}
		delete(st.customers, id)
		return nil
	})
}

func (r *customerRepositoryInMemory) List(context.Context) ([]domain.Customer, error) {
	var result []domain.Customer
	err := r.access(false, func(st *state) error {
		result = make([]domain.Customer, 0, len(st.customers))
		for _, c := range st.customers {
			result = append(result, c)
		}
		sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
		return nil
	})
	return result, err
}

func (r *customerRepositoryInMemory) Count(context.Context) (int64, error) {
	var n int64
	err := r.access(false, func(st *state) error {
		n = int64(len(st.customers))
		return nil
	})
	return n, err
}

var (
	_ domain.ProductRepository  = (*productRepositoryInMemory)(nil)
	_ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
)
