package gormdb

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

type productModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"size:255;not null"`
	Category    string          `gorm:"size:100;not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;check:price >= 0"`
	Stock       int             `gorm:"not null;check:stock >= 0"`
	Description string          `gorm:"type:text"`
}

func (productModel) TableName() string { return "products" }

func productFromModel(m productModel) domain.Product {
	return domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Price:       m.Price,
		Stock:       m.Stock,
		Description: m.Description,
	}
}

type customerModel struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"size:255;not null"`
	Email   string `gorm:"size:255;not null"`
	Phone   string `gorm:"size:30"`
	Address string `gorm:"type:text"`
}

func (customerModel) TableName() string { return "customers" }

func customerFromModel(m customerModel) domain.Customer {
	return domain.Customer{
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Phone:   m.Phone,
		Address: m.Address,
	}
}

// orderModel ссылается на клиента и товар; удаление упоминаемой строки запрещено.
type orderModel struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	CustomerID int64           `gorm:"not null;index"`
	ProductID  int64           `gorm:"not null;index"`
	Quantity   int             `gorm:"not null;check:quantity > 0"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	OrderDate  time.Time       `gorm:"not null"`
	Status     string          `gorm:"size:50;not null"`

	Customer customerModel `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Product  productModel  `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (orderModel) TableName() string { return "orders" }

func orderFromModel(m orderModel) domain.Order {
	return domain.Order{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		TotalPrice: m.TotalPrice,
		OrderDate:  m.OrderDate.UTC(),
		Status:     domain.OrderStatus(m.Status),
	}
}

// orderEventModel не связан внешним ключом с orders: история переживает удаление заказа.
type orderEventModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	OrderID  int64     `gorm:"not null;index:idx_order_events_order_id,priority:1"`
	Type     string    `gorm:"size:50;not null"`
	Status   string    `gorm:"size:50"`
	Quantity int       `gorm:"not null;default:0"`
	Reason   string    `gorm:"type:text"`
	Occurred time.Time `gorm:"not null;index:idx_order_events_order_id,priority:2"`
}

func (orderEventModel) TableName() string { return "order_events" }
