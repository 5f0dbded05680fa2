package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusCart            OrderStatus = "cart"
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	OrderStatusPaid            OrderStatus = "paid"
)

// Order represents a customer order. While Status is cart it doubles as the
// user's basket. Amount is a cached sum of the item amounts.
type Order struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    string          `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Status    OrderStatus     `json:"status" gorm:"type:varchar(32);index;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	PaymentID *uint           `json:"payment_id,omitempty" gorm:"index"`
	Comment   string          `json:"comment,omitempty" gorm:"type:text"`
	Items     []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem represents a single line within an order.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"index;not null"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);index;not null"`
	Quantity  int             `json:"quantity" gorm:"not null" validate:"gt=0"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"` // Price at the time the item was added
	Discount  decimal.Decimal `json:"discount" gorm:"type:decimal(20,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
}

// Amount returns quantity * (price - discount).
func (i OrderItem) Amount() decimal.Decimal {
	return i.Price.Sub(i.Discount).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsAmount sums the amounts of the given items.
func ItemsAmount(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount())
	}
	return total
}
