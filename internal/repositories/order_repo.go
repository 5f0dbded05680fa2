package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order and order item data access.
type OrderRepository interface {
	// LockUser takes a write lock on the user's orders for the rest of the
	// surrounding transaction.
	LockUser(ctx context.Context, userID string) error
	// FindCart returns the user's newest order in cart status.
	FindCart(ctx context.Context, userID string) (*models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	// ListByStatus returns the user's orders in the given status, oldest first.
	ListByStatus(ctx context.Context, userID string, status models.OrderStatus) ([]models.Order, error)
	SumByStatus(ctx context.Context, userID string, status models.OrderStatus) (decimal.Decimal, error)
	Create(ctx context.Context, order *models.Order) error
	Save(ctx context.Context, order *models.Order) error
	// Delete removes the order together with its items.
	Delete(ctx context.Context, id uint) error

	AddItem(ctx context.Context, item *models.OrderItem) error
	GetItem(ctx context.Context, id uint) (*models.OrderItem, error)
	ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	DeleteItem(ctx context.Context, id uint) error
}

// PaymentRepository defines the interface for ledger entry data access.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	// Balance sums every entry of the user; zero when there are none.
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
	ListByUser(ctx context.Context, userID string) ([]models.Payment, error)
}

// Store groups the repositories that must change together. Everything done
// through the Store handed to fn commits or rolls back as one unit.
type Store interface {
	Orders() OrderRepository
	Payments() PaymentRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
