package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartService manages a user's cart and the orders it turns into.
type CartService struct {
	store    repositories.Store
	products repositories.ProductRepository
	opts     options
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store, products repositories.ProductRepository, opts ...Option) *CartService {
	return &CartService{
		store:    store,
		products: products,
		opts:     newOptions(opts),
	}
}

// GetCart returns the user's cart with its items, creating it when the user
// has none or when the previous one went stale.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Order, error) {
	unlock := userLocks.lock(userID)
	defer unlock()

	var cart *models.Order
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		if cart, err = s.cartFor(ctx, tx, userID); err != nil {
			return err
		}
		cart.Items, err = tx.Orders().ListItems(ctx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem puts quantity units of the product into the user's cart at the
// product's current price.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.OrderItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	unlock := userLocks.lock(userID)
	defer unlock()

	item := &models.OrderItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Price:     product.Price,
		Discount:  decimal.Zero,
	}
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		cart, err := s.cartFor(ctx, tx, userID)
		if err != nil {
			return err
		}
		item.OrderID = cart.ID
		if err := tx.Orders().AddItem(ctx, item); err != nil {
			return err
		}
		return recalculateOrder(ctx, tx.Orders(), cart)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes an item from the user's cart and returns the updated cart.
// Items of other users, or of orders already checked out, are reported as not
// found.
func (s *CartService) RemoveItem(ctx context.Context, userID string, itemID uint) (*models.Order, error) {
	unlock := userLocks.lock(userID)
	defer unlock()

	var cart *models.Order
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Orders().LockUser(ctx, userID); err != nil {
			return err
		}
		item, err := tx.Orders().GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		order, err := tx.Orders().GetByID(ctx, item.OrderID)
		if err != nil {
			return err
		}
		if order.UserID != userID || order.Status != models.OrderStatusCart {
			return fmt.Errorf("cart item with ID %d: %w", itemID, ErrNotFound)
		}
		if err := tx.Orders().DeleteItem(ctx, itemID); err != nil {
			return err
		}
		cart = order
		return recalculateOrder(ctx, tx.Orders(), cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// Checkout submits the user's cart for payment and immediately tries to settle
// it from the balance. A cart without items is left as it is.
func (s *CartService) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	unlock := userLocks.lock(userID)
	defer unlock()

	var (
		order      *models.Order
		checkedOut bool
		paid       []models.Order
	)
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		cart, err := s.cartFor(ctx, tx, userID)
		if err != nil {
			return err
		}
		items, err := tx.Orders().ListItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 || cart.Status != models.OrderStatusCart {
			cart.Items = items
			order = cart
			return nil
		}

		cart.Status = models.OrderStatusAwaitingPayment
		if err := tx.Orders().Save(ctx, cart); err != nil {
			return err
		}
		checkedOut = true

		if paid, err = settle(ctx, tx, userID); err != nil {
			return err
		}
		order, err = tx.Orders().GetByID(ctx, cart.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if checkedOut {
		zap.L().Info("order checked out",
			zap.String("user_id", userID),
			zap.Uint("order_id", order.ID),
			zap.Stringer("amount", order.Amount),
			zap.String("status", string(order.Status)))
		now := s.opts.now()
		publishOrderEvent(s.opts.publisher, EventOrderCheckedOut, *order, now)
		for _, p := range paid {
			publishOrderEvent(s.opts.publisher, EventOrderPaid, p, now)
		}
	}
	return order, nil
}

// ListOrders returns every order of the user, newest first.
func (s *CartService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders().ListByUser(ctx, userID)
}

// GetOrder returns one of the user's orders with its items.
func (s *CartService) GetOrder(ctx context.Context, userID string, orderID uint) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order with ID %d: %w", orderID, ErrNotFound)
	}
	return order, nil
}

// UnpaidAmount sums the orders of the user still awaiting payment.
func (s *CartService) UnpaidAmount(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.store.Orders().SumByStatus(ctx, userID, models.OrderStatusAwaitingPayment)
}

// cartFor is the get-or-create step shared by every cart operation. It must
// run inside tx while holding the user's lock.
func (s *CartService) cartFor(ctx context.Context, tx repositories.Store, userID string) (*models.Order, error) {
	if err := tx.Orders().LockUser(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := tx.Orders().FindCart(ctx, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		cart = nil
	}

	now := s.opts.now()
	if cart != nil && now.Sub(cart.CreatedAt) > s.opts.cartTTL {
		zap.L().Info("discarding stale cart",
			zap.String("user_id", userID),
			zap.Uint("order_id", cart.ID),
			zap.Time("created_at", cart.CreatedAt))
		if err := tx.Orders().Delete(ctx, cart.ID); err != nil {
			return nil, err
		}
		cart = nil
	}

	if cart == nil {
		cart = &models.Order{
			UserID:    userID,
			Status:    models.OrderStatusCart,
			Amount:    decimal.Zero,
			CreatedAt: now,
		}
		if err := tx.Orders().Create(ctx, cart); err != nil {
			return nil, err
		}
	}
	return cart, nil
}
