package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// LockUser selects the user's row FOR UPDATE so that concurrent cart and
// ledger transactions of one user queue behind each other, even before the
// user has any orders. Ledger entries may name users without an account row;
// those fall back to locking their order rows. SQLite has no row locks; there
// the write transaction itself serializes writers.
func (r *GORMOrderRepository) LockUser(ctx context.Context, userID string) error {
	if r.db.Dialector.Name() == "sqlite" {
		return nil
	}
	db := r.db.WithContext(ctx)
	var ids []string
	if err := lockUserRow(db, userID).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to lock user %s: %w", userID, err)
	}
	if len(ids) > 0 {
		return nil
	}
	var orderIDs []uint
	if err := lockOrderRows(db, userID).Pluck("id", &orderIDs).Error; err != nil {
		return fmt.Errorf("failed to lock orders of user %s: %w", userID, err)
	}
	return nil
}

func lockUserRow(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&models.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", userID)
}

func lockOrderRows(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&models.Order{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID)
}

// FindCart returns the newest cart of the user.
func (r *GORMOrderRepository) FindCart(ctx context.Context, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.OrderStatusCart).
		Order("id DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart of user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find cart of user %s: %w", userID, err)
	}
	return &order, nil
}

// GetByID retrieves an order with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// ListByUser returns every order of the user, newest first.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders of user %s: %w", userID, err)
	}
	return orders, nil
}

// ListByStatus returns the user's orders in status, oldest first.
func (r *GORMOrderRepository) ListByStatus(ctx context.Context, userID string, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("id ASC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s orders of user %s: %w", status, userID, err)
	}
	return orders, nil
}

// SumByStatus sums the amounts of the user's orders in status.
func (r *GORMOrderRepository) SumByStatus(ctx context.Context, userID string, status models.OrderStatus) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, status).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s orders of user %s: %w", status, userID, err)
	}
	return sumAmounts(amounts), nil
}

// Create inserts a new order.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Save persists every column of an existing order. Items are left untouched.
func (r *GORMOrderRepository) Save(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		return fmt.Errorf("failed to save order %d: %w", order.ID, err)
	}
	return nil
}

// Delete removes the order and its items.
func (r *GORMOrderRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete items of order %d: %w", id, err)
	}
	res := db.Delete(&models.Order{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %d for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// AddItem inserts a new order item.
func (r *GORMOrderRepository) AddItem(ctx context.Context, item *models.OrderItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to add item to order %d: %w", item.OrderID, err)
	}
	return nil
}

// GetItem retrieves a single order item.
func (r *GORMOrderRepository) GetItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order item with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order item %d: %w", id, err)
	}
	return &item, nil
}

// ListItems returns the items of an order in insertion order.
func (r *GORMOrderRepository) ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items of order %d: %w", orderID, err)
	}
	return items, nil
}

// DeleteItem removes a single order item.
func (r *GORMOrderRepository) DeleteItem(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.OrderItem{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete order item %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order item with ID %d for deletion: %w", id, ErrNotFound)
	}
	return nil
}
