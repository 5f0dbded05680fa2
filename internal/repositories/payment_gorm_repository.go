package repositories

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/models"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

// Create appends a ledger entry.
func (r *GORMPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Balance sums the user's entries. The sum is taken in decimal rather than
// with SQL SUM, which SQLite evaluates in floating point.
func (r *GORMPaymentRepository) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("user_id = ?", userID).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance of user %s: %w", userID, err)
	}
	return sumAmounts(amounts), nil
}

// ListByUser returns the user's entries, newest first.
func (r *GORMPaymentRepository) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments of user %s: %w", userID, err)
	}
	return payments, nil
}

// sumAmounts adds money values read back from the database. Each value is
// rounded to cents first, the scale of every money column.
func sumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Round(2))
	}
	return total
}
