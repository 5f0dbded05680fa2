package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// LedgerService keeps the users' balances. Every write to a ledger is
// followed, in the same transaction, by a settlement sweep for that user.
type LedgerService struct {
	store repositories.Store
	opts  options
}

// CreditResult describes the outcome of a ledger write.
type CreditResult struct {
	Payment *models.Payment `json:"payment"`
	Settled []models.Order  `json:"settled_orders"`
	Balance decimal.Decimal `json:"balance"`
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store repositories.Store, opts ...Option) *LedgerService {
	return &LedgerService{
		store: store,
		opts:  newOptions(opts),
	}
}

// Balance returns the sum of the user's ledger entries.
func (s *LedgerService) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return s.store.Payments().Balance(ctx, userID)
}

// History returns the user's ledger entries, newest first.
func (s *LedgerService) History(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.store.Payments().ListByUser(ctx, userID)
}

// Credit appends a signed entry to the user's ledger and then settles as many
// awaiting orders as the new balance allows. The amount must be a non-zero
// whole number of cents.
func (s *LedgerService) Credit(ctx context.Context, userID string, amount decimal.Decimal, comment string) (*CreditResult, error) {
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return nil, fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, amount)
	}

	unlock := userLocks.lock(userID)
	defer unlock()

	result := &CreditResult{
		Payment: &models.Payment{UserID: userID, Amount: amount, Comment: comment},
	}
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Orders().LockUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, result.Payment); err != nil {
			return err
		}
		var err error
		if result.Settled, err = settle(ctx, tx, userID); err != nil {
			return err
		}
		result.Balance, err = tx.Payments().Balance(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to credit user %s: %w", userID, err)
	}

	zap.L().Info("ledger credited",
		zap.String("user_id", userID),
		zap.Stringer("amount", amount),
		zap.Int("settled_orders", len(result.Settled)),
		zap.Stringer("balance", result.Balance))
	s.publishPaid(result.Settled)
	return result, nil
}

// Debit is Credit with the amount negated.
func (s *LedgerService) Debit(ctx context.Context, userID string, amount decimal.Decimal, comment string) (*CreditResult, error) {
	return s.Credit(ctx, userID, amount.Neg(), comment)
}

// Settle runs a settlement sweep for the user on its own.
func (s *LedgerService) Settle(ctx context.Context, userID string) ([]models.Order, error) {
	unlock := userLocks.lock(userID)
	defer unlock()

	var paid []models.Order
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Orders().LockUser(ctx, userID); err != nil {
			return err
		}
		var err error
		paid, err = settle(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to settle orders of user %s: %w", userID, err)
	}
	s.publishPaid(paid)
	return paid, nil
}

func (s *LedgerService) publishPaid(orders []models.Order) {
	now := s.opts.now()
	for _, o := range orders {
		publishOrderEvent(s.opts.publisher, EventOrderPaid, o, now)
	}
}
