package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// settle pays the user's awaiting orders oldest first for as long as the
// balance covers them. The first order the balance cannot cover ends the
// sweep; younger orders wait behind it even if they would fit.
//
// Each paid order is linked to the debit entry created for it. settle must run
// inside a transaction holding the user's lock.
func settle(ctx context.Context, tx repositories.Store, userID string) ([]models.Order, error) {
	pending, err := tx.Orders().ListByStatus(ctx, userID, models.OrderStatusAwaitingPayment)
	if err != nil {
		return nil, err
	}

	var paid []models.Order
	for _, order := range pending {
		balance, err := tx.Payments().Balance(ctx, userID)
		if err != nil {
			return nil, err
		}
		if balance.LessThan(order.Amount) {
			zap.L().Debug("settlement stopped",
				zap.String("user_id", userID),
				zap.Uint("order_id", order.ID),
				zap.Stringer("balance", balance),
				zap.Stringer("amount", order.Amount))
			break
		}

		debit := &models.Payment{
			UserID:  userID,
			Amount:  order.Amount.Neg(),
			Comment: fmt.Sprintf("payment for order #%d", order.ID),
		}
		if err := tx.Payments().Create(ctx, debit); err != nil {
			return nil, fmt.Errorf("failed to debit order %d: %w", order.ID, err)
		}

		order.PaymentID = &debit.ID
		order.Status = models.OrderStatusPaid
		if err := tx.Orders().Save(ctx, &order); err != nil {
			return nil, fmt.Errorf("failed to mark order %d paid: %w", order.ID, err)
		}
		paid = append(paid, order)
	}
	return paid, nil
}

// recalculateOrder sets order.Amount to the sum of its current items and
// saves it. Called after every item insert or delete.
func recalculateOrder(ctx context.Context, orders repositories.OrderRepository, order *models.Order) error {
	items, err := orders.ListItems(ctx, order.ID)
	if err != nil {
		return err
	}
	order.Amount = models.ItemsAmount(items)
	if err := orders.Save(ctx, order); err != nil {
		return err
	}
	order.Items = items
	return nil
}
