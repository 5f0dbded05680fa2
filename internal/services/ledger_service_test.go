package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

func newGORMStore(t *testing.T) repositories.Store {
	t.Helper()
	return repositories.NewGORMStore(newTestDB(t))
}

// bothStores runs fn against the in-memory store and against SQLite.
func bothStores(t *testing.T, fn func(t *testing.T, f *fixture)) {
	t.Run("mock", func(t *testing.T) { fn(t, newFixture(t, repositories.NewMockStore())) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newFixture(t, newGORMStore(t))) })
}

func TestLedgerService_BalanceIsSumOfEntries(t *testing.T) {
	bothStores(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		assert.True(t, f.balance(t, "user-1").IsZero())

		_, err := f.ledger.Credit(ctx, "user-1", dec("40.50"), "deposit")
		require.NoError(t, err)
		res, err := f.ledger.Debit(ctx, "user-1", dec("10.25"), "correction")
		require.NoError(t, err)
		assert.True(t, dec("-10.25").Equal(res.Payment.Amount))
		assert.True(t, dec("30.25").Equal(res.Balance))

		history, err := f.ledger.History(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, history, 2)
		sum := history[0].Amount.Add(history[1].Amount)
		assert.True(t, sum.Equal(f.balance(t, "user-1")))
		assert.Equal(t, "correction", history[0].Comment)
	})
}

func TestLedgerService_ZeroCreditRejected(t *testing.T) {
	f := newFixture(t, repositories.NewMockStore())
	_, err := f.ledger.Credit(context.Background(), "user-1", dec("0"), "")
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
}

func TestLedgerService_SubCentAmountRejected(t *testing.T) {
	bothStores(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		for _, amount := range []string{"0.001", "10.005", "-0.009"} {
			_, err := f.ledger.Credit(ctx, "user-1", dec(amount), "deposit")
			assert.ErrorIs(t, err, services.ErrInvalidAmount, amount)
		}
		_, err := f.ledger.Debit(ctx, "user-1", dec("1.234"), "correction")
		assert.ErrorIs(t, err, services.ErrInvalidAmount)

		history, err := f.ledger.History(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, history)

		_, err = f.ledger.Credit(ctx, "user-1", dec("10.500"), "deposit")
		assert.NoError(t, err, "trailing zeros are whole cents")
	})
}

func TestLedgerService_BalanceOfNonBinaryFractions(t *testing.T) {
	bothStores(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		_, err := f.ledger.Credit(ctx, "user-1", dec("10.10"), "deposit")
		require.NoError(t, err)
		res, err := f.ledger.Credit(ctx, "user-1", dec("20.20"), "deposit")
		require.NoError(t, err)

		assert.True(t, dec("30.30").Equal(res.Balance), "got %s", res.Balance)
		assert.True(t, dec("30.30").Equal(f.balance(t, "user-1")))
	})
}

func TestCartService_UnpaidAmountOfNonBinaryFractions(t *testing.T) {
	bothStores(t, func(t *testing.T, f *fixture) {
		f.addPricedProduct(t, "p-1010", "10.10")
		f.addPricedProduct(t, "p-2020", "20.20")
		f.placeOrder(t, "user-1", "p-1010", 1)
		f.placeOrder(t, "user-1", "p-2020", 1)

		unpaid, err := f.cart.UnpaidAmount(context.Background(), "user-1")
		require.NoError(t, err)
		assert.True(t, dec("30.30").Equal(unpaid), "got %s", unpaid)
	})
}

// Two deposits of 10.10 and 20.20 exactly cover an order of 30.30.
func TestSettlement_ExactCoverWithNonBinaryFractions(t *testing.T) {
	bothStores(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		f.addPricedProduct(t, "p-3030", "30.30")
		order := f.placeOrder(t, "user-1", "p-3030", 1)
		assert.True(t, dec("30.30").Equal(order.Amount))

		res, err := f.ledger.Credit(ctx, "user-1", dec("10.10"), "deposit")
		require.NoError(t, err)
		assert.Empty(t, res.Settled)

		res, err = f.ledger.Credit(ctx, "user-1", dec("20.20"), "deposit")
		require.NoError(t, err)
		require.Len(t, res.Settled, 1)
		assert.Equal(t, order.ID, res.Settled[0].ID)
		assert.True(t, res.Balance.IsZero(), "got %s", res.Balance)
		assert.Equal(t, models.OrderStatusPaid, f.order(t, "user-1", order.ID).Status)

		unpaid, err := f.cart.UnpaidAmount(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, unpaid.IsZero())
	})
}

// The walkthrough: 100 x 2 in the cart, checkout, deposit 150 (not enough),
// deposit 100 (paid, 50 left).
func TestSettlement_EndToEnd(t *testing.T) {
	bothStores(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		f.addProduct(t, "p-100", 100)

		assert.True(t, f.balance(t, "user-1").IsZero())
		order := f.placeOrder(t, "user-1", "p-100", 2)
		assert.Equal(t, models.OrderStatusAwaitingPayment, order.Status)
		assert.Equal(t, "200", order.Amount.String())

		res, err := f.ledger.Credit(ctx, "user-1", dec("150"), "deposit")
		require.NoError(t, err)
		assert.Empty(t, res.Settled)
		assert.Equal(t, "150", res.Balance.String())
		assert.Equal(t, models.OrderStatusAwaitingPayment, f.order(t, "user-1", order.ID).Status)

		res, err = f.ledger.Credit(ctx, "user-1", dec("100"), "deposit")
		require.NoError(t, err)
		require.Len(t, res.Settled, 1)
		assert.Equal(t, "50", res.Balance.String())

		paid := f.order(t, "user-1", order.ID)
		assert.Equal(t, models.OrderStatusPaid, paid.Status)
		require.NotNil(t, paid.PaymentID)

		history, err := f.ledger.History(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, history, 3)
		debit := history[0]
		assert.Equal(t, *paid.PaymentID, debit.ID, "order links to its own debit entry")
		assert.True(t, dec("-200").Equal(debit.Amount))
		assert.Equal(t, "50", f.balance(t, "user-1").String())

		assert.Equal(t, []string{services.EventOrderCheckedOut, services.EventOrderPaid}, f.events.Keys())
	})
}

func TestSettlement_IsFIFOBlocking(t *testing.T) {
	bothStores(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		f.addProduct(t, "p-300", 300)
		f.addProduct(t, "p-50", 50)

		older := f.placeOrder(t, "user-1", "p-300", 1)
		younger := f.placeOrder(t, "user-1", "p-50", 1)

		// 100 would cover the younger order, but the older one comes first.
		res, err := f.ledger.Credit(ctx, "user-1", dec("100"), "deposit")
		require.NoError(t, err)
		assert.Empty(t, res.Settled)
		assert.Equal(t, models.OrderStatusAwaitingPayment, f.order(t, "user-1", older.ID).Status)
		assert.Equal(t, models.OrderStatusAwaitingPayment, f.order(t, "user-1", younger.ID).Status)

		paid, err := f.ledger.Settle(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, paid)

		res, err = f.ledger.Credit(ctx, "user-1", dec("250"), "deposit")
		require.NoError(t, err)
		require.Len(t, res.Settled, 2)
		assert.Equal(t, older.ID, res.Settled[0].ID)
		assert.Equal(t, younger.ID, res.Settled[1].ID)
		assert.True(t, res.Balance.IsZero())

		unpaid, err := f.cart.UnpaidAmount(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, unpaid.IsZero())
	})
}

func TestSettlement_PartialSweepStopsAtFirstUnaffordable(t *testing.T) {
	bothStores(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		f.addProduct(t, "p-50", 50)
		f.addProduct(t, "p-300", 300)

		first := f.placeOrder(t, "user-1", "p-50", 1)
		second := f.placeOrder(t, "user-1", "p-300", 1)
		third := f.placeOrder(t, "user-1", "p-50", 1)

		res, err := f.ledger.Credit(ctx, "user-1", dec("120"), "deposit")
		require.NoError(t, err)
		require.Len(t, res.Settled, 1)
		assert.Equal(t, first.ID, res.Settled[0].ID)
		assert.Equal(t, "70", res.Balance.String())
		assert.Equal(t, models.OrderStatusAwaitingPayment, f.order(t, "user-1", second.ID).Status)
		assert.Equal(t, models.OrderStatusAwaitingPayment, f.order(t, "user-1", third.ID).Status)
	})
}

func TestSettlement_OtherUsersUntouched(t *testing.T) {
	bothStores(t, func(t *testing.T, f *fixture) {
		ctx := context.Background()
		f.addProduct(t, "p-50", 50)

		theirs := f.placeOrder(t, "user-2", "p-50", 1)
		_, err := f.ledger.Credit(ctx, "user-1", dec("500"), "deposit")
		require.NoError(t, err)

		assert.Equal(t, models.OrderStatusAwaitingPayment, f.order(t, "user-2", theirs.ID).Status)
		assert.True(t, f.balance(t, "user-2").IsZero())
	})
}

func TestSettlement_FailureRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMockStore()
	f := newFixture(t, store)
	f.addProduct(t, "p-50", 50)

	first := f.placeOrder(t, "user-1", "p-50", 1)
	second := f.placeOrder(t, "user-1", "p-50", 1)

	store.FailOn["SaveOrder"] = errors.New("storage unavailable")
	_, err := f.ledger.Credit(ctx, "user-1", dec("100"), "deposit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage unavailable")
	delete(store.FailOn, "SaveOrder")

	assert.True(t, f.balance(t, "user-1").IsZero(), "the credit itself is rolled back")
	assert.Equal(t, models.OrderStatusAwaitingPayment, f.order(t, "user-1", first.ID).Status)
	assert.Equal(t, models.OrderStatusAwaitingPayment, f.order(t, "user-1", second.ID).Status)
	history, err := f.ledger.History(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}
