package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []services.OrderEvent
}

func (p *recordingPublisher) Publish(exchange, routingKey string, body []byte) error {
	var event services.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.Event)
	}
	return keys
}

type fixture struct {
	store    repositories.Store
	products *repositories.MockProductRepository
	cart     *services.CartService
	ledger   *services.LedgerService
	clock    *testClock
	events   *recordingPublisher
}

func newFixture(t *testing.T, store repositories.Store) *fixture {
	t.Helper()
	f := &fixture{
		store:    store,
		products: repositories.NewMockProductRepository(),
		clock:    &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		events:   &recordingPublisher{},
	}
	opts := []services.Option{
		services.WithClock(f.clock.Now),
		services.WithPublisher(f.events),
	}
	f.cart = services.NewCartService(store, f.products, opts...)
	f.ledger = services.NewLedgerService(store, opts...)
	return f
}

func (f *fixture) addProduct(t *testing.T, id string, price int64) {
	t.Helper()
	require.NoError(t, f.products.Create(context.Background(), &models.Product{
		ID:    id,
		Name:  "Product " + id,
		Slug:  id,
		Price: decimal.NewFromInt(price),
	}))
}

func (f *fixture) addPricedProduct(t *testing.T, id, price string) {
	t.Helper()
	require.NoError(t, f.products.Create(context.Background(), &models.Product{
		ID:    id,
		Name:  "Product " + id,
		Slug:  id,
		Price: dec(price),
	}))
}

// placeOrder fills a fresh cart with one product and checks it out.
func (f *fixture) placeOrder(t *testing.T, userID, productID string, quantity int) *models.Order {
	t.Helper()
	ctx := context.Background()
	_, err := f.cart.AddItem(ctx, userID, productID, quantity)
	require.NoError(t, err)
	order, err := f.cart.Checkout(ctx, userID)
	require.NoError(t, err)
	return order
}

func (f *fixture) balance(t *testing.T, userID string) decimal.Decimal {
	t.Helper()
	b, err := f.ledger.Balance(context.Background(), userID)
	require.NoError(t, err)
	return b
}

func (f *fixture) order(t *testing.T, userID string, id uint) *models.Order {
	t.Helper()
	o, err := f.cart.GetOrder(context.Background(), userID, id)
	require.NoError(t, err)
	return o
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
