package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// MockStore is an in-memory implementation of Store. Transactions are
// serialized and roll back by restoring a snapshot taken when they start.
type MockStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	orders   map[uint]models.Order
	items    map[uint]models.OrderItem
	payments map[uint]models.Payment
	nextID   uint

	// FailOn makes the named operation ("SaveOrder", "CreatePayment", ...)
	// return an error, to exercise rollback paths.
	FailOn map[string]error
}

// NewMockStore creates a new, empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		orders:   make(map[uint]models.Order),
		items:    make(map[uint]models.OrderItem),
		payments: make(map[uint]models.Payment),
		FailOn:   make(map[string]error),
	}
}

// Orders returns the in-memory order repository.
func (s *MockStore) Orders() OrderRepository { return mockOrders{s} }

// Payments returns the in-memory payment repository.
func (s *MockStore) Payments() PaymentRepository { return mockPayments{s} }

// Transaction runs fn and restores the previous state if it fails.
func (s *MockStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	orders, items, payments, nextID := cloneMap(s.orders), cloneMap(s.items), cloneMap(s.payments), s.nextID
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.orders, s.items, s.payments, s.nextID = orders, items, payments, nextID
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MockStore) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

// newID must be called with mu held.
func (s *MockStore) newID() uint {
	s.nextID++
	return s.nextID
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type mockOrders struct{ s *MockStore }

func (r mockOrders) LockUser(ctx context.Context, userID string) error { return nil }

func (r mockOrders) FindCart(ctx context.Context, userID string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var cart *models.Order
	for _, o := range r.s.orders {
		o := o
		if o.UserID != userID || o.Status != models.OrderStatusCart {
			continue
		}
		if cart == nil || o.ID > cart.ID {
			cart = &o
		}
	}
	if cart == nil {
		return nil, fmt.Errorf("cart of user %s: %w", userID, ErrNotFound)
	}
	return cart, nil
}

func (r mockOrders) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %d: %w", id, ErrNotFound)
	}
	order.Items = r.itemsOf(id)
	return &order, nil
}

func (r mockOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := r.filter(func(o models.Order) bool { return o.UserID == userID })
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return orders, nil
}

func (r mockOrders) ListByStatus(ctx context.Context, userID string, status models.OrderStatus) ([]models.Order, error) {
	orders := r.filter(func(o models.Order) bool { return o.UserID == userID && o.Status == status })
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (r mockOrders) SumByStatus(ctx context.Context, userID string, status models.OrderStatus) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range r.filter(func(o models.Order) bool { return o.UserID == userID && o.Status == status }) {
		total = total.Add(o.Amount)
	}
	return total, nil
}

func (r mockOrders) Create(ctx context.Context, order *models.Order) error {
	if err := r.s.fail("CreateOrder"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order.ID = r.s.newID()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = time.Now()
	stored := *order
	stored.Items = nil
	r.s.orders[order.ID] = stored
	return nil
}

func (r mockOrders) Save(ctx context.Context, order *models.Order) error {
	if err := r.s.fail("SaveOrder"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[order.ID]; !ok {
		return fmt.Errorf("order with ID %d for update: %w", order.ID, ErrNotFound)
	}
	order.UpdatedAt = time.Now()
	stored := *order
	stored.Items = nil
	r.s.orders[order.ID] = stored
	return nil
}

func (r mockOrders) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[id]; !ok {
		return fmt.Errorf("order with ID %d for deletion: %w", id, ErrNotFound)
	}
	for itemID, item := range r.s.items {
		if item.OrderID == id {
			delete(r.s.items, itemID)
		}
	}
	delete(r.s.orders, id)
	return nil
}

func (r mockOrders) AddItem(ctx context.Context, item *models.OrderItem) error {
	if err := r.s.fail("AddItem"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[item.OrderID]; !ok {
		return fmt.Errorf("order with ID %d: %w", item.OrderID, ErrNotFound)
	}
	item.ID = r.s.newID()
	item.CreatedAt = time.Now()
	r.s.items[item.ID] = *item
	return nil
}

func (r mockOrders) GetItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.items[id]
	if !ok {
		return nil, fmt.Errorf("order item with ID %d: %w", id, ErrNotFound)
	}
	return &item, nil
}

func (r mockOrders) ListItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.itemsOf(orderID), nil
}

func (r mockOrders) DeleteItem(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[id]; !ok {
		return fmt.Errorf("order item with ID %d for deletion: %w", id, ErrNotFound)
	}
	delete(r.s.items, id)
	return nil
}

// itemsOf must be called with mu held.
func (r mockOrders) itemsOf(orderID uint) []models.OrderItem {
	var items []models.OrderItem
	for _, item := range r.s.items {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (r mockOrders) filter(keep func(models.Order) bool) []models.Order {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []models.Order
	for _, o := range r.s.orders {
		if keep(o) {
			orders = append(orders, o)
		}
	}
	return orders
}

type mockPayments struct{ s *MockStore }

func (r mockPayments) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.s.fail("CreatePayment"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payment.ID = r.s.newID()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	r.s.payments[payment.ID] = *payment
	return nil
}

func (r mockPayments) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	balance := decimal.Zero
	for _, p := range r.s.payments {
		if p.UserID == userID {
			balance = balance.Add(p.Amount)
		}
	}
	return balance, nil
}

func (r mockPayments) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var payments []models.Payment
	for _, p := range r.s.payments {
		if p.UserID == userID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID > payments[j].ID })
	return payments, nil
}
