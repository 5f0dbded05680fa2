package repositories

import (
	"context"

	"gorm.io/gorm"
)

// GORMStore is a GORM implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a Store backed by db.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// Orders returns the order repository bound to this store's connection.
func (s *GORMStore) Orders() OrderRepository {
	return NewGORMOrderRepository(s.db)
}

// Payments returns the payment repository bound to this store's connection.
func (s *GORMStore) Payments() PaymentRepository {
	return NewGORMPaymentRepository(s.db)
}

// Transaction runs fn inside a database transaction.
func (s *GORMStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMStore(tx))
	})
}
