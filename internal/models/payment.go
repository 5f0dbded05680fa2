package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a single signed ledger entry. Credits are positive, debits for
// settled orders are negative. A user's balance is the sum of their entries.
type Payment struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    string          `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Comment   string          `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`
}
