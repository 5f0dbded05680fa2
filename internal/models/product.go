package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry. Orders never read the live price after
// an item is added; they keep their own snapshot.
type Product struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string          `json:"name" gorm:"type:varchar(200)" validate:"required,min=3,max=200"`
	Code           string          `json:"code" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null" validate:"gt=0"`
	Unit           string          `json:"unit,omitempty" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Specifications string          `json:"specifications,omitempty" gorm:"type:text"`
	Text           string          `json:"text,omitempty" gorm:"type:text"`
	CategoryID     *string         `json:"category_id,omitempty" gorm:"type:varchar(36);index" validate:"omitempty,uuid"`
	Slug           string          `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required,max=200"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
