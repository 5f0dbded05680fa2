package models

import "time"

// Comment is a visitor note attached to a product. Authors are free text and
// not linked to user accounts.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(50)" validate:"required,max=50"`
	Email     string    `json:"email,omitempty" gorm:"type:varchar(100)" validate:"omitempty,email,max=100"`
	Website   string    `json:"website,omitempty" gorm:"type:varchar(150)" validate:"omitempty,url,max=150"`
	Message   string    `json:"message" gorm:"type:text" validate:"required,max=500"`
	CreatedAt time.Time `json:"created_at"`
}
