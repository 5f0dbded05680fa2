package models

import "time"

// ContactMessage is a note left through the public contact form.
type ContactMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50)" validate:"required,max=50"`
	Email     string    `json:"email" gorm:"type:varchar(100)" validate:"required,email,max=100"`
	Website   string    `json:"website,omitempty" gorm:"type:varchar(150)" validate:"omitempty,url,max=150"`
	Message   string    `json:"message" gorm:"type:text" validate:"required,max=5000"`
	CreatedAt time.Time `json:"created_at"`
}
