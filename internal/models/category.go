package models

// Category is a node of the catalog tree. Root categories have no parent.
type Category struct {
	ID       string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name     string      `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Slug     string      `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	ParentID *string     `json:"parent_id,omitempty" gorm:"type:varchar(36);index" validate:"omitempty,uuid"`
	Children []*Category `json:"children,omitempty" gorm:"-"`
}
