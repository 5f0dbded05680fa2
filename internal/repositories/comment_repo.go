package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// CommentRepository defines the interface for product comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByProduct(ctx context.Context, productID string) ([]models.Comment, error)
}

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

// Create stores a new comment.
func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByProduct returns the comments of a product, newest first.
func (r *GORMCommentRepository) ListByProduct(ctx context.Context, productID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments for product %s: %w", productID, err)
	}
	return comments, nil
}
