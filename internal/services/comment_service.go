package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CommentService stores visitor comments on products.
type CommentService struct {
	comments repositories.CommentRepository
	products repositories.ProductRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments repositories.CommentRepository, products repositories.ProductRepository) *CommentService {
	return &CommentService{comments: comments, products: products}
}

// AddComment attaches comment to an existing product.
func (s *CommentService) AddComment(ctx context.Context, productID string, comment *models.Comment) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	comment.ID = 0
	comment.ProductID = productID
	return s.comments.Create(ctx, comment)
}

// ListComments returns the product's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, productID string) ([]models.Comment, error) {
	return s.comments.ListByProduct(ctx, productID)
}
