package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CategoryService serves the catalog tree.
type CategoryService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories repositories.CategoryRepository, products repositories.ProductRepository) *CategoryService {
	return &CategoryService{categories: categories, products: products}
}

// Tree returns the root categories with their descendants attached.
// Siblings are ordered by name. A category whose parent no longer exists is
// treated as a root.
func (s *CategoryService) Tree(ctx context.Context) ([]*models.Category, error) {
	all, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	nodes := make(map[string]*models.Category, len(all))
	for i := range all {
		all[i].Children = nil
		nodes[all[i].ID] = &all[i]
	}

	var roots []*models.Category
	for i := range all {
		node := &all[i]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}

// CreateCategory stores a category. A parent, when given, must exist.
func (s *CategoryService) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ParentID != nil {
		all, err := s.categories.GetAll(ctx)
		if err != nil {
			return err
		}
		if !containsCategory(all, *category.ParentID) {
			return fmt.Errorf("parent category %s: %w", *category.ParentID, ErrNotFound)
		}
	}
	return s.categories.Create(ctx, category)
}

// ProductsInCategory lists the products of the category and of every
// category below it.
func (s *CategoryService) ProductsInCategory(ctx context.Context, slug string) ([]models.Product, error) {
	root, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	all, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.products.ListByCategories(ctx, descendantIDs(root.ID, all))
}

// descendantIDs returns rootID followed by the IDs of all categories under it.
func descendantIDs(rootID string, all []models.Category) []string {
	children := make(map[string][]string)
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	ids := []string{rootID}
	seen := map[string]bool{rootID: true}
	for i := 0; i < len(ids); i++ {
		for _, child := range children[ids[i]] {
			if !seen[child] {
				seen[child] = true
				ids = append(ids, child)
			}
		}
	}
	return ids
}

func containsCategory(all []models.Category, id string) bool {
	for _, c := range all {
		if c.ID == id {
			return true
		}
	}
	return false
}
