package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
	"storefront/internal/services"
)

// CategoryHandler serves the catalog tree.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the category routes.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetTree)
	categoryRoutes.Post("/", admin, h.HandleCreateCategory)
	categoryRoutes.Get("/:slug/products", h.HandleGetProducts)
}

// HandleGetTree returns the root categories with nested children.
func (h *CategoryHandler) HandleGetTree(c *fiber.Ctx) error {
	tree, err := h.service.Tree(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Could not retrieve categories")
	}
	if tree == nil {
		tree = []*models.Category{}
	}
	return c.JSON(tree)
}

// HandleCreateCategory adds a category, optionally below a parent.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if ok, err := validateBody(c, h.validate, &category); !ok {
		return err
	}
	category.ID = ""
	category.Children = nil

	if err := h.service.CreateCategory(c.UserContext(), &category); err != nil {
		return errorResponse(c, err, "Could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleGetProducts lists the products of a category and its descendants.
func (h *CategoryHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.ProductsInCategory(c.UserContext(), c.Params("slug"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve products")
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}
