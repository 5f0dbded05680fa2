package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the product routes. Reads are public, writes go
// through admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", admin, h.HandleCreateProduct)
	productRoutes.Put("/:id", admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", admin, h.HandleDeleteProduct)
}

// HandleGetProducts lists the whole catalog.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if ok, err := validateBody(c, h.validate, &product); !ok {
		return err
	}
	product.ID = ""

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return errorResponse(c, err, "Could not create product")
	}
	zap.L().Info("product created", zap.String("product_id", product.ID), zap.String("slug", product.Slug))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces a product's fields.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if ok, err := validateBody(c, h.validate, &product); !ok {
		return err
	}
	product.ID = c.Params("id")

	if err := h.service.UpdateProduct(c.UserContext(), &product); err != nil {
		return errorResponse(c, err, "Could not update product")
	}
	updated, err := h.service.GetProductByID(c.UserContext(), product.ID)
	if err != nil {
		return errorResponse(c, err, "Could not retrieve product")
	}
	return c.JSON(updated)
}

// HandleDeleteProduct removes a product from the catalog.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), productID); err != nil {
		return errorResponse(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", productID),
	})
}
