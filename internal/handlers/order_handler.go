package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// OrderHandler handles the signed-in user's cart and orders.
type OrderHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.CartService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the cart and order routes behind auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Post("/checkout", h.HandleCheckout)

	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleGetCart returns the current cart with its items.
func (h *OrderHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve cart")
	}
	return c.JSON(cart)
}

// AddItemRequest represents the request body for adding to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// HandleAddItem puts a product into the cart.
func (h *OrderHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}

	item, err := h.service.AddItem(c.UserContext(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return errorResponse(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleRemoveItem takes an item out of the cart and returns the cart.
func (h *OrderHandler) HandleRemoveItem(c *fiber.Ctx) error {
	itemID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "item ID")
	}

	cart, err := h.service.RemoveItem(c.UserContext(), middleware.UserID(c), itemID)
	if err != nil {
		return errorResponse(c, err, "Could not remove item from cart")
	}
	return c.JSON(cart)
}

// HandleCheckout turns the cart into an order. An empty cart comes back
// unchanged with 200; a submitted order with 201.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	order, err := h.service.Checkout(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err, "Could not check out")
	}
	if order.Status == models.OrderStatusCart {
		return c.JSON(order)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders lists the user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve orders")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the user's orders with its items.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID, ok := idParam(c, "id")
	if !ok {
		return invalidID(c, "order ID")
	}

	order, err := h.service.GetOrder(c.UserContext(), middleware.UserID(c), orderID)
	if err != nil {
		return errorResponse(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}
