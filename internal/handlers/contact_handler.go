package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
	"storefront/internal/services"
)

// ContactHandler handles the contact form.
type ContactHandler struct {
	service  *services.ContactService
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the public form endpoint and the admin listing.
func (h *ContactHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	router.Post("/contact", h.HandleSendMessage)
	router.Get("/admin/contact-messages", admin, h.HandleListMessages)
}

// HandleSendMessage stores a message from the contact form.
func (h *ContactHandler) HandleSendMessage(c *fiber.Ctx) error {
	var message models.ContactMessage
	if ok, err := validateBody(c, h.validate, &message); !ok {
		return err
	}

	if err := h.service.Send(c.UserContext(), &message); err != nil {
		return errorResponse(c, err, "Could not send message")
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// HandleListMessages lists contact messages, newest first.
func (h *ContactHandler) HandleListMessages(c *fiber.Ctx) error {
	messages, err := h.service.List(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Could not retrieve contact messages")
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	return c.JSON(messages)
}
