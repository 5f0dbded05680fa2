package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
	"storefront/internal/services"
)

// CommentHandler handles product comments.
type CommentHandler struct {
	service  *services.CommentService
	validate *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *services.CommentService) *CommentHandler {
	return &CommentHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the comment routes below /products/:id.
func (h *CommentHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products/:id/comments", h.HandleGetComments)
	router.Post("/products/:id/comments", h.HandleCreateComment)
}

// HandleGetComments lists a product's comments, newest first.
func (h *CommentHandler) HandleGetComments(c *fiber.Ctx) error {
	comments, err := h.service.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err, "Could not retrieve comments")
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return c.JSON(comments)
}

// HandleCreateComment attaches a comment to a product.
func (h *CommentHandler) HandleCreateComment(c *fiber.Ctx) error {
	var comment models.Comment
	if ok, err := validateBody(c, h.validate, &comment); !ok {
		return err
	}

	if err := h.service.AddComment(c.UserContext(), c.Params("id"), &comment); err != nil {
		return errorResponse(c, err, "Could not add comment")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
