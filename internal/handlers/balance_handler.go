package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"
)

// BalanceHandler exposes the ledger: the user's own balance and the admin
// endpoint that records incoming payments.
type BalanceHandler struct {
	ledger   *services.LedgerService
	cart     *services.CartService
	validate *validator.Validate
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(ledger *services.LedgerService, cart *services.CartService) *BalanceHandler {
	return &BalanceHandler{
		ledger:   ledger,
		cart:     cart,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the balance routes.
func (h *BalanceHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	router.Get("/balance", auth, h.HandleGetBalance)

	adminRoutes := router.Group("/admin", admin)
	adminRoutes.Post("/payments", h.HandleCreatePayment)
}

// BalanceResponse is the body of GET /balance.
type BalanceResponse struct {
	Balance decimal.Decimal  `json:"balance"`
	Unpaid  decimal.Decimal  `json:"unpaid"`
	History []models.Payment `json:"history"`
}

// HandleGetBalance returns the balance, the amount still owed and the ledger.
func (h *BalanceHandler) HandleGetBalance(c *fiber.Ctx) error {
	ctx, userID := c.UserContext(), middleware.UserID(c)

	balance, err := h.ledger.Balance(ctx, userID)
	if err != nil {
		return errorResponse(c, err, "Could not retrieve balance")
	}
	unpaid, err := h.cart.UnpaidAmount(ctx, userID)
	if err != nil {
		return errorResponse(c, err, "Could not retrieve unpaid amount")
	}
	history, err := h.ledger.History(ctx, userID)
	if err != nil {
		return errorResponse(c, err, "Could not retrieve payments")
	}
	if history == nil {
		history = []models.Payment{}
	}
	return c.JSON(BalanceResponse{Balance: balance, Unpaid: unpaid, History: history})
}

// PaymentRequest represents a manual ledger entry. Negative amounts are
// corrections.
type PaymentRequest struct {
	UserID  string          `json:"user_id" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"ne=0"`
	Comment string          `json:"comment" validate:"max=500"`
}

// HandleCreatePayment records a payment and settles what it covers.
func (h *BalanceHandler) HandleCreatePayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if ok, err := validateBody(c, h.validate, &req); !ok {
		return err
	}

	result, err := h.ledger.Credit(c.UserContext(), req.UserID, req.Amount, req.Comment)
	if err != nil {
		return errorResponse(c, err, "Could not record payment")
	}
	if result.Settled == nil {
		result.Settled = []models.Order{}
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
