package services

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/models"
)

// Routing keys of the order events.
const (
	EventsExchange       = "shop"
	EventOrderCheckedOut = "order.checked_out"
	EventOrderPaid       = "order.paid"
)

// EventPublisher delivers a message to a broker exchange.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderEvent is the body of every order event.
type OrderEvent struct {
	Event      string             `json:"event"`
	OrderID    uint               `json:"order_id"`
	UserID     string             `json:"user_id"`
	Status     models.OrderStatus `json:"status"`
	Amount     decimal.Decimal    `json:"amount"`
	PaymentID  *uint              `json:"payment_id,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// publishOrderEvent is best effort: the order change is already committed,
// so failures are only logged.
func publishOrderEvent(p EventPublisher, routingKey string, order models.Order, at time.Time) {
	if p == nil {
		return
	}
	body, err := json.Marshal(OrderEvent{
		Event:      routingKey,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		Amount:     order.Amount,
		PaymentID:  order.PaymentID,
		OccurredAt: at,
	})
	if err != nil {
		zap.L().Error("failed to marshal order event", zap.Uint("order_id", order.ID), zap.Error(err))
		return
	}
	if err := p.Publish(EventsExchange, routingKey, body); err != nil {
		zap.L().Warn("failed to publish order event",
			zap.String("routing_key", routingKey),
			zap.Uint("order_id", order.ID),
			zap.Error(err))
	}
}
