package rabbitmq

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config

	// amqp channels must not interleave publishes.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string // topic exchange, declared on connect
	Queue    string // queue ConsumeEvents binds to Exchange
	Binding  string // routing key pattern of that binding
}

func (c Config) withDefaults() Config {
	if c.Exchange == "" {
		c.Exchange = "shop"
	}
	if c.Queue == "" {
		c.Queue = "order_events"
	}
	if c.Binding == "" {
		c.Binding = "order.#"
	}
	return c
}

// NewClient connects to RabbitMQ, opens a channel and declares the exchange.
func NewClient(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	zap.L().Info("RabbitMQ client connected", zap.String("exchange", cfg.Exchange))

	return &Client{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var err error
	if c.channel != nil {
		if closeErr := c.channel.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close channel: %w", closeErr))
		}
	}
	if c.conn != nil {
		if closeErr := c.conn.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close connection: %w", closeErr))
		}
	}
	return err
}

// Publish sends a persistent JSON message to exchange with routingKey.
func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	zap.L().Debug("event published", zap.String("exchange", exchange), zap.String("routing_key", routingKey))
	return nil
}

// ConsumeEvents binds the configured queue to the exchange and hands every
// delivery to messageHandler on a separate goroutine. Deliveries whose
// handler fails are rejected without requeueing.
func (c *Client) ConsumeEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		c.cfg.Queue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}
	if err := c.channel.QueueBind(queue.Name, c.cfg.Binding, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue.Name, err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("waiting for events", zap.String("queue", queue.Name), zap.String("binding", c.cfg.Binding))

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				zap.L().Warn("failed to process message",
					zap.Uint64("delivery_tag", msg.DeliveryTag),
					zap.String("routing_key", msg.RoutingKey),
					zap.Error(err))
				// A malformed event will not get better on redelivery.
				if nackErr := msg.Nack(false, false); nackErr != nil {
					zap.L().Error("failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				zap.L().Error("failed to ack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
			}
		}
	}()

	return nil
}
