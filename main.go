package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// --- Order events ---
	// The store keeps working without a broker; events are best effort.
	var (
		publisher services.EventPublisher
		mqClient  *rabbitmq.Client
	)
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: services.EventsExchange})
		if err != nil {
			zap.L().Error("RabbitMQ unavailable, order events disabled", zap.Error(err))
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	// --- Application ---
	a, err := app.New(cfg, publisher)
	if err != nil {
		zap.L().Fatal("failed to initialize application", zap.Error(err))
	}

	if cfg.SeedCatalog {
		if err := seedCatalog(context.Background(), a); err != nil {
			zap.L().Error("failed to seed catalog", zap.Error(err))
		}
	}

	if mqClient != nil {
		if err := mqClient.ConsumeEvents(logOrderEvent); err != nil {
			zap.L().Warn("failed to start event consumer", zap.Error(err))
		}
	}

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zap.L().Info("starting server", zap.String("addr", cfg.AppPort))
		if err := a.Fiber.Listen(cfg.AppPort); err != nil {
			zap.L().Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	zap.L().Info("shutting down server")
	if err := a.Close(); err != nil {
		zap.L().Error("error during shutdown", zap.Error(err))
	}
	zap.L().Info("server gracefully stopped")
}

// logOrderEvent is the consumer side of the order events: it records them in
// the log. Undecodable messages are rejected.
func logOrderEvent(msg amqp.Delivery) error {
	var event services.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.Event == "" || event.OrderID == 0 {
		return fmt.Errorf("incomplete order event %q", msg.Body)
	}
	zap.L().Info("order event received",
		zap.String("event", event.Event),
		zap.Uint("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
		zap.String("status", string(event.Status)),
		zap.Stringer("amount", event.Amount),
		zap.Time("occurred_at", event.OccurredAt))
	return nil
}

type seedCategory struct {
	name, slug string
	products   []models.Product
	children   []seedCategory
}

var demoCatalog = []seedCategory{
	{
		name: "Electronics", slug: "electronics",
		children: []seedCategory{
			{
				name: "Computers", slug: "computers",
				products: []models.Product{
					{Name: "Laptop", Code: "LT-1", Slug: "laptop", Unit: "pcs", Price: decimal.RequireFromString("1200.00"), Text: "High performance laptop"},
				},
			},
			{
				name: "Accessories", slug: "accessories",
				products: []models.Product{
					{Name: "Keyboard", Code: "KB-1", Slug: "keyboard", Unit: "pcs", Price: decimal.RequireFromString("75.00"), Text: "Mechanical keyboard"},
					{Name: "Mouse", Code: "MS-1", Slug: "mouse", Unit: "pcs", Price: decimal.RequireFromString("25.00"), Text: "Ergonomic wireless mouse"},
				},
			},
		},
	},
}

// seedCatalog fills an empty catalog with demo categories and products. A
// catalog that already has products is left alone.
func seedCatalog(ctx context.Context, a *app.App) error {
	existing, err := a.Products.GetAllProducts(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		zap.L().Info("catalog already populated, skipping seed", zap.Int("products", len(existing)))
		return nil
	}
	return seedCategories(ctx, a, demoCatalog, nil)
}

func seedCategories(ctx context.Context, a *app.App, nodes []seedCategory, parentID *string) error {
	for _, node := range nodes {
		category := &models.Category{Name: node.name, Slug: node.slug, ParentID: parentID}
		if err := a.Categories.CreateCategory(ctx, category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", node.slug, err)
		}
		for i := range node.products {
			product := node.products[i]
			product.CategoryID = &category.ID
			if err := a.Products.CreateProduct(ctx, &product); err != nil {
				return fmt.Errorf("failed to seed product %s: %w", product.Slug, err)
			}
			zap.L().Info("seeded product", zap.String("name", product.Name), zap.String("id", product.ID))
		}
		if err := seedCategories(ctx, a, node.children, &category.ID); err != nil {
			return err
		}
	}
	return nil
}
