package app

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

// App is the assembled storefront: database, services and HTTP routes.
type App struct {
	Fiber *fiber.App
	DB    *gorm.DB

	Auth       *services.AuthService
	Products   *services.ProductService
	Categories *services.CategoryService
	Comments   *services.CommentService
	Contact    *services.ContactService
	Cart       *services.CartService
	Ledger     *services.LedgerService

	eventsEnabled bool
}

// New opens the database and wires every layer. publisher may be nil, in
// which case no order events are sent.
func New(cfg *config.Config, publisher services.EventPublisher) (*App, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	// --- Repositories ---
	store := repositories.NewGORMStore(db)
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)

	// --- Services ---
	opts := []services.Option{services.WithCartTTL(cfg.CartTTL)}
	if publisher != nil {
		opts = append(opts, services.WithPublisher(publisher))
	}
	a := &App{
		DB:            db,
		Auth:          services.NewAuthService(userRepo, cfg.JWTSecret),
		Products:      services.NewProductService(productRepo),
		Categories:    services.NewCategoryService(categoryRepo, productRepo),
		Comments:      services.NewCommentService(commentRepo, productRepo),
		Contact:       services.NewContactService(contactRepo),
		Cart:          services.NewCartService(store, productRepo, opts...),
		Ledger:        services.NewLedgerService(store, opts...),
		eventsEnabled: publisher != nil,
	}

	// --- HTTP ---
	a.Fiber = fiber.New(fiber.Config{AppName: "storefront"})
	a.Fiber.Use(recover.New())
	a.Fiber.Use(logger.New())
	a.Fiber.Get("/health", a.handleHealth)

	auth := middleware.AuthRequired(a.Auth)
	admin := middleware.AdminRequired(cfg.AdminToken)

	apiV1 := a.Fiber.Group("/api/v1")
	handlers.NewAuthHandler(a.Auth).RegisterRoutes(apiV1)
	handlers.NewCategoryHandler(a.Categories).RegisterRoutes(apiV1, admin)
	handlers.NewProductHandler(a.Products).RegisterRoutes(apiV1, admin)
	handlers.NewCommentHandler(a.Comments).RegisterRoutes(apiV1)
	handlers.NewContactHandler(a.Contact).RegisterRoutes(apiV1, admin)
	handlers.NewOrderHandler(a.Cart).RegisterRoutes(apiV1, auth)
	handlers.NewBalanceHandler(a.Ledger, a.Cart).RegisterRoutes(apiV1, auth, admin)

	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status, code := "healthy", fiber.StatusOK
	dbStatus := "connected"
	if err := a.ping(c); err != nil {
		zap.L().Warn("health check failed", zap.Error(err))
		status, code, dbStatus = "unhealthy", fiber.StatusServiceUnavailable, "unreachable"
	}

	events := "disabled"
	if a.eventsEnabled {
		events = "enabled"
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": dbStatus,
		"events":   events,
	})
}

func (a *App) ping(c *fiber.Ctx) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(c.UserContext())
}

// Close shuts the HTTP server down and releases the database.
func (a *App) Close() error {
	var err error
	if shutdownErr := a.Fiber.Shutdown(); shutdownErr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to shut down HTTP server: %w", shutdownErr))
	}
	sqlDB, dbErr := a.DB.DB()
	if dbErr == nil {
		dbErr = sqlDB.Close()
	}
	if dbErr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to close database: %w", dbErr))
	}
	return err
}
