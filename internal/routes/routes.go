package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gameswap/gameswap/internal/config"
	"github.com/gameswap/gameswap/internal/event"
	"github.com/gameswap/gameswap/internal/game"
	"github.com/gameswap/gameswap/internal/middleware"
	"github.com/gameswap/gameswap/internal/offer"
	"github.com/gameswap/gameswap/internal/session"
	"github.com/gameswap/gameswap/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg       config.Config
	DB        *pgxpool.Pool
	Cache     *redis.Client
	Publisher event.Publisher
	Logger    *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// The store may fall back to memory in dev, but sessions always live in
	// Redis and every state change needs a publisher.
	if !d.Cfg.IsDev() && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Cache == nil {
		return fmt.Errorf("redis is required for sessions")
	}
	if d.Publisher == nil {
		return fmt.Errorf("event publisher is required")
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories fall back to in-memory implementations in dev mode.
	var userRepo user.Repository
	var gameRepo game.Repository
	var offerRepo offer.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		gameRepo = game.NewPostgresRepository(d.DB)
		offerRepo = offer.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
		gameRepo = game.NewMemoryRepository()
		offerRepo = offer.NewMemoryRepository()
	}

	// Services and handlers
	userSvc := user.NewService(userRepo, d.Publisher)
	gameSvc := game.NewService(gameRepo)
	offerSvc := offer.NewService(offerRepo, gameSvc, userSvc, d.Publisher)

	userHandler := user.NewHandler(userSvc)
	gameHandler := game.NewHandler(gameSvc)
	offerHandler := offer.NewHandler(offerSvc)

	sessions := session.New(d.Cache, d.Cfg.SessionTTL)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, userSvc, sessions, rateLimiter)
	RegisterUserRoutes(api, userHandler, gameHandler, middleware.SessionAuth(sessions))

	// Protected routes
	protected := api.Group("", middleware.SessionAuth(sessions))
	RegisterGameRoutes(api, protected, gameHandler, gameSvc, offerRepo)
	RegisterOfferRoutes(api, protected, offerHandler)

	return nil
}
