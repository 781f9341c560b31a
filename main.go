package main

import (
	"context"

	"wavelink/server/internal/assistant"
	"wavelink/server/internal/chat"
	"wavelink/server/internal/config"
	"wavelink/server/internal/contacts"
	"wavelink/server/internal/database"
	"wavelink/server/internal/handlers"
	"wavelink/server/internal/logger"
	"wavelink/server/internal/metrics"
	"wavelink/server/internal/routes"
	"wavelink/server/internal/storage"
	"wavelink/server/internal/utils"
	ws "wavelink/server/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}

	cfg := config.Load()
	logger.Init(cfg.Env)
	utils.InitJWT(cfg.JWTSecret)

	ctx := context.Background()

	// Connect to database
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Connect to Redis (presence cache)
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	store := storage.NewService(pool)
	presence := storage.NewPresence(rdb, storage.DefaultPresenceTTL)

	// WebSocket hub
	hub := ws.NewHub(store, presence)
	go hub.Run()

	// Services
	contactsSvc := contacts.NewService(store, hub, presence)
	chatSvc := chat.NewService(store, hub)
	assistantClient := assistant.NewClient(cfg.GeminiAPIKey, cfg.GeminiURL)

	h := handlers.New(store, contactsSvc, chatSvc, assistantClient, presence, hub)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Wavelink API v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: true,
	}))
	app.Use(metrics.FiberMiddleware())

	// Setup routes
	routes.SetupRoutes(app, h)

	// Prometheus scrape endpoint on its own listener
	go metrics.Serve(":" + cfg.MetricsPort)

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
