package routes

import (
	"wavelink/server/internal/handlers"
	"wavelink/server/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	// API v1 group
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Wavelink API is running",
		})
	})

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", middleware.StrictRateLimiter(), h.Register)
	auth.Post("/login", middleware.StrictRateLimiter(), h.Login)
	auth.Post("/logout", middleware.AuthMiddleware, h.Logout)
	auth.Get("/me", middleware.AuthMiddleware, h.GetMe)

	// Profile routes (protected)
	profiles := api.Group("/profiles", middleware.AuthMiddleware)
	profiles.Get("/:profileId", h.GetProfile)
	api.Put("/profile", middleware.AuthMiddleware, h.UpdateProfile)

	// Contact routes (protected)
	contacts := api.Group("/contacts", middleware.AuthMiddleware)
	contacts.Post("/requests", h.SendContactRequest)
	contacts.Get("/requests", h.GetContactRequests)
	contacts.Post("/requests/:requestId/respond", h.RespondContactRequest)
	contacts.Get("/", h.GetContacts)

	// Room message routes (protected)
	rooms := api.Group("/rooms", middleware.AuthMiddleware)
	rooms.Post("/:roomId/messages", h.SendMessage)
	rooms.Get("/:roomId/messages", h.GetMessages)
	rooms.Put("/:roomId/read", h.MarkRead)

	// Presence snapshot (protected)
	api.Get("/presence", middleware.AuthMiddleware, h.GetPresence)

	// Assistant bridge (protected; fronts the completion API key)
	api.Post("/assistant/chat", middleware.AuthMiddleware, middleware.ModerateRateLimiter(), h.AskAssistant)

	// WebSocket route (protected)
	api.Get("/ws", middleware.AuthMiddleware, h.WebSocketUpgrade, websocket.New(h.WebSocketHandler))

	// WebSocket stats (protected, for debugging)
	api.Get("/ws/stats", middleware.AuthMiddleware, h.GetWebSocketStats)
}
