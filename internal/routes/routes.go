package routes

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/railbook/internal/cache"
	"github.com/yourorg/railbook/internal/catalog"
	"github.com/yourorg/railbook/internal/config"
	"github.com/yourorg/railbook/internal/handlers"
	"github.com/yourorg/railbook/internal/live"
	"github.com/yourorg/railbook/internal/middleware"
)

// Register mounts the full API surface.
func Register(app *fiber.App, db *sql.DB, cat *catalog.Catalog, cfg *config.Config) {
	hub := live.NewHub()
	eventsCache := cache.New(30*time.Second, time.Minute)

	stationsHandler := handlers.NewStationsHandler(cat)
	bookingsHandler := handlers.NewBookingsHandler(db, hub)
	eventsHandler := handlers.NewEventsHandler(db, hub, eventsCache)
	healthHandler := handlers.NewHealthHandler(cat)

	requireAuth := middleware.RequireAuth([]byte(cfg.JWTSecret))

	api := app.Group("/api")

	// Health check (no rate limiting)
	api.Get("/health", healthHandler.Health)

	api.Use(middleware.APIRateLimiter())

	// ============================================================================
	// AUTH (strict rate limiting against brute force)
	// ============================================================================
	auth := api.Group("/auth")
	auth.Use(middleware.AuthRateLimiter())
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	// ============================================================================
	// STATIONS (public, no auth)
	// ============================================================================
	api.Get("/stations", stationsHandler.Search)
	// GET /api/stations?query=del&page=1&limit=50

	// ============================================================================
	// BOOKINGS (bearer auth)
	// ============================================================================
	api.Post("/bookings", requireAuth, bookingsHandler.Create)
	api.Get("/bookings", requireAuth, bookingsHandler.List)

	// ============================================================================
	// EVENTS (public read, authenticated write)
	// ============================================================================
	api.Get("/events", eventsHandler.List)
	api.Post("/events", requireAuth, eventsHandler.Create)

	// ============================================================================
	// LIVE FEED WEBSOCKET (bookings/events as they are created)
	// ============================================================================
	app.Use("/ws/events", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(func(c *websocket.Conn) {
		hub.HandleConn(c)
	}))
}
