package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/yourorg/railbook/internal/catalog"
	"github.com/yourorg/railbook/internal/config"
	appdb "github.com/yourorg/railbook/internal/db"
	"github.com/yourorg/railbook/internal/handlers"
	"github.com/yourorg/railbook/internal/routes"
)

func main() {
	cfg := config.Load()

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	// ============================================================================
	// STATION CATALOG
	// ============================================================================
	// Loaded once at startup; a missing or malformed file degrades to an
	// empty catalog and the server keeps running.
	cat := catalog.Load(cfg.StationsFile)

	// ============================================================================
	// DB CONNECTION
	// ============================================================================
	var dbReady bool

	go func() {
		for {
			db, err := appdb.Connect(cfg)
			if err != nil {
				log.Printf("db connect error: %v (retrying in 5s)", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if err := appdb.EnsureSchema(db); err != nil {
				log.Printf("ensure schema error: %v (retrying in 5s)", err)
				time.Sleep(5 * time.Second)
				continue
			}
			handlers.Setup(db, cfg)
			routes.Register(app, db, cat, cfg)
			dbReady = true
			log.Printf("✅ Database ready and routes registered")
			return
		}
	}()

	// Wait briefly for DB to be ready
	for i := 0; i < 10 && !dbReady; i++ {
		time.Sleep(500 * time.Millisecond)
	}

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("🛑 termination signal received, shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ error shutting down server: %v", err)
		}
		os.Exit(0)
	}()

	log.Printf("🚀 Server listening on :%s", cfg.Port)
	log.Println("📍 Endpoints:")
	log.Println("   GET  /api/stations   - Paginated station search (public)")
	log.Println("   POST /api/auth/register, /api/auth/login")
	log.Println("   POST /api/bookings   - Create booking (bearer auth)")
	log.Println("   GET  /api/bookings   - List bookings (bearer auth)")
	log.Println("   POST /api/events     - Record session event (bearer auth)")
	log.Println("   GET  /api/events     - Event feed (public)")
	log.Println("   GET  /ws/events      - Live booking/event feed (websocket)")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
