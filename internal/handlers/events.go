package handlers

import (
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/railbook/internal/cache"
	"github.com/yourorg/railbook/internal/live"
	"github.com/yourorg/railbook/internal/middleware"
	"github.com/yourorg/railbook/internal/models"
)

const eventsFeedKey = "events:list"

// EventsHandler records session events (login/logout). Creation requires a
// bearer token; the feed is public. The public feed is cached briefly since
// it is hit on every dashboard refresh.
type EventsHandler struct {
	db    *sql.DB
	hub   *live.Hub
	cache *cache.Cache
}

func NewEventsHandler(db *sql.DB, hub *live.Hub, c *cache.Cache) *EventsHandler {
	return &EventsHandler{db: db, hub: hub, cache: c}
}

// Create handles POST /api/events (bearer auth). The username always comes
// from the verified token, never from the request body.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	var req models.EventCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}

	username, _ := c.Locals(middleware.LocalUsername).(string)
	if username == "" {
		username = "unknown"
	}

	event := models.Event{
		Username:  username,
		Type:      req.Type,
		Timestamp: req.Timestamp,
		CreatedAt: time.Now().UTC(),
	}

	res, err := h.db.Exec(`
		INSERT INTO events (username, type, timestamp, created_at)
		VALUES (?, ?, ?, ?)
	`, event.Username, event.Type, event.Timestamp, event.CreatedAt)
	if err != nil {
		log.Printf("❌ event insert error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to save event"})
	}

	event.ID, _ = res.LastInsertId()
	h.cache.DeletePrefix("events:")
	h.hub.Publish("event", event)

	return c.Status(fiber.StatusCreated).JSON(event)
}

// List handles GET /api/events (public). Returns the most recent 200
// events, newest first.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	if cached, found := h.cache.Get(eventsFeedKey); found {
		if events, ok := cached.([]models.Event); ok {
			return c.JSON(events)
		}
	}

	rows, err := h.db.Query(`
		SELECT id, username, type, timestamp, created_at
		FROM events
		ORDER BY id DESC
		LIMIT 200
	`)
	if err != nil {
		log.Printf("❌ event list error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to fetch events"})
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Username, &e.Type, &e.Timestamp, &e.CreatedAt); err != nil {
			continue
		}
		events = append(events, e)
	}

	h.cache.Set(eventsFeedKey, events)
	return c.JSON(events)
}
