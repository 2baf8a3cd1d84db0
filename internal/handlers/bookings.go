package handlers

import (
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yourorg/railbook/internal/live"
	"github.com/yourorg/railbook/internal/models"
)

// BookingsHandler persists booking records. Inserts are append-only; there
// is no update or delete path. From/to are stored as submitted — the
// catalog is not consulted.
type BookingsHandler struct {
	db  *sql.DB
	hub *live.Hub
}

func NewBookingsHandler(db *sql.DB, hub *live.Hub) *BookingsHandler {
	return &BookingsHandler{db: db, hub: hub}
}

// Create handles POST /api/bookings (bearer auth).
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	var req models.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}

	booking := models.Booking{
		Reference:  uuid.NewString(),
		From:       req.From,
		To:         req.To,
		Date:       req.Date,
		Passengers: req.Passengers,
		Class:      req.Class,
		CreatedAt:  time.Now().UTC(),
	}

	res, err := h.db.Exec(`
		INSERT INTO bookings (reference, from_station, to_station, travel_date, passengers, class, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, booking.Reference, booking.From, booking.To, booking.Date, booking.Passengers, booking.Class, booking.CreatedAt)
	if err != nil {
		log.Printf("❌ booking insert error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to save booking"})
	}

	booking.ID, _ = res.LastInsertId()
	h.hub.Publish("booking", booking)

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// List handles GET /api/bookings (bearer auth). Returns the most recent 200
// bookings, newest first.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	rows, err := h.db.Query(`
		SELECT id, reference, from_station, to_station, travel_date, passengers, class, created_at
		FROM bookings
		ORDER BY created_at DESC
		LIMIT 200
	`)
	if err != nil {
		log.Printf("❌ booking list error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to fetch bookings"})
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.From, &b.To, &b.Date, &b.Passengers, &b.Class, &b.CreatedAt); err != nil {
			continue
		}
		bookings = append(bookings, b)
	}

	return c.JSON(bookings)
}
