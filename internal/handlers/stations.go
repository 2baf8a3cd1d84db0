package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/railbook/internal/catalog"
	"github.com/yourorg/railbook/internal/models"
)

// StationsHandler serves paginated station searches over the injected
// read-only catalog. No authentication required.
type StationsHandler struct {
	catalog *catalog.Catalog
}

func NewStationsHandler(cat *catalog.Catalog) *StationsHandler {
	return &StationsHandler{catalog: cat}
}

// Search handles GET /api/stations?query=&page=&limit=.
// Non-numeric page defaults to 1, non-numeric limit to the default page
// size; the catalog clamps both into their valid ranges.
func (h *StationsHandler) Search(c *fiber.Ctx) error {
	if h.catalog == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "catalog not ready"})
	}

	query := c.Query("query")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", catalog.DefaultLimit)

	return c.JSON(h.catalog.Search(query, page, limit))
}
