package catalog

import (
	"strings"

	"github.com/yourorg/railbook/internal/models"
)

// Pagination bounds for station searches. Requested limits are clamped into
// [MinLimit, MaxLimit]; absent or non-numeric limits fall back to DefaultLimit.
const (
	MinLimit     = 10
	MaxLimit     = 200
	DefaultLimit = 50
)

// Search filters the catalog with a case-insensitive substring match over
// name and code (a record qualifies if either matches; an empty query
// matches everything) and returns the requested page window. Total always
// counts the whole filtered set, so it is invariant across pages. An
// out-of-range page yields empty items with the correct total.
func (c *Catalog) Search(query string, page, limit int) models.StationQueryResult {
	if page < 1 {
		page = 1
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	filtered := c.stations
	if q := strings.ToLower(query); q != "" {
		filtered = make([]models.Station, 0)
		for _, s := range c.stations {
			if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Code), q) {
				filtered = append(filtered, s)
			}
		}
	}

	total := len(filtered)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]models.Station, end-start)
	copy(items, filtered[start:end])

	return models.StationQueryResult{
		Total: total,
		Page:  page,
		Limit: limit,
		Items: items,
	}
}
