package catalog

import (
	"encoding/json"
	"log"
	"os"

	"github.com/yourorg/railbook/internal/models"
)

// ============================================================================
// STATION CATALOG - IN-MEMORY, READ-ONLY
// ============================================================================
// The catalog is loaded once at process start and never mutated, so it is
// safe for unlimited concurrent readers without locking. A missing or
// malformed source file degrades to an empty catalog; the service keeps
// serving empty results instead of crashing. A changed file requires a
// process restart.

// rawStation accepts the field-name variants found in station dumps.
// Normalization picks the first populated alias.
type rawStation struct {
	Name         string `json:"name"`
	StationName  string `json:"station_name"`
	Station      string `json:"station"`
	StationNameL string `json:"station_name_l"`
	Code         string `json:"code"`
	StationCode  string `json:"station_code"`
	T            string `json:"t"`
}

func (r rawStation) normalize() models.Station {
	return models.Station{
		Name: firstNonEmpty(r.Name, r.StationName, r.Station, r.StationNameL),
		Code: firstNonEmpty(r.Code, r.StationCode, r.T),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Catalog holds the ordered, normalized station list.
type Catalog struct {
	stations []models.Station
}

// New builds a catalog from already-normalized stations. Used by tests and
// by callers that source stations elsewhere.
func New(stations []models.Station) *Catalog {
	return &Catalog{stations: stations}
}

// Load reads the station JSON file at path. Any failure (absent file,
// unreadable, not a JSON array) yields an empty catalog and a warning.
func Load(path string) *Catalog {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ catalog: could not read %s: %v (serving empty catalog)", path, err)
		return New(nil)
	}

	var records []rawStation
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Printf("⚠️ catalog: %s is not a station list: %v (serving empty catalog)", path, err)
		return New(nil)
	}

	stations := make([]models.Station, 0, len(records))
	for _, r := range records {
		stations = append(stations, r.normalize())
	}
	log.Printf("✅ catalog: loaded %d stations from %s", len(stations), path)
	return New(stations)
}

// Len returns the number of stations in the catalog.
func (c *Catalog) Len() int {
	return len(c.stations)
}
