package models

import "time"

// BookingCreateRequest mirrors the booking form payload. No referential
// integrity against the station catalog is enforced; from/to may be
// arbitrary strings.
type BookingCreateRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Date       string `json:"date"`
	Passengers int    `json:"passengers"`
	Class      string `json:"cls"`
}

// Booking is a persisted booking record. Append-only; never updated.
type Booking struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Date       string    `json:"date"`
	Passengers int       `json:"passengers"`
	Class      string    `json:"cls"`
	CreatedAt  time.Time `json:"createdAt"`
}
