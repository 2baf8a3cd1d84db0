package models

import "time"

// Event types recorded by the session flow.
const (
	EventLogin  = "login"
	EventLogout = "logout"
)

// EventCreateRequest is the client payload for POST /api/events. The
// username is taken from the bearer token, never from the body.
type EventCreateRequest struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// Event is a persisted session event.
type Event struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Type      string    `json:"type"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}
