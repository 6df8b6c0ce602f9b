package book

import "time"

// EventType names a catalogue mutation.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event describes a successful mutation of the catalogue.
type Event struct {
	Type   EventType `json:"type"`
	BookID string    `json:"bookId"`
	Book   *Book     `json:"book,omitempty"`
	At     time.Time `json:"at"`
}
