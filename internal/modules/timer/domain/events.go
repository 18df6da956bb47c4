package domain

import "time"

// EventType defines the kind of engine notification.
type EventType string

const (
	EventStateChanged EventType = "state_changed"
	EventCompleted    EventType = "completed"
	EventStopped      EventType = "stopped"
)

// Event is pushed to subscribers on every recomputation and transition.
// Session carries the finalized record for completed and stopped events.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Session  Session
	At       time.Time
}
