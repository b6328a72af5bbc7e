package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeTask    EventType = "task"
	EventTypeMeeting EventType = "meeting"
)

// CalendarEvent is the read-only projection of a task or a meeting onto the
// calendar. Tasks are points in time: StartAt and EndAt both hold the deadline.
type CalendarEvent struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	EventType   EventType `json:"event_type"`
	Status      *string   `json:"status"`
	TeamID      uuid.UUID `json:"team_id"`
}
