package entity

import (
	"time"

	"team-calendar-api/core/entity"

	"github.com/google/uuid"
)

// MeetingStatus is derived from the cancellation flag; it is not stored.
type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCancelled MeetingStatus = "cancelled"
)

// Meeting is a scheduled team meeting. Cancelled meetings are kept for
// history and never take part in conflict checks.
type Meeting struct {
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	StartAt     time.Time `db:"start_at" json:"start_at"`
	EndAt       time.Time `db:"end_at" json:"end_at"`
	IsCancelled bool      `db:"is_cancelled" json:"is_cancelled"`
	OrganizerID uuid.UUID `db:"organizer_id" json:"organizer_id"`
	TeamID      uuid.UUID `db:"team_id" json:"team_id"`

	entity.BaseEntity
}

func (m *Meeting) Status() MeetingStatus {
	if m.IsCancelled {
		return MeetingStatusCancelled
	}
	return MeetingStatusScheduled
}

func (m *Meeting) Range() TimeRange {
	return TimeRange{Start: m.StartAt, End: m.EndAt}
}
