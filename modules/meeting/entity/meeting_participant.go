package entity

import (
	"time"

	"github.com/google/uuid"
)

// MeetingParticipant links a user to a meeting (meeting_participants table).
type MeetingParticipant struct {
	MeetingID uuid.UUID `db:"meeting_id" json:"meeting_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
