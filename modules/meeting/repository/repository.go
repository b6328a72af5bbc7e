package repository

import (
	"context"
	"time"

	"team-calendar-api/core/database"
	"team-calendar-api/modules/meeting/entity"

	"github.com/google/uuid"
)

// MeetingRepository handles meeting and participant storage.
type MeetingRepository interface {
	// WithTx runs fn as one unit of work. Every read and write made through
	// the repository passed to fn is committed together or not at all.
	// Calling WithTx on a transaction bound repository reuses its transaction.
	WithTx(ctx context.Context, fn func(tx MeetingRepository) error) error
	// LockParticipants serializes concurrent units of work that touch any of
	// the given users. It must be called inside WithTx.
	LockParticipants(ctx context.Context, userIDs []uuid.UUID) error

	// Meetings
	CreateMeeting(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error)
	GetMeetingByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error)
	UpdateMeeting(ctx context.Context, meeting *entity.Meeting) (*entity.Meeting, error)
	CancelMeeting(ctx context.Context, id uuid.UUID) error

	// Participants
	AddParticipants(ctx context.Context, meetingID uuid.UUID, userIDs []uuid.UUID) error
	DeleteParticipants(ctx context.Context, meetingID uuid.UUID) error
	GetParticipantIDs(ctx context.Context, meetingID uuid.UUID) ([]uuid.UUID, error)
	GetParticipantIDsByMeetingIDs(ctx context.Context, meetingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)

	// Queries
	// GetParticipantMeetingsInRange returns non-cancelled meetings of userID
	// overlapping [start, end).
	GetParticipantMeetingsInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.Meeting, error)
	// GetMeetingsByParticipant lists meetings userID takes part in, ordered by
	// start time then id.
	GetMeetingsByParticipant(ctx context.Context, userID uuid.UUID, skip, limit int, includeCancelled bool) ([]entity.Meeting, error)
	// GetTeamMeetingsInRange returns non-cancelled team meetings overlapping
	// [from, to), ordered by start time then id.
	GetTeamMeetingsInRange(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]entity.Meeting, error)
}

func NewMeetingRepository(store database.Store) MeetingRepository {
	if store.IsMemory() {
		return NewMemoryMeetingRepository(store.Memory)
	}
	return NewPostgresMeetingRepository(store.SQL)
}
