package service

import (
	"context"
	"time"

	"team-calendar-api/modules/meeting/entity"

	"github.com/google/uuid"
)

// ConflictSource is the read side the checker needs. It is satisfied by the
// meeting repository, including a transaction bound one.
type ConflictSource interface {
	GetParticipantMeetingsInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.Meeting, error)
}

// Overlaps reports whether [startA, endA) and [startB, endB) intersect.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return entity.TimeRange{Start: startA, End: endA}.Overlaps(entity.TimeRange{Start: startB, End: endB})
}

// Conflict names the participant and the meeting that block a time range.
type Conflict struct {
	UserID  uuid.UUID
	Meeting entity.Meeting
}

// ConflictChecker decides whether a user is already busy in a time range.
type ConflictChecker struct{}

func NewConflictChecker() *ConflictChecker {
	return &ConflictChecker{}
}

// HasConflict reports whether userID takes part in a non-cancelled meeting
// overlapping [start, end). excludeID, when set, is ignored so a meeting can
// be rescheduled over its own slot.
func (c *ConflictChecker) HasConflict(ctx context.Context, src ConflictSource, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	m, err := c.FindConflict(ctx, src, userID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

func (c *ConflictChecker) FindConflict(ctx context.Context, src ConflictSource, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*entity.Meeting, error) {
	meetings, err := src.GetParticipantMeetingsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	for i := range meetings {
		if blocks(&meetings[i], start, end, excludeID) {
			m := meetings[i]
			return &m, nil
		}
	}
	return nil, nil
}

// FirstConflict checks userIDs in order and stops at the first busy one.
func (c *ConflictChecker) FirstConflict(ctx context.Context, src ConflictSource, userIDs []uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*Conflict, error) {
	for _, userID := range userIDs {
		m, err := c.FindConflict(ctx, src, userID, start, end, excludeID)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return &Conflict{UserID: userID, Meeting: *m}, nil
		}
	}
	return nil, nil
}

func blocks(m *entity.Meeting, start, end time.Time, excludeID *uuid.UUID) bool {
	if m.IsCancelled {
		return false
	}
	if excludeID != nil && m.ID == *excludeID {
		return false
	}
	return Overlaps(m.StartAt, m.EndAt, start, end)
}
