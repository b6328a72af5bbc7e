package dto

import (
	"time"

	"team-calendar-api/modules/meeting/entity"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

// CreateMeetingRequest for scheduling a new meeting
type CreateMeetingRequest struct {
	Title        string      `json:"title"`
	Description  *string     `json:"description"`
	StartAt      time.Time   `json:"start_at"`
	EndAt        time.Time   `json:"end_at"`
	Participants []uuid.UUID `json:"participants"` // user ids, organizer is not added implicitly
}

// UpdateMeetingRequest is a partial update; nil fields are left unchanged.
// A non-nil Participants replaces the whole participant set.
type UpdateMeetingRequest struct {
	Title        *string      `json:"title"`
	Description  *string      `json:"description"`
	StartAt      *time.Time   `json:"start_at"`
	EndAt        *time.Time   `json:"end_at"`
	Participants *[]uuid.UUID `json:"participants"`
}

// ===================== Response DTOs =====================

// MeetingResponse for meeting details
type MeetingResponse struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Description  *string     `json:"description,omitempty"`
	StartAt      time.Time   `json:"start_at"`
	EndAt        time.Time   `json:"end_at"`
	Status       string      `json:"status"`
	IsCancelled  bool        `json:"is_cancelled"`
	OrganizerID  uuid.UUID   `json:"organizer_id"`
	TeamID       uuid.UUID   `json:"team_id"`
	Participants []uuid.UUID `json:"participants"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ===================== Mappers =====================

func ToMeetingResponse(m *entity.Meeting, participants []uuid.UUID) *MeetingResponse {
	if participants == nil {
		participants = []uuid.UUID{}
	}
	return &MeetingResponse{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		StartAt:      m.StartAt,
		EndAt:        m.EndAt,
		Status:       string(m.Status()),
		IsCancelled:  m.IsCancelled,
		OrganizerID:  m.OrganizerID,
		TeamID:       m.TeamID,
		Participants: participants,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
