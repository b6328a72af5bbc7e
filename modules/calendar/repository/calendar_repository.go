package repository

import (
	"context"
	"time"

	meetingEntity "team-calendar-api/modules/meeting/entity"
	taskEntity "team-calendar-api/modules/task/entity"

	"github.com/google/uuid"
)

// TaskSource is the task store as seen by the calendar.
type TaskSource interface {
	GetTasksByTeamAndDeadline(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]taskEntity.Task, error)
}

// MeetingSource is the meeting store as seen by the calendar.
type MeetingSource interface {
	GetTeamMeetingsInRange(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]meetingEntity.Meeting, error)
}

// CalendarRepository reads everything that shows up on a team calendar.
type CalendarRepository interface {
	// GetTasksDue returns team tasks with from <= deadline < to.
	GetTasksDue(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]taskEntity.Task, error)
	// GetMeetings returns non-cancelled team meetings overlapping [from, to).
	GetMeetings(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]meetingEntity.Meeting, error)
}

type calendarRepository struct {
	tasks    TaskSource
	meetings MeetingSource
}

func NewCalendarRepository(tasks TaskSource, meetings MeetingSource) CalendarRepository {
	return &calendarRepository{tasks: tasks, meetings: meetings}
}

func (r *calendarRepository) GetTasksDue(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]taskEntity.Task, error) {
	return r.tasks.GetTasksByTeamAndDeadline(ctx, teamID, from, to)
}

func (r *calendarRepository) GetMeetings(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]meetingEntity.Meeting, error) {
	return r.meetings.GetTeamMeetingsInRange(ctx, teamID, from, to)
}
