package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"team-calendar-api/core/constants"
	"team-calendar-api/core/errors"
	"team-calendar-api/modules/calendar/dto"
	"team-calendar-api/modules/calendar/entity"
	"team-calendar-api/modules/calendar/repository"
	meetingEntity "team-calendar-api/modules/meeting/entity"
	taskEntity "team-calendar-api/modules/task/entity"

	"github.com/google/uuid"
)

type CalendarServiceInterface interface {
	GetDayView(ctx context.Context, date time.Time, teamID uuid.UUID) (*dto.CalendarDayView, *errors.AppError)
	GetMonthView(ctx context.Context, year, month int, teamID uuid.UUID) (*dto.CalendarMonthView, *errors.AppError)
}

// CalendarService merges team tasks and meetings into day and month views.
// Days are UTC calendar days [00:00, next 00:00).
type CalendarService struct {
	repo repository.CalendarRepository
}

func NewCalendarService(repo repository.CalendarRepository) *CalendarService {
	return &CalendarService{repo: repo}
}

// GetDayView returns the team's events on the calendar day of date.
func (s *CalendarService) GetDayView(ctx context.Context, date time.Time, teamID uuid.UUID) (*dto.CalendarDayView, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	y, m, d := date.Date()
	if appErr := validateYear(y); appErr != nil {
		return nil, appErr
	}
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	tasks, meetings, appErr := s.load(ctx, teamID, dayStart, dayEnd)
	if appErr != nil {
		return nil, appErr
	}

	view := buildDayView(dayStart, tasks, meetings)
	return &view, nil
}

// GetMonthView returns one day view per day of the month. Data for the whole
// month is read once and split per day with the same rules as GetDayView.
func (s *CalendarService) GetMonthView(ctx context.Context, year, month int, teamID uuid.UUID) (*dto.CalendarMonthView, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if month < 1 || month > 12 {
		return nil, errors.NewAppError(errors.ErrInvalidDate, fmt.Sprintf("invalid month %d", month), nil)
	}
	if appErr := validateYear(year); appErr != nil {
		return nil, appErr
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	tasks, meetings, appErr := s.load(ctx, teamID, monthStart, monthEnd)
	if appErr != nil {
		return nil, appErr
	}

	days := DaysInMonth(year, time.Month(month))
	view := &dto.CalendarMonthView{
		Year:  year,
		Month: month,
		Days:  make([]dto.CalendarDayView, 0, days),
	}
	for day := 0; day < days; day++ {
		view.Days = append(view.Days, buildDayView(monthStart.AddDate(0, 0, day), tasks, meetings))
	}
	return view, nil
}

// DaysInMonth returns the Gregorian day count of month in year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, *errors.AppError) {
	date, err := time.Parse(constants.CalendarDateLayout, value)
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrInvalidDate, "date must be formatted as YYYY-MM-DD", err)
	}
	return date, nil
}

func (s *CalendarService) load(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]taskEntity.Task, []meetingEntity.Meeting, *errors.AppError) {
	tasks, err := s.repo.GetTasksDue(ctx, teamID, from, to)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "failed to get tasks", err)
	}
	meetings, err := s.repo.GetMeetings(ctx, teamID, from, to)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrGetFailed, "failed to get meetings", err)
	}
	return tasks, meetings, nil
}

// buildDayView keeps the tasks due and the meetings overlapping
// [dayStart, dayStart+1d). Tasks go in first so that equal start times keep
// tasks ahead of meetings after the stable sort.
func buildDayView(dayStart time.Time, tasks []taskEntity.Task, meetings []meetingEntity.Meeting) dto.CalendarDayView {
	day := meetingEntity.TimeRange{Start: dayStart, End: dayStart.AddDate(0, 0, 1)}

	events := []entity.CalendarEvent{}
	for i := range tasks {
		if taskOnDay(&tasks[i], day) {
			events = append(events, fromTask(&tasks[i]))
		}
	}
	for i := range meetings {
		if meetingOnDay(&meetings[i], day) {
			events = append(events, fromMeeting(&meetings[i]))
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartAt.Before(events[j].StartAt)
	})

	return dto.CalendarDayView{
		Date:   dayStart.Format(constants.CalendarDateLayout),
		Events: events,
	}
}

func taskOnDay(t *taskEntity.Task, day meetingEntity.TimeRange) bool {
	if t.Deadline == nil {
		return false
	}
	return !t.Deadline.Before(day.Start) && t.Deadline.Before(day.End)
}

func meetingOnDay(m *meetingEntity.Meeting, day meetingEntity.TimeRange) bool {
	return !m.IsCancelled && m.Range().Overlaps(day)
}

func fromTask(t *taskEntity.Task) entity.CalendarEvent {
	status := string(t.Status)
	return entity.CalendarEvent{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		StartAt:     *t.Deadline,
		EndAt:       *t.Deadline,
		EventType:   entity.EventTypeTask,
		Status:      &status,
		TeamID:      t.TeamID,
	}
}

func fromMeeting(m *meetingEntity.Meeting) entity.CalendarEvent {
	return entity.CalendarEvent{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		StartAt:     m.StartAt,
		EndAt:       m.EndAt,
		EventType:   entity.EventTypeMeeting,
		TeamID:      m.TeamID,
	}
}

func validateYear(year int) *errors.AppError {
	if year < constants.MinCalendarYear || year > constants.MaxCalendarYear {
		return errors.NewAppError(errors.ErrInvalidDate,
			fmt.Sprintf("year must be between %d and %d", constants.MinCalendarYear, constants.MaxCalendarYear), nil)
	}
	return nil
}
