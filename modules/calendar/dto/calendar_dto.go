package dto

import "team-calendar-api/modules/calendar/entity"

// ========== Requests ==========

// DayViewRequest is bound from the query string, date as YYYY-MM-DD.
type DayViewRequest struct {
	Date string `query:"date"`
}

// MonthViewRequest is bound from the query string.
type MonthViewRequest struct {
	Year  int `query:"year"`
	Month int `query:"month"`
}

// ========== Responses ==========

// CalendarDayView lists a day's events ordered by start time.
type CalendarDayView struct {
	Date   string                 `json:"date"` // YYYY-MM-DD
	Events []entity.CalendarEvent `json:"events"`
}

// CalendarMonthView holds one day view per day of the month, empty days
// included.
type CalendarMonthView struct {
	Year  int               `json:"year"`
	Month int               `json:"month"`
	Days  []CalendarDayView `json:"days"`
}
