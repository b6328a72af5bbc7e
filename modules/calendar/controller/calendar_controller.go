package controller

import (
	"team-calendar-api/core/controller"
	"team-calendar-api/core/errors"
	"team-calendar-api/core/middleware"
	"team-calendar-api/modules/calendar/dto"
	"team-calendar-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

type CalendarController struct {
	controller.BaseController
	calendarService service.CalendarServiceInterface
}

func NewCalendarController(calendarService service.CalendarServiceInterface) *CalendarController {
	return &CalendarController{
		BaseController:  controller.NewBaseController(),
		calendarService: calendarService,
	}
}

// GetDayView handles GET /calendar/day
// @Summary Team calendar for one day
// @Description Tasks due and meetings held on the given UTC day, ordered by start time
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.CalendarDayView
// @Failure 400 {object} errors.AppError
// @Router /private/calendar/day [get]
func (c *CalendarController) GetDayView(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok || !user.HasTeam() {
		return c.Forbidden(errors.ErrForbidden, "User does not belong to a team")
	}

	var req dto.DayViewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid query parameters")
	}
	if req.Date == "" {
		return c.BadRequest(errors.ErrInvalidDate, "date is required")
	}

	date, appErr := service.ParseDate(req.Date)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	result, appErr := c.calendarService.GetDayView(ctx.Request().Context(), date, *user.TeamID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetMonthView handles GET /calendar/month
// @Summary Team calendar for one month
// @Description One day view per day of the month, empty days included
// @Tags Calendar
// @Security BearerAuth
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} dto.CalendarMonthView
// @Failure 400 {object} errors.AppError
// @Router /private/calendar/month [get]
func (c *CalendarController) GetMonthView(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok || !user.HasTeam() {
		return c.Forbidden(errors.ErrForbidden, "User does not belong to a team")
	}

	var req dto.MonthViewRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidDate, "year and month must be integers")
	}

	result, appErr := c.calendarService.GetMonthView(ctx.Request().Context(), req.Year, req.Month, *user.TeamID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
