package router

import (
	"team-calendar-api/core/middleware"
	"team-calendar-api/modules/calendar/controller"

	"github.com/labstack/echo/v4"
)

type CalendarRouter struct {
	controller *controller.CalendarController
}

func NewCalendarRouter(controller *controller.CalendarController) *CalendarRouter {
	return &CalendarRouter{
		controller: controller,
	}
}

func (r *CalendarRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	calendarRoutes := v1.Group("/private/calendar")
	calendarRoutes.Use(mw.AuthMiddleware(), mw.RequireTeam())

	calendarRoutes.GET("/day", r.controller.GetDayView)
	calendarRoutes.GET("/month", r.controller.GetMonthView)
}
