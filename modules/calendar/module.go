package calendar

import (
	"team-calendar-api/core/middleware"
	"team-calendar-api/modules/calendar/controller"
	"team-calendar-api/modules/calendar/repository"
	"team-calendar-api/modules/calendar/router"
	"team-calendar-api/modules/calendar/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, tasks repository.TaskSource, meetings repository.MeetingSource, mw *middleware.Middleware) {
	repo := repository.NewCalendarRepository(tasks, meetings)
	calendarService := service.NewCalendarService(repo)
	calendarController := controller.NewCalendarController(calendarService)

	router.NewCalendarRouter(calendarController).Setup(e, mw)
}
