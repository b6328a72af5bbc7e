package meeting

import (
	"team-calendar-api/core/database"
	"team-calendar-api/core/middleware"
	"team-calendar-api/modules/meeting/controller"
	"team-calendar-api/modules/meeting/repository"
	"team-calendar-api/modules/meeting/router"
	"team-calendar-api/modules/meeting/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the meeting module and registers routes. The returned
// repository is shared with the calendar module.
func Init(e *echo.Echo, store database.Store, directory service.MemberDirectory, mw *middleware.Middleware) repository.MeetingRepository {
	repo := repository.NewMeetingRepository(store)
	svc := service.NewMeetingService(repo, directory)
	ctrl := controller.NewMeetingController(svc)
	rtr := router.NewMeetingRouter(ctrl)

	rtr.Setup(e, mw)
	return repo
}
