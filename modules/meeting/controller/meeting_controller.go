package controller

import (
	"team-calendar-api/core/controller"
	"team-calendar-api/core/errors"
	"team-calendar-api/core/middleware"
	"team-calendar-api/core/params"
	"team-calendar-api/modules/meeting/dto"
	"team-calendar-api/modules/meeting/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MeetingController handles meeting HTTP requests
type MeetingController struct {
	controller.BaseController
	MeetingService service.MeetingServiceInterface
}

// NewMeetingController creates a new controller
func NewMeetingController(svc service.MeetingServiceInterface) *MeetingController {
	return &MeetingController{
		BaseController: controller.NewBaseController(),
		MeetingService: svc,
	}
}

// CreateMeeting handles POST /meetings
// @Summary Create a meeting
// @Description Schedules a meeting for the caller's team after checking every participant for conflicts
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateMeetingRequest true "Meeting"
// @Success 201 {object} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/meetings [post]
func (c *MeetingController) CreateMeeting(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.MeetingService.CreateMeeting(ctx.Request().Context(), user, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Meeting created successfully")
}

// GetMeeting handles GET /meetings/:id
// @Summary Get a meeting
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id} [get]
func (c *MeetingController) GetMeeting(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.MeetingService.GetMeeting(ctx.Request().Context(), meetingID, user)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetMyMeetings handles GET /meetings
// @Summary List my meetings
// @Description Meetings the caller takes part in, ordered by start time
// @Tags Meeting
// @Security BearerAuth
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 500)"
// @Param include_cancelled query bool false "Include cancelled meetings"
// @Success 200 {array} dto.MeetingResponse
// @Router /private/meetings [get]
func (c *MeetingController) GetMyMeetings(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	p := params.NewQueryParams(ctx)
	result, appErr := c.MeetingService.GetUserMeetings(ctx.Request().Context(), user.ID, *p)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateMeeting handles PATCH /meetings/:id
// @Summary Update a meeting
// @Description Partial update. Changing the time or the participants re-runs the conflict check
// @Tags Meeting
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body dto.UpdateMeetingRequest true "Fields to change"
// @Success 200 {object} dto.MeetingResponse
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /private/meetings/{id} [patch]
func (c *MeetingController) UpdateMeeting(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	var req dto.UpdateMeetingRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.MeetingService.UpdateMeeting(ctx.Request().Context(), meetingID, user, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting updated successfully")
}

// CancelMeeting handles DELETE /meetings/:id
// @Summary Cancel a meeting
// @Description Marks the meeting cancelled. Cancelling twice is a no-op
// @Tags Meeting
// @Security BearerAuth
// @Param id path string true "Meeting ID"
// @Success 200 {object} dto.MeetingResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/meetings/{id} [delete]
func (c *MeetingController) CancelMeeting(ctx echo.Context) error {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	meetingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid meeting ID")
	}

	result, appErr := c.MeetingService.CancelMeeting(ctx.Request().Context(), meetingID, user)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Meeting cancelled successfully")
}
