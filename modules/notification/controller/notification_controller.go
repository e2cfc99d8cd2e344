package controller

import (
	"slot-swapper/core/controller"
	"slot-swapper/core/errors"
	"slot-swapper/core/middleware"
	"slot-swapper/core/params"
	"slot-swapper/modules/notification/dto"
	"slot-swapper/modules/notification/service"
	"slot-swapper/modules/notification/validator"

	"github.com/labstack/echo/v4"
)

type NotificationController struct {
	service service.NotificationServiceInterface
	controller.BaseController
}

func NewNotificationController(service service.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// GetMyNotifications retrieves user's notifications
// @Summary List notifications
// @Description Returns the current user's notification inbox, newest first
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.PaginatedNotificationResponse
// @Failure 401 {object} controller.ErrorResponse
// @Router /private/notifications [get]
func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := c.service.GetMyNotifications(ctx.Request().Context(), identity.ID, *params.NewQueryParams(ctx))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Notifications retrieved successfully")
}

// MarkAsRead marks specific notifications as read
// @Summary Mark as read
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkAsReadRequest true "Notification IDs"
// @Success 200 {object} controller.SuccessResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/notifications/mark-read [put]
func (c *NotificationController) MarkAsRead(ctx echo.Context) error {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.MarkAsReadRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	validationResult := validator.ValidateMarkAsReadRequest(req)
	if validationResult.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	if appErr := c.service.MarkAsRead(ctx.Request().Context(), identity.ID, req.IDs); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Marked as read successfully")
}

func (c *NotificationController) MarkAllAsRead(ctx echo.Context) error {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	if appErr := c.service.MarkAllAsRead(ctx.Request().Context(), identity.ID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Marked all as read successfully")
}

func (c *NotificationController) CountUnread(ctx echo.Context) error {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	count, appErr := c.service.CountUnread(ctx.Request().Context(), identity.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, count, "Unread count retrieved")
}
