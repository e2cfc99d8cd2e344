package router

import (
	"slot-swapper/core/middleware"
	"slot-swapper/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	controller *controller.NotificationController
}

func NewNotificationRouter(controller *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{controller: controller}
}

func (r *NotificationRouter) Register(private *echo.Group, mw *middleware.Middleware) {
	inbox := private.Group("/notifications", mw.AuthMiddleware())
	inbox.GET("", r.controller.GetMyNotifications)
	inbox.GET("/unread-count", r.controller.CountUnread)
	inbox.PUT("/mark-read", r.controller.MarkAsRead)
	inbox.PUT("/mark-all-read", r.controller.MarkAllAsRead)
}
