package notification

import (
	"slot-swapper/core/middleware"
	"slot-swapper/modules/notification/channel"
	"slot-swapper/modules/notification/controller"
	"slot-swapper/modules/notification/queue"
	"slot-swapper/modules/notification/repository"
	"slot-swapper/modules/notification/router"
	"slot-swapper/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init mounts the inbox routes and returns the service the swap engine notifies through.
func Init(private *echo.Group, repo repository.NotificationRepositoryInterface, ch channel.Channel, dispatcher queue.Dispatcher, mw *middleware.Middleware) *service.NotificationService {
	svc := service.NewNotificationService(repo, ch, dispatcher)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(private, mw)

	return svc
}
