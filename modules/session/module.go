package session

import (
	"slot-swapper/core/middleware"
	"slot-swapper/modules/notification/channel"
	"slot-swapper/modules/session/controller"
	"slot-swapper/modules/session/router"
	"slot-swapper/modules/session/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, auth middleware.Authenticator, ch channel.Channel) *service.Gateway {
	gateway := service.NewGateway(auth, ch)
	ctrl := controller.NewStreamController(gateway)

	router.NewSessionRouter(ctrl).Register(e)

	return gateway
}
