package router

import (
	"slot-swapper/modules/session/controller"

	"github.com/labstack/echo/v4"
)

type SessionRouter struct {
	controller *controller.StreamController
}

func NewSessionRouter(controller *controller.StreamController) *SessionRouter {
	return &SessionRouter{controller: controller}
}

// Register mounts the stream outside the private group: browsers cannot set headers on
// a websocket upgrade, so the stream authenticates itself.
func (r *SessionRouter) Register(e *echo.Echo) {
	e.GET("/ws/notifications", r.controller.Notifications)
}
