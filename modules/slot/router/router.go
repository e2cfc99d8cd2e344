package router

import (
	"slot-swapper/core/middleware"
	"slot-swapper/modules/slot/controller"

	"github.com/labstack/echo/v4"
)

type SlotRouter struct {
	controller *controller.SlotController
}

func NewSlotRouter(controller *controller.SlotController) *SlotRouter {
	return &SlotRouter{controller: controller}
}

func (r *SlotRouter) Register(private *echo.Group, mw *middleware.Middleware) {
	events := private.Group("/events", mw.AuthMiddleware())
	events.POST("", r.controller.CreateSlot)
	events.GET("", r.controller.ListMySlots)
	events.GET("/:id", r.controller.GetSlot)
	events.PUT("/:id", r.controller.UpdateSlot)
	events.PATCH("/:id/status", r.controller.UpdateSlotStatus)
	events.DELETE("/:id", r.controller.DeleteSlot)

	private.GET("/swappable-slots", r.controller.ListSwappableSlots, mw.AuthMiddleware())
}
