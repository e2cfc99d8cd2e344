package router

import (
	"slot-swapper/core/middleware"
	"slot-swapper/modules/swap/controller"

	"github.com/labstack/echo/v4"
)

type SwapRouter struct {
	controller *controller.SwapController
}

func NewSwapRouter(controller *controller.SwapController) *SwapRouter {
	return &SwapRouter{controller: controller}
}

// Register mounts the swap routes. Commands are rate limited per caller; the limiter
// runs after authentication so it keys on the user.
func (r *SwapRouter) Register(private *echo.Group, mw *middleware.Middleware, limiter *middleware.RateLimiter) {
	auth := mw.AuthMiddleware()
	limit := middleware.RateLimitMiddleware(limiter)

	private.POST("/swap-request", r.controller.ProposeSwap, auth, limit)
	private.POST("/swap-response/:id", r.controller.RespondToSwap, auth, limit)
	private.GET("/swap-requests", r.controller.ListSwapRequests, auth)
}
