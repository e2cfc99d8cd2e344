package router

import (
	"slot-swapper/core/middleware"
	"slot-swapper/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	AuthController controller.AuthController
}

func NewAuthRouter(authController controller.AuthController) *AuthRouter {
	return &AuthRouter{AuthController: authController}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware, limiter *middleware.RateLimiter) {
	v1 := e.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.POST("/signup", r.AuthController.Register, middleware.RateLimitMiddleware(limiter))
	authRoutes.POST("/login", r.AuthController.Login, middleware.RateLimitMiddleware(limiter))
	authRoutes.POST("/refresh", r.AuthController.RefreshToken)

	authRoutes.POST("/logout", r.AuthController.Logout, mw.AuthMiddleware())
	authRoutes.GET("/me", r.AuthController.GetMe, mw.AuthMiddleware())
}
