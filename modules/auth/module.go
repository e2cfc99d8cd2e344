package auth

import (
	"slot-swapper/core/cache"
	"slot-swapper/core/middleware"
	"slot-swapper/modules/auth/controller"
	"slot-swapper/modules/auth/repository"
	"slot-swapper/modules/auth/router"
	"slot-swapper/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init mounts /api/v1/auth and returns the service together with the middleware every
// private route uses.
func Init(e *echo.Echo, repo repository.AuthRepositoryInterface, cache cache.Cache, limiter *middleware.RateLimiter) (*service.AuthService, *middleware.Middleware) {
	authService := service.NewAuthService(repo, cache)
	authController := controller.NewAuthController(authService)
	mw := middleware.NewMiddleware(authService)

	router.NewAuthRouter(*authController).Setup(e, mw, limiter)

	return authService, mw
}
