package swap

import (
	"slot-swapper/core/database"
	"slot-swapper/core/middleware"
	slotService "slot-swapper/modules/slot/service"
	"slot-swapper/modules/swap/controller"
	"slot-swapper/modules/swap/repository"
	"slot-swapper/modules/swap/router"
	"slot-swapper/modules/swap/service"

	"github.com/labstack/echo/v4"
)

func Init(
	private *echo.Group,
	repo repository.SwapRepositoryInterface,
	slots slotService.Registry,
	transactor database.Transactor,
	notifier service.Notifier,
	users slotService.IdentityResolver,
	mw *middleware.Middleware,
	limiter *middleware.RateLimiter,
) *service.Engine {
	engine := service.NewEngine(repo, slots, transactor, notifier)
	svc := service.NewSwapService(engine, slots, users)
	ctrl := controller.NewSwapController(svc)

	router.NewSwapRouter(ctrl).Register(private, mw, limiter)

	return engine
}
