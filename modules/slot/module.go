package slot

import (
	"slot-swapper/core/database"
	"slot-swapper/core/middleware"
	"slot-swapper/modules/slot/controller"
	"slot-swapper/modules/slot/repository"
	"slot-swapper/modules/slot/router"
	"slot-swapper/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// Init mounts the slot routes under private and returns the registry the swap engine
// drives.
func Init(private *echo.Group, repo repository.SlotRepositoryInterface, transactor database.Transactor, users service.IdentityResolver, mw *middleware.Middleware) *service.SlotRegistry {
	registry := service.NewSlotRegistry(repo, transactor)
	svc := service.NewSlotService(repo, registry, transactor, users)
	ctrl := controller.NewSlotController(svc)

	router.NewSlotRouter(ctrl).Register(private, mw)

	return registry
}
