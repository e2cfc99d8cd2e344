package controller

import (
	"slot-swapper/core/controller"
	"slot-swapper/core/errors"
	"slot-swapper/core/middleware"
	"slot-swapper/core/utils"
	"slot-swapper/modules/swap/dto"
	"slot-swapper/modules/swap/service"
	"slot-swapper/modules/swap/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SwapController struct {
	service service.SwapServiceInterface
	controller.BaseController
}

func NewSwapController(service service.SwapServiceInterface) *SwapController {
	return &SwapController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// ProposeSwap
// @Summary Offer one of your swappable slots for another user's swappable slot
// @Tags Swap
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ProposeSwapRequest true "Slots"
// @Success 201 {object} dto.SwapRequestResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/swap-request [post]
func (h *SwapController) ProposeSwap(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.ProposeSwapRequest)
	if err := c.Bind(req); err != nil {
		return h.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	validationResult := validator.ValidateProposeSwapRequest(req)
	if validationResult.HasError() {
		if validationResult.Missing() {
			return h.BadRequest(errors.ErrMissingInput, "Both slot ids are required", validationResult)
		}
		return h.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	result, appErr := h.service.ProposeSwap(c.Request().Context(), identity, req)
	if appErr != nil {
		return h.ErrorResponse(c, appErr)
	}
	return h.CreatedResponse(c, result, "Swap request created successfully")
}

// RespondToSwap
// @Summary Accept or reject a pending swap request addressed to you
// @Tags Swap
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Swap request ID"
// @Param request body dto.RespondSwapRequest true "Decision"
// @Success 200 {object} dto.SwapRequestResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /private/swap-response/{id} [post]
func (h *SwapController) RespondToSwap(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	requestID := utils.ToUUID(c.Param("id"))
	if requestID == uuid.Nil {
		return h.NotFound(errors.ErrNotFound, "swap request not found", nil)
	}

	req := new(dto.RespondSwapRequest)
	if err := c.Bind(req); err != nil {
		return h.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	result, appErr := h.service.RespondToSwap(c.Request().Context(), identity, requestID, req)
	if appErr != nil {
		return h.ErrorResponse(c, appErr)
	}
	return h.SuccessResponse(c, result, "Swap request answered successfully")
}

func (h *SwapController) ListSwapRequests(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, appErr := h.service.ListSwapRequests(c.Request().Context(), identity)
	if appErr != nil {
		return h.ErrorResponse(c, appErr)
	}
	return h.SuccessResponse(c, result, "Swap requests retrieved successfully")
}
