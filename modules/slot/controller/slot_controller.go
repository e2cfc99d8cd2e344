package controller

import (
	"slot-swapper/core/controller"
	"slot-swapper/core/errors"
	"slot-swapper/core/middleware"
	"slot-swapper/core/params"
	"slot-swapper/core/utils"
	"slot-swapper/modules/slot/dto"
	"slot-swapper/modules/slot/service"
	"slot-swapper/modules/slot/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SlotController struct {
	service service.SlotServiceInterface
	controller.BaseController
}

func NewSlotController(service service.SlotServiceInterface) *SlotController {
	return &SlotController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

func parseSlotID(c echo.Context) (uuid.UUID, bool) {
	id := utils.ToUUID(c.Param("id"))
	return id, id != uuid.Nil
}

// CreateSlot
// @Summary Create a slot owned by the caller
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSlotRequest true "Slot"
// @Success 201 {object} dto.SlotResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/events [post]
func (h *SlotController) CreateSlot(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.CreateSlotRequest)
	if err := c.Bind(req); err != nil {
		return h.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	validationResult := validator.ValidateCreateSlotRequest(req)
	if validationResult.HasError() {
		return h.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	slot, err := h.service.CreateSlot(c.Request().Context(), identity, req)
	if err != nil {
		return h.ErrorResponse(c, err)
	}
	return h.CreatedResponse(c, slot, "Slot created successfully")
}

// ListMySlots
// @Summary List the caller's slots ordered by start time
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param search query string false "Title filter"
// @Success 200 {object} dto.PaginatedSlotResponse
// @Router /private/events [get]
func (h *SlotController) ListMySlots(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	result, err := h.service.ListMySlots(c.Request().Context(), identity, *params.NewQueryParams(c))
	if err != nil {
		return h.ErrorResponse(c, err)
	}
	return h.SuccessResponse(c, result, "Slots retrieved successfully")
}

func (h *SlotController) GetSlot(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, ok := parseSlotID(c)
	if !ok {
		return h.NotFound(errors.ErrNotFound, "slot not found", nil)
	}

	slot, err := h.service.GetSlot(c.Request().Context(), identity, id)
	if err != nil {
		return h.ErrorResponse(c, err)
	}
	return h.SuccessResponse(c, slot, "Slot retrieved successfully")
}

// UpdateSlot
// @Summary Replace title and times of an owned slot
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param request body dto.UpdateSlotRequest true "Slot"
// @Success 200 {object} dto.SlotResponse
// @Failure 404 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/events/{id} [put]
func (h *SlotController) UpdateSlot(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, ok := parseSlotID(c)
	if !ok {
		return h.NotFound(errors.ErrNotFound, "slot not found", nil)
	}

	req := new(dto.UpdateSlotRequest)
	if err := c.Bind(req); err != nil {
		return h.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	validationResult := validator.ValidateUpdateSlotRequest(req)
	if validationResult.HasError() {
		return h.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	slot, err := h.service.UpdateSlot(c.Request().Context(), identity, id, req)
	if err != nil {
		return h.ErrorResponse(c, err)
	}
	return h.SuccessResponse(c, slot, "Slot updated successfully")
}

// UpdateSlotStatus
// @Summary Toggle an owned slot between BUSY and SWAPPABLE
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param request body dto.UpdateSlotStatusRequest true "Status"
// @Success 200 {object} dto.SlotResponse
// @Failure 400 {object} controller.ErrorResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/events/{id}/status [patch]
func (h *SlotController) UpdateSlotStatus(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, ok := parseSlotID(c)
	if !ok {
		return h.NotFound(errors.ErrNotFound, "slot not found", nil)
	}

	req := new(dto.UpdateSlotStatusRequest)
	if err := c.Bind(req); err != nil {
		return h.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	slot, err := h.service.UpdateSlotStatus(c.Request().Context(), identity, id, req.Status)
	if err != nil {
		return h.ErrorResponse(c, err)
	}
	return h.SuccessResponse(c, slot, "Slot status updated successfully")
}

func (h *SlotController) DeleteSlot(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, ok := parseSlotID(c)
	if !ok {
		return h.NotFound(errors.ErrNotFound, "slot not found", nil)
	}

	if err := h.service.DeleteSlot(c.Request().Context(), identity, id); err != nil {
		return h.ErrorResponse(c, err)
	}
	return h.SuccessResponse(c, nil, "Slot deleted successfully")
}

// ListSwappableSlots
// @Summary Slots other users have marked swappable
// @Tags Swap
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.SlotResponse
// @Router /private/swappable-slots [get]
func (h *SlotController) ListSwappableSlots(c echo.Context) error {
	identity := middleware.IdentityFromContext(c)
	if identity == nil {
		return h.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	slots, err := h.service.ListSwappableSlots(c.Request().Context(), identity)
	if err != nil {
		return h.ErrorResponse(c, err)
	}
	return h.SuccessResponse(c, slots, "Swappable slots retrieved successfully")
}
