package service

import (
	"context"
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"slot-swapper/core/logger"
	"slot-swapper/core/utils"
	slotEntity "slot-swapper/modules/slot/entity"
	slotMapper "slot-swapper/modules/slot/mapper"
	slotService "slot-swapper/modules/slot/service"
	"slot-swapper/modules/swap/dto"
	"slot-swapper/modules/swap/entity"
	"slot-swapper/modules/swap/mapper"

	"github.com/google/uuid"
)

type SwapServiceInterface interface {
	ProposeSwap(ctx context.Context, identity *coreEntity.Identity, req *dto.ProposeSwapRequest) (*dto.SwapRequestResponse, *errors.AppError)
	RespondToSwap(ctx context.Context, identity *coreEntity.Identity, requestID uuid.UUID, req *dto.RespondSwapRequest) (*dto.SwapRequestResponse, *errors.AppError)
	ListSwapRequests(ctx context.Context, identity *coreEntity.Identity) (*dto.SwapListsResponse, *errors.AppError)
}

// SwapService is the HTTP-facing side of the engine: it parses ids and decorates
// requests with usernames and slot details.
type SwapService struct {
	engine *Engine
	slots  slotService.Registry
	users  slotService.IdentityResolver
}

func NewSwapService(engine *Engine, slots slotService.Registry, users slotService.IdentityResolver) *SwapService {
	return &SwapService{engine: engine, slots: slots, users: users}
}

func parseSlotID(raw string) (uuid.UUID, *errors.AppError) {
	id := utils.ToUUID(raw)
	if id == uuid.Nil {
		return uuid.Nil, errors.NewAppError(errors.ErrInvalidInput, "malformed slot id", nil)
	}
	return id, nil
}

func (s *SwapService) ProposeSwap(ctx context.Context, identity *coreEntity.Identity, req *dto.ProposeSwapRequest) (*dto.SwapRequestResponse, *errors.AppError) {
	if req.MySlotID == "" || req.TheirSlotID == "" {
		return nil, errors.NewAppError(errors.ErrMissingInput, "both slot ids are required", nil)
	}
	mySlotID, appErr := parseSlotID(req.MySlotID)
	if appErr != nil {
		return nil, appErr
	}
	theirSlotID, appErr := parseSlotID(req.TheirSlotID)
	if appErr != nil {
		return nil, appErr
	}

	created, appErr := s.engine.Propose(ctx, identity, mySlotID, theirSlotID)
	if appErr != nil {
		return nil, appErr
	}
	resp := s.decorate(ctx, *created)
	return &resp[0], nil
}

func (s *SwapService) RespondToSwap(ctx context.Context, identity *coreEntity.Identity, requestID uuid.UUID, req *dto.RespondSwapRequest) (*dto.SwapRequestResponse, *errors.AppError) {
	answered, appErr := s.engine.Respond(ctx, identity, requestID, req.Accept)
	if appErr != nil {
		return nil, appErr
	}
	resp := s.decorate(ctx, *answered)
	return &resp[0], nil
}

func (s *SwapService) ListSwapRequests(ctx context.Context, identity *coreEntity.Identity) (*dto.SwapListsResponse, *errors.AppError) {
	incoming, outgoing, appErr := s.engine.ListForUser(ctx, identity)
	if appErr != nil {
		return nil, appErr
	}

	all := s.decorate(ctx, append(append([]entity.SwapRequest{}, incoming...), outgoing...)...)
	return &dto.SwapListsResponse{
		Incoming: all[:len(incoming)],
		Outgoing: all[len(incoming):],
	}, nil
}

// decorate maps reqs to responses. Lookup failures only cost the decoration.
func (s *SwapService) decorate(ctx context.Context, reqs ...entity.SwapRequest) []dto.SwapRequestResponse {
	userIDs, slotIDs := mapper.UserAndSlotIDs(reqs...)

	slots, err := s.slots.GetSlots(ctx, slotIDs)
	if err != nil {
		logger.Warn("SwapService:decorate:GetSlots:Error", "error", err)
		slots = map[uuid.UUID]slotEntity.Slot{}
	}
	current := make([]slotEntity.Slot, 0, len(slots))
	for _, slot := range slots {
		current = append(current, slot)
	}
	userIDs = append(userIDs, slotMapper.OwnerIDs(current...)...)

	users, err := s.users.ResolveIdentities(ctx, userIDs)
	if err != nil {
		logger.Warn("SwapService:decorate:ResolveIdentities:Error", "error", err)
		users = nil
	}
	return mapper.ToSwapRequestDTOs(reqs, users, slots)
}
