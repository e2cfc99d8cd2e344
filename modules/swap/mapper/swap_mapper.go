package mapper

import (
	coreEntity "slot-swapper/core/entity"
	slotEntity "slot-swapper/modules/slot/entity"
	slotMapper "slot-swapper/modules/slot/mapper"
	"slot-swapper/modules/swap/dto"
	"slot-swapper/modules/swap/entity"

	"github.com/google/uuid"
)

// ToSwapRequestDTO fills usernames and slot details from the lookups when present.
func ToSwapRequestDTO(req *entity.SwapRequest, users map[uuid.UUID]coreEntity.Identity, slots map[uuid.UUID]slotEntity.Slot) dto.SwapRequestResponse {
	resp := dto.SwapRequestResponse{
		ID:            req.ID,
		Requester:     req.RequesterID,
		Recipient:     req.RecipientID,
		RequesterSlot: req.RequesterSlotID,
		RecipientSlot: req.RecipientSlotID,
		Status:        string(req.Status),
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
	if u, ok := users[req.RequesterID]; ok {
		resp.RequesterUsername = u.Username
	}
	if u, ok := users[req.RecipientID]; ok {
		resp.RecipientUsername = u.Username
	}
	if s, ok := slots[req.RequesterSlotID]; ok {
		resp.RequesterSlotDetails = slotMapper.ToSlotDTO(&s, users)
	}
	if s, ok := slots[req.RecipientSlotID]; ok {
		resp.RecipientSlotDetails = slotMapper.ToSlotDTO(&s, users)
	}
	return resp
}

func ToSwapRequestDTOs(reqs []entity.SwapRequest, users map[uuid.UUID]coreEntity.Identity, slots map[uuid.UUID]slotEntity.Slot) []dto.SwapRequestResponse {
	out := make([]dto.SwapRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, ToSwapRequestDTO(&reqs[i], users, slots))
	}
	return out
}

// UserAndSlotIDs collects the user and slot ids the responses for reqs need, current slot
// owners included.
func UserAndSlotIDs(reqs ...entity.SwapRequest) (users []uuid.UUID, slots []uuid.UUID) {
	seenUsers := map[uuid.UUID]struct{}{}
	seenSlots := map[uuid.UUID]struct{}{}
	for i := range reqs {
		for _, id := range reqs[i].UserIDs() {
			if _, ok := seenUsers[id]; !ok {
				seenUsers[id] = struct{}{}
				users = append(users, id)
			}
		}
		for _, id := range reqs[i].SlotIDs() {
			if _, ok := seenSlots[id]; !ok {
				seenSlots[id] = struct{}{}
				slots = append(slots, id)
			}
		}
	}
	return users, slots
}
