package mapper

import (
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/modules/slot/dto"
	"slot-swapper/modules/slot/entity"

	"github.com/google/uuid"
)

// ToSlotDTO fills the owner fields from owners when the owner is known.
func ToSlotDTO(slot *entity.Slot, owners map[uuid.UUID]coreEntity.Identity) *dto.SlotResponse {
	if slot == nil {
		return nil
	}
	resp := &dto.SlotResponse{
		ID:        slot.ID,
		Title:     slot.Title,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Status:    string(slot.Status),
		Owner:     slot.OwnerID,
		CreatedAt: slot.CreatedAt,
		UpdatedAt: slot.UpdatedAt,
	}
	if owner, ok := owners[slot.OwnerID]; ok {
		resp.OwnerUsername = owner.Username
		resp.OwnerName = owner.DisplayName
	}
	return resp
}

func ToSlotDTOs(slots []entity.Slot, owners map[uuid.UUID]coreEntity.Identity) []dto.SlotResponse {
	out := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, *ToSlotDTO(&slots[i], owners))
	}
	return out
}

func OwnerIDs(slots ...entity.Slot) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.OwnerID)
	}
	return ids
}
