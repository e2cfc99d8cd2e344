package dto

import (
	slotDto "slot-swapper/modules/slot/dto"
	"time"

	"github.com/google/uuid"
)

type ProposeSwapRequest struct {
	MySlotID    string `json:"mySlotId" validate:"required,uuid"`
	TheirSlotID string `json:"theirSlotId" validate:"required,uuid"`
}

type RespondSwapRequest struct {
	Accept *bool `json:"accept"`
}

type SwapRequestResponse struct {
	ID                   uuid.UUID             `json:"id"`
	Requester            uuid.UUID             `json:"requester"`
	Recipient            uuid.UUID             `json:"recipient"`
	RequesterUsername    string                `json:"requester_username"`
	RecipientUsername    string                `json:"recipient_username"`
	RequesterSlot        uuid.UUID             `json:"requester_slot"`
	RecipientSlot        uuid.UUID             `json:"recipient_slot"`
	RequesterSlotDetails *slotDto.SlotResponse `json:"requester_slot_details"`
	RecipientSlotDetails *slotDto.SlotResponse `json:"recipient_slot_details"`
	Status               string                `json:"status"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

type SwapListsResponse struct {
	Incoming []SwapRequestResponse `json:"incoming"`
	Outgoing []SwapRequestResponse `json:"outgoing"`
}
