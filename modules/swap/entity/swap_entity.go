package entity

import (
	"slot-swapper/core/entity"

	"github.com/google/uuid"
)

type SwapStatus string

const (
	SwapPending  SwapStatus = "PENDING"
	SwapAccepted SwapStatus = "ACCEPTED"
	SwapRejected SwapStatus = "REJECTED"
)

// SwapRequest is a proposal to exchange RequesterSlotID for RecipientSlotID. Only
// Status ever changes, and only away from PENDING.
type SwapRequest struct {
	RequesterID     uuid.UUID  `db:"requester_id" json:"requester"`
	RecipientID     uuid.UUID  `db:"recipient_id" json:"recipient"`
	RequesterSlotID uuid.UUID  `db:"requester_slot_id" json:"requester_slot"`
	RecipientSlotID uuid.UUID  `db:"recipient_slot_id" json:"recipient_slot"`
	Status          SwapStatus `db:"status" json:"status"`
	entity.BaseEntity
}

// SlotIDs returns the requester's slot first.
func (r *SwapRequest) SlotIDs() []uuid.UUID {
	return []uuid.UUID{r.RequesterSlotID, r.RecipientSlotID}
}

func (r *SwapRequest) UserIDs() []uuid.UUID {
	return []uuid.UUID{r.RequesterID, r.RecipientID}
}
