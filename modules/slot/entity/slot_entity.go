package entity

import (
	"slot-swapper/core/entity"
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	StatusBusy        SlotStatus = "BUSY"
	StatusSwappable   SlotStatus = "SWAPPABLE"
	StatusSwapPending SlotStatus = "SWAP_PENDING"
)

func ParseStatus(s string) (SlotStatus, bool) {
	status := SlotStatus(s)
	return status, status.Valid()
}

func (s SlotStatus) Valid() bool {
	switch s {
	case StatusBusy, StatusSwappable, StatusSwapPending:
		return true
	}
	return false
}

type Slot struct {
	OwnerID   uuid.UUID  `db:"owner_id" json:"owner"`
	Title     string     `db:"title" json:"title"`
	StartTime time.Time  `db:"start_time" json:"start_time"`
	EndTime   time.Time  `db:"end_time" json:"end_time"`
	Status    SlotStatus `db:"status" json:"status"`
	Version   int64      `db:"version" json:"-"`
	entity.BaseEntity
}

type PaginatedSlotEntity = entity.Pagination[Slot]

// Transition describes what setting status `to` on a slot in status `from` does.
type Transition int

const (
	TransitionDenied Transition = iota
	TransitionNoop
	TransitionAllowed
)

var transitions = map[SlotStatus]map[SlotStatus]Transition{
	StatusBusy: {
		StatusBusy:        TransitionNoop,
		StatusSwappable:   TransitionAllowed,
		StatusSwapPending: TransitionDenied,
	},
	StatusSwappable: {
		StatusBusy:        TransitionAllowed,
		StatusSwappable:   TransitionNoop,
		StatusSwapPending: TransitionAllowed,
	},
	StatusSwapPending: {
		StatusBusy:        TransitionAllowed,
		StatusSwappable:   TransitionAllowed,
		StatusSwapPending: TransitionDenied,
	},
}

func CheckTransition(from, to SlotStatus) Transition {
	return transitions[from][to]
}
