package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	Title     string    `json:"title" validate:"required,max=200"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Status    string    `json:"status" validate:"omitempty,oneof=BUSY SWAPPABLE"`
}

type UpdateSlotRequest struct {
	Title     string    `json:"title" validate:"required,max=200"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Status    string    `json:"status"`
}

type UpdateSlotStatusRequest struct {
	Status string `json:"status"`
}

type SlotResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	Owner         uuid.UUID `json:"owner"`
	OwnerUsername string    `json:"owner_username"`
	OwnerName     string    `json:"owner_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PaginatedSlotResponse struct {
	Items      []SlotResponse `json:"items"`
	TotalItems int            `json:"total_items"`
	PageNumber int            `json:"page_number"`
	PageSize   int            `json:"page_size"`
}
