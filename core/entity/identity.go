package entity

import "github.com/google/uuid"

// Identity is the authenticated caller every private operation runs as.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
}
