package utils

import "github.com/google/uuid"

// ToUUID parses s and returns uuid.Nil for anything malformed.
func ToUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
