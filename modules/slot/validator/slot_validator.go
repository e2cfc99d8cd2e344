package validator

import (
	"slot-swapper/core/validator"
	"slot-swapper/modules/slot/dto"
	"strings"
)

func ValidateCreateSlotRequest(req *dto.CreateSlotRequest) *validator.ValidationResult {
	req.Title = strings.TrimSpace(req.Title)
	return validator.Struct(req)
}

func ValidateUpdateSlotRequest(req *dto.UpdateSlotRequest) *validator.ValidationResult {
	req.Title = strings.TrimSpace(req.Title)
	return validator.Struct(req)
}
