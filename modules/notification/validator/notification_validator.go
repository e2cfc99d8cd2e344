package validator

import (
	"slot-swapper/core/validator"
	"slot-swapper/modules/notification/dto"
)

func ValidateMarkAsReadRequest(req *dto.MarkAsReadRequest) *validator.ValidationResult {
	return validator.Struct(req)
}
