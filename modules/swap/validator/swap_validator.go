package validator

import (
	"slot-swapper/core/validator"
	"slot-swapper/modules/swap/dto"
	"strings"
)

func ValidateProposeSwapRequest(req *dto.ProposeSwapRequest) *validator.ValidationResult {
	req.MySlotID = strings.TrimSpace(req.MySlotID)
	req.TheirSlotID = strings.TrimSpace(req.TheirSlotID)
	return validator.Struct(req)
}
