package validator

import (
	"slot-swapper/core/validator"
	"slot-swapper/modules/auth/dto"
	"strings"
)

func ValidateRegisterRequest(req *dto.RegisterRequest) *validator.ValidationResult {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	result := validator.Struct(req)
	if strings.ContainsAny(req.Username, " \t\n") {
		result.Add("username", "must not contain whitespace")
	}
	return result
}

func ValidateLoginRequest(req *dto.LoginRequest) *validator.ValidationResult {
	req.Username = strings.TrimSpace(req.Username)
	return validator.Struct(req)
}

func ValidateRefreshTokenRequest(req *dto.RefreshTokenRequest) *validator.ValidationResult {
	return validator.Struct(req)
}
