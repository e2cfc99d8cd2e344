package mapper

import (
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/modules/auth/dto"
	"slot-swapper/modules/auth/entity"
)

func ToUserDTO(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

func ToIdentity(user *entity.User) *coreEntity.Identity {
	if user == nil {
		return nil
	}
	return &coreEntity.Identity{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName(),
	}
}
