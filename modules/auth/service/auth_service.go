package service

import (
	"context"
	stderrors "errors"
	"slot-swapper/core/cache"
	"slot-swapper/core/constants"
	coreEntity "slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"slot-swapper/core/logger"
	"slot-swapper/core/utils"
	"slot-swapper/modules/auth/dto"
	"slot-swapper/modules/auth/entity"
	"slot-swapper/modules/auth/mapper"
	"slot-swapper/modules/auth/repository"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, requestData *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, requestData *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	RefreshToken(ctx context.Context, token string) (*dto.RefreshTokenResponse, *errors.AppError)
	GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	Authenticate(ctx context.Context, credential string) (*coreEntity.Identity, *errors.AppError)
	ResolveIdentities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]coreEntity.Identity, error)
}

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache) *AuthService {
	return &AuthService{repo: repo, cache: cache}
}

func (service *AuthService) Register(ctx context.Context, requestData *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	existing, err := service.repo.GetUserByUsername(ctx, requestData.Username)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check username", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "username already exists", nil)
	}

	hashedPassword, err := utils.HashPassword(requestData.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	created, err := service.repo.CreateUser(ctx, &entity.User{
		Username:     requestData.Username,
		Email:        requestData.Email,
		PasswordHash: hashedPassword,
		FirstName:    requestData.FirstName,
		LastName:     requestData.LastName,
	})
	if err != nil {
		// lost a race against a concurrent signup
		if stderrors.Is(err, repository.ErrUsernameTaken) {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "username already exists", nil)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	logger.Info("AuthService:Register:Success", "user_id", created.ID, "username", created.Username)
	return service.issueTokens(created)
}

// Login checks the password and counts failures per username; after MaxLoginAttempts
// the username is locked for BlockDuration.
func (service *AuthService) Login(ctx context.Context, requestData *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	loginKey := requestData.Username

	blocked, err := service.cache.IsLoginBlocked(ctx, loginKey)
	if err != nil {
		logger.Error("AuthService:Login:IsLoginBlocked:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get login attempt", err)
	}
	if blocked {
		if errExpire := service.cache.Expire(ctx, loginKey, constants.BlockDuration); errExpire != nil {
			logger.Error("AuthService:Login:Expire:Error", "error", errExpire)
		}
		return nil, errors.NewAppError(errors.ErrTooManyRequests, "too many failed attempts, try again later", nil)
	}

	user, err := service.repo.GetUserByUsername(ctx, requestData.Username)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}

	if user == nil || !utils.ComparePassword(user.PasswordHash, requestData.Password) {
		if errIncrement := service.cache.IncrementLoginAttempt(ctx, loginKey); errIncrement != nil {
			logger.Error("AuthService:Login:IncrementLoginAttempt:Error", "error", errIncrement)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid username or password", nil)
	}

	if errDel := service.cache.Del(ctx, loginKey); errDel != nil {
		logger.Error("AuthService:Login:Del:Error", "error", errDel)
	}

	return service.issueTokens(user)
}

func (service *AuthService) issueTokens(user *entity.User) (*dto.AuthResponse, *errors.AppError) {
	accessToken, err := utils.GenerateToken(user.ID, user.Username, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateToken(user.ID, user.Username, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate refresh token", err)
	}

	return &dto.AuthResponse{
		User:         mapper.ToUserDTO(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (service *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	if err := service.cache.AddToTokenBlacklist(ctx, token); err != nil {
		logger.Error("AuthService:Logout:AddToBlacklist:Error", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to add token to blacklist", err)
	}
	return nil
}

// RefreshToken exchanges a refresh token for a new pair. The old refresh token is
// blacklisted so it cannot be replayed.
func (service *AuthService) RefreshToken(ctx context.Context, token string) (*dto.RefreshTokenResponse, *errors.AppError) {
	claims, appErr := service.verify(ctx, token, constants.ScopeTokenRefresh)
	if appErr != nil {
		return nil, appErr
	}

	user, err := service.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user no longer exists", nil)
	}

	pair, appErr := service.issueTokens(user)
	if appErr != nil {
		return nil, appErr
	}

	if errAdd := service.cache.AddToTokenBlacklist(ctx, token); errAdd != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to add refresh token to blacklist", errAdd)
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (service *AuthService) GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return mapper.ToUserDTO(user), nil
}

// Authenticate resolves an access token to the identity of a user that still exists.
func (service *AuthService) Authenticate(ctx context.Context, credential string) (*coreEntity.Identity, *errors.AppError) {
	if credential == "" {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "missing credential", nil)
	}

	claims, appErr := service.verify(ctx, credential, constants.ScopeTokenAccess)
	if appErr != nil {
		return nil, appErr
	}

	user, err := service.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user no longer exists", nil)
	}
	return mapper.ToIdentity(user), nil
}

func (service *AuthService) verify(ctx context.Context, token string, scope string) (*utils.TokenClaims, *errors.AppError) {
	blacklisted, err := service.cache.IsTokenBlacklisted(ctx, token)
	if err != nil {
		logger.Error("AuthService:verify:IsTokenBlacklisted:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check token blacklist", err)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "token is revoked", nil)
	}

	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		if stderrors.Is(err, utils.ErrTokenExpired) {
			return nil, errors.NewAppError(errors.ErrTokenExpired, "token expired", nil)
		}
		return nil, errors.NewAppError(errors.ErrInvalidTokenFormat, "invalid token", nil)
	}
	if claims.Scope != scope {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "wrong token scope", nil)
	}
	return claims, nil
}

// ResolveIdentities looks up the given users. Unknown ids are absent from the result.
func (service *AuthService) ResolveIdentities(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]coreEntity.Identity, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := service.repo.GetUsersByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]coreEntity.Identity, len(users))
	for i := range users {
		out[users[i].ID] = *mapper.ToIdentity(&users[i])
	}
	return out, nil
}
