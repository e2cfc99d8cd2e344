package utils

import (
	"errors"
	"fmt"
	"slot-swapper/core/config"
	"slot-swapper/core/constants"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type TokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Scope    string    `json:"scope"`
	jwt.RegisteredClaims
}

func jwtConfig() (config.JWTConfig, error) {
	cfg, ok := config.GetSafe()
	if !ok || cfg.JWT.Secret == "" {
		return config.JWTConfig{}, errors.New("jwt secret not configured")
	}
	return cfg.JWT, nil
}

// GenerateToken signs an HS256 token for the user. scope is ScopeTokenAccess or ScopeTokenRefresh.
func GenerateToken(userID uuid.UUID, username string, scope string) (string, error) {
	cfg, err := jwtConfig()
	if err != nil {
		return "", err
	}

	ttl := cfg.AccessTTL
	if scope == constants.ScopeTokenRefresh {
		ttl = cfg.RefreshTTL
	}
	if ttl == 0 {
		ttl = time.Hour
	}

	now := time.Now()
	claims := TokenClaims{
		UserID:   userID,
		Username: username,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

func ValidateAndParseToken(tokenString string) (*TokenClaims, error) {
	cfg, err := jwtConfig()
	if err != nil {
		return nil, err
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
