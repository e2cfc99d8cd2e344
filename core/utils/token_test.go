package utils

import (
	"errors"
	"slot-swapper/core/config"
	"slot-swapper/core/constants"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func setupJWT(t *testing.T, ttl time.Duration) {
	t.Helper()
	config.Set(&config.Config{JWT: config.JWTConfig{
		Secret:     "test-secret",
		Issuer:     "slot-swapper-test",
		AccessTTL:  ttl,
		RefreshTTL: ttl,
	}})
}

func TestGenerateAndValidateToken(t *testing.T) {
	setupJWT(t, time.Minute)
	userID := uuid.New()

	token, err := GenerateToken(userID, "alice", constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateAndParseToken(token)
	if err != nil {
		t.Fatalf("ValidateAndParseToken: %v", err)
	}
	if claims.UserID != userID || claims.Username != "alice" || claims.Scope != constants.ScopeTokenAccess {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	setupJWT(t, -time.Minute)

	token, err := GenerateToken(uuid.New(), "bob", constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ValidateAndParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateToken_PastExpiry(t *testing.T) {
	setupJWT(t, time.Minute)
	past := time.Now().Add(-time.Hour)
	claims := TokenClaims{
		UserID: uuid.New(),
		Scope:  constants.ScopeTokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := ValidateAndParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	setupJWT(t, time.Minute)
	claims := TokenClaims{UserID: uuid.New(), Scope: constants.ScopeTokenAccess}
	forged, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))

	if _, err := ValidateAndParseToken(forged); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	setupJWT(t, time.Minute)
	if _, err := ValidateAndParseToken("not-a-token"); err == nil {
		t.Fatal("expected error")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !ComparePassword(hash, "s3cret!") {
		t.Error("expected password to match")
	}
	if ComparePassword(hash, "wrong") {
		t.Error("expected mismatch")
	}
}
