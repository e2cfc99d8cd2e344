package service

import (
	"context"
	"net/http"
	"slot-swapper/core/cache"
	"slot-swapper/core/config"
	"slot-swapper/core/constants"
	"slot-swapper/core/errors"
	"slot-swapper/core/utils"
	"slot-swapper/modules/auth/dto"
	"slot-swapper/modules/auth/repository"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	config.Set(&config.Config{JWT: config.JWTConfig{
		Secret:     "auth-test-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}})
	return NewAuthService(repository.NewMemoryAuthRepository(), cache.NewMemoryCache())
}

func register(t *testing.T, s *AuthService, username string) *dto.AuthResponse {
	t.Helper()
	resp, err := s.Register(context.Background(), &dto.RegisterRequest{
		Username:  username,
		Password:  "password123",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return resp
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s := newTestService(t)
	register(t, s, "ada")

	_, err := s.Register(context.Background(), &dto.RegisterRequest{Username: "ada", Password: "password123"})
	if err == nil || err.Code != errors.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)
	resp := register(t, s, "ada")

	identity, err := s.Authenticate(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if identity.ID != resp.User.ID || identity.Username != "ada" || identity.DisplayName != "Ada Lovelace" {
		t.Errorf("unexpected identity %+v", identity)
	}

	if _, err := s.Authenticate(context.Background(), resp.RefreshToken); err == nil {
		t.Error("refresh token must not authenticate requests")
	}
	if _, err := s.Authenticate(context.Background(), ""); err == nil || err.Code.Kind() != errors.KindUnauthenticated {
		t.Errorf("expected Unauthenticated for empty credential, got %v", err)
	}
	if _, err := s.Authenticate(context.Background(), "garbage"); err == nil || err.Code.Kind() != errors.KindUnauthenticated {
		t.Errorf("expected Unauthenticated for garbage, got %v", err)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	s := newTestService(t)
	resp := register(t, s, "ada")

	config.Set(&config.Config{JWT: config.JWTConfig{
		Secret:     "auth-test-secret",
		AccessTTL:  -time.Minute,
		RefreshTTL: time.Hour,
	}})
	token, genErr := utils.GenerateToken(resp.User.ID, "ada", constants.ScopeTokenAccess)
	if genErr != nil {
		t.Fatalf("GenerateToken: %v", genErr)
	}

	_, err := s.Authenticate(context.Background(), token)
	if err == nil || err.Code != errors.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if err.Code.HTTPStatus() != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", err.Code.HTTPStatus())
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	s := newTestService(t)
	resp := register(t, s, "ada")

	if err := s.Logout(context.Background(), resp.AccessToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := s.Authenticate(context.Background(), resp.AccessToken); err == nil {
		t.Fatal("revoked token must not authenticate")
	}
}

func TestLogin_BlocksAfterRepeatedFailures(t *testing.T) {
	s := newTestService(t)
	register(t, s, "ada")
	ctx := context.Background()

	for i := 0; i < constants.MaxLoginAttempts; i++ {
		_, err := s.Login(ctx, &dto.LoginRequest{Username: "ada", Password: "wrong"})
		if err == nil || err.Code != errors.ErrUnauthorized {
			t.Fatalf("attempt %d: expected ErrUnauthorized, got %v", i, err)
		}
	}

	_, err := s.Login(ctx, &dto.LoginRequest{Username: "ada", Password: "password123"})
	if err == nil || err.Code != errors.ErrTooManyRequests {
		t.Fatalf("expected ErrTooManyRequests while blocked, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	s := newTestService(t)
	register(t, s, "ada")

	resp, err := s.Login(context.Background(), &dto.LoginRequest{Username: "ada", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens")
	}
}

func TestRefreshToken_SingleUse(t *testing.T) {
	s := newTestService(t)
	resp := register(t, s, "ada")
	ctx := context.Background()

	pair, err := s.RefreshToken(ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if pair.AccessToken == "" {
		t.Error("expected new access token")
	}
	if _, err := s.RefreshToken(ctx, resp.RefreshToken); err == nil {
		t.Error("refresh token must not be reusable")
	}
	if _, err := s.RefreshToken(ctx, resp.AccessToken); err == nil {
		t.Error("access token must not refresh")
	}
}

func TestResolveIdentities(t *testing.T) {
	s := newTestService(t)
	a := register(t, s, "ada")
	b := register(t, s, "bob")

	got, err := s.ResolveIdentities(context.Background(), []uuid.UUID{a.User.ID, b.User.ID, a.User.ID, uuid.New()})
	if err != nil {
		t.Fatalf("ResolveIdentities: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 identities, got %d", len(got))
	}
	if got[b.User.ID].Username != "bob" {
		t.Errorf("unexpected identity %+v", got[b.User.ID])
	}
}
