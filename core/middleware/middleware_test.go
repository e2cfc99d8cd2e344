package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type stubAuth struct {
	identity *entity.Identity
}

func (s stubAuth) Authenticate(_ context.Context, credential string) (*entity.Identity, *errors.AppError) {
	if credential != "good" {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid token", nil)
	}
	return s.identity, nil
}

func newServer(mw echo.MiddlewareFunc, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.GET("/", handler, mw)
	return e
}

func TestAuthMiddleware(t *testing.T) {
	identity := &entity.Identity{ID: uuid.New(), Username: "alice"}
	m := NewMiddleware(stubAuth{identity: identity})

	var seen *entity.Identity
	e := newServer(m.AuthMiddleware(), func(c echo.Context) error {
		seen = IdentityFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad scheme", "Basic good", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
		{"ok", "Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusOK && (seen == nil || seen.ID != identity.ID) {
				t.Errorf("identity not propagated: %+v", seen)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	e := newServer(RateLimitMiddleware(limiter), func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
			t.Error("missing Retry-After header")
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client should have its own bucket, got %d", rec.Code)
	}
}
