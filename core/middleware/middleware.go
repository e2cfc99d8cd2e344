package middleware

import (
	"context"
	"slot-swapper/core/constants"
	"slot-swapper/core/controller"
	"slot-swapper/core/entity"
	"slot-swapper/core/errors"
	"slot-swapper/core/utils"

	"github.com/labstack/echo/v4"
)

// Authenticator resolves a bearer credential to the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*entity.Identity, *errors.AppError)
}

type Middleware struct {
	auth Authenticator
}

func NewMiddleware(auth Authenticator) *Middleware {
	return &Middleware{auth: auth}
}

// AuthMiddleware rejects requests without a valid access token and stores the raw token
// and the resolved identity on the echo context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := utils.GetTokenFromHeader(c)
			if token == "" {
				return controller.WriteError(c, errors.NewAppError(errors.ErrMissingAuthorizationHeader, "missing authorization header", nil))
			}

			identity, appErr := m.auth.Authenticate(c.Request().Context(), token)
			if appErr != nil {
				return controller.WriteError(c, appErr)
			}

			c.Set(constants.ContextTokenData, token)
			c.Set(constants.ContextIdentity, identity)
			return next(c)
		}
	}
}

// IdentityFromContext returns the identity AuthMiddleware stored, or nil.
func IdentityFromContext(c echo.Context) *entity.Identity {
	identity, _ := c.Get(constants.ContextIdentity).(*entity.Identity)
	return identity
}

// TokenFromContext returns the raw bearer token AuthMiddleware accepted.
func TokenFromContext(c echo.Context) string {
	token, _ := c.Get(constants.ContextTokenData).(string)
	return token
}
