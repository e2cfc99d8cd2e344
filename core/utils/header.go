package utils

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// GetTokenFromHeader returns the bearer token from the Authorization header, or "".
func GetTokenFromHeader(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetTokenFromRequest also accepts ?token=, which browsers need for websocket upgrades.
func GetTokenFromRequest(c echo.Context) string {
	if token := GetTokenFromHeader(c); token != "" {
		return token
	}
	return strings.TrimSpace(c.QueryParam("token"))
}
