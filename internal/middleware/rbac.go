package middleware

import (
	"net/http"

	"preppulse/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireAdmin rejects callers whose session is not an admin session. It must
// run after RequireSession.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rc, ok := common.FromContext(c.Request().Context())
			if !ok || !rc.IsAdmin {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			return next(c)
		}
	}
}
