package middleware

import (
	"log"
	"net/http"

	"preppulse/internal/common"
	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

// SessionCookie is the name of the cookie holding the session id.
const SessionCookie = "preppulse_session"

// RequireSession resolves the session cookie through the auth service and
// attaches the caller's identity to the request context.
func RequireSession(authSvc services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			session, err := authSvc.Session(c.Request().Context(), cookie.Value)
			if err != nil {
				log.Printf("ERROR: session lookup failed: %v", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if session == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			ctx := common.WithRequestContext(c.Request().Context(), &common.RequestContext{
				SessionID: cookie.Value,
				Email:     session.Email,
				FullName:  session.FullName,
				IsAdmin:   session.IsAdmin,
			})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
