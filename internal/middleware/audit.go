package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"preppulse/internal/common"

	"github.com/labstack/echo/v4"
)

// AuditAdmin logs every mutating admin request, and every failed one, with
// the acting admin and the outcome. Reads are not logged.
func AuditAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if !shouldAudit(method, err) {
				return err
			}

			actor := "unknown"
			if rc, ok := common.FromContext(c.Request().Context()); ok {
				actor = rc.Email
			}

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			log.Printf("AUDIT: admin=%s ip=%s %s %s params=%s status=%d",
				actor, c.RealIP(), method, c.Path(), auditParams(c), status)

			return err
		}
	}
}

func shouldAudit(method string, err error) bool {
	if err != nil {
		return true
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func auditParams(c echo.Context) string {
	names := c.ParamNames()
	if len(names) == 0 {
		return "-"
	}
	values := c.ParamValues()
	parts := make([]string, 0, len(names))
	for i, name := range names {
		if i < len(values) {
			parts = append(parts, name+"="+values[i])
		}
	}
	return strings.Join(parts, ",")
}
