package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// APIVersion represents API version information
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// VersionMiddleware stamps API responses with version headers.
type VersionMiddleware struct {
	current APIVersion
	build   string
}

// NewVersionMiddleware creates a new version middleware instance. build is
// the binary version reported in X-App-Version.
func NewVersionMiddleware(build string) *VersionMiddleware {
	return &VersionMiddleware{
		current: APIVersion{
			Version: "v1",
			Status:  "active",
			Message: "Current stable API version",
		},
		build: build,
	}
}

// Deprecate marks the current API version as deprecated from sunset on.
func (vm *VersionMiddleware) Deprecate(message string, sunset time.Time) {
	vm.current.Status = "deprecated"
	vm.current.Message = message
	vm.current.SunsetDate = &sunset
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("X-API-Version", vm.current.Version)
			if vm.build != "" {
				h.Set("X-App-Version", vm.build)
			}
			if vm.current.Status == "deprecated" && vm.current.SunsetDate != nil {
				h.Set("X-API-Deprecated", "true")
				h.Set("X-API-Sunset", vm.current.SunsetDate.Format(time.RFC3339))
				h.Set("Warning", "299 preppulse \"This API version is deprecated and will be removed on "+vm.current.SunsetDate.Format("2006-01-02")+"\"")
			}
			if vm.current.Message != "" {
				h.Set("X-API-Message", vm.current.Message)
			}
			return next(c)
		}
	}
}

// Current returns the active API version.
func (vm *VersionMiddleware) Current() APIVersion {
	return vm.current
}
