package handlers

import (
	"errors"
	"log"
	"net/http"

	"preppulse/internal/common"
	"preppulse/internal/repositories"
	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

// toHTTPError maps a service error to the status and message shown to the
// client. Unknown errors are logged and hidden behind a generic 500.
func toHTTPError(err error, notFound string) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
	case errors.Is(err, services.ErrChecklistNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Checklist not found")
	case errors.Is(err, services.ErrItemNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	case errors.Is(err, services.ErrObjectNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	case errors.Is(err, repositories.ErrUnknownTable):
		return echo.NewHTTPError(http.StatusNotFound, "Table not found")
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, repositories.ErrDuplicateEmail):
		return echo.NewHTTPError(http.StatusConflict, "An account with this email already exists.")
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, services.ErrExpiredResetToken):
		return echo.NewHTTPError(http.StatusBadRequest, "Reset link has expired.")
	case errors.Is(err, services.ErrInvalidResetToken):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reset link.")
	case errors.Is(err, services.ErrAIUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "AI features are not configured.")
	case errors.Is(err, services.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests. Please slow down.")
	case errors.Is(err, services.ErrChatFailed):
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to process chat request.")
	}
	log.Printf("ERROR: %v", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// identity returns the caller attached by the session middleware.
func identity(c echo.Context) (*common.RequestContext, error) {
	rc, ok := common.FromContext(c.Request().Context())
	if !ok || rc.Email == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return rc, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

type idResponse struct {
	ID int64 `json:"id"`
}
