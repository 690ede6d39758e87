package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

type contextKey string

const requestContextKey contextKey = "request_context"

// RequestContext is the identity attached to a request by the session middleware.
type RequestContext struct {
	SessionID string
	Email     string
	FullName  string
	IsAdmin   bool
}

// WithRequestContext returns ctx carrying rc.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// FromContext extracts the request identity, if any.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(*RequestContext)
	return rc, ok && rc != nil
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// ErrorCode maps an HTTP status to the code used in error bodies.
func ErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusBadGateway:
		return "UPSTREAM_ERROR"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	}
	if status >= 500 {
		return "SERVER_ERROR"
	}
	return "CLIENT_ERROR"
}

// HTTPErrorHandler renders every error as an ErrorResponse. Errors that are
// not *echo.HTTPError become a logged 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		log.Printf("ERROR: unhandled error on %s %s: %v", c.Request().Method, c.Path(), err)
		he = echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	message := fmt.Sprint(he.Message)
	if m, ok := he.Message.(string); ok {
		message = m
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(he.Code)
	} else {
		writeErr = c.JSON(he.Code, CreateErrorResponse(ErrorCode(he.Code), message, nil))
	}
	if writeErr != nil {
		log.Printf("ERROR: writing error response: %v", writeErr)
	}
}
