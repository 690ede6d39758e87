package services

import "errors"

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidResetToken  = errors.New("invalid reset link")
	ErrExpiredResetToken  = errors.New("reset link has expired")
	ErrAIUnavailable      = errors.New("AI features are not configured")
	ErrRateLimited        = errors.New("too many requests")
	ErrChatFailed         = errors.New("failed to process chat request")
)
