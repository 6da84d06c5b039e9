// Package apperror holds the error taxonomy shared by services and the HTTP layer.
// Services wrap these sentinels with context (fmt.Errorf("%w: ...")) and the
// error handler maps them to status codes with errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrMissingUsername        = errors.New("username is required")
	ErrInvalidPayload         = errors.New("invalid payload")
	ErrNotFound               = errors.New("not found")
	ErrInvalidQuantity        = errors.New("quantity cannot go below zero")
	ErrVisionUnavailable      = errors.New("vision service unavailable")
	ErrChatServiceUnavailable = errors.New("chat service unavailable")
	ErrStorage                = errors.New("storage error")
)

func InvalidPayload(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Storage wraps a persistence failure, keeping the driver error in the chain for logs.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
