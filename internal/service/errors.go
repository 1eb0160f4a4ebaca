package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrGenerationFailed = errors.New("generation failed")
	ErrUnreachable      = errors.New("facebook is unreachable")

	ErrPageCredentials error = notFoundError("page not found or token missing")
)

// notFoundError matches ErrNotFound while keeping its own message.
type notFoundError string

func (e notFoundError) Error() string { return string(e) }

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

// GraphError is a well-formed rejection from the Graph API. It is never retried.
type GraphError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("facebook error (status %d): %s", e.StatusCode, e.Message)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
