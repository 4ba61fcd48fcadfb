package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadRequest         = errors.New("bad request")
	ErrNotFound           = errors.New("does not exist")
	ErrAlreadyExists      = errors.New("already exists")
)

var (
	ErrUserNotFound      = NewEntityError("User", ErrNotFound)
	ErrSessionNotFound   = NewEntityError("Session", ErrNotFound)
	ErrTaskNotFound      = NewEntityError("Task", ErrNotFound)
	ErrUserAlreadyExists = NewEntityError("User", ErrAlreadyExists)
)

// NewEntityError prefixes err with the entity name, e.g. "Task does not exist".
func NewEntityError(entity string, err error) error {
	return fmt.Errorf("%s %w", entity, err)
}

// ValidationError carries a client-facing message and matches ErrBadRequest.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrBadRequest
}

func badRequest(msg string) error {
	return &ValidationError{Message: msg}
}
