package domain

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrUnsupportedMediaType = errors.New("only MP3, WAV and OGG files are allowed")
	ErrPayloadTooLarge      = errors.New("file is too large")
	ErrNotFound             = errors.New("not found")

	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a rejected write. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
