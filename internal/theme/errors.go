package theme

import "errors"

// Error classes. Use errors.Is to test an error returned by Service.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("theme not found")
	ErrLimitExceeded = errors.New("theme limit exceeded")
)

// Error carries a user-facing message together with its class.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}
