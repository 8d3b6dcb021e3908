package chat

import "errors"

var (
	// ErrInvalidTransition is returned for actions not allowed in the current state.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrDataUnavailable is returned for menu actions while FAQ data could not be loaded.
	ErrDataUnavailable = errors.New("faq data unavailable")
	// ErrUnknownAction is returned for unrecognized action types.
	ErrUnknownAction = errors.New("unknown action")
)

// ValidationError is a user-facing input problem. The session is left unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
