package service

import "fmt"

// ValidationError reports a malformed or out-of-range input field. It is
// raised before any storage work happens, so a failed validation never
// has a partial effect.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
