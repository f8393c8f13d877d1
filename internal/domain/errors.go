package domain

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrNoRecord             = errors.New("server response carries no record")
	ErrBusy                 = errors.New("another request is in flight")
	ErrNotEditing           = errors.New("no form is open")
	ErrConfirmationMismatch = errors.New("confirmation does not match the record")
	ErrInvalidFilter        = errors.New("invalid filter")
	ErrUnknownFundKind      = errors.New("unknown fund kind")
	ErrUnknownMovementKind  = errors.New("unknown movement kind")
	ErrInvalidDate          = errors.New("invalid date")
)

// FieldError describes a single invalid form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a draft fails client-side validation.
// Nothing is sent to the backend when it occurs.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates field errors while a draft is checked
type fieldErrors []FieldError

func (f *fieldErrors) add(field, message string) {
	*f = append(*f, FieldError{Field: field, Message: message})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
