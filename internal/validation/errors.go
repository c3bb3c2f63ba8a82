package validation

import (
	"fmt"
	"strings"

	apperrors "timeledger/internal/errors"
)

// ValidationErrorType represents the type of validation error
type ValidationErrorType string

const (
	ErrorTypeRequired      ValidationErrorType = "required"
	ErrorTypeInvalidFormat ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue  ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange  ValidationErrorType = "invalid_range"
)

// FieldError represents a validation error for a specific field.
// Message is the caller-facing text.
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   interface{}
}

// Error implements the error interface for FieldError
func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError represents a collection of validation errors in the order they were found
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates a new ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{
		Errors: make([]FieldError, 0),
	}
}

// Error implements the error interface for ValidationError
func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation error"
	}

	if len(ve.Errors) == 1 {
		return ve.Errors[0].Error()
	}

	messages := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		messages = append(messages, err.Error())
	}

	return fmt.Sprintf("multiple validation errors: %s", strings.Join(messages, "; "))
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// HasErrors returns true if the ValidationError has any errors
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// AddError adds a new field error to the validation error
func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    errorType,
		Message: message,
		Value:   value,
	})
}

// AddRequiredError adds a required field error with the given message
func (ve *ValidationError) AddRequiredError(field, message string) {
	ve.AddError(field, ErrorTypeRequired, message, nil)
}

// AddInvalidLengthError adds an invalid length error
func (ve *ValidationError) AddInvalidLengthError(field, label string, value interface{}, min, max int) {
	var message string
	switch {
	case min > 0 && max > 0:
		message = fmt.Sprintf("%s must be between %d and %d characters long", label, min, max)
	case min > 0:
		message = fmt.Sprintf("%s must be at least %d characters long", label, min)
	case max > 0:
		message = fmt.Sprintf("%s must be at most %d characters long", label, max)
	default:
		message = fmt.Sprintf("%s has invalid length", label)
	}
	ve.AddError(field, ErrorTypeInvalidLength, message, value)
}

// merge appends the field errors of another validation error
func (ve *ValidationError) merge(err error) {
	if other, ok := err.(*ValidationError); ok {
		ve.Errors = append(ve.Errors, other.Errors...)
	}
}

// orNil returns the collection as an error, or nil when it is empty
func (ve *ValidationError) orNil() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// GetFieldErrors returns all errors for a specific field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var fieldErrors []FieldError
	for _, err := range ve.Errors {
		if err.Field == field {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// FirstMessage returns the message of the first failed rule
func (ve *ValidationError) FirstMessage() string {
	if len(ve.Errors) == 0 {
		return "Input validation failed"
	}
	return ve.Errors[0].Message
}

// GetUserFriendlyMessage returns a user-friendly error message
func (ve *ValidationError) GetUserFriendlyMessage() string {
	if len(ve.Errors) <= 1 {
		return ve.FirstMessage()
	}

	messages := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		messages = append(messages, fmt.Sprintf("- %s", err.Message))
	}
	return fmt.Sprintf("Multiple validation errors occurred:\n%s", strings.Join(messages, "\n"))
}

// ToAppError converts a ValidationError into a Validation AppError carrying the
// first failed rule as its message. Other errors pass through unchanged.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}
	if ve, ok := err.(*ValidationError); ok {
		appErr := apperrors.NewValidationError(ve.FirstMessage(), ve)
		if len(ve.Errors) > 0 {
			appErr.WithContext("field", ve.Errors[0].Field)
		}
		return appErr
	}
	return err
}
