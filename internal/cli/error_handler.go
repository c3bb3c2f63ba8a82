package cli

import (
	"fmt"

	"timeledger/internal/errors"
	"timeledger/internal/validation"
)

// ErrorHandler turns command errors into messages fit for a terminal
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes the user-facing message with the failed operation
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %s", operation, eh.message(err))
}

// HandleSimple returns the user-facing message of err
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if eh.IsValidationError(err) || errors.IsAppError(err) {
		return fmt.Errorf("%s", eh.message(err))
	}
	return err
}

func (eh *ErrorHandler) message(err error) string {
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return validationErr.GetUserFriendlyMessage()
	}
	if _, ok := errors.AsAppError(err); ok {
		return errors.GetUserMessage(err)
	}
	return err.Error()
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
