package validation

import (
	"fmt"

	"timeledger/internal/config"
)

const msgInvalidEmail = "Invalid email format"

// UserValidator validates registration and login credentials
type UserValidator struct {
	validator *Validator
}

// NewUserValidator creates a new user validator
func NewUserValidator() *UserValidator {
	return &UserValidator{validator: NewValidator()}
}

// NewUserValidatorWithConfig creates a user validator using the configured password policy
func NewUserValidatorWithConfig(cfg *config.Config) *UserValidator {
	return &UserValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateEmail validates the shape of an email address
func (uv *UserValidator) ValidateEmail(email string) error {
	if uv.validator.IsValidEmail(email) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddError("email", ErrorTypeInvalidFormat, msgInvalidEmail, email)
	return validationError
}

// ValidatePassword validates the minimum password length
func (uv *UserValidator) ValidatePassword(password string) error {
	minLen := uv.validator.passwordMinLength()
	if len([]rune(password)) >= minLen {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddError("password", ErrorTypeInvalidLength,
		fmt.Sprintf("Password must be at least %d characters", minLen), nil)
	return validationError
}

// ValidateCredentials validates email first, then password
func (uv *UserValidator) ValidateCredentials(email, password string) error {
	validationError := NewValidationError()
	validationError.merge(uv.ValidateEmail(email))
	validationError.merge(uv.ValidatePassword(password))
	return validationError.orNil()
}
