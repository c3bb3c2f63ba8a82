package validation

import (
	"math"
	"regexp"
	"strings"
	"time"

	"timeledger/internal/config"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a trimmed string's rune count is within the range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := len([]rune(strings.TrimSpace(s)))
	return length >= min && length <= max
}

// IsFinite rejects NaN and infinities
func (v *Validator) IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsPositive checks a finite number is strictly greater than zero
func (v *Validator) IsPositive(f float64) bool {
	return v.IsFinite(f) && f > 0
}

// IsValidEmail checks the address has a local part, an @ and a dotted domain
func (v *Validator) IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidDateRange checks if a date range is logical
func (v *Validator) IsValidDateRange(startTime, endTime *time.Time) bool {
	if startTime == nil || endTime == nil {
		return true // open-ended ranges are valid
	}
	return !startTime.After(*endTime)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func (v *Validator) projectNameMinLength() int {
	if v.config != nil {
		return v.config.Validation.ProjectNameMinLength
	}
	return 1
}

func (v *Validator) projectNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.ProjectNameMaxLength
	}
	return 255
}

func (v *Validator) clientNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.ClientNameMaxLength
	}
	return 255
}

func (v *Validator) minEntryHours() float64 {
	if v.config != nil {
		return v.config.Billing.ManualEntryMinHours
	}
	return 0.01
}

func (v *Validator) maxEntryHours() float64 {
	if v.config != nil {
		return v.config.Billing.MaxEntryHours
	}
	return 24 * 365
}

func (v *Validator) passwordMinLength() int {
	if v.config != nil {
		return v.config.Auth.PasswordMinLength
	}
	return 6
}
