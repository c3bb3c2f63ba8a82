package validation

import (
	"fmt"
	"strconv"

	"timeledger/internal/config"
)

// TimeEntryValidator provides validation for manual entries and hour edits
type TimeEntryValidator struct {
	validator *Validator
}

// NewTimeEntryValidator creates a new time entry validator
func NewTimeEntryValidator() *TimeEntryValidator {
	return &TimeEntryValidator{
		validator: NewValidator(),
	}
}

// NewTimeEntryValidatorWithConfig creates a time entry validator using configured limits
func NewTimeEntryValidatorWithConfig(cfg *config.Config) *TimeEntryValidator {
	return &TimeEntryValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateHours checks a billed duration in hours against the configured bounds
func (tev *TimeEntryValidator) ValidateHours(hours float64) error {
	validationError := NewValidationError()

	minHours := tev.validator.minEntryHours()
	maxHours := tev.validator.maxEntryHours()

	switch {
	case !tev.validator.IsFinite(hours) || hours < minHours:
		validationError.AddError("hours", ErrorTypeInvalidRange,
			fmt.Sprintf("Hours must be at least %s", formatHours(minHours)), hours)
	case hours > maxHours:
		validationError.AddError("hours", ErrorTypeInvalidRange,
			fmt.Sprintf("Hours must be at most %s", formatHours(maxHours)), hours)
	}

	return validationError.orNil()
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
