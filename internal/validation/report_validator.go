package validation

import "time"

// ReportValidator validates report windows
type ReportValidator struct {
	validator *Validator
}

// NewReportValidator creates a new report validator
func NewReportValidator() *ReportValidator {
	return &ReportValidator{validator: NewValidator()}
}

// ValidateWindow rejects a window whose start is after its end. Open bounds are allowed.
func (rv *ReportValidator) ValidateWindow(start, end *time.Time) error {
	if rv.validator.IsValidDateRange(start, end) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddError("date_range", ErrorTypeInvalidRange, "Start date must not be after end date",
		map[string]time.Time{"start": *start, "end": *end})
	return validationError
}
