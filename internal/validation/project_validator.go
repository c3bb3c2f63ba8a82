package validation

import (
	"timeledger/internal/config"
	"timeledger/internal/domain"
)

const (
	msgProjectNameRequired = "Project name is required"
	msgHourlyRatePositive  = "Hourly rate must be positive"
	msgBudgetPositive      = "Budget must be positive"
	msgNoFieldsToUpdate    = "No fields to update"
)

// ProjectValidator provides validation for project creation and edits
type ProjectValidator struct {
	validator *Validator
}

// NewProjectValidator creates a new project validator
func NewProjectValidator() *ProjectValidator {
	return &ProjectValidator{
		validator: NewValidator(),
	}
}

// NewProjectValidatorWithConfig creates a project validator using configured limits
func NewProjectValidatorWithConfig(cfg *config.Config) *ProjectValidator {
	return &ProjectValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateName validates a project name
func (pv *ProjectValidator) ValidateName(name string) error {
	validationError := NewValidationError()

	trimmed := pv.validator.TrimAndValidateString(name)
	if !pv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("name", msgProjectNameRequired)
		return validationError
	}

	minLen, maxLen := pv.validator.projectNameMinLength(), pv.validator.projectNameMaxLength()
	if !pv.validator.IsValidStringLength(trimmed, minLen, maxLen) {
		validationError.AddInvalidLengthError("name", "Project name", trimmed, minLen, maxLen)
	}

	return validationError.orNil()
}

// ValidateClientName validates an optional client name. Empty is allowed.
func (pv *ProjectValidator) ValidateClientName(clientName string) error {
	validationError := NewValidationError()

	maxLen := pv.validator.clientNameMaxLength()
	if !pv.validator.IsValidStringLength(clientName, 0, maxLen) {
		validationError.AddInvalidLengthError("client_name", "Client name", clientName, 0, maxLen)
	}

	return validationError.orNil()
}

// ValidateHourlyRate validates that the rate is a positive finite number
func (pv *ProjectValidator) ValidateHourlyRate(rate float64) error {
	if pv.validator.IsPositive(rate) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddError("hourly_rate", ErrorTypeInvalidValue, msgHourlyRatePositive, rate)
	return validationError
}

// ValidateBudget validates that the budget is a positive finite number
func (pv *ProjectValidator) ValidateBudget(budget float64) error {
	if pv.validator.IsPositive(budget) {
		return nil
	}
	validationError := NewValidationError()
	validationError.AddError("budget", ErrorTypeInvalidValue, msgBudgetPositive, budget)
	return validationError
}

// ValidateForCreation validates every field of a new project.
// Errors are reported in field order: name, client, rate, budget.
func (pv *ProjectValidator) ValidateForCreation(name, clientName string, hourlyRate, budget float64) error {
	validationError := NewValidationError()

	validationError.merge(pv.ValidateName(name))
	validationError.merge(pv.ValidateClientName(clientName))
	validationError.merge(pv.ValidateHourlyRate(hourlyRate))
	validationError.merge(pv.ValidateBudget(budget))

	return validationError.orNil()
}

// ValidateForUpdate validates the provided fields of an edit
func (pv *ProjectValidator) ValidateForUpdate(update domain.ProjectUpdate) error {
	validationError := NewValidationError()

	if update.IsEmpty() {
		validationError.AddRequiredError("fields", msgNoFieldsToUpdate)
		return validationError
	}

	if update.Name != nil {
		validationError.merge(pv.ValidateName(*update.Name))
	}
	if update.ClientName != nil {
		validationError.merge(pv.ValidateClientName(*update.ClientName))
	}
	if update.HourlyRate != nil {
		validationError.merge(pv.ValidateHourlyRate(*update.HourlyRate))
	}
	if update.Budget != nil {
		validationError.merge(pv.ValidateBudget(*update.Budget))
	}

	return validationError.orNil()
}
