package domain

import (
	"fmt"
	"time"
)

// WarningType identifies the rule that produced a warning.
type WarningType string

const (
	WarningBudget90    WarningType = "BUDGET_90"
	WarningBudget100   WarningType = "BUDGET_100"
	WarningLongSession WarningType = "LONG_SESSION"
)

// Warning is an advisory signal derived from current project state. It is never persisted.
type Warning struct {
	ID          string      `json:"id"`
	Type        WarningType `json:"type"`
	ProjectID   string      `json:"project_id"`
	ProjectName string      `json:"project_name"`
	Message     string      `json:"message"`
	Percentage  *float64    `json:"percentage,omitempty"`
	Hours       *float64    `json:"hours,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewBudgetWarning builds a BUDGET_100 warning when exceeded is true, BUDGET_90 otherwise.
func NewBudgetWarning(id string, p Project, percent float64, exceeded bool, at time.Time) Warning {
	w := Warning{
		ID:          id,
		Type:        WarningBudget90,
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Message:     fmt.Sprintf("Project \"%s\" is at %.0f%% of budget", p.Name, percent),
		Percentage:  &percent,
		CreatedAt:   at,
	}
	if exceeded {
		w.Type = WarningBudget100
		w.Message = fmt.Sprintf("Project \"%s\" has exceeded budget! (%.0f%% used)", p.Name, percent)
	}
	return w
}

// NewLongSessionWarning builds a LONG_SESSION warning for a timer running the given hours.
func NewLongSessionWarning(id string, p Project, hours float64, at time.Time) Warning {
	return Warning{
		ID:          id,
		Type:        WarningLongSession,
		ProjectID:   p.ID,
		ProjectName: p.Name,
		Message:     fmt.Sprintf("Timer for \"%s\" has been running for %.1f hours", p.Name, hours),
		Hours:       &hours,
		CreatedAt:   at,
	}
}
