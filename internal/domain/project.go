package domain

import (
	"strings"
	"time"
)

// BudgetStatus is the coarse budget health shown next to a project.
type BudgetStatus string

const (
	BudgetStatusNormal  BudgetStatus = "normal"
	BudgetStatusWarning BudgetStatus = "warning"
	BudgetStatusDanger  BudgetStatus = "danger"
)

// Project is a billable unit of work owned by one user.
// StartTime is set if and only if IsRunning is true.
type Project struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	ClientName   string    `json:"client_name"`
	HourlyRate   float64   `json:"hourly_rate"`
	Budget       float64   `json:"budget"`
	TotalSeconds int64     `json:"total_seconds"`
	IsRunning    bool      `json:"is_running"`
	StartTime    *int64    `json:"start_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewProject creates a stopped project with no accumulated time.
func NewProject(id, userID, name, clientName string, hourlyRate, budget float64, now time.Time) Project {
	return Project{
		ID:         id,
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		ClientName: strings.TrimSpace(clientName),
		HourlyRate: hourlyRate,
		Budget:     budget,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsValid checks the field-level invariants of a project.
func (p Project) IsValid() bool {
	if strings.TrimSpace(p.Name) == "" || p.UserID == "" {
		return false
	}
	if p.HourlyRate <= 0 || p.Budget <= 0 || p.TotalSeconds < 0 {
		return false
	}
	return p.IsRunning == (p.StartTime != nil)
}

// CanEdit reports whether name, client, rate and budget may change.
func (p Project) CanEdit() bool {
	return !p.IsRunning
}

// Billing is the amount earned so far at the current rate.
func (p Project) Billing() float64 {
	return SecondsToHours(p.TotalSeconds) * p.HourlyRate
}

// BudgetPercent is the share of the budget consumed, 0 when there is no budget.
func (p Project) BudgetPercent() float64 {
	if p.Budget <= 0 {
		return 0
	}
	return p.Billing() / p.Budget * 100
}

// BudgetStatus classifies budget usage: warning from 80%, danger from 100%.
func (p Project) BudgetStatus() BudgetStatus {
	percent := p.BudgetPercent()
	switch {
	case percent >= 100:
		return BudgetStatusDanger
	case percent >= 80:
		return BudgetStatusWarning
	default:
		return BudgetStatusNormal
	}
}

// RunningSeconds is the elapsed time of the active session, or 0 when stopped.
// A start time in the future counts as zero.
func (p Project) RunningSeconds(nowMs int64) int64 {
	if !p.IsRunning || p.StartTime == nil {
		return 0
	}
	elapsed := Elapsed(*p.StartTime, nowMs)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// CurrentSeconds is the accumulated total plus any running session.
func (p Project) CurrentSeconds(nowMs int64) int64 {
	return p.TotalSeconds + p.RunningSeconds(nowMs)
}

// Start marks the project as running from startMs.
func (p Project) Start(startMs int64, at time.Time) Project {
	p.IsRunning = true
	p.StartTime = &startMs
	p.UpdatedAt = at
	return p
}

// Stop clears the running state and books elapsed seconds.
func (p Project) Stop(elapsed int64, at time.Time) Project {
	p.IsRunning = false
	p.StartTime = nil
	p = p.AddSeconds(elapsed, at)
	return p
}

// AddSeconds applies a delta to the total. The total never drops below zero.
func (p Project) AddSeconds(delta int64, at time.Time) Project {
	p.TotalSeconds += delta
	if p.TotalSeconds < 0 {
		p.TotalSeconds = 0
	}
	p.UpdatedAt = at
	return p
}

// String returns the project name for display purposes.
func (p Project) String() string {
	return p.Name
}

// ProjectUpdate carries the editable fields of a project. Nil fields are left unchanged.
type ProjectUpdate struct {
	Name       *string  `json:"name,omitempty"`
	ClientName *string  `json:"clientName,omitempty"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
	Budget     *float64 `json:"budget,omitempty"`
}

// IsEmpty reports whether no field is provided.
func (u ProjectUpdate) IsEmpty() bool {
	return u.Name == nil && u.ClientName == nil && u.HourlyRate == nil && u.Budget == nil
}

// Apply returns a copy with the provided fields set. Names are trimmed.
func (p Project) Apply(u ProjectUpdate, at time.Time) Project {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.ClientName != nil {
		p.ClientName = strings.TrimSpace(*u.ClientName)
	}
	if u.HourlyRate != nil {
		p.HourlyRate = *u.HourlyRate
	}
	if u.Budget != nil {
		p.Budget = *u.Budget
	}
	p.UpdatedAt = at
	return p
}
