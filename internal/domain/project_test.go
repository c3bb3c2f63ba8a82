package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var projectNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func TestNewProject(t *testing.T) {
	p := NewProject("p1", "u1", "  Website  ", " Acme ", 50, 1000, projectNow)

	assert.Equal(t, "Website", p.Name)
	assert.Equal(t, "Acme", p.ClientName)
	assert.Zero(t, p.TotalSeconds)
	assert.False(t, p.IsRunning)
	assert.Nil(t, p.StartTime)
	assert.Equal(t, projectNow, p.CreatedAt)
	assert.Equal(t, projectNow, p.UpdatedAt)
	assert.True(t, p.IsValid())
	assert.Equal(t, "Website", p.String())
}

func TestProject_IsValid(t *testing.T) {
	start := int64(1000)
	valid := NewProject("p1", "u1", "Website", "", 50, 1000, projectNow)

	tests := []struct {
		name     string
		mutate   func(p *Project)
		expected bool
	}{
		{"valid", func(p *Project) {}, true},
		{"blank name", func(p *Project) { p.Name = "  " }, false},
		{"missing owner", func(p *Project) { p.UserID = "" }, false},
		{"zero rate", func(p *Project) { p.HourlyRate = 0 }, false},
		{"negative budget", func(p *Project) { p.Budget = -1 }, false},
		{"negative total", func(p *Project) { p.TotalSeconds = -1 }, false},
		{"running without start", func(p *Project) { p.IsRunning = true }, false},
		{"start without running", func(p *Project) { p.StartTime = &start }, false},
		{"running with start", func(p *Project) { p.IsRunning = true; p.StartTime = &start }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.Equal(t, tt.expected, p.IsValid())
		})
	}
}

func TestProject_Billing(t *testing.T) {
	p := NewProject("p1", "u1", "Website", "", 100, 1000, projectNow)
	p.TotalSeconds = 9 * 3600

	assert.Equal(t, 900.0, p.Billing())
	assert.Equal(t, 90.0, p.BudgetPercent())
	assert.Equal(t, BudgetStatusWarning, p.BudgetStatus())
}

func TestProject_BudgetStatus(t *testing.T) {
	tests := []struct {
		hours    int64
		expected BudgetStatus
	}{
		{0, BudgetStatusNormal},
		{7, BudgetStatusNormal},
		{8, BudgetStatusWarning},
		{9, BudgetStatusWarning},
		{10, BudgetStatusDanger},
		{15, BudgetStatusDanger},
	}

	for _, tt := range tests {
		p := NewProject("p1", "u1", "Website", "", 100, 1000, projectNow)
		p.TotalSeconds = tt.hours * 3600
		assert.Equal(t, tt.expected, p.BudgetStatus(), "hours=%d", tt.hours)
	}
}

func TestProject_BudgetPercent_NoBudget(t *testing.T) {
	p := Project{HourlyRate: 100, TotalSeconds: 3600}
	assert.Zero(t, p.BudgetPercent())
}

func TestProject_StartStop(t *testing.T) {
	p := NewProject("p1", "u1", "Website", "", 50, 1000, projectNow)
	p.TotalSeconds = 100
	startMs := ToMillis(projectNow)

	running := p.Start(startMs, projectNow)
	assert.True(t, running.IsRunning)
	require.NotNil(t, running.StartTime)
	assert.Equal(t, startMs, *running.StartTime)
	assert.False(t, running.CanEdit())
	assert.True(t, running.IsValid())

	// value receiver leaves the original untouched
	assert.False(t, p.IsRunning)

	nowMs := startMs + 90_500
	assert.Equal(t, int64(90), running.RunningSeconds(nowMs))
	assert.Equal(t, int64(190), running.CurrentSeconds(nowMs))

	later := projectNow.Add(90 * time.Second)
	stopped := running.Stop(90, later)
	assert.False(t, stopped.IsRunning)
	assert.Nil(t, stopped.StartTime)
	assert.Equal(t, int64(190), stopped.TotalSeconds)
	assert.Equal(t, later, stopped.UpdatedAt)
	assert.True(t, stopped.CanEdit())
	assert.Zero(t, stopped.RunningSeconds(nowMs))
}

func TestProject_RunningSeconds_FutureStartIsZero(t *testing.T) {
	start := int64(10_000)
	p := Project{IsRunning: true, StartTime: &start}

	assert.Zero(t, p.RunningSeconds(5_000))
}

func TestProject_AddSeconds_FloorsAtZero(t *testing.T) {
	p := Project{TotalSeconds: 100}

	assert.Equal(t, int64(160), p.AddSeconds(60, projectNow).TotalSeconds)
	assert.Equal(t, int64(40), p.AddSeconds(-60, projectNow).TotalSeconds)
	assert.Zero(t, p.AddSeconds(-500, projectNow).TotalSeconds)
}

func TestProject_Apply(t *testing.T) {
	p := NewProject("p1", "u1", "Website", "Acme", 50, 1000, projectNow)
	later := projectNow.Add(time.Hour)

	name := "  Shop  "
	rate := 80.0
	updated := p.Apply(ProjectUpdate{Name: &name, HourlyRate: &rate}, later)

	assert.Equal(t, "Shop", updated.Name)
	assert.Equal(t, 80.0, updated.HourlyRate)
	assert.Equal(t, "Acme", updated.ClientName, "omitted fields are unchanged")
	assert.Equal(t, 1000.0, updated.Budget)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, projectNow, updated.CreatedAt)
}

func TestProjectUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ProjectUpdate{}.IsEmpty())

	client := ""
	assert.False(t, ProjectUpdate{ClientName: &client}.IsEmpty(), "an empty string is still a provided field")
}
