package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeledger/internal/domain"
)

func warningTypes(warnings []domain.Warning) []domain.WarningType {
	types := make([]domain.WarningType, len(warnings))
	for i, w := range warnings {
		types[i] = w.Type
	}
	return types
}

func TestWarningService_EvaluateWarnings(t *testing.T) {
	now := testStart
	running := func(p domain.Project, d time.Duration) domain.Project {
		start := domain.ToMillis(now.Add(-d))
		p.IsRunning = true
		p.StartTime = &start
		return p
	}
	project := func(totalSeconds int64) domain.Project {
		p := domain.NewProject("p-1", "user-1", "Website", "Acme", 100, 1000, now)
		p.TotalSeconds = totalSeconds
		return p
	}

	tests := []struct {
		name     string
		project  domain.Project
		expected []domain.WarningType
	}{
		{name: "should emit nothing below the warning threshold", project: project(3600), expected: []domain.WarningType{}},
		{name: "should emit BUDGET_90 at 95 percent", project: project(34200), expected: []domain.WarningType{domain.WarningBudget90}},
		{name: "should emit BUDGET_90 exactly at 90 percent", project: project(32400), expected: []domain.WarningType{domain.WarningBudget90}},
		{name: "should emit only BUDGET_100 at 100 percent", project: project(36000), expected: []domain.WarningType{domain.WarningBudget100}},
		{name: "should emit only BUDGET_100 above budget", project: project(72000), expected: []domain.WarningType{domain.WarningBudget100}},
		{name: "should emit LONG_SESSION after eight hours", project: running(project(0), 8*time.Hour), expected: []domain.WarningType{domain.WarningLongSession}},
		{name: "should not emit LONG_SESSION before eight hours", project: running(project(0), 8*time.Hour-time.Second), expected: []domain.WarningType{}},
		{
			name:     "should emit budget and long session together",
			project:  running(project(36000), 9*time.Hour),
			expected: []domain.WarningType{domain.WarningBudget100, domain.WarningLongSession},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewWarningService(nil, WithIDGenerator(sequentialIDs("w")))

			warnings := service.EvaluateWarnings([]domain.Project{tt.project}, now)

			assert.Equal(t, tt.expected, warningTypes(warnings))
		})
	}
}

func TestWarningService_EvaluateWarnings_Content(t *testing.T) {
	service := NewWarningService(nil, WithIDGenerator(sequentialIDs("w")))
	p := domain.NewProject("p-1", "user-1", "Website", "Acme", 100, 1000, testStart)
	p.TotalSeconds = 34200

	first := service.EvaluateWarnings([]domain.Project{p}, testStart)
	second := service.EvaluateWarnings([]domain.Project{p}, testStart)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "Project \"Website\" is at 95% of budget", first[0].Message)
	assert.Equal(t, "p-1", first[0].ProjectID)
	assert.NotEqual(t, first[0].ID, second[0].ID)
	first[0].ID, second[0].ID = "", ""
	assert.Equal(t, first[0], second[0])
}

func TestWarningService_ConfiguredThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.Billing.LongSessionThreshold = time.Hour
	service := NewWarningService(nil, WithConfig(cfg))

	p := domain.NewProject("p-1", "user-1", "Website", "", 100, 1000, testStart)
	p = p.Start(domain.ToMillis(testStart.Add(-90*time.Minute)), testStart)

	warnings := service.EvaluateWarnings([]domain.Project{p}, testStart)

	require.Len(t, warnings, 1)
	assert.Equal(t, "Timer for \"Website\" has been running for 1.5 hours", warnings[0].Message)
}

func TestWarningService_GetWarnings(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	over := env.createProject(t, "user-1", "Over", "", 100, 100)
	env.createProject(t, "user-1", "Fine", "", 100, 1000)
	env.addHours(t, over.ID, "user-1", 1)

	warnings, err := env.services.WarningService.GetWarnings(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.WarningBudget100, warnings[0].Type)
	assert.Equal(t, over.ID, warnings[0].ProjectID)

	none, err := env.services.WarningService.GetWarnings(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}
