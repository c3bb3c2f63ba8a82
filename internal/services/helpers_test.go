package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"timeledger/internal/config"
	"timeledger/internal/domain"
	"timeledger/internal/repository/sqldb"
)

// Wednesday
var testStart = time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: testStart}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func sequentialIDs(prefix string) IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return cfg
}

type testEnv struct {
	repo     sqldb.Repository
	clock    *testClock
	services *ServiceContainer
}

func setupServices(t *testing.T) *testEnv {
	return setupServicesWithConfig(t, testConfig())
}

func setupServicesWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	repo, err := config.CreateTestRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	clock := newTestClock()
	container := NewServiceContainer(repo,
		WithClock(clock.Now),
		WithConfig(cfg),
		WithIDGenerator(sequentialIDs("id")),
	)

	return &testEnv{repo: repo, clock: clock, services: container}
}

func (e *testEnv) createProject(t *testing.T, userID, name, client string, rate, budget float64) *domain.Project {
	project, err := e.services.ProjectService.CreateProject(context.Background(), userID, CreateProjectInput{
		Name:       name,
		ClientName: client,
		HourlyRate: rate,
		Budget:     budget,
	})
	require.NoError(t, err)
	return project
}

func (e *testEnv) addHours(t *testing.T, projectID, userID string, hours float64) *domain.TimeEntry {
	result, err := e.services.TimeEntryService.AddManualEntry(context.Background(), projectID, userID, hours)
	require.NoError(t, err)
	return result.Entry
}

func (e *testEnv) reloadProject(t *testing.T, id, userID string) *domain.Project {
	project, err := e.services.ProjectService.GetProject(context.Background(), id, userID)
	require.NoError(t, err)
	return project
}
