package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

func TestLoad(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres"} {
		t.Run(dialect, func(t *testing.T) {
			migrations, err := Load(dialect)
			require.NoError(t, err)
			require.Len(t, migrations, 2)

			assert.Equal(t, 1, migrations[0].Version)
			assert.Equal(t, "000001_initial_schema", migrations[0].Name)
			assert.Equal(t, 2, migrations[1].Version)
			assert.Contains(t, migrations[1].Up, "ux_projects_one_running_per_user")
			assert.NotEmpty(t, migrations[1].Down)
		})
	}
}

func TestLoad_UnknownDialect(t *testing.T) {
	_, err := Load("oracle")
	assert.Error(t, err)
}

func TestRunMigrations_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunMigrations(db, "sqlite"))

	for _, table := range []string{"users", "projects", "time_entries", "ux_projects_one_running_per_user"} {
		assert.True(t, tableExists(t, db, table), "expected %s to exist", table)
	}

	versions, err := AppliedVersions(db)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, RunMigrations(db, "sqlite"))
	require.NoError(t, RunMigrations(db, "sqlite"))

	versions, err := AppliedVersions(db)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)
}

func TestRunningIndex_RejectsSecondRunningProject(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(db, "sqlite"))

	insert := `INSERT INTO projects (id, user_id, name, hourly_rate, budget, is_running, start_time, created_at, updated_at)
		VALUES (?, ?, 'p', 10, 100, ?, ?, '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`

	_, err := db.Exec(insert, "a", "user-1", true, 1000)
	require.NoError(t, err)

	_, err = db.Exec(insert, "b", "user-1", true, 2000)
	assert.Error(t, err, "a second running project for the same user must be rejected")

	_, err = db.Exec(insert, "c", "user-2", true, 2000)
	assert.NoError(t, err, "other users are unaffected")

	_, err = db.Exec(insert, "d", "user-1", false, nil)
	assert.NoError(t, err, "stopped projects are not constrained")
}

func TestRollback(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, RunMigrations(db, "sqlite"))

	version, err := Rollback(db, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.False(t, tableExists(t, db, "ux_projects_one_running_per_user"))
	assert.True(t, tableExists(t, db, "projects"))

	version, err = Rollback(db, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.False(t, tableExists(t, db, "projects"))

	version, err = Rollback(db, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, RunMigrations(db, "sqlite"))
	versions, err := AppliedVersions(db)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		filename string
		expected int
	}{
		{"000001_initial_schema.up.sql", 1},
		{"000012_add_index.up.sql", 12},
		{"readme.sql", 0},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractVersion(tt.filename))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "DELETE FROM migrations WHERE version = $1", placeholder("postgres", "DELETE FROM migrations WHERE version = ?"))
	assert.Equal(t, "DELETE FROM migrations WHERE version = ?", placeholder("sqlite", "DELETE FROM migrations WHERE version = ?"))
}
