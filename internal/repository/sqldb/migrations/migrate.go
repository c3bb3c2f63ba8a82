package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// RunMigrations executes all pending migrations for the dialect ("sqlite" or "postgres")
func RunMigrations(db *sql.DB, dialect string) error {
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := Load(dialect)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := getAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if !applied[migration.Version] {
			if err := applyMigration(db, dialect, migration); err != nil {
				return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
			}
		}
	}

	return nil
}

// Rollback reverts the most recently applied migration and returns its version.
// It returns 0 when nothing is applied.
func Rollback(db *sql.DB, dialect string) (int, error) {
	if err := createMigrationsTable(db); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	versions, err := AppliedVersions(db)
	if err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, nil
	}
	latest := versions[len(versions)-1]

	migrations, err := Load(dialect)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version != latest {
			continue
		}
		if err := revertMigration(db, dialect, migration); err != nil {
			return 0, fmt.Errorf("failed to revert migration %d: %w", migration.Version, err)
		}
		return latest, nil
	}

	return 0, fmt.Errorf("no migration source for applied version %d", latest)
}

// AppliedVersions lists applied migration versions in ascending order
func AppliedVersions(db *sql.DB) ([]int, error) {
	applied, err := getAppliedMigrations(db)
	if err != nil {
		return nil, err
	}

	versions := make([]int, 0, len(applied))
	for version := range applied {
		versions = append(versions, version)
	}
	sort.Ints(versions)
	return versions, nil
}

// Load reads the embedded migrations of a dialect sorted by version
func Load(dialect string) ([]Migration, error) {
	entries, err := migrationsFS.ReadDir(dialect)
	if err != nil {
		return nil, fmt.Errorf("unknown migration dialect %q: %w", dialect, err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		version := extractVersion(entry.Name())
		if version == 0 {
			continue
		}

		upSQL, err := migrationsFS.ReadFile(path.Join(dialect, entry.Name()))
		if err != nil {
			return nil, err
		}

		downFile := strings.Replace(entry.Name(), ".up.sql", ".down.sql", 1)
		downSQL, err := migrationsFS.ReadFile(path.Join(dialect, downFile))
		if err != nil {
			return nil, err
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(entry.Name(), ".up.sql"),
			Up:      string(upSQL),
			Down:    string(downSQL),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func createMigrationsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	_, err := db.Exec(query)
	return err
}

func getAppliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, dialect string, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(migration.Up); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Exec(placeholder(dialect, "INSERT INTO migrations (version) VALUES (?)"), migration.Version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func revertMigration(db *sql.DB, dialect string, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(migration.Down); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Exec(placeholder(dialect, "DELETE FROM migrations WHERE version = ?"), migration.Version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func placeholder(dialect, query string) string {
	if dialect == "postgres" {
		return strings.Replace(query, "?", "$1", 1)
	}
	return query
}

func extractVersion(filename string) int {
	var version int
	fmt.Sscanf(filename, "%d_", &version)
	return version
}
