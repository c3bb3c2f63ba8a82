package cli

import (
	"github.com/spf13/cobra"

	"timeledger/internal/config"
	"timeledger/internal/repository/sqldb"
	"timeledger/internal/repository/sqldb/migrations"
)

func (r *RootCommand) newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := r.openSchema()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := migrations.RunMigrations(repo.DB(), string(repo.Dialect())); err != nil {
				return err
			}
			return printStatus(cmd, repo)
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := r.openSchema()
			if err != nil {
				return err
			}
			defer repo.Close()

			version, err := migrations.Rollback(repo.DB(), string(repo.Dialect()))
			if err != nil {
				return err
			}
			if version == 0 {
				printf(cmd, "No migrations to roll back\n")
				return nil
			}
			printf(cmd, "Rolled back migration %d\n", version)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := r.openSchema()
			if err != nil {
				return err
			}
			defer repo.Close()
			return printStatus(cmd, repo)
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, statusCmd)
	return migrateCmd
}

// openSchema opens the store without touching its schema
func (r *RootCommand) openSchema() (*sqldb.SQLRepository, error) {
	opts, err := config.RepositoryOptions(r.config)
	if err != nil {
		return nil, err
	}
	opts.SkipMigrations = true
	return sqldb.NewWithOptions(opts)
}

func printStatus(cmd *cobra.Command, repo *sqldb.SQLRepository) error {
	all, err := migrations.Load(string(repo.Dialect()))
	if err != nil {
		return err
	}

	applied := make(map[int]bool)
	// A fresh database has no migrations table yet
	if versions, err := migrations.AppliedVersions(repo.DB()); err == nil {
		for _, v := range versions {
			applied[v] = true
		}
	}

	for _, m := range all {
		state := "pending"
		if applied[m.Version] {
			state = "applied"
		}
		printf(cmd, "%-40s %s\n", m.Name, state)
	}
	return nil
}
