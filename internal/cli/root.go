package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timeledger/internal/config"
	"timeledger/internal/logging"
	"timeledger/internal/repository/sqldb"
	"timeledger/internal/services"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd    *cobra.Command
	config *config.Config
	logger *zap.Logger
	errors *ErrorHandler
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand() *RootCommand {
	root := &RootCommand{
		logger: zap.NewNop(),
		errors: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "timeledger",
		Short: "A multi-user time tracking and billing service",
		Long: `timeledger tracks billable time per project: start/stop timers or manual
hours, budget warnings and billing reports, served over a JSON HTTP API.

EXAMPLES:
  timeledger serve                                   # Run the HTTP API
  timeledger migrate status                          # Show schema migrations
  timeledger user add --email dev@example.com        # Register a user
  timeledger report --user dev@example.com --type by-client --filter this-month
  timeledger warnings --user dev@example.com

CONFIGURATION:
  Priority order: command-line flags > environment variables > YAML file > defaults

    TL_CONFIG_FILE        YAML configuration file (or --config)
    TL_DB_DRIVER          sqlite or postgres (default: sqlite)
    TL_DB_DSN             Connection string, required for postgres
    TL_DB_DIR             SQLite directory (default: ~/.timeledger)
    TL_JWT_SECRET         Token signing secret, required by serve
    TL_LOG_LEVEL          debug, info, warn, error (default: info)
    TL_DEBUG              Force debug logging when set`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = root.logger.Sync()
		},
	}

	root.addGlobalFlags()
	root.cmd.AddCommand(
		root.newServeCommand(),
		root.newMigrateCommand(),
		root.newUserCommand(),
		root.newReportCommand(),
		root.newWarningsCommand(),
	)

	return root
}

// Command exposes the cobra command, mainly for tests
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command. Returned errors carry user-facing messages.
func (r *RootCommand) Execute(ctx context.Context) error {
	return r.errors.HandleSimple(r.cmd.ExecuteContext(ctx))
}

func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML configuration file (overrides TL_CONFIG_FILE)")

	// Database configuration
	flags.String("db-driver", "", "Database driver: sqlite or postgres (overrides TL_DB_DRIVER)")
	flags.String("db-dsn", "", "Database connection string (overrides TL_DB_DSN)")
	flags.String("db-dir", "", "SQLite database directory (overrides TL_DB_DIR)")
	flags.String("db-filename", "", "SQLite database filename (overrides TL_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TL_DB_QUERY_TIMEOUT)")

	// Logging configuration
	flags.String("log-level", "", "Log level (overrides TL_LOG_LEVEL)")
	flags.String("log-format", "", "Log format: json or console (overrides TL_LOG_FORMAT)")

	// Server configuration
	flags.String("addr", "", "HTTP listen address (overrides TL_SERVER_ADDR)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Timeout of one-shot commands (overrides TL_APP_TIMEOUT)")
}

// overridesFromFlags collects the flags that were set explicitly
func overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}

	overrides.ConfigFile = str("config")
	overrides.DBDriver = str("db-driver")
	overrides.DBDSN = str("db-dsn")
	overrides.DBDir = str("db-dir")
	overrides.DBFilename = str("db-filename")
	overrides.DBQueryTimeout = dur("db-query-timeout")
	overrides.LogLevel = str("log-level")
	overrides.LogFormat = str("log-format")
	overrides.Addr = str("addr")
	overrides.Timeout = dur("app-timeout")
	return overrides
}

func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.NewLoader().LoadWithOverrides(overridesFromFlags(cmd))
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	r.config = cfg
	r.logger = logger
	return nil
}

// openServices opens the configured store and builds the service container over it
func (r *RootCommand) openServices() (sqldb.Repository, *services.ServiceContainer, error) {
	repo, err := config.CreateRepository(r.config)
	if err != nil {
		return nil, nil, err
	}
	container := services.NewServiceContainer(repo,
		services.WithConfig(r.config),
		services.WithLogger(r.logger))
	return repo, container, nil
}

// commandContext bounds a one-shot command by the application timeout
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), r.getAppTimeout())
}

func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
