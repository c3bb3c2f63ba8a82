package config

import (
	"fmt"
	"os"

	"timeledger/internal/repository/sqldb"
)

// RepositoryOptions translates the database configuration into store options
func RepositoryOptions(config *Config) (sqldb.Options, error) {
	dialect, err := sqldb.ParseDialect(config.Database.Driver)
	if err != nil {
		return sqldb.Options{}, err
	}

	return sqldb.Options{
		Dialect:        dialect,
		DSN:            config.GetDSN(),
		QueryTimeout:   config.Database.QueryTimeout,
		WriteTimeout:   config.Database.WriteTimeout,
		BusyTimeout:    config.Database.BusyTimeout,
		MaxOpenConns:   config.Database.MaxOpenConns,
		DirPermissions: os.FileMode(config.Database.DirPermissions),
	}, nil
}

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(config *Config) (sqldb.Repository, error) {
	opts, err := RepositoryOptions(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo, err := sqldb.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqldb.Repository, error) {
	repo, err := sqldb.New(sqldb.MemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
