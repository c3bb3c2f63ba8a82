package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"timeledger/internal/errors"
	"timeledger/internal/repository/sqldb/migrations"
)

// MemoryDSN opens a private in-memory SQLite database
const MemoryDSN = ":memory:"

// Repository is the persistence collaborator of the ledger.
// Composite units of work run inside WithinTx; the Querier handed to fn must be
// used for every statement of the unit.
type Repository interface {
	Querier

	WithinTx(ctx context.Context, fn func(q Querier) error) error
	Dialect() Dialect
	Ping(ctx context.Context) error
	Close() error
}

// Options configures a repository connection
type Options struct {
	Dialect        Dialect
	DSN            string
	QueryTimeout   time.Duration
	WriteTimeout   time.Duration
	BusyTimeout    time.Duration
	MaxOpenConns   int
	DirPermissions os.FileMode

	// SkipMigrations opens the schema as found, for maintenance commands
	SkipMigrations bool
}

// SQLRepository implements Repository over database/sql
type SQLRepository struct {
	*queries
	db           *sql.DB
	writeTimeout time.Duration
}

// New creates a SQLite repository at dbPath with default options
func New(dbPath string) (*SQLRepository, error) {
	return NewWithOptions(Options{Dialect: DialectSQLite, DSN: dbPath})
}

// NewWithOptions opens the database, applies pending migrations unless skipped and returns the repository
func NewWithOptions(opts Options) (*SQLRepository, error) {
	if opts.Dialect == "" {
		opts.Dialect = DialectSQLite
	}

	dsn := opts.DSN
	if opts.Dialect == DialectSQLite {
		if err := ensureSQLiteDir(dsn, opts.DirPermissions); err != nil {
			return nil, errors.NewDatabaseError("create database directory", err)
		}
		dsn = sqliteDSN(dsn, opts.BusyTimeout)
	}

	db, err := sql.Open(opts.Dialect.DriverName(), dsn)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	switch {
	case opts.Dialect == DialectSQLite:
		// One connection keeps :memory: databases alive and serializes writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	case opts.MaxOpenConns > 0:
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("connect to database", err)
	}

	if !opts.SkipMigrations {
		if err := migrations.RunMigrations(db, string(opts.Dialect)); err != nil {
			db.Close()
			return nil, errors.NewDatabaseError("run migrations", err)
		}
	}

	return &SQLRepository{
		queries:      &queries{db: db, dialect: opts.Dialect, timeout: opts.QueryTimeout},
		db:           db,
		writeTimeout: opts.WriteTimeout,
	}, nil
}

// WithinTx runs fn in a single transaction. Any error from fn rolls the transaction back
// and is returned unchanged.
func (r *SQLRepository) WithinTx(ctx context.Context, fn func(q Querier) error) error {
	if r.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.writeTimeout)
		defer cancel()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&queries{db: tx, dialect: r.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit transaction", err)
	}
	committed = true
	return nil
}

// Dialect returns the SQL dialect of the connection
func (r *SQLRepository) Dialect() Dialect {
	return r.dialect
}

// Ping verifies the database is reachable
func (r *SQLRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return HandleDatabaseError("ping", err)
	}
	return nil
}

// DB exposes the underlying pool for maintenance tasks such as migrations
func (r *SQLRepository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func ensureSQLiteDir(path string, perm os.FileMode) error {
	if path == "" || path == MemoryDSN || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if perm == 0 {
		perm = 0o755
	}
	return os.MkdirAll(dir, perm)
}

func sqliteDSN(path string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	pragmas := fmt.Sprintf("_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", busyTimeout.Milliseconds())

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + pragmas
}
