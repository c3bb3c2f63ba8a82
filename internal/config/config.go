package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the timeledger service
type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Server      ServerConfig      `yaml:"server"`
	Auth        AuthConfig        `yaml:"auth"`
	Billing     BillingConfig     `yaml:"billing"`
	Validation  ValidationConfig  `yaml:"validation"`
	Time        TimeConfig        `yaml:"time"`
	Logging     LoggingConfig     `yaml:"logging"`
	Application ApplicationConfig `yaml:"application"`
}

// DatabaseConfig holds database-related configuration.
// DSN wins over Dir/Filename when set; it is required for postgres.
type DatabaseConfig struct {
	Driver         string        `yaml:"driver" env:"TL_DB_DRIVER"`
	DSN            string        `yaml:"dsn" env:"TL_DB_DSN"`
	Dir            string        `yaml:"dir" env:"TL_DB_DIR"`
	Filename       string        `yaml:"filename" env:"TL_DB_FILENAME"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"TL_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"TL_DB_WRITE_TIMEOUT"`
	BusyTimeout    time.Duration `yaml:"busy_timeout" env:"TL_DB_BUSY_TIMEOUT"`
	MaxOpenConns   int           `yaml:"max_open_conns" env:"TL_DB_MAX_OPEN_CONNS"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"TL_DB_DIR_PERMISSIONS"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"TL_SERVER_ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"TL_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"TL_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TL_SERVER_SHUTDOWN_TIMEOUT"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"TL_CORS_ORIGINS"`
}

// AuthConfig holds credential and token configuration
type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret" env:"TL_JWT_SECRET"`
	TokenTTL          time.Duration `yaml:"token_ttl" env:"TL_JWT_TTL"`
	BcryptCost        int           `yaml:"bcrypt_cost" env:"TL_BCRYPT_COST"`
	PasswordMinLength int           `yaml:"password_min_length" env:"TL_PASSWORD_MIN_LENGTH"`
}

// BillingConfig holds the thresholds of the warning evaluator and entry limits
type BillingConfig struct {
	LongSessionThreshold  time.Duration `yaml:"long_session_threshold" env:"TL_LONG_SESSION_THRESHOLD"`
	BudgetWarningPercent  float64       `yaml:"budget_warning_percent" env:"TL_BUDGET_WARNING_PERCENT"`
	BudgetExceededPercent float64       `yaml:"budget_exceeded_percent" env:"TL_BUDGET_EXCEEDED_PERCENT"`
	ManualEntryMinHours   float64       `yaml:"manual_entry_min_hours" env:"TL_MANUAL_ENTRY_MIN_HOURS"`
	MaxEntryHours         float64       `yaml:"max_entry_hours" env:"TL_MAX_ENTRY_HOURS"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	ProjectNameMinLength int `yaml:"project_name_min_length" env:"TL_VALIDATION_PROJECT_NAME_MIN"`
	ProjectNameMaxLength int `yaml:"project_name_max_length" env:"TL_VALIDATION_PROJECT_NAME_MAX"`
	ClientNameMaxLength  int `yaml:"client_name_max_length" env:"TL_VALIDATION_CLIENT_NAME_MAX"`
}

// TimeConfig holds time formatting configuration
type TimeConfig struct {
	DisplayFormat string `yaml:"display_format" env:"TL_TIME_DISPLAY_FORMAT"`
	Timezone      string `yaml:"timezone" env:"TL_TIMEZONE"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level" env:"TL_LOG_LEVEL"`
	Format string `yaml:"format" env:"TL_LOG_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"TL_APP_TIMEOUT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".timeledger")

	return &Config{
		Database: DatabaseConfig{
			Driver:         "sqlite",
			Dir:            defaultDBDir,
			Filename:       "timeledger.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			BusyTimeout:    5 * time.Second,
			MaxOpenConns:   10,
			DirPermissions: 0755,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:5173"},
		},
		Auth: AuthConfig{
			TokenTTL:          7 * 24 * time.Hour,
			BcryptCost:        10,
			PasswordMinLength: 6,
		},
		Billing: BillingConfig{
			LongSessionThreshold:  8 * time.Hour,
			BudgetWarningPercent:  90,
			BudgetExceededPercent: 100,
			ManualEntryMinHours:   0.01,
			MaxEntryHours:         24 * 365,
		},
		Validation: ValidationConfig{
			ProjectNameMinLength: 1,
			ProjectNameMaxLength: 255,
			ClientNameMaxLength:  255,
		},
		Time: TimeConfig{
			DisplayFormat: "2006-01-02 15:04:05",
			Timezone:      "UTC",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetDSN returns the connection string handed to the driver
func (c *Config) GetDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return c.GetDatabasePath()
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// Location returns the configured display time zone, UTC when it cannot be loaded
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Time.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// LoadFile merges a YAML file into the configuration. Keys absent from the file keep their value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &ConfigError{Field: "file", Message: fmt.Sprintf("invalid YAML in %s: %v", path, err)}
	}
	return nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if driver := os.Getenv("TL_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("TL_DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if dir := os.Getenv("TL_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TL_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if timeout := os.Getenv("TL_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TL_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if timeout := os.Getenv("TL_DB_BUSY_TIMEOUT"); timeout != "" {
		c.Database.BusyTimeout = ParseDurationWithFallback(timeout, c.Database.BusyTimeout)
	}
	if conns := os.Getenv("TL_DB_MAX_OPEN_CONNS"); conns != "" {
		c.Database.MaxOpenConns = ParseIntWithFallback(conns, c.Database.MaxOpenConns)
	}
	if perms := os.Getenv("TL_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Server configuration
	if addr := os.Getenv("TL_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if timeout := os.Getenv("TL_SERVER_READ_TIMEOUT"); timeout != "" {
		c.Server.ReadTimeout = ParseDurationWithFallback(timeout, c.Server.ReadTimeout)
	}
	if timeout := os.Getenv("TL_SERVER_WRITE_TIMEOUT"); timeout != "" {
		c.Server.WriteTimeout = ParseDurationWithFallback(timeout, c.Server.WriteTimeout)
	}
	if timeout := os.Getenv("TL_SERVER_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}
	if origins := os.Getenv("TL_CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}

	// Auth configuration
	if secret := os.Getenv("TL_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if ttl := os.Getenv("TL_JWT_TTL"); ttl != "" {
		c.Auth.TokenTTL = ParseDurationWithFallback(ttl, c.Auth.TokenTTL)
	}
	if cost := os.Getenv("TL_BCRYPT_COST"); cost != "" {
		c.Auth.BcryptCost = ParseIntWithFallback(cost, c.Auth.BcryptCost)
	}
	if minLen := os.Getenv("TL_PASSWORD_MIN_LENGTH"); minLen != "" {
		c.Auth.PasswordMinLength = ParseIntWithFallback(minLen, c.Auth.PasswordMinLength)
	}

	// Billing configuration
	if threshold := os.Getenv("TL_LONG_SESSION_THRESHOLD"); threshold != "" {
		c.Billing.LongSessionThreshold = ParseDurationWithFallback(threshold, c.Billing.LongSessionThreshold)
	}
	if percent := os.Getenv("TL_BUDGET_WARNING_PERCENT"); percent != "" {
		c.Billing.BudgetWarningPercent = ParseFloatWithFallback(percent, c.Billing.BudgetWarningPercent)
	}
	if percent := os.Getenv("TL_BUDGET_EXCEEDED_PERCENT"); percent != "" {
		c.Billing.BudgetExceededPercent = ParseFloatWithFallback(percent, c.Billing.BudgetExceededPercent)
	}
	if hours := os.Getenv("TL_MANUAL_ENTRY_MIN_HOURS"); hours != "" {
		c.Billing.ManualEntryMinHours = ParseFloatWithFallback(hours, c.Billing.ManualEntryMinHours)
	}
	if hours := os.Getenv("TL_MAX_ENTRY_HOURS"); hours != "" {
		c.Billing.MaxEntryHours = ParseFloatWithFallback(hours, c.Billing.MaxEntryHours)
	}

	// Validation configuration
	if minLen := os.Getenv("TL_VALIDATION_PROJECT_NAME_MIN"); minLen != "" {
		c.Validation.ProjectNameMinLength = ParseIntWithFallback(minLen, c.Validation.ProjectNameMinLength)
	}
	if maxLen := os.Getenv("TL_VALIDATION_PROJECT_NAME_MAX"); maxLen != "" {
		c.Validation.ProjectNameMaxLength = ParseIntWithFallback(maxLen, c.Validation.ProjectNameMaxLength)
	}
	if maxLen := os.Getenv("TL_VALIDATION_CLIENT_NAME_MAX"); maxLen != "" {
		c.Validation.ClientNameMaxLength = ParseIntWithFallback(maxLen, c.Validation.ClientNameMaxLength)
	}

	// Time configuration
	if format := os.Getenv("TL_TIME_DISPLAY_FORMAT"); format != "" {
		c.Time.DisplayFormat = format
	}
	if tz := os.Getenv("TL_TIMEZONE"); tz != "" {
		c.Time.Timezone = tz
	}

	// Logging configuration
	if level := os.Getenv("TL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TL_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	// Application configuration
	if timeout := os.Getenv("TL_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3":
		if c.Database.DSN == "" && c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.DSN == "" && c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case "postgres", "postgresql", "pq":
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "a DSN is required for postgres"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", c.Database.Driver)}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	// Validate auth configuration
	if c.Auth.TokenTTL <= 0 {
		return &ConfigError{Field: "auth.token_ttl", Message: "token TTL must be positive"}
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return &ConfigError{Field: "auth.bcrypt_cost", Message: "bcrypt cost must be between 4 and 31"}
	}
	if c.Auth.PasswordMinLength < 1 {
		return &ConfigError{Field: "auth.password_min_length", Message: "password minimum length must be at least 1"}
	}

	// Validate billing configuration
	if c.Billing.LongSessionThreshold <= 0 {
		return &ConfigError{Field: "billing.long_session_threshold", Message: "long session threshold must be positive"}
	}
	if c.Billing.BudgetWarningPercent <= 0 || c.Billing.BudgetWarningPercent >= c.Billing.BudgetExceededPercent {
		return &ConfigError{Field: "billing.budget_warning_percent", Message: "budget warning percent must be positive and below the exceeded percent"}
	}
	if c.Billing.ManualEntryMinHours <= 0 || math.IsNaN(c.Billing.ManualEntryMinHours) {
		return &ConfigError{Field: "billing.manual_entry_min_hours", Message: "manual entry minimum must be positive"}
	}
	if c.Billing.MaxEntryHours < c.Billing.ManualEntryMinHours {
		return &ConfigError{Field: "billing.max_entry_hours", Message: "maximum entry hours must not be below the minimum"}
	}

	// Validate validation configuration
	if c.Validation.ProjectNameMinLength < 1 {
		return &ConfigError{Field: "validation.project_name_min_length", Message: "project name minimum length must be at least 1"}
	}
	if c.Validation.ProjectNameMaxLength < c.Validation.ProjectNameMinLength {
		return &ConfigError{Field: "validation.project_name_max_length", Message: "project name maximum length must be greater than minimum length"}
	}
	if c.Validation.ClientNameMaxLength < 1 {
		return &ConfigError{Field: "validation.client_name_max_length", Message: "client name maximum length must be at least 1"}
	}

	// Validate time configuration
	if c.Time.DisplayFormat == "" {
		return &ConfigError{Field: "time.display_format", Message: "display format cannot be empty"}
	}
	if _, err := time.LoadLocation(c.Time.Timezone); err != nil {
		return &ConfigError{Field: "time.timezone", Message: fmt.Sprintf("unknown time zone %q", c.Time.Timezone)}
	}

	// Validate logging configuration
	switch c.Logging.Format {
	case "json", "console":
	default:
		return &ConfigError{Field: "logging.format", Message: "log format must be json or console"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// RequireJWTSecret reports a configuration error when tokens cannot be signed
func (c *Config) RequireJWTSecret() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return &ConfigError{Field: "auth.jwt_secret", Message: "a JWT secret is required (set TL_JWT_SECRET)"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseFloatWithFallback parses a float string with a fallback value
func ParseFloatWithFallback(s string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return fallback
}
