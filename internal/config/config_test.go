package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "timeledger.db", cfg.Database.Filename)
	assert.Equal(t, ".timeledger", filepath.Base(cfg.Database.Dir))
	assert.Equal(t, 10*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 5*time.Second, cfg.Database.WriteTimeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 6, cfg.Auth.PasswordMinLength)
	assert.Equal(t, 8*time.Hour, cfg.Billing.LongSessionThreshold)
	assert.Equal(t, 90.0, cfg.Billing.BudgetWarningPercent)
	assert.Equal(t, 100.0, cfg.Billing.BudgetExceededPercent)
	assert.Equal(t, 0.01, cfg.Billing.ManualEntryMinHours)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_GetDSN(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Dir = "/var/lib/ledger"
	assert.Equal(t, "/var/lib/ledger/timeledger.db", cfg.GetDSN())

	cfg.Database.DSN = "file:other.db"
	assert.Equal(t, "file:other.db", cfg.GetDSN())
}

func TestConfig_LoadFromEnvironment(t *testing.T) {
	t.Setenv("TL_DB_DRIVER", "postgres")
	t.Setenv("TL_DB_DSN", "postgres://db/ledger")
	t.Setenv("TL_DB_QUERY_TIMEOUT", "3s")
	t.Setenv("TL_DB_DIR_PERMISSIONS", "700")
	t.Setenv("TL_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("TL_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TL_JWT_SECRET", "s3cret")
	t.Setenv("TL_JWT_TTL", "1h")
	t.Setenv("TL_LONG_SESSION_THRESHOLD", "4h")
	t.Setenv("TL_BUDGET_WARNING_PERCENT", "75")
	t.Setenv("TL_LOG_LEVEL", "debug")
	t.Setenv("TL_DB_WRITE_TIMEOUT", "not-a-duration")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://db/ledger", cfg.Database.DSN)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 5*time.Second, cfg.Database.WriteTimeout, "invalid values keep the previous setting")
	assert.Equal(t, uint32(0700), cfg.Database.DirPermissions)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 4*time.Hour, cfg.Billing.LongSessionThreshold)
	assert.Equal(t, 75.0, cfg.Billing.BudgetWarningPercent)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeledger.yaml")
	content := `
database:
  filename: custom.db
  query_timeout: 2s
server:
  addr: ":9090"
billing:
  long_session_threshold: 6h
  budget_warning_percent: 85
logging:
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, "custom.db", cfg.Database.Filename)
	assert.Equal(t, 2*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver, "keys absent from the file keep their defaults")
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 6*time.Hour, cfg.Billing.LongSessionThreshold)
	assert.Equal(t, 85.0, cfg.Billing.BudgetWarningPercent)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestConfig_LoadFile_Errors(t *testing.T) {
	cfg := NewConfig()
	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	err := cfg.LoadFile(path)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "file", cfgErr.Field)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, "database.driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "database.dsn"},
		{"empty dir", func(c *Config) { c.Database.Dir = "" }, "database.dir"},
		{"empty filename", func(c *Config) { c.Database.Filename = "" }, "database.filename"},
		{"query timeout", func(c *Config) { c.Database.QueryTimeout = 0 }, "database.query_timeout"},
		{"write timeout", func(c *Config) { c.Database.WriteTimeout = -time.Second }, "database.write_timeout"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout"},
		{"token ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, "auth.token_ttl"},
		{"bcrypt cost", func(c *Config) { c.Auth.BcryptCost = 2 }, "auth.bcrypt_cost"},
		{"password min", func(c *Config) { c.Auth.PasswordMinLength = 0 }, "auth.password_min_length"},
		{"long session", func(c *Config) { c.Billing.LongSessionThreshold = 0 }, "billing.long_session_threshold"},
		{"warning above exceeded", func(c *Config) { c.Billing.BudgetWarningPercent = 120 }, "billing.budget_warning_percent"},
		{"manual minimum", func(c *Config) { c.Billing.ManualEntryMinHours = 0 }, "billing.manual_entry_min_hours"},
		{"max below min", func(c *Config) { c.Billing.MaxEntryHours = 0.001 }, "billing.max_entry_hours"},
		{"name min", func(c *Config) { c.Validation.ProjectNameMinLength = 0 }, "validation.project_name_min_length"},
		{"name max", func(c *Config) { c.Validation.ProjectNameMaxLength = 0 }, "validation.project_name_max_length"},
		{"client max", func(c *Config) { c.Validation.ClientNameMaxLength = 0 }, "validation.client_name_max_length"},
		{"display format", func(c *Config) { c.Time.DisplayFormat = "" }, "time.display_format"},
		{"timezone", func(c *Config) { c.Time.Timezone = "Mars/Olympus" }, "time.timezone"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"app timeout", func(c *Config) { c.Application.Timeout = 0 }, "application.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfig_RequireJWTSecret(t *testing.T) {
	cfg := NewConfig()
	assert.Error(t, cfg.RequireJWTSecret())

	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, cfg.RequireJWTSecret())
}

func TestConfig_Location(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Time.Timezone = "Europe/Berlin"
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())

	cfg.Time.Timezone = "nowhere"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\nlogging:\n  level: warn\n"), 0o600))

	t.Setenv("TL_LOG_LEVEL", "error")

	addr := ":7777"
	cfg, err := NewLoader().LoadWithOverrides(&ConfigOverrides{ConfigFile: &path, Addr: &addr})
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Server.Addr, "flags beat the file")
	assert.Equal(t, "error", cfg.Logging.Level, "environment beats the file")
}

func TestLoader_LoadWithOverrides_Invalid(t *testing.T) {
	format := "xml"
	_, err := NewLoader().LoadWithOverrides(&ConfigOverrides{LogFormat: &format})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "logging.format", cfgErr.Field)
}

func TestLoader_ConfigFileFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  token_ttl: 2h\n"), 0o600))
	t.Setenv(ConfigFileEnv, path)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestParseWithFallback(t *testing.T) {
	assert.Equal(t, time.Minute, ParseDurationWithFallback("1m", time.Second))
	assert.Equal(t, time.Second, ParseDurationWithFallback("soon", time.Second))
	assert.Equal(t, 5, ParseIntWithFallback("5", 1))
	assert.Equal(t, 1, ParseIntWithFallback("five", 1))
	assert.True(t, ParseBoolWithFallback("true", false))
	assert.False(t, ParseBoolWithFallback("maybe", false))
	assert.Equal(t, uint32(0750), ParseUint32WithFallback("750", 8, 0))
	assert.Equal(t, 2.5, ParseFloatWithFallback("2.5", 1))
	assert.Equal(t, 1.0, ParseFloatWithFallback("x", 1))
}
