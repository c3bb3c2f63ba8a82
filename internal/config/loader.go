package config

import (
	"os"
	"strconv"
	"time"
)

// ConfigFileEnv names the environment variable holding the YAML config path
const ConfigFileEnv = "TL_CONFIG_FILE"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Merge the YAML file named by TL_CONFIG_FILE, if any
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	return l.load(os.Getenv(ConfigFileEnv))
}

// LoadWithOverrides loads configuration and applies command line overrides.
// A ConfigFile override replaces TL_CONFIG_FILE.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	file := os.Getenv(ConfigFileEnv)
	if overrides != nil && overrides.ConfigFile != nil && *overrides.ConfigFile != "" {
		file = *overrides.ConfigFile
	}

	config, err := l.load(file)
	if err != nil {
		return nil, err
	}

	// Apply command line overrides
	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (l *Loader) load(file string) (*Config, error) {
	if file != "" {
		if err := l.config.LoadFile(file); err != nil {
			return nil, err
		}
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	ConfigFile *string

	// Database overrides
	DBDriver         *string
	DBDSN            *string
	DBDir            *string
	DBFilename       *string
	DBQueryTimeout   *time.Duration
	DBWriteTimeout   *time.Duration
	DBDirPermissions *uint32

	// Server overrides
	Addr *string

	// Auth overrides
	JWTSecret *string

	// Logging overrides
	LogLevel  *string
	LogFormat *string

	// Application overrides
	Timeout *time.Duration
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Database overrides
	if overrides.DBDriver != nil {
		config.Database.Driver = *overrides.DBDriver
	}
	if overrides.DBDSN != nil {
		config.Database.DSN = *overrides.DBDSN
	}
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBQueryTimeout != nil {
		config.Database.QueryTimeout = *overrides.DBQueryTimeout
	}
	if overrides.DBWriteTimeout != nil {
		config.Database.WriteTimeout = *overrides.DBWriteTimeout
	}
	if overrides.DBDirPermissions != nil {
		config.Database.DirPermissions = *overrides.DBDirPermissions
	}

	// Server overrides
	if overrides.Addr != nil {
		config.Server.Addr = *overrides.Addr
	}

	// Auth overrides
	if overrides.JWTSecret != nil {
		config.Auth.JWTSecret = *overrides.JWTSecret
	}

	// Logging overrides
	if overrides.LogLevel != nil {
		config.Logging.Level = *overrides.LogLevel
	}
	if overrides.LogFormat != nil {
		config.Logging.Format = *overrides.LogFormat
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
