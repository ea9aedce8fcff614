// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Store driver names.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the event store backend: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used when StoreDriver is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// DefaultPageSize applies when a list request omits size.
	DefaultPageSize int `koanf:"default_page_size"`

	// MinPageSize and MaxPageSize bound the size query parameter.
	MinPageSize int `koanf:"min_page_size"`
	MaxPageSize int `koanf:"max_page_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		StoreDriver:     DriverMemory,
		SQLitePath:      "checkind.db",
		DefaultPageSize: 10,
		MinPageSize:     10,
		MaxPageSize:     100,
	}
}
