package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if CHECKIND_CONFIG is set
//  3. env (prefix CHECKIND_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("CHECKIND_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: CHECKIND_ADDR, CHECKIND_STORE_DRIVER, ...
	// Map env keys like CHECKIND_STORE_DRIVER -> store_driver (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("CHECKIND_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "checkind_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.StoreDriver != DriverMemory && cfg.StoreDriver != DriverSQLite:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, cfg.StoreDriver)
	case cfg.StoreDriver == DriverSQLite && cfg.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
	case cfg.MinPageSize < 1 || cfg.MaxPageSize < cfg.MinPageSize:
		return fmt.Errorf("%w: page size bounds %d..%d", ErrInvalidConfig, cfg.MinPageSize, cfg.MaxPageSize)
	case cfg.DefaultPageSize < cfg.MinPageSize || cfg.DefaultPageSize > cfg.MaxPageSize:
		return fmt.Errorf("%w: default_page_size %d outside %d..%d",
			ErrInvalidConfig, cfg.DefaultPageSize, cfg.MinPageSize, cfg.MaxPageSize)
	}
	return nil
}
