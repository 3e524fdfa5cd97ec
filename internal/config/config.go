// Package config provides configuration for the lvtree service and CLI.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/lvtree/tree"
)

// Config is the root configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Tree   TreeConfig   `koanf:"tree"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

// TreeConfig holds forest builder settings.
type TreeConfig struct {
	// ParallelThreshold is the record count from which parent resolution
	// fans out.
	ParallelThreshold int `koanf:"parallel_threshold"`

	// Workers limits fan-out goroutines; 0 means GOMAXPROCS.
	Workers int `koanf:"workers"`

	// MaxRecords rejects larger record sets before building.
	MaxRecords int `koanf:"max_records"`

	// CyclePolicy is "break" (default) or "roots".
	CyclePolicy string `koanf:"cycle_policy"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Defaults.
const (
	DefaultHost            = "localhost"
	DefaultPort            = 8080
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 8 << 20
	DefaultMaxRecords      = 100000
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills zero values.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Tree.ParallelThreshold == 0 {
		cfg.Tree.ParallelThreshold = tree.DefaultParallelThreshold
	}
	if cfg.Tree.MaxRecords == 0 {
		cfg.Tree.MaxRecords = DefaultMaxRecords
	}
	if cfg.Tree.CyclePolicy == "" {
		cfg.Tree.CyclePolicy = tree.CycleBreak.String()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout cannot be negative"))
	}
	if c.Server.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes cannot be negative"))
	}
	if err := c.Tree.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Validate checks the tree section.
func (t TreeConfig) Validate() error {
	var errs []error
	if t.ParallelThreshold < 0 {
		errs = append(errs, fmt.Errorf("tree.parallel_threshold cannot be negative"))
	}
	if t.Workers < 0 {
		errs = append(errs, fmt.Errorf("tree.workers cannot be negative"))
	}
	if t.MaxRecords < 0 {
		errs = append(errs, fmt.Errorf("tree.max_records cannot be negative"))
	}
	if _, err := tree.ParseCyclePolicy(t.CyclePolicy); err != nil {
		errs = append(errs, fmt.Errorf("tree.cycle_policy: %w", err))
	}

	return errors.Join(errs...)
}

// Options translates the tree section into builder options.
func (t TreeConfig) Options() ([]tree.Option, error) {
	policy, err := tree.ParseCyclePolicy(t.CyclePolicy)
	if err != nil {
		return nil, err
	}
	opts := []tree.Option{tree.WithCyclePolicy(policy)}
	if t.ParallelThreshold > 0 {
		opts = append(opts, tree.WithParallelThreshold(t.ParallelThreshold))
	}
	if t.Workers > 0 {
		opts = append(opts, tree.WithWorkers(t.Workers))
	}

	return opts, nil
}
