// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default values used when neither the config file nor the environment sets a field.
const (
	DefaultDBPath        = "jobfiltr.db"
	DefaultWorkers       = 4
	DefaultBlocklistTTL  = time.Hour
	DefaultScoreCacheTTL = time.Hour
	DefaultPort          = 8080
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Storage
	DBPath      string `json:"db_path,omitempty"`      // Local sqlite file; ":memory:" keeps everything in memory
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL community store

	// Detection
	SignalTables          string `json:"signal_tables,omitempty"`           // YAML lexicon/weight overrides
	Workers               int    `json:"workers,omitempty" validate:"min=0,max=64"`
	GhostApplicantSignals bool   `json:"ghost_applicant_signals,omitempty"` // Count applicant totals as a ghost signal

	// Caching
	BlocklistTTL  string `json:"blocklist_ttl,omitempty"`   // Go duration, e.g. "30m"
	ScoreCacheTTL string `json:"score_cache_ttl,omitempty"` // Go duration, e.g. "1h"

	// Server
	Port int `json:"port,omitempty" validate:"min=0,max=65535"`

	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DBPath:        DefaultDBPath,
		Workers:       DefaultWorkers,
		BlocklistTTL:  DefaultBlocklistTTL.String(),
		ScoreCacheTTL: DefaultScoreCacheTTL.String(),
		Port:          DefaultPort,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	for name, value := range map[string]string{
		"blocklist_ttl":   c.BlocklistTTL,
		"score_cache_ttl": c.ScoreCacheTTL,
	} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("config error: '%s' is not a duration: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("config error: '%s' must be non-negative", name)
		}
	}

	if c.SignalTables != "" {
		if _, err := os.Stat(c.SignalTables); os.IsNotExist(err) {
			return fmt.Errorf("config error: signal tables file not found: %s", c.SignalTables)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DBPath == "" {
		result.DBPath = defaults.DBPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SignalTables == "" {
		result.SignalTables = defaults.SignalTables
	}
	if result.BlocklistTTL == "" {
		result.BlocklistTTL = defaults.BlocklistTTL
	}
	if result.ScoreCacheTTL == "" {
		result.ScoreCacheTTL = defaults.ScoreCacheTTL
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags and the environment win for bools)

	return result
}

// ApplyEnv overrides fields from the environment. Unparsable numbers are reported
// and leave the field unchanged.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("JOBFILTR_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("JOBFILTR_SIGNAL_TABLES"); v != "" {
		c.SignalTables = v
	}
	if v := os.Getenv("JOBFILTR_BLOCKLIST_TTL"); v != "" {
		c.BlocklistTTL = v
	}
	if v := os.Getenv("JOBFILTR_SCORE_CACHE_TTL"); v != "" {
		c.ScoreCacheTTL = v
	}
	if v := os.Getenv("JOBFILTR_GHOST_APPLICANT_SIGNALS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid JOBFILTR_GHOST_APPLICANT_SIGNALS: %v", err)
		}
		c.GhostApplicantSignals = b
	}
	if v := os.Getenv("JOBFILTR_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JOBFILTR_WORKERS: %v", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = n
	}
	return nil
}

// BlocklistCacheTTL returns the parsed blocklist_ttl, or the default when unset.
func (c *Config) BlocklistCacheTTL() time.Duration {
	return parseDuration(c.BlocklistTTL, DefaultBlocklistTTL)
}

// ScoreTTL returns the parsed score_cache_ttl, or the default when unset.
func (c *Config) ScoreTTL() time.Duration {
	return parseDuration(c.ScoreCacheTTL, DefaultScoreCacheTTL)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
