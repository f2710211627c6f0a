// Package config loads geoalab.yaml and the models file it points to.
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/geoalab/internal/alerr"
	"github.com/hlop3z/geoalab/internal/dialect"
	"github.com/hlop3z/geoalab/internal/logger"
)

// DefaultFile is the config file read when no path is given.
const DefaultFile = "geoalab.yaml"

// Environment variables consulted by Load.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvDialect     = "GEOALAB_DIALECT"
)

// Config represents the geoalab.yaml configuration file.
type Config struct {
	Dialect     string    `yaml:"dialect"`
	DatabaseURL string    `yaml:"database_url"`
	DefaultSRID int32     `yaml:"default_srid"`
	Models      string    `yaml:"models"`
	Log         LogConfig `yaml:"log"`
}

// LogConfig is the log section of the config file.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Overrides holds values given on the command line. Empty fields are unset.
type Overrides struct {
	DatabaseURL string
	Dialect     string
	Models      string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Dialect:     "postgres",
		DefaultSRID: 4326,
		Models:      "models.yaml",
		Log:         LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads path (DefaultFile when empty) and applies env vars and flags.
// Precedence: flags > env vars > config file > defaults. A missing file is
// not an error.
func Load(path string, flags Overrides) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, cfg); err != nil {
			var e *alerr.Error
			if errors.As(err, &e) {
				e.WithFile(path)
			}
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, alerr.Wrap(alerr.ErrConfigRead, err, "failed to read config file").WithFile(path)
	}

	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv(EnvDialect); v != "" {
		cfg.Dialect = v
	}

	if flags.DatabaseURL != "" {
		cfg.DatabaseURL = flags.DatabaseURL
	}
	if flags.Dialect != "" {
		cfg.Dialect = flags.Dialect
	}
	if flags.Models != "" {
		cfg.Models = flags.Models
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the document does not set.
// ${VAR} references in database_url are expanded.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return alerr.Wrap(alerr.ErrConfigInvalid, err, "failed to parse config file")
	}
	cfg.DatabaseURL = expandEnvVars(cfg.DatabaseURL)
	return nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

// Validate checks the dialect name and the default SRID.
func (c *Config) Validate() error {
	if dialect.Get(c.Dialect) == nil {
		return alerr.Newf(alerr.ErrConfigInvalid, "unknown dialect %q", c.Dialect).
			WithHelp("supported dialects: " + strings.Join(dialect.Names(), ", "))
	}
	if c.DefaultSRID < 0 {
		return alerr.Newf(alerr.ErrConfigInvalid, "default_srid must not be negative, got %d", c.DefaultSRID)
	}
	return nil
}

// SQLDialect returns the configured dialect implementation.
func (c *Config) SQLDialect() dialect.Dialect {
	return dialect.Get(c.Dialect)
}

// Logger builds a logger from the log section, writing to out.
func (c *Config) Logger(out io.Writer) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Output: out,
	})
}
