// Package cli formats geoalab command output: colored labels on a terminal,
// plain text otherwise, and rustc-style rendering of *alerr.Error values.
package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// OutputMode determines how output is formatted.
type OutputMode int

const (
	// ModeTTY enables colored output for interactive terminals.
	ModeTTY OutputMode = iota
	// ModePlain outputs text without colors (pipes, CI, NO_COLOR).
	ModePlain
)

// Config holds CLI output configuration.
type Config struct {
	Mode   OutputMode
	Writer io.Writer
}

// DefaultConfig detects the output mode for stdout.
//   - stdout is a terminal and NO_COLOR is unset -> ModeTTY
//   - otherwise, or TERM=dumb -> ModePlain
func DefaultConfig() *Config {
	return detect(os.Stdout, os.Getenv)
}

func detect(f *os.File, getenv func(string) string) *Config {
	mode := ModePlain
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		mode = ModeTTY
	}
	// https://no-color.org/
	if getenv("NO_COLOR") != "" || getenv("TERM") == "dumb" {
		mode = ModePlain
	}
	return &Config{Mode: mode, Writer: f}
}

// IsTTY returns true if running in interactive terminal mode.
func (c *Config) IsTTY() bool {
	return c.Mode == ModeTTY
}

var defaultCfg *Config

// Default returns the process-wide configuration, detecting it on first use.
func Default() *Config {
	if defaultCfg == nil {
		defaultCfg = DefaultConfig()
	}
	return defaultCfg
}

// SetDefault replaces the process-wide configuration.
func SetDefault(cfg *Config) {
	defaultCfg = cfg
}

// EnableColors returns true if colors should be used.
func EnableColors() bool {
	return Default().IsTTY()
}
