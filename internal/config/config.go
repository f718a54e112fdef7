// Package config loads the optional feedauth.yaml configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "github.com/systmms/feedauth/internal/errors"
	"github.com/systmms/feedauth/internal/logging"
)

// DefaultTimeoutMs bounds one provider invocation when the config file does
// not override it: ten minutes, generous because providers may prompt.
const DefaultTimeoutMs = 600000

// Config holds the runtime configuration.
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Definition represents the feedauth.yaml structure.
type Definition struct {
	Version int `yaml:"version"`

	// ProviderPaths are extra directories searched for provider
	// executables, after the environment variable paths.
	ProviderPaths []string `yaml:"provider_paths,omitempty"`

	// TimeoutMs bounds a single provider invocation.
	TimeoutMs int `yaml:"timeout_ms,omitempty"`

	// Verbosity is the default level forwarded to providers
	// (Debug/Verbose/Information/Minimal/Warning/Error).
	Verbosity string `yaml:"verbosity,omitempty"`

	// UseKeyring enables the OS keyring as a fallback credential source.
	UseKeyring bool `yaml:"use_keyring,omitempty"`
}

// Load reads and parses the config file. A missing file is not an error;
// defaults apply.
func (c *Config) Load() error {
	c.Definition = &Definition{}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ferrors.UserError{
			Message:    fmt.Sprintf("Cannot read config file '%s'", c.Path),
			Suggestion: "Check the path and file permissions",
			Err:        err,
		}
	}

	if err := yaml.Unmarshal(data, c.Definition); err != nil {
		return ferrors.UserError{
			Message:    fmt.Sprintf("Invalid YAML in config file '%s'", c.Path),
			Suggestion: "Check for indentation errors and missing quotes",
			Err:        err,
		}
	}

	if c.Definition.TimeoutMs < 0 {
		return ferrors.ConfigurationError{
			Argument: "timeout_ms",
			Value:    fmt.Sprintf("%d", c.Definition.TimeoutMs),
			Message:  "timeout must not be negative",
		}
	}

	return nil
}

// Timeout returns the configured provider invocation timeout.
func (c *Config) Timeout() time.Duration {
	ms := DefaultTimeoutMs
	if c.Definition != nil && c.Definition.TimeoutMs > 0 {
		ms = c.Definition.TimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

// ProviderPaths returns the configured extra search directories.
func (c *Config) ProviderPaths() []string {
	if c.Definition == nil {
		return nil
	}
	return c.Definition.ProviderPaths
}

// UseKeyring reports whether the OS keyring fallback is enabled.
func (c *Config) UseKeyring() bool {
	return c.Definition != nil && c.Definition.UseKeyring
}

// Verbosity returns the configured default verbosity name, or empty.
func (c *Config) Verbosity() string {
	if c.Definition == nil {
		return ""
	}
	return c.Definition.Verbosity
}
