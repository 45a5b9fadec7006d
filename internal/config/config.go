// Package config handles configuration loading and validation for wikititle.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidSyntax   ConfigErrorType = "INVALID_SYNTAX"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidSyntax:
		return fmt.Sprintf("invalid configuration file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	DefaultProfileDirectory = "profiles"
	DefaultDebounceMillis   = 250
)

// WatchConfig controls hot reloading of profile files.
type WatchConfig struct {
	Enabled        bool `json:"enabled" yaml:"enabled"`
	DebounceMillis int  `json:"debounceMillis" yaml:"debounceMillis"`
}

// Debounce returns the debounce delay as a duration.
func (w *WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMillis) * time.Millisecond
}

// Configuration holds all settings for wikititle.
type Configuration struct {
	ProfileDirectory string       `json:"profileDirectory" yaml:"profileDirectory"`
	DefaultSite      string       `json:"defaultSite,omitempty" yaml:"defaultSite,omitempty"`
	DefaultNamespace int          `json:"defaultNamespace,omitempty" yaml:"defaultNamespace,omitempty"`
	Watch            *WatchConfig `json:"watch,omitempty" yaml:"watch,omitempty"`
	Color            string       `json:"color,omitempty" yaml:"color,omitempty"`
	Verbose          bool         `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Configuration {
	cfg := &Configuration{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func (c *Configuration) ApplyDefaults() {
	if c.ProfileDirectory == "" {
		c.ProfileDirectory = DefaultProfileDirectory
	}
	if c.Watch == nil {
		c.Watch = &WatchConfig{}
	}
	if c.Watch.DebounceMillis == 0 {
		c.Watch.DebounceMillis = DefaultDebounceMillis
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
}

// Validate checks field values.
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.ProfileDirectory) == "" {
		return &ConfigError{
			Type:    ValidationError,
			Message: "profileDirectory cannot be empty",
		}
	}

	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, c.Color),
		}
	}

	if c.Watch != nil && c.Watch.DebounceMillis < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("watch.debounceMillis cannot be negative, got %d", c.Watch.DebounceMillis),
		}
	}

	if c.DefaultNamespace < -2 {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("defaultNamespace %d is not a namespace id", c.DefaultNamespace),
		}
	}

	if strings.ContainsAny(c.DefaultSite, `/\`) {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("defaultSite %q is not a site id", c.DefaultSite),
		}
	}

	return nil
}

// ProfileDirectoryFrom resolves the profile directory relative to the
// directory holding the configuration file.
func (c *Configuration) ProfileDirectoryFrom(configPath string) string {
	if configPath == "" || filepath.IsAbs(c.ProfileDirectory) {
		return c.ProfileDirectory
	}
	return filepath.Join(filepath.Dir(configPath), c.ProfileDirectory)
}

// isYAML reports whether a path names a YAML file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// decode parses data as YAML or JSON depending on the file extension.
// Unknown fields are rejected in both formats.
func decode(path string, data []byte, cfg *Configuration) error {
	if isYAML(path) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return err
		}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Load reads, defaults and validates a configuration file. Files ending in
// .yaml or .yml are read as YAML, everything else as JSON.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{
				Type: FileNotFound,
				Path: filePath,
			}
		}
		return nil, errors.Wrapf(err, "reading configuration %s", filePath)
	}

	var config Configuration
	if err := decode(filePath, data, &config); err != nil {
		return nil, &ConfigError{
			Type:    InvalidSyntax,
			Path:    filePath,
			Message: err.Error(),
		}
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadOrDefault loads the configuration if the file exists and returns the
// defaults otherwise.
func LoadOrDefault(filePath string) (*Configuration, error) {
	cfg, err := Load(filePath)
	var configErr *ConfigError
	if errors.As(err, &configErr) && configErr.Type == FileNotFound {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a configuration in the format implied by the file extension.
func Save(config *Configuration, filePath string) error {
	var data []byte
	var err error
	if isYAML(filePath) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "encoding configuration")
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return errors.Wrapf(err, "writing configuration %s", filePath)
	}
	return nil
}
