// =============================================================================
// Extension Request Processor - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. Everything here can also be set from the command line or
// the environment; the cmd package layers those sources over the values
// loaded from YAML.
//
// CONFIGURATION FILE (extensions.yaml):
//   output_dir: ./extensions_output
//   adjust_to_sunday: true
//   dry_run: false
//   write_processed_copy: true
//   log_level: info
//   input_encoding: utf-8
//   columns:
//     email: Email
//     name: Name
//     assignment: "Which assignment due date do you want to change?"
//     date: "What would you like to new date to be change too?"
//     done: "DONE?"
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// Default header texts, exactly as Microsoft Forms exports them.
const (
	DefaultEmailColumn      = "Email"
	DefaultNameColumn       = "Name"
	DefaultAssignmentColumn = "Which assignment due date do you want to change?"
	DefaultDateColumn       = "What would you like to new date to be change too?"
	DefaultDoneColumn       = "DONE?"
)

// DefaultOutputDir is where output files go when nothing else is configured.
const DefaultOutputDir = "./extensions_output"

// DoneMarker is the cell value that flags a row as already handled.
const DoneMarker = "*"

// Supported input encodings.
var supportedEncodings = map[string]bool{
	"utf-8":        true,
	"utf-16":       true,
	"windows-1252": true,
}

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// OutputDir is the directory where per-assignment files, the failure
	// report, and SUMMARY.txt are written.
	OutputDir string `yaml:"output_dir"`

	// AdjustToSunday normalizes due dates to the following Sunday.
	// When false, requested dates are used unchanged.
	AdjustToSunday *bool `yaml:"adjust_to_sunday"`

	// DryRun performs every computation but writes nothing.
	DryRun bool `yaml:"dry_run"`

	// WriteProcessedCopy re-emits the input with handled rows marked.
	WriteProcessedCopy *bool `yaml:"write_processed_copy"`

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// InputEncoding is the text encoding of file and stdin input.
	// Valid values: "utf-8", "utf-16", "windows-1252".
	InputEncoding string `yaml:"input_encoding"`

	// Columns overrides the expected header texts.
	Columns ColumnConfig `yaml:"columns"`
}

// ColumnConfig holds the exact header text of each logical column.
// Matching is case-sensitive.
type ColumnConfig struct {
	Email      string `yaml:"email"`
	Name       string `yaml:"name"`
	Assignment string `yaml:"assignment"`
	Date       string `yaml:"date"`

	// Done is optional. Rows whose Done cell holds DoneMarker are skipped.
	Done string `yaml:"done"`
}

// DefaultColumns returns the Microsoft Forms column names.
func DefaultColumns() ColumnConfig {
	return ColumnConfig{
		Email:      DefaultEmailColumn,
		Name:       DefaultNameColumn,
		Assignment: DefaultAssignmentColumn,
		Date:       DefaultDateColumn,
		Done:       DefaultDoneColumn,
	}
}

// Required returns the header texts that must be present, in the order
// email, name, assignment, date.
func (c ColumnConfig) Required() []string {
	return []string{c.Email, c.Name, c.Assignment, c.Date}
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Adjust reports whether due dates should be normalized to Sunday.
func (c *Config) Adjust() bool {
	return c.AdjustToSunday == nil || *c.AdjustToSunday
}

// ProcessedCopy reports whether the processed copy should be written.
func (c *Config) ProcessedCopy() bool {
	return c.WriteProcessedCopy == nil || *c.WriteProcessedCopy
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - optional: When true, a missing file yields the defaults instead of an error.
//
// RETURNS:
//   - A pointer to the Config struct with defaults applied.
//   - An error if the file cannot be read, parsed, or validated.
func Load(configPath string, optional bool) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.AdjustToSunday == nil {
		v := true
		cfg.AdjustToSunday = &v
	}
	if cfg.WriteProcessedCopy == nil {
		v := true
		cfg.WriteProcessedCopy = &v
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.InputEncoding == "" {
		cfg.InputEncoding = "utf-8"
	}
	cfg.InputEncoding = strings.ToLower(cfg.InputEncoding)

	defaults := DefaultColumns()
	if cfg.Columns.Email == "" {
		cfg.Columns.Email = defaults.Email
	}
	if cfg.Columns.Name == "" {
		cfg.Columns.Name = defaults.Name
	}
	if cfg.Columns.Assignment == "" {
		cfg.Columns.Assignment = defaults.Assignment
	}
	if cfg.Columns.Date == "" {
		cfg.Columns.Date = defaults.Date
	}
	if cfg.Columns.Done == "" {
		cfg.Columns.Done = defaults.Done
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if !supportedEncodings[c.InputEncoding] {
		return fmt.Errorf("unsupported input_encoding %q", c.InputEncoding)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}

	seen := make(map[string]bool)
	for _, name := range c.Columns.Required() {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("required column names must not be blank")
		}
		if seen[name] {
			return fmt.Errorf("column %q is configured more than once", name)
		}
		seen[name] = true
	}

	return nil
}
