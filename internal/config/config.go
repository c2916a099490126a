// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides configuration loading and validation for routelint.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the routelint configuration.
type Config struct {
	// Root is the Rails application root
	Root string `mapstructure:"root" yaml:"root" json:"root"`

	// Framework is the framework plugin to use (auto, rails)
	Framework string `mapstructure:"framework" yaml:"framework" json:"framework"`

	// Routes contains route definition file configuration
	Routes RoutesConfig `mapstructure:"routes" yaml:"routes" json:"routes"`

	// Controllers contains controller source scanning configuration
	Controllers ControllersConfig `mapstructure:"controllers" yaml:"controllers" json:"controllers"`

	// Gems contains installed gem discovery configuration
	Gems GemsConfig `mapstructure:"gems" yaml:"gems" json:"gems"`

	// Analysis contains issue classification configuration
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" json:"analysis"`

	// Annotate contains routes file annotation configuration
	Annotate AnnotateConfig `mapstructure:"annotate" yaml:"annotate" json:"annotate"`

	// Report contains action report configuration
	Report ReportConfig `mapstructure:"report" yaml:"report" json:"report"`

	// Output contains output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Watch contains file watching configuration
	Watch WatchConfig `mapstructure:"watch" yaml:"watch" json:"watch"`

	// Log contains diagnostic logging configuration
	Log LogConfig `mapstructure:"log" yaml:"log" json:"log"`
}

// RoutesConfig contains route definition file configuration.
type RoutesConfig struct {
	// Files are glob patterns of routes files, relative to the root
	Files []string `mapstructure:"files" yaml:"files" json:"files"`
}

// ControllersConfig contains controller source scanning configuration.
type ControllersConfig struct {
	// Include is a list of glob patterns to include
	Include []string `mapstructure:"include" yaml:"include" json:"include"`

	// Exclude is a list of glob patterns to exclude
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`

	// RespectGitignore skips controllers ignored by the root .gitignore
	RespectGitignore bool `mapstructure:"respectGitignore" yaml:"respectGitignore" json:"respectGitignore"`
}

// GemsConfig contains installed gem discovery configuration.
type GemsConfig struct {
	// Paths are glob patterns of "<name>-<version>" gem directories
	Paths []string `mapstructure:"paths" yaml:"paths" json:"paths"`

	// Entries maps gem names to their directories
	Entries map[string]string `mapstructure:"entries" yaml:"entries,omitempty" json:"entries,omitempty"`
}

// AnalysisConfig contains issue classification configuration.
type AnalysisConfig struct {
	// OnlyOnly always suggests only: for resources
	OnlyOnly bool `mapstructure:"onlyOnly" yaml:"onlyOnly" json:"onlyOnly"`

	// OnlyExcept always suggests except: for resources
	OnlyExcept bool `mapstructure:"onlyExcept" yaml:"onlyExcept" json:"onlyExcept"`

	// Verbose appends the missing actions to resources messages
	Verbose bool `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
}

// AnnotateConfig contains routes file annotation configuration.
type AnnotateConfig struct {
	// File is the routes file to annotate when several have issues
	File string `mapstructure:"file" yaml:"file,omitempty" json:"file,omitempty"`

	// Force allows modifying files outside the root or with local changes
	Force bool `mapstructure:"force" yaml:"force" json:"force"`

	// SkipGit skips the uncommitted changes check
	SkipGit bool `mapstructure:"skipGit" yaml:"skipGit" json:"skipGit"`
}

// ReportConfig contains action report configuration.
type ReportConfig struct {
	Duplicates bool `mapstructure:"duplicates" yaml:"duplicates" json:"duplicates"`
	Gems       bool `mapstructure:"gems" yaml:"gems" json:"gems"`
	Modules    bool `mapstructure:"modules" yaml:"modules" json:"modules"`
	FullPath   bool `mapstructure:"fullPath" yaml:"fullPath" json:"fullPath"`
	Metadata   bool `mapstructure:"metadata" yaml:"metadata" json:"metadata"`
	All        bool `mapstructure:"all" yaml:"all" json:"all"`
}

// OutputConfig contains output configuration.
type OutputConfig struct {
	// Format is the output format (text, json, yaml, toml)
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// WatchConfig contains file watching configuration.
type WatchConfig struct {
	// Debounce is the debounce duration in milliseconds
	Debounce int `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

// LogConfig contains diagnostic logging configuration.
type LogConfig struct {
	// Level is the minimum level (debug, info, warn, error); empty follows -v/-q
	Level string `mapstructure:"level" yaml:"level,omitempty" json:"level,omitempty"`

	// File sends logs to a rotating file instead of stderr
	File string `mapstructure:"file" yaml:"file,omitempty" json:"file,omitempty"`

	MaxSizeMB  int `mapstructure:"maxSizeMB" yaml:"maxSizeMB" json:"maxSizeMB"`
	MaxBackups int `mapstructure:"maxBackups" yaml:"maxBackups" json:"maxBackups"`
	MaxAgeDays int `mapstructure:"maxAgeDays" yaml:"maxAgeDays" json:"maxAgeDays"`
}

// configFileNames is the list of config file names to search for (in order).
var configFileNames = []string{
	"routelint.yaml",
	"routelint.yml",
	"routelint.json",
	"routelint.toml",
	".routelint.yaml",
	".routelint.yml",
	".routelint.json",
	".routelint.toml",
}

// supportedFrameworks is the list of supported frameworks.
var supportedFrameworks = []string{
	"auto",
	"rails",
}

// SupportedFormats is the list of supported output formats.
var SupportedFormats = []string{
	"text",
	"json",
	"yaml",
	"toml",
}

var supportedLogLevels = []string{
	"debug",
	"info",
	"warn",
	"error",
}

// ErrConfigNotFound is returned when no config file is found.
var ErrConfigNotFound = errors.New("config file not found")

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("config validation errors:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Field)
		sb.WriteString(": ")
		sb.WriteString(err.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

var (
	defaultRoutesFiles        = []string{"config/routes.rb", "config/routes/**/*.rb"}
	defaultControllersInclude = []string{"app/controllers/**/*.rb"}
	defaultGemPaths           = []string{"vendor/bundle/ruby/*/gems/*"}
)

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Root:      ".",
		Framework: "auto",
		Routes: RoutesConfig{
			Files: slices.Clone(defaultRoutesFiles),
		},
		Controllers: ControllersConfig{
			Include:          slices.Clone(defaultControllersInclude),
			Exclude:          []string{},
			RespectGitignore: true,
		},
		Gems: GemsConfig{
			Paths: slices.Clone(defaultGemPaths),
		},
		Output: OutputConfig{
			Format: "text",
		},
		Watch: WatchConfig{
			Debounce: 500,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load loads the configuration from a file.
// It searches the working directory for the names in configFileNames,
// in order. If configPath is provided, it will use that path instead.
// An explicit path that does not exist yields ErrConfigNotFound.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		v.SetConfigFile(configPath)
	} else {
		name := ConfigFilePath()
		if name == "" {
			// Return default config if no file found
			return Default(), nil
		}
		v.SetConfigFile(name)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadFromPath loads the configuration from a specific directory.
func LoadFromPath(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// setDefaults sets the default values for viper.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("root", d.Root)
	v.SetDefault("framework", d.Framework)
	v.SetDefault("routes.files", d.Routes.Files)
	v.SetDefault("controllers.include", d.Controllers.Include)
	v.SetDefault("controllers.exclude", d.Controllers.Exclude)
	v.SetDefault("controllers.respectGitignore", d.Controllers.RespectGitignore)
	v.SetDefault("gems.paths", d.Gems.Paths)
	v.SetDefault("analysis.onlyOnly", false)
	v.SetDefault("analysis.onlyExcept", false)
	v.SetDefault("analysis.verbose", false)
	v.SetDefault("annotate.force", false)
	v.SetDefault("annotate.skipGit", false)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("log.maxSizeMB", d.Log.MaxSizeMB)
	v.SetDefault("log.maxBackups", d.Log.MaxBackups)
	v.SetDefault("log.maxAgeDays", d.Log.MaxAgeDays)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	// Validate framework
	if c.Framework != "" && !slices.Contains(supportedFrameworks, c.Framework) {
		errs = append(errs, ValidationError{
			Field:   "framework",
			Message: fmt.Sprintf("unsupported framework %q, must be one of: %s", c.Framework, strings.Join(supportedFrameworks, ", ")),
		})
	}

	// Validate format
	if c.Output.Format != "" && !slices.Contains(SupportedFormats, c.Output.Format) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("unsupported format %q, must be one of: %s", c.Output.Format, strings.Join(SupportedFormats, ", ")),
		})
	}

	if c.Log.Level != "" && !slices.Contains(supportedLogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unsupported level %q, must be one of: %s", c.Log.Level, strings.Join(supportedLogLevels, ", ")),
		})
	}

	if len(c.Routes.Files) == 0 {
		errs = append(errs, ValidationError{
			Field:   "routes.files",
			Message: "at least one routes file pattern is required",
		})
	}

	if c.Analysis.OnlyOnly && c.Analysis.OnlyExcept {
		errs = append(errs, ValidationError{
			Field:   "analysis.onlyExcept",
			Message: "onlyOnly and onlyExcept are mutually exclusive",
		})
	}

	// Validate watch debounce
	if c.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{
			Field:   "log",
			Message: "rotation limits must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ConfigFilePath returns the path of the config file in the working
// directory, if any.
func ConfigFilePath() string {
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
