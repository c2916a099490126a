// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package config

import (
	"fmt"
	"strings"
)

// Environment switches. A switch is on when the variable is set to a
// non-empty value.
const (
	EnvOnlyOnly   = "ONLY_ONLY"
	EnvOnlyExcept = "ONLY_EXCEPT"
	EnvVerbose    = "ROUTES_VERBOSE"
	EnvForce      = "ROUTES_FORCE"
	EnvFile       = "ROUTES_FILE"
	EnvDuplicates = "ROUTES_DUPLICATES"
	EnvGems       = "ROUTES_GEMS"
	EnvModules    = "ROUTES_MODULES"
	EnvFullPath   = "ROUTES_FULL_PATH"
	EnvMetadata   = "ROUTES_METADATA"
	EnvAll        = "ROUTES_ALL"
)

// ApplyEnvironment turns on the settings whose switches are set in env.
// Switches only ever enable a setting; ROUTES_FILE replaces annotate.file.
func ApplyEnvironment(cfg *Config, env func(string) string) {
	on := func(name string) bool { return env(name) != "" }

	switches := []struct {
		name   string
		target *bool
	}{
		{EnvOnlyOnly, &cfg.Analysis.OnlyOnly},
		{EnvOnlyExcept, &cfg.Analysis.OnlyExcept},
		{EnvVerbose, &cfg.Analysis.Verbose},
		{EnvForce, &cfg.Annotate.Force},
		{EnvDuplicates, &cfg.Report.Duplicates},
		{EnvGems, &cfg.Report.Gems},
		{EnvModules, &cfg.Report.Modules},
		{EnvFullPath, &cfg.Report.FullPath},
		{EnvMetadata, &cfg.Report.Metadata},
		{EnvAll, &cfg.Report.All},
	}
	for _, s := range switches {
		if on(s.name) {
			*s.target = true
		}
	}

	if file := env(EnvFile); file != "" {
		cfg.Annotate.File = file
	}
}

// ReportExtras are the words accepted by ApplyReportExtras.
var ReportExtras = []string{"duplicates", "gems", "modules", "full", "metadata", "all"}

// ApplyReportExtras enables the report settings named by words, as given on
// the actions command line. Unknown words are an error.
func ApplyReportExtras(cfg *Config, words []string) error {
	for _, word := range words {
		switch strings.ToLower(word) {
		case "duplicates":
			cfg.Report.Duplicates = true
		case "gems":
			cfg.Report.Gems = true
		case "modules":
			cfg.Report.Modules = true
		case "full":
			cfg.Report.FullPath = true
		case "metadata":
			cfg.Report.Metadata = true
		case "all":
			cfg.Report.All = true
		default:
			return &ValidationError{
				Field:   "report",
				Message: fmt.Sprintf("unknown report option %q, must be one of: %s", word, strings.Join(ReportExtras, ", ")),
			}
		}
	}
	return nil
}
