// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package cli provides the command-line interface for routelint.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Exit codes shared by every command.
const (
	// ExitCodeClean means there is nothing to report
	ExitCodeClean = 0

	// ExitCodeIssues means issues were found or the target file was ambiguous
	ExitCodeIssues = 1

	// ExitCodeError means the analysis itself failed
	ExitCodeError = 2
)

// Global flags
var (
	cfgFile   string
	rootDir   string
	format    string
	framework string
	logLevel  string
	logFile   string
	verbose   int
	quiet     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "routelint",
	Short: "Finds Rails routes that point to missing controller actions",
	Long: `routelint reconciles the routes of a Ruby on Rails application with the
actions its controllers implement, without booting the application.

It reports routes whose controller or action does not exist, resources
calls that should be narrowed with only: or except:, and controller actions
that no route reaches. Route files can be annotated with suggestions or
fixed in place.

Example:
  routelint issues                       # List route issues
  routelint annotate                     # Print the routes file with suggestions
  routelint fix --in-place               # Rewrite offending lines in place
  routelint actions metadata             # List actions without a route
  routelint watch                        # Re-check on every change`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: routelint.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "Rails application root (default: .)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format: text, json, yaml, toml (default: text)")
	rootCmd.PersistentFlags().StringVar(&framework, "framework", "", "web framework: rails, auto")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a rotating file")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "enable verbose output (repeat for debug logs)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(watchCmd)
}

// ExitError carries the process exit code of a finished command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeClean
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCodeError
}

// issuesFound is returned by commands that completed but found something to fix.
func issuesFound() error {
	return &ExitError{Code: ExitCodeIssues}
}

// IsVerbose returns whether verbose output is enabled.
func IsVerbose() bool {
	return verbose > 0
}

// IsQuiet returns whether quiet mode is enabled.
func IsQuiet() bool {
	return quiet
}

// printInfo prints a notice if not in quiet mode.
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(rootCmd.ErrOrStderr(), format+"\n", args...)
	}
}

// printVerbose prints a notice if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if verbose > 0 && !quiet {
		fmt.Fprintf(rootCmd.ErrOrStderr(), format+"\n", args...)
	}
}

// printError prints an error message.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: "+format+"\n", args...)
}
