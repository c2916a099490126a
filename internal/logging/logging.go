// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package logging builds the diagnostic logger shared by the commands.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelSilent is above every standard level and drops all records.
const LevelSilent = slog.Level(100)

// Options configures New.
type Options struct {
	// Level is an explicit level name; it wins over Verbosity and Quiet
	Level string

	// Verbosity is the number of -v flags
	Verbosity int

	// Quiet drops every record unless Level is set
	Quiet bool

	// File sends records to a rotating log file instead of the writer
	File string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New creates a text logger writing to w, or to Options.File when set.
// The returned closer releases the log file and must be called on exit.
func New(w io.Writer, opts Options) (*slog.Logger, io.Closer) {
	level := LevelFromVerbosity(opts.Verbosity, opts.Quiet)
	if opts.Level != "" {
		level = LevelFromString(opts.Level)
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		w = rotating
		closer = rotating
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromString converts a level name to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
// Returns slog.LevelWarn for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// LevelFromVerbosity converts CLI verbosity flags to a slog.Level.
// Quiet wins; otherwise no flag gives warn, -v info and -vv debug.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return LevelSilent
	}
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
