// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package plugins provides framework plugin infrastructure for route introspection.
package plugins

import (
	"context"
	"errors"
	"log/slog"

	"github.com/api2spec/routelint/internal/analysis"
	"github.com/api2spec/routelint/internal/scanner"
)

// ErrNoPluginDetected is returned when no registered plugin recognises a project.
var ErrNoPluginDetected = errors.New("no framework detected")

// Project describes the application a plugin introspects.
type Project struct {
	// Root is the absolute application root
	Root string

	// RoutesFiles are glob patterns, relative to Root, of the route definition files
	RoutesFiles []string

	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// FrameworkPlugin defines the interface for framework-specific route introspection.
type FrameworkPlugin interface {
	// Name returns the plugin identifier (e.g., "rails").
	Name() string

	// Extensions returns the file extensions this plugin handles (e.g., []string{".rb"}).
	Extensions() []string

	// Detect checks if this framework is used in the project.
	// It typically looks for the framework in the dependency manifest or a signature file.
	Detect(projectRoot string) (bool, error)

	// RouteSource returns a source that evaluates the project's route files
	// afresh on every call.
	RouteSource(project Project) analysis.EventSource

	// LoadControllers builds the controller hierarchy from controller sources.
	LoadControllers(ctx context.Context, project Project, files []scanner.SourceFile) (*analysis.ControllerSet, error)
}

// PluginInfo provides metadata about a plugin.
type PluginInfo struct {
	// Name is the plugin identifier
	Name string

	// Version is the plugin version
	Version string

	// Description describes the plugin's purpose
	Description string

	// SupportedFrameworks lists framework versions supported by this plugin
	SupportedFrameworks []string
}

// InfoProvider is an optional interface plugins can implement to provide metadata.
type InfoProvider interface {
	// Info returns plugin metadata.
	Info() PluginInfo
}

// LoggerOrDiscard returns the project's logger, or one that drops everything.
func (p Project) LoggerOrDiscard() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}
