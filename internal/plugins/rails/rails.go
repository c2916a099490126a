// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package rails provides a plugin for introspecting Ruby on Rails applications.
//
// Routes files are evaluated statically: the routing DSL is interpreted over
// the tree-sitter syntax tree with literal values, loops over literal
// collections unrolled and dynamic targets skipped. Controllers are read the
// same way and assembled into an inheritance tree with their public action
// methods.
package rails

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/api2spec/routelint/internal/analysis"
	"github.com/api2spec/routelint/internal/plugins"
	"github.com/api2spec/routelint/internal/scanner"
)

// Plugin implements the FrameworkPlugin interface for Ruby on Rails.
type Plugin struct{}

// New creates a new Rails plugin instance.
func New() *Plugin {
	return &Plugin{}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "rails"
}

// Extensions returns the file extensions this plugin handles.
func (p *Plugin) Extensions() []string {
	return []string{".rb"}
}

// Info returns plugin metadata.
func (p *Plugin) Info() plugins.PluginInfo {
	return plugins.PluginInfo{
		Name:        "rails",
		Version:     "1.0.0",
		Description: "Reconciles Ruby on Rails routes with controller actions",
		SupportedFrameworks: []string{
			"rails",
			"Ruby on Rails",
		},
	}
}

// Detect checks if Rails is used in the project.
func (p *Plugin) Detect(projectRoot string) (bool, error) {
	// Check Gemfile for rails
	gemfilePath := filepath.Join(projectRoot, "Gemfile")
	if found, _ := p.checkFileForDependency(gemfilePath, "rails"); found {
		return true, nil
	}

	// Check for config/routes.rb (Rails signature file)
	routesPath := filepath.Join(projectRoot, "config", "routes.rb")
	if _, err := os.Stat(routesPath); err == nil {
		return true, nil
	}

	return false, nil
}

// checkFileForDependency checks if a file contains a dependency.
func (p *Plugin) checkFileForDependency(path, dep string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, nil
	}
	defer func() { _ = file.Close() }()

	scanr := bufio.NewScanner(file)
	for scanr.Scan() {
		line := scanr.Text()
		// Match gem 'rails' or gem "rails"
		if strings.Contains(line, `'`+dep+`'`) || strings.Contains(line, `"`+dep+`"`) {
			return true, nil
		}
	}

	return false, nil
}

// RouteSource returns an evaluator over the project's routes files.
func (p *Plugin) RouteSource(project plugins.Project) analysis.EventSource {
	return NewRoutesEvaluator(project)
}

// LoadControllers builds the controller hierarchy from controller sources.
func (p *Plugin) LoadControllers(ctx context.Context, project plugins.Project, files []scanner.SourceFile) (*analysis.ControllerSet, error) {
	var rubyFiles []scanner.SourceFile
	for _, file := range files {
		if file.Language == "ruby" {
			rubyFiles = append(rubyFiles, file)
		}
	}
	return NewControllerLoader(project.LoggerOrDiscard()).Load(ctx, rubyFiles)
}

// Register registers the Rails plugin with the global registry.
func Register() {
	plugins.MustRegister(New())
}

func init() {
	Register()
}
