// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides the serializable reports produced by routelint.
package types

import "time"

// IssueReport is the machine-readable result of one routes analysis.
type IssueReport struct {
	// Root is the application root all relative paths refer to
	Root string `json:"root" yaml:"root" toml:"root"`

	// GeneratedAt is when the analysis ran
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt" toml:"generatedAt"`

	// Summary counts the issues by kind
	Summary IssueSummary `json:"summary" yaml:"summary" toml:"summary"`

	// Issues are the issues in call order
	Issues []IssueEntry `json:"issues" yaml:"issues" toml:"issues"`
}

// IssueSummary counts issues by kind.
type IssueSummary struct {
	Total        int `json:"total" yaml:"total" toml:"total"`
	NoController int `json:"noController" yaml:"noController" toml:"noController"`
	NoAction     int `json:"noAction" yaml:"noAction" toml:"noAction"`
	Resources    int `json:"resources" yaml:"resources" toml:"resources"`
}

// IssueEntry is one issue of one route declaring call.
type IssueEntry struct {
	// Kind is no_controller, no_action or resources
	Kind string `json:"kind" yaml:"kind" toml:"kind"`

	// Location is the call site as "relative/path.rb:LINE"
	Location string `json:"location" yaml:"location" toml:"location"`

	// File is the absolute path of the routes file
	File string `json:"file" yaml:"file" toml:"file"`

	// Line is the 1-based line of the call
	Line int `json:"line" yaml:"line" toml:"line"`

	// Method is the route declaring method, e.g. "resources"
	Method string `json:"method" yaml:"method" toml:"method"`

	// Controller is the controller name as written in the routes file
	Controller string `json:"controller" yaml:"controller" toml:"controller"`

	// Class is the controller class the name resolves to
	Class string `json:"class" yaml:"class" toml:"class"`

	// Actions are all the actions the call requests
	Actions []string `json:"actions" yaml:"actions" toml:"actions"`

	// Present are the requested actions the controller implements
	Present []string `json:"present" yaml:"present" toml:"present"`

	// Missing are the requested actions the controller lacks
	Missing []string `json:"missing" yaml:"missing" toml:"missing"`

	// Message is the human readable error
	Message string `json:"message" yaml:"message" toml:"message"`

	// Suggestion is the terse fix suggestion shown in annotations
	Suggestion string `json:"suggestion" yaml:"suggestion" toml:"suggestion"`

	// SuggestedParam is the only:/except: clause for resources issues
	SuggestedParam string `json:"suggestedParam,omitempty" yaml:"suggestedParam,omitempty" toml:"suggestedParam,omitempty"`
}

// RouteReport is the raw route event log of one analysis.
type RouteReport struct {
	Root   string       `json:"root" yaml:"root" toml:"root"`
	Events []RouteEvent `json:"events" yaml:"events" toml:"events"`
}

// RouteEvent is one generated route.
type RouteEvent struct {
	Location   string `json:"location" yaml:"location" toml:"location"`
	Verb       string `json:"verb" yaml:"verb" toml:"verb"`
	Method     string `json:"method" yaml:"method" toml:"method"`
	Controller string `json:"controller" yaml:"controller" toml:"controller"`
	Action     string `json:"action" yaml:"action" toml:"action"`

	// Implemented is true when the controller defines the action
	Implemented bool `json:"implemented" yaml:"implemented" toml:"implemented"`
}

// ActionReport lists controller actions and controllers without routes.
type ActionReport struct {
	Root string `json:"root" yaml:"root" toml:"root"`

	// UnusedControllers have no route reaching them or any subclass
	UnusedControllers []string `json:"unusedControllers" yaml:"unusedControllers" toml:"unusedControllers"`

	// Actions are the reported actions in controller tree order
	Actions []ActionEntry `json:"actions" yaml:"actions" toml:"actions"`
}

// ActionEntry is one reported controller action.
type ActionEntry struct {
	Controller   string `json:"controller" yaml:"controller" toml:"controller"`
	Action       string `json:"action" yaml:"action" toml:"action"`
	Location     string `json:"location" yaml:"location" toml:"location"`
	Owner        string `json:"owner" yaml:"owner" toml:"owner"`
	RouteMissing bool   `json:"routeMissing" yaml:"routeMissing" toml:"routeMissing"`
	Inherited    bool   `json:"inherited" yaml:"inherited" toml:"inherited"`
	FromModule   bool   `json:"fromModule" yaml:"fromModule" toml:"fromModule"`
	FromGem      string `json:"fromGem,omitempty" yaml:"fromGem,omitempty" toml:"fromGem,omitempty"`
}
