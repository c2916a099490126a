// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"strings"

	"github.com/api2spec/routelint/internal/util"
)

// RouteCall is everything known about one route declaring call.
// A call made inside a loop produces one RouteCall per distinct controller.
type RouteCall struct {
	// Location is the call site as written in the event log, "routes.rb:4"
	Location string

	// File is the absolute path of the routes file
	File string

	// Line is the 1-based line number
	Line int

	// Method is the route declaring method
	Method string

	// ControllerName is the raw controller name, e.g. "full_items"
	ControllerName string

	// ControllerClassName is the resolved class name, e.g. "FullItemsController"
	ControllerClassName string

	// ActionNames are the requested actions, sorted and deduplicated
	ActionNames []string

	// PresentActions are the requested actions the controller implements
	PresentActions []string

	// Issues are the problems found at this call
	Issues []Issue
}

func (c *RouteCall) addIssue(issue Issue) {
	c.Issues = append(c.Issues, issue)
}

// HasIssues reports whether the call carries at least one issue.
func (c *RouteCall) HasIssues() bool {
	return len(c.Issues) > 0
}

// HasPresentActions reports whether any requested action exists.
func (c *RouteCall) HasPresentActions() bool {
	return len(c.PresentActions) > 0
}

// MissingActions returns the requested actions that do not exist.
func (c *RouteCall) MissingActions() []string {
	return util.Difference(c.ActionNames, c.PresentActions)
}

// HumanReadableError joins the messages of every issue with "; ".
func (c *RouteCall) HumanReadableError(verbose bool) string {
	var parts []string
	for _, issue := range c.Issues {
		parts = append(parts, issue.HumanReadableError(verbose)...)
	}
	return strings.Join(parts, "; ")
}

// Suggestion joins the suggestions of every issue with "; ".
func (c *RouteCall) Suggestion(ctx SuggestionContext) string {
	parts := make([]string, 0, len(c.Issues))
	for _, issue := range c.Issues {
		parts = append(parts, issue.Suggestion(ctx))
	}
	return strings.Join(parts, "; ")
}
