// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"strings"
	"time"

	"github.com/api2spec/routelint/pkg/types"
)

// IssueReport converts the result into its serializable form. Suggestions
// are rendered in the context of the physical line, as in annotations.
func (r *Result) IssueReport(generatedAt time.Time) *types.IssueReport {
	lineOf := make(map[*RouteCall]*RouteLine)
	for _, lines := range r.RouteLines() {
		for _, rl := range lines {
			for _, c := range rl.Calls {
				lineOf[c] = rl
			}
		}
	}

	report := &types.IssueReport{
		Root:        r.Root,
		GeneratedAt: generatedAt,
		Issues:      []types.IssueEntry{},
	}
	for _, c := range r.Calls {
		for _, issue := range c.Issues {
			entry := types.IssueEntry{
				Kind:       string(issue.Kind()),
				Location:   c.Location,
				File:       c.File,
				Line:       c.Line,
				Method:     c.Method,
				Controller: c.ControllerName,
				Class:      c.ControllerClassName,
				Actions:    nonNil(c.ActionNames),
				Present:    nonNil(c.PresentActions),
				Missing:    nonNil(c.MissingActions()),
				Message:    strings.Join(issue.HumanReadableError(r.Verbose), "; "),
				Suggestion: issue.Suggestion(lineOf[c].SuggestionContext()),
			}
			switch v := issue.(type) {
			case *NoControllerIssue:
				report.Summary.NoController++
			case *NoActionIssue:
				report.Summary.NoAction++
				entry.Missing = nonNil(v.Missing)
			case *ResourcesIssue:
				report.Summary.Resources++
				entry.SuggestedParam = v.SuggestedParam
			}
			report.Summary.Total++
			report.Issues = append(report.Issues, entry)
		}
	}
	return report
}

// RouteReport converts the raw event log into its serializable form.
func (r *Result) RouteReport() *types.RouteReport {
	report := &types.RouteReport{
		Root:   r.Root,
		Events: make([]types.RouteEvent, 0, len(r.Events)),
	}
	for _, ev := range r.Events {
		report.Events = append(report.Events, types.RouteEvent{
			Location:    ev.Location,
			Verb:        ev.Verb,
			Method:      ev.Method,
			Controller:  ev.Controller,
			Action:      ev.Action,
			Implemented: r.IsImplemented(ControllerClassName(ev.Controller), ev.Action),
		})
	}
	return report
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
