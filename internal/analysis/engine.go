// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/api2spec/routelint/internal/util"
)

// Options controls how call sites are classified.
type Options struct {
	// Root is the application root; event locations are relative to it
	Root string

	// Verbose appends verbose details to messages and suggestions
	Verbose bool

	// OnlyOnly always suggests only: for resources calls
	OnlyOnly bool

	// OnlyExcept always suggests except: for resources calls
	OnlyExcept bool

	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// Engine classifies route declaring calls.
//
// An engine holds no state between runs, but the event sources it is fed
// usually wrap process-wide interpreters. Run one analysis at a time.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// NewEngine creates an engine with the given options.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{opts: opts, logger: logger}
}

// InvariantViolation is the panic value raised when a resources call covers
// every canonical action yet still reports missing ones. It means the
// canonical action set no longer matches the framework's defaults.
type InvariantViolation struct {
	Location string
	Present  []string
	Missing  []string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("%s: canonical actions all present %v but missing %v", v.Location, v.Present, v.Missing)
}

// Analyze pulls a fresh event log from source and classifies it.
func (e *Engine) Analyze(ctx context.Context, source EventSource, reflector Reflector) (*Result, error) {
	events, err := source.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect route events: %w", err)
	}
	e.logger.Debug("collected route events", "count", len(events))
	return e.Classify(events, reflector), nil
}

// Classify groups events into call sites and attaches issues to each of them.
func (e *Engine) Classify(events []Event, reflector Reflector) *Result {
	result := &Result{
		Root:        e.opts.Root,
		Verbose:     e.opts.Verbose,
		Events:      events,
		implemented: make(map[ImplementedRoute]bool),
	}

	for _, site := range groupEvents(events) {
		call := e.classifySite(site, reflector)
		result.Calls = append(result.Calls, call)
		for _, action := range call.PresentActions {
			result.implemented[ImplementedRoute{Controller: call.ControllerClassName, Action: action}] = true
		}
	}

	e.logger.Debug("classified route calls", "calls", len(result.Calls), "issues", len(result.Issues()))
	return result
}

func (e *Engine) classifySite(site *callSite, reflector Reflector) *RouteCall {
	file, line := SplitLocation(site.key.location)
	call := &RouteCall{
		Location:            site.key.location,
		File:                FullFilename(e.opts.Root, file),
		Line:                line,
		Method:              site.key.method,
		ControllerName:      site.key.controller,
		ControllerClassName: ControllerClassName(site.key.controller),
		ActionNames:         util.SortedUnique(site.actions),
	}

	controller, err := reflector.Lookup(call.ControllerClassName)
	if err != nil || controller == nil {
		issue := &NoControllerIssue{issueBase: issueBase{call: call}}
		if err != nil {
			issue.Error = err.Error()
		}
		call.addIssue(issue)
		e.logger.Debug("controller not found", "location", call.Location, "controller", call.ControllerClassName)
		return call
	}

	var present []string
	for _, action := range call.ActionNames {
		if controller.HasAction(action) {
			present = append(present, action)
		}
	}
	call.PresentActions = present
	missing := call.MissingActions()

	if IsSingleMethod(call.Method) {
		if len(missing) > 0 {
			call.addIssue(&NoActionIssue{issueBase: issueBase{call: call}, Missing: missing})
		}
		return call
	}

	if len(missing) == 0 {
		return call
	}
	if sameSet(present, ResourceActions) {
		panic(&InvariantViolation{Location: call.Location, Present: present, Missing: missing})
	}

	call.addIssue(&ResourcesIssue{
		issueBase:      issueBase{call: call},
		SuggestedParam: e.suggestParam(present),
		Missing:        missing,
	})
	return call
}

// suggestParam picks between only: and except: for a resources call.
func (e *Engine) suggestParam(present []string) string {
	if (len(present) < 4 || e.opts.OnlyOnly) && !e.opts.OnlyExcept {
		return "only: " + util.SymbolList(util.SortedUnique(present))
	}
	return "except: " + util.SymbolList(util.SortedUnique(util.Difference(ResourceActions, present)))
}

func sameSet(a, b []string) bool {
	ua, ub := util.SortedUnique(a), util.SortedUnique(b)
	if len(ua) != len(ub) {
		return false
	}
	for i := range ua {
		if ua[i] != ub[i] {
			return false
		}
	}
	return true
}

// ImplementedRoute is a (controller, action) pair reached by some route.
type ImplementedRoute struct {
	Controller string `json:"controller" yaml:"controller"`
	Action     string `json:"action" yaml:"action"`
}

// Result is the outcome of one analysis pass.
type Result struct {
	// Root is the application root the locations are relative to
	Root string

	// Verbose mirrors Options.Verbose
	Verbose bool

	// Calls are the classified call sites in order of first appearance
	Calls []*RouteCall

	// Events is the raw event log the calls were built from
	Events []Event

	implemented map[ImplementedRoute]bool
}

// Issues returns every issue of every call.
func (r *Result) Issues() []Issue {
	var issues []Issue
	for _, c := range r.Calls {
		issues = append(issues, c.Issues...)
	}
	return issues
}

// CallsWithIssues returns the calls carrying at least one issue.
func (r *Result) CallsWithIssues() []*RouteCall {
	var out []*RouteCall
	for _, c := range r.Calls {
		if c.HasIssues() {
			out = append(out, c)
		}
	}
	return out
}

// ImplementedRoutes returns the implemented-routes set sorted by controller then action.
func (r *Result) ImplementedRoutes() []ImplementedRoute {
	out := make([]ImplementedRoute, 0, len(r.implemented))
	for route := range r.implemented {
		out = append(out, route)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Controller != out[j].Controller {
			return out[i].Controller < out[j].Controller
		}
		return out[i].Action < out[j].Action
	})
	return out
}

// IsImplemented reports whether some route reaches controller#action.
func (r *Result) IsImplemented(controller, action string) bool {
	return r.implemented[ImplementedRoute{Controller: controller, Action: action}]
}

// HasRoutes reports whether any route reaches the controller at all.
func (r *Result) HasRoutes(controller string) bool {
	for route := range r.implemented {
		if route.Controller == controller {
			return true
		}
	}
	return false
}

// FilesWithIssues returns the sorted absolute paths of files carrying issues.
func (r *Result) FilesWithIssues() []string {
	seen := make(map[string]bool)
	var files []string
	for _, c := range r.CallsWithIssues() {
		if !seen[c.File] {
			seen[c.File] = true
			files = append(files, c.File)
		}
	}
	sort.Strings(files)
	return files
}

// RouteLines groups every call by physical line, keyed by absolute file path.
// Lines within a file are sorted by line number.
func (r *Result) RouteLines() map[string][]*RouteLine {
	type lineKey struct {
		file string
		line int
	}
	index := make(map[lineKey]*RouteLine)
	byFile := make(map[string][]*RouteLine)
	for _, c := range r.Calls {
		key := lineKey{file: c.File, line: c.Line}
		rl, ok := index[key]
		if !ok {
			rl = &RouteLine{File: c.File, Line: c.Line, verbose: r.Verbose}
			index[key] = rl
			byFile[c.File] = append(byFile[c.File], rl)
		}
		rl.Calls = append(rl.Calls, c)
	}
	for _, lines := range byFile {
		sort.SliceStable(lines, func(i, j int) bool { return lines[i].Line < lines[j].Line })
	}
	return byFile
}

// RouteLinesForFile returns the route lines of one file, keyed by line number.
func (r *Result) RouteLinesForFile(file string) map[int]*RouteLine {
	out := make(map[int]*RouteLine)
	for _, rl := range r.RouteLines()[file] {
		out[rl.Line] = rl
	}
	return out
}
