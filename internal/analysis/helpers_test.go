// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testRoot = "/app"

func actions(owner, file string, names ...string) []ActionMethod {
	out := make([]ActionMethod, len(names))
	for i, n := range names {
		out[i] = ActionMethod{Name: n, Owner: owner, Location: file}
	}
	return out
}

// dummyControllers mirrors a small application with a base controller, a
// controller implementing every resource action and a subclass.
func dummyControllers() *ControllerSet {
	set := NewControllerSet()

	app := NewController("ApplicationController")
	home := NewController("HomeController", actions("HomeController", "/app/application.rb:14", "index", "show")...)
	full := NewController("FullItemsController", actions("FullItemsController", "/app/application.rb:22",
		"index", "create", "new", "show", "update", "destroy", "edit", "custom", "custom_index")...)
	sub := NewController("SubclassHomeController", append(home.Actions,
		actions("SubclassHomeController", "/app/application.rb:40", "subclass_action")...)...)
	empty := NewController("EmptyController")

	for _, c := range []*Controller{app, home, full, sub, empty} {
		set.Add(c)
	}
	set.Link(home, app)
	set.Link(full, app)
	set.Link(sub, home)
	set.Link(empty, app)
	return set
}

func resourceEvents(location, controller string, names ...string) []Event {
	if len(names) == 0 {
		names = []string{"index", "create", "new", "edit", "show", "update", "update", "destroy"}
	}
	out := make([]Event, len(names))
	for i, n := range names {
		out[i] = Event{Location: location, Method: "resources", Controller: controller, Action: n}
	}
	return out
}

// badRouteEvents is the event log of a routes file with one problem of every kind.
func badRouteEvents() []Event {
	var events []Event
	events = append(events, Event{Location: "routes_bad.rb:2", Method: "root", Controller: "home", Action: "index"})
	events = append(events, resourceEvents("routes_bad.rb:4", "home")...)
	events = append(events,
		Event{Location: "routes_bad.rb:7", Method: "get", Controller: "full_items", Action: "missing_member_action"},
		Event{Location: "routes_bad.rb:10", Method: "post", Controller: "full_items", Action: "missing_collection_action"},
	)
	events = append(events, resourceEvents("routes_bad.rb:5", "full_items", "create", "new", "edit", "show", "update", "update")...)
	events = append(events, resourceEvents("routes_bad.rb:13", "full_items", "index", "destroy")...)
	events = append(events,
		Event{Location: "routes_bad.rb:15", Method: "get", Controller: "unknown_controller", Action: "index"},
		Event{Location: "routes_bad.rb:18", Method: "get", Controller: "unknown_0", Action: "index"},
		Event{Location: "routes_bad.rb:18", Method: "get", Controller: "unknown_1", Action: "index"},
	)
	events = append(events, resourceEvents("routes_bad.rb:20", "home")...)
	events = append(events, resourceEvents("routes_bad.rb:21", "home")...)
	return events
}

func analyze(t *testing.T, opts Options, events []Event) *Result {
	t.Helper()
	if opts.Root == "" {
		opts.Root = testRoot
	}
	result := NewEngine(opts).Classify(events, dummyControllers())
	require.NotNil(t, result)
	return result
}

func callAt(t *testing.T, result *Result, location string) *RouteCall {
	t.Helper()
	for _, c := range result.Calls {
		if c.Location == location {
			return c
		}
	}
	require.Failf(t, "call not found", "no call at %s", location)
	return nil
}

func lineAt(t *testing.T, result *Result, location string) *RouteLine {
	t.Helper()
	file, line := SplitLocation(location)
	rl, ok := result.RouteLinesForFile(FullFilename(result.Root, file))[line]
	require.True(t, ok, "no route line at %s", location)
	return rl
}
