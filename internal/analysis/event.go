// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Event is one route generated by a route declaring call.
type Event struct {
	// Location is the call site as "relative/path.rb:LINE"
	Location string `json:"location" yaml:"location"`

	// Verb is the HTTP verb the route answers to, e.g. "GET" or "GET|POST"
	Verb string `json:"verb,omitempty" yaml:"verb,omitempty"`

	// Method is the route declaring method (get, resources, root, ...)
	Method string `json:"method" yaml:"method"`

	// Controller is the raw controller name as written, e.g. "admin/users"
	Controller string `json:"controller" yaml:"controller"`

	// Action is the generated action name
	Action string `json:"action" yaml:"action"`
}

// String returns the event in "location method controller#action" form.
func (e Event) String() string {
	return fmt.Sprintf("%s %s %s#%s", e.Location, e.Method, e.Controller, e.Action)
}

// EventSource produces a fresh, ordered route-generation log per call.
// Implementations must not share an accumulator between calls.
type EventSource interface {
	Events(ctx context.Context) ([]Event, error)
}

// EventSourceFunc adapts a function to EventSource.
type EventSourceFunc func(ctx context.Context) ([]Event, error)

// Events calls f.
func (f EventSourceFunc) Events(ctx context.Context) ([]Event, error) {
	return f(ctx)
}

// SplitLocation splits "path/file.rb:12" into its file and line parts.
// A location without a numeric suffix yields line 0.
func SplitLocation(location string) (string, int) {
	idx := strings.LastIndex(location, ":")
	if idx < 0 {
		return location, 0
	}
	line, err := strconv.Atoi(location[idx+1:])
	if err != nil {
		return location, 0
	}
	return location[:idx], line
}

// FullFilename resolves a root-relative filename to an absolute path.
func FullFilename(root, filename string) string {
	if filepath.IsAbs(filename) || root == "" {
		return filename
	}
	return filepath.Join(root, filename)
}

// callSiteKey identifies one logical call: same location, method and controller.
type callSiteKey struct {
	location   string
	method     string
	controller string
}

// callSite is a group of events from one call site.
type callSite struct {
	key     callSiteKey
	actions []string
}

// groupEvents groups events by call site in order of first appearance.
func groupEvents(events []Event) []*callSite {
	var sites []*callSite
	index := make(map[callSiteKey]*callSite)
	for _, ev := range events {
		key := callSiteKey{location: ev.Location, method: ev.Method, controller: ev.Controller}
		site, ok := index[key]
		if !ok {
			site = &callSite{key: key}
			index[key] = site
			sites = append(sites, site)
		}
		site.actions = append(site.actions, ev.Action)
	}
	return sites
}
