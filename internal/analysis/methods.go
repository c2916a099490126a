// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package analysis reconciles route declarations with controller action methods.
//
// The engine consumes an ordered log of route-generation events and a
// controller reflector, groups the events into call sites, and classifies every
// call site into NoController, NoAction or ResourcesSuggestion issues. Results
// can be viewed as a flat issue list, per-file route lines or the set of
// implemented (controller, action) pairs.
package analysis

// Route declaring methods that bind several canonical actions per call.
var MultiMethods = []string{"resource", "resources"}

// Route declaring methods that bind one action per call.
var SingleMethods = []string{"match", "get", "head", "post", "patch", "put", "delete", "options", "root"}

// ResourceActions is the canonical action set of a full resources declaration.
var ResourceActions = []string{"index", "create", "new", "show", "update", "destroy", "edit"}

// IsSingleMethod reports whether method binds a single action per call.
func IsSingleMethod(method string) bool {
	return contains(SingleMethods, method)
}

// IsMultiMethod reports whether method is resource or resources.
func IsMultiMethod(method string) bool {
	return contains(MultiMethods, method)
}

// IsRouteMethod reports whether method is any route declaring method.
func IsRouteMethod(method string) bool {
	return IsSingleMethod(method) || IsMultiMethod(method)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
