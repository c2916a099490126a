// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package util provides shared helpers for rendering Ruby-style values.
package util

import (
	"sort"
	"strings"
)

// SortedUnique returns a sorted copy of names with duplicates removed.
func SortedUnique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SymbolList renders names as a Ruby symbol array literal in the given order.
// For example: []string{"index", "show"} returns "[:index, :show]".
func SymbolList(names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = ":" + n
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatSymbols renders names the way suggestions mention actions:
// nothing for no names, ":name" for one, and a sorted symbol array otherwise.
func FormatSymbols(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return ":" + names[0]
	default:
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		return SymbolList(sorted)
	}
}

// Difference returns the elements of a that are not in b, preserving a's order.
func Difference(a, b []string) []string {
	exclude := make(map[string]bool, len(b))
	for _, s := range b {
		exclude[s] = true
	}
	var out []string
	for _, s := range a {
		if !exclude[s] {
			out = append(out, s)
		}
	}
	return out
}
