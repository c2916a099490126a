// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSymbols(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected string
	}{
		{"no names", nil, ""},
		{"single name", []string{"index"}, ":index"},
		{"sorted names", []string{"show", "index"}, "[:index, :show]"},
		{"three names", []string{"b", "c", "a"}, "[:a, :b, :c]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSymbols(tt.input))
		})
	}
}

func TestSymbolList(t *testing.T) {
	assert.Equal(t, "[]", SymbolList(nil))
	assert.Equal(t, "[:index]", SymbolList([]string{"index"}))
	assert.Equal(t, "[:show, :index]", SymbolList([]string{"show", "index"}))
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedUnique([]string{"c", "a", "b", "a"}))
	assert.Equal(t, []string{}, SortedUnique(nil))
}

func TestDifference(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected []string
	}{
		{"nothing removed", []string{"a", "b"}, nil, []string{"a", "b"}},
		{"keeps order", []string{"c", "a", "b"}, []string{"a"}, []string{"c", "b"}},
		{"everything removed", []string{"a"}, []string{"a"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Difference(tt.a, tt.b))
		})
	}
}
