// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package rewriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixResourcesLine(t *testing.T) {
	tests := []struct {
		name     string
		original string
		expected string
	}{
		// no parameters
		{"bare", "resources :some_random", "resources :some_random, only: [:asd]"},
		{"bare with whitespace", "  \tresources :some_random \t", "  \tresources :some_random, only: [:asd] \t"},
		{"parentheses", "resources(:some_random)", "resources(:some_random, only: [:asd])"},
		{"parentheses with whitespace", " \tresources(:some_random) \t", " \tresources(:some_random, only: [:asd]) \t"},
		{"singular", "resource :profile", "resource :profile, only: [:asd]"},

		// with a block
		{"block", "resources :some_random do", "resources :some_random, only: [:asd] do"},
		{"block with whitespace", " \tresources :some_random \tdo \t", " \tresources :some_random, only: [:asd] \tdo \t"},
		{"block with parentheses", "resources(:some_random) do", "resources(:some_random, only: [:asd]) do"},
		{"block with parentheses and whitespace", " \tresources(:some_random) \tdo \t", " \tresources(:some_random, only: [:asd]) \tdo \t"},
		{"brace block", "resources :some_random {", "resources :some_random, only: [:asd] {"},

		// replacing an existing only/except
		{"existing only", "resources :some, only: [ :xxx, :yyy ]", "resources :some, only: [:asd]"},
		{"existing hash rocket only", "resources :some, :only => [ :xxx, :yyy ]", "resources :some, only: [:asd]"},
		{"existing compact hash rocket only", "resources :some, :only=>[ :xxx, :yyy ]", "resources :some, only: [:asd]"},
		{"existing except", "resources :some, except: [ :xxx, :yyy ]", "resources :some, only: [:asd]"},
		{"existing hash rocket except", "resources :some, :except => [ :xxx, :yyy ]", "resources :some, only: [:asd]"},
		{"existing symbol only", "resources :some, only: :index", "resources :some, only: [:asd]"},

		// conflicting only and except
		{"only and except", "resources :some, only: [:a], except: [:b]", "resources :some, only: [:asd]"},
		{"except before only", "resources :some, :except => [:b] , only: :a do", "resources :some, only: [:asd] do"},
		{
			"only and except around other parameters",
			"resources :some, except: [:b], controller: 'x', only: [:a], shallow: true",
			"resources :some, only: [:asd], controller: 'x', shallow: true",
		},
		{
			"braced only and except",
			"resources :some, { only: [:a], except: [:b] }",
			"resources :some, { only: [:asd] }",
		},

		// other parameters
		{
			"unknown parameters",
			"resources :some, random: [ asd ], :shallow => [ asd2, asd3 ]",
			"resources :some, random: [ asd ], :shallow => [ asd2, asd3 ], only: [:asd]",
		},
		{
			"only before unknown parameters",
			"resources :some, only: [ :asd, :xx], random: [ asd ], :shallow => [ asd2, asd3 ]",
			"resources :some, only: [:asd], random: [ asd ], :shallow => [ asd2, asd3 ]",
		},
		{
			"only between unknown parameters",
			"resources :some, random: [ asd ], only: [ :asd, :xx], :shallow => [ asd2, asd3 ]",
			"resources :some, random: [ asd ], only: [:asd], :shallow => [ asd2, asd3 ]",
		},
		{
			"hash rocket only before unknown parameters",
			"resources :some,  :only=>[ :asd, :xx] , random: [ asd ], :shallow => [ asd2, asd3 ]",
			"resources :some,  only: [:asd] , random: [ asd ], :shallow => [ asd2, asd3 ]",
		},
		{
			"hash rocket only between strings",
			`resources :some,  random: [ asd ], key: "as d", :only=>[ :asd, :xx],  :shallow => [ asd2, asd3 ]`,
			`resources :some,  random: [ asd ], key: "as d", only: [:asd],  :shallow => [ asd2, asd3 ]`,
		},
		{
			"hash rocket only after strings",
			"resources :some,  random: [ asd ], :shallow => [ asd2, asd3 ], key: 'asd ',  :only=>[ :asd, :xx]",
			"resources :some,  random: [ asd ], :shallow => [ asd2, asd3 ], key: 'asd ',  only: [:asd]",
		},
		{
			"booleans and strings",
			`resources :photos, shallow: true, path: "pics", controller: 'images', concerns: :commentable`,
			`resources :photos, shallow: true, path: "pics", controller: 'images', concerns: :commentable, only: [:asd]`,
		},
		{
			"parameters with block",
			"resources :empty, controller: 'xxx' do",
			"resources :empty, controller: 'xxx', only: [:asd] do",
		},

		// braces
		{
			"braced hash with only",
			"resources :some, { controller: [1, 2], only: [:xx, :yy ] }",
			"resources :some, { controller: [1, 2], only: [:asd] }",
		},
		{
			"braced hash",
			"resources :some, { shallow: true }",
			"resources :some, { shallow: true, only: [:asd] }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, ok := FixResourcesLine(tt.original+"\n", "only: [:asd]")
			require.True(t, ok)
			assert.Equal(t, tt.expected+"\n", actual)
		})
	}
}

func TestFixResourcesLine_Refusals(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"bare expression", "resources :some, options"},
		{"trailing comment", "resources :home # random comment"},
		{"method call value", "resources :some, path: build_path"},
		{"nested braces", "resources :some, { constraints: { id: /\\d+/ } }"},
		{"block parameters", "resources :some do |r|"},
		{"not a resources call", "get :index"},
		{"dynamic name", "resources name, only: [:show]"},
		{"dangling comma", "resources :some, shallow: true,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, ok := FixResourcesLine(tt.line+"\n", "only: [:asd]")
			assert.False(t, ok)
			assert.Empty(t, actual)
		})
	}
}

func TestFixResourcesLine_PreservesLineBreak(t *testing.T) {
	actual, ok := FixResourcesLine("resources :some\r\n", "except: [:destroy]")
	require.True(t, ok)
	assert.Equal(t, "resources :some, except: [:destroy]\r\n", actual)

	actual, ok = FixResourcesLine("resources :some", "except: [:destroy]")
	require.True(t, ok)
	assert.Equal(t, "resources :some, except: [:destroy]", actual)
}

func TestFixResourcesLine_ReplacementIsIdempotent(t *testing.T) {
	once, ok := FixResourcesLine("resources :some, only: [:a, :b]", "only: [:c]")
	require.True(t, ok)
	twice, ok := FixResourcesLine(once, "only: [:c]")
	require.True(t, ok)

	assert.Equal(t, "resources :some, only: [:c]", once)
	assert.Equal(t, once, twice)
}

func TestParseSafeParams(t *testing.T) {
	params, ok := ParseSafeParams(`random: [ asd ], :shallow => [ a, b ], key: "as d", name: 'x', deep: false, on: true, to: :show`)
	require.True(t, ok)

	expected := []Param{
		{Key: "random", Value: "[ asd ]", Kind: ValueList},
		{Key: "shallow", Value: "[ a, b ]", Kind: ValueList},
		{Key: "key", Value: `"as d"`, Kind: ValueDoubleQuoted},
		{Key: "name", Value: "'x'", Kind: ValueSingleQuoted},
		{Key: "deep", Value: "false", Kind: ValueFalse},
		{Key: "on", Value: "true", Kind: ValueTrue},
		{Key: "to", Value: ":show", Kind: ValueSymbol},
	}
	assert.Equal(t, expected, params)
}

func TestParseSafeParams_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		params string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"bare word", "options"},
		{"braces", "{ a: true }"},
		{"double comma", "a: true,, b: false"},
		{"missing value", "a:"},
		{"unterminated list", "a: [1, 2"},
		{"unterminated string", `a: "x`},
		{"number", "a: 1"},
		{"trailing garbage", "a: true b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseSafeParams(tt.params)
			assert.False(t, ok)
		})
	}
}

func TestValueKind_String(t *testing.T) {
	assert.Equal(t, "list", ValueList.String())
	assert.Equal(t, "double-quoted", ValueDoubleQuoted.String())
	assert.Equal(t, "unknown", ValueKind(42).String())
}
