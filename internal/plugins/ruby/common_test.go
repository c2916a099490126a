// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package ruby

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/routelint/internal/parser"
)

// parseArguments evaluates the arguments of the single call in source.
func parseArguments(t *testing.T, source string) Arguments {
	t.Helper()

	src := []byte(source)
	pf, err := parser.NewRubyParser().ParseCtx(context.Background(), "routes.rb", src)
	require.NoError(t, err)

	stmts := parser.Statements(pf.RootNode)
	require.Len(t, stmts, 1)
	require.Equal(t, "call", stmts[0].Type())

	return EvalArguments(stmts[0], src, parser.NewScope(nil))
}

func TestEvalArguments(t *testing.T) {
	args := parseArguments(t, "resources :photos, :videos, only: [:index, :show], controller: 'media'")

	require.Len(t, args.Positional, 2)
	first, ok := args.First()
	require.True(t, ok)
	assert.Equal(t, parser.Symbol("photos"), first)

	only, ok := args.OptionList("only")
	require.True(t, ok)
	assert.Equal(t, []string{"index", "show"}, only)

	controller, ok := args.Option("controller")
	require.True(t, ok)
	assert.Equal(t, "media", controller)

	assert.True(t, args.Has("only"))
	assert.False(t, args.Has("except"))
}

func TestEvalArguments_NoArguments(t *testing.T) {
	args := parseArguments(t, "collection do\nend")

	assert.Empty(t, args.Positional)
	assert.Empty(t, args.Options.Pairs)
	_, ok := args.First()
	assert.False(t, ok)
}

func TestArguments_OptionNotLiteral(t *testing.T) {
	args := parseArguments(t, "get 'home', to: target")

	assert.True(t, args.Has("to"))
	_, ok := args.Option("to")
	assert.False(t, ok)
}

func TestArguments_RocketTarget(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
		wantOK bool
	}{
		{name: "rocket pair", source: "get 'home' => 'home#index'", want: "home#index", wantOK: true},
		{name: "rocket with options", source: "get 'home' => 'home#index', as: :home", want: "home#index", wantOK: true},
		{name: "symbol keys only", source: "get 'home', to: 'home#index'"},
		{name: "no action", source: "get 'home' => 'home'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseArguments(t, tt.source).RocketTarget()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitTarget(t *testing.T) {
	tests := []struct {
		target         string
		wantController string
		wantAction     string
		wantOK         bool
	}{
		{"home#index", "home", "index", true},
		{"admin/users#show", "admin/users", "show", true},
		{"#index", "", "index", true},
		{"home", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			controller, action, ok := SplitTarget(tt.target)
			assert.Equal(t, tt.wantController, controller)
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "admin/reports/users", JoinPath("admin/", "", "/reports", "users"))
	assert.Equal(t, "", JoinPath("", "/"))
}
