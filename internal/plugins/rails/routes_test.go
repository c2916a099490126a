// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package rails

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api2spec/routelint/internal/analysis"
	"github.com/api2spec/routelint/internal/plugins"
)

func event(location, verb, method, controller, action string) analysis.Event {
	return analysis.Event{Location: location, Verb: verb, Method: method, Controller: controller, Action: action}
}

func evaluate(t *testing.T, files map[string]string, patterns ...string) []analysis.Event {
	t.Helper()

	root := setupTestDir(t, files)
	events, err := NewRoutesEvaluator(plugins.Project{Root: root, RoutesFiles: patterns}).Events(context.Background())
	require.NoError(t, err)
	return events
}

func TestRoutesEvaluator_CleanRoutes(t *testing.T) {
	events, err := NewRoutesEvaluator(dummyProject(t, "routes_clean.rb")).Events(context.Background())
	require.NoError(t, err)

	loc := "config/routes_clean.rb:"
	expected := []analysis.Event{
		event(loc+"2", "GET", "root", "home", "index"),
		event(loc+"4", "GET", "resources", "home", "show"),
	}
	for _, r := range pluralResourceRoutes {
		expected = append(expected, event(loc+"5", r.verb, "resources", "full_items", r.action))
	}
	expected = append(expected,
		event(loc+"7", "GET", "get", "full_items", "custom"),
		event(loc+"10", "GET", "get", "full_items", "custom_index"),
	)

	assert.Equal(t, expected, events)
}

func TestRoutesEvaluator_BadRoutes(t *testing.T) {
	events, err := NewRoutesEvaluator(dummyProject(t, "routes_bad.rb")).Events(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 39)

	perLine := make(map[string]int)
	for _, ev := range events {
		perLine[ev.Location]++
	}
	assert.Equal(t, map[string]int{
		"config/routes_bad.rb:2":  1,
		"config/routes_bad.rb:4":  8,
		"config/routes_bad.rb:5":  6,
		"config/routes_bad.rb:7":  1,
		"config/routes_bad.rb:10": 1,
		"config/routes_bad.rb:13": 2,
		"config/routes_bad.rb:15": 1,
		"config/routes_bad.rb:18": 2,
		"config/routes_bad.rb:20": 8,
		"config/routes_bad.rb:21": 8,
		"config/routes_bad.rb:22": 1,
	}, perLine)

	assert.Contains(t, events, event("config/routes_bad.rb:18", "GET", "get", "unknown_0", "index"))
	assert.Contains(t, events, event("config/routes_bad.rb:18", "GET", "get", "unknown_1", "index"))
	assert.Contains(t, events, event("config/routes_bad.rb:22", "GET", "resources", "xxx", "show"))
}

func TestRoutesEvaluator_Loops(t *testing.T) {
	events, err := NewRoutesEvaluator(dummyProject(t, "routes_bad_loops.rb")).Events(context.Background())
	require.NoError(t, err)

	loc := "config/routes_bad_loops.rb:"
	assert.Equal(t, []analysis.Event{
		event(loc+"3", "DELETE", "resource", "somethings", "destroy"),
		event(loc+"3", "DELETE", "resource", "full_items", "destroy"),
		event(loc+"7", "GET", "get", "home", "index"),
		event(loc+"7", "GET", "get", "home", "unknown_action"),
		event(loc+"7", "GET", "get", "home", "other_action"),
	}, events)
}

func TestRoutesEvaluator_FreshLogPerCall(t *testing.T) {
	evaluator := NewRoutesEvaluator(dummyProject(t, "routes_clean.rb"))

	first, err := evaluator.Events(context.Background())
	require.NoError(t, err)
	second, err := evaluator.Events(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRoutesEvaluator_Scopes(t *testing.T) {
	events := evaluate(t, map[string]string{
		"config/routes.rb": `Rails.application.routes.draw do
  namespace :admin do
    resources :users, only: [:index]
    get 'stats', to: 'dashboard#stats'
  end
  scope module: 'api' do
    resource :profile, only: :show
  end
  controller :pages do
    get :about
  end
  get 'photos/search'
  match 'legacy' => 'home#legacy', via: [:get, :post]
  root controller: 'home', action: 'index'
  scope '/v2', controller: :reports do
    get 'daily', action: :daily
  end
  namespace :admin, module: 'backoffice' do
    get 'home', to: '/home#index'
  end
end
`,
	}, "config/routes.rb")

	loc := "config/routes.rb:"
	assert.Equal(t, []analysis.Event{
		event(loc+"3", "GET", "resources", "admin/users", "index"),
		event(loc+"4", "GET", "get", "admin/dashboard", "stats"),
		event(loc+"7", "GET", "resource", "api/profiles", "show"),
		event(loc+"10", "GET", "get", "pages", "about"),
		event(loc+"12", "GET", "get", "photos", "search"),
		event(loc+"13", "GET|POST", "match", "home", "legacy"),
		event(loc+"14", "GET", "root", "home", "index"),
		event(loc+"16", "GET", "get", "reports", "daily"),
		event(loc+"19", "GET", "get", "home", "index"),
	}, events)
}

func TestRoutesEvaluator_NestedResources(t *testing.T) {
	events := evaluate(t, map[string]string{
		"config/routes.rb": `Rails.application.routes.draw do
  resources :photos, only: [] do
    get :preview
    resources :comments, only: %i[index create]
    member do
      post 'publish'
    end
  end
  resources :users, :groups, except: [:new, :edit, :update, :destroy, :create]
end
`,
	}, "config/routes.rb")

	loc := "config/routes.rb:"
	assert.Equal(t, []analysis.Event{
		event(loc+"3", "GET", "get", "photos", "preview"),
		event(loc+"4", "GET", "resources", "comments", "index"),
		event(loc+"4", "POST", "resources", "comments", "create"),
		event(loc+"6", "POST", "post", "photos", "publish"),
		event(loc+"9", "GET", "resources", "users", "index"),
		event(loc+"9", "GET", "resources", "users", "show"),
		event(loc+"9", "GET", "resources", "groups", "index"),
		event(loc+"9", "GET", "resources", "groups", "show"),
	}, events)
}

func TestRoutesEvaluator_DrawVariablesAndLoops(t *testing.T) {
	events := evaluate(t, map[string]string{
		"config/routes.rb": `Rails.application.routes.draw do
  draw :admin
  actions = %i[index show]
  actions.each do |a|
    get "home/#{a}", to: "home##{a}"
  end
  (1..2).each { |n| get "v#{n}", controller: "v#{n}", action: :index }
  concern :commentable do
    resources :comments
  end
  mount Engine => '/engine'
  get 'dynamic', to: some_method
  items.each do |item|
    get item, to: 'items#show'
  end
end
`,
		"config/routes/admin.rb": `namespace :admin do
  resources :reports, only: :index
end
`,
	})

	assert.Equal(t, []analysis.Event{
		event("config/routes/admin.rb:2", "GET", "resources", "admin/reports", "index"),
		event("config/routes.rb:5", "GET", "get", "home", "index"),
		event("config/routes.rb:5", "GET", "get", "home", "show"),
		event("config/routes.rb:7", "GET", "get", "v1", "index"),
		event("config/routes.rb:7", "GET", "get", "v2", "index"),
	}, events)
}

func TestRoutesEvaluator_Errors(t *testing.T) {
	t.Run("no routes files", func(t *testing.T) {
		root := setupTestDir(t, map[string]string{"Gemfile": "gem 'rails'\n"})
		_, err := NewRoutesEvaluator(plugins.Project{Root: root}).Events(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoRoutesFiles))
	})

	t.Run("missing drawn file", func(t *testing.T) {
		root := setupTestDir(t, map[string]string{
			"config/routes.rb": "Rails.application.routes.draw do\n  draw :missing\nend\n",
		})
		_, err := NewRoutesEvaluator(plugins.Project{Root: root}).Events(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config/routes.rb:2")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewRoutesEvaluator(dummyProject(t, "routes_clean.rb")).Events(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRoutesEvaluator_Files(t *testing.T) {
	root := setupTestDir(t, map[string]string{
		"config/routes.rb":       "",
		"config/routes/b.rb":     "",
		"config/routes/a/api.rb": "",
	})

	files, err := NewRoutesEvaluator(plugins.Project{Root: root}).Files()
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		rel = append(rel, f[len(root)+1:])
	}
	assert.Equal(t, []string{"config/routes.rb", "config/routes/a/api.rb", "config/routes/b.rb"}, rel)
}

func TestTargetFromPath(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		frame          frame
		wantController string
		wantAction     string
	}{
		{"plain path", "photos/search", frame{}, "photos", "search"},
		{"nested path", "admin/users/list", frame{}, "admin/users", "list"},
		{"single segment", "search", frame{}, "", ""},
		{"dynamic segment", "photos/:id", frame{}, "", ""},
		{"default controller", "preview", frame{controller: "photos"}, "", "preview"},
		{"default controller with slashes", "a/b", frame{controller: "photos"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, action := targetFromPath(tt.path, "", tt.frame)
			assert.Equal(t, tt.wantController, controller)
			assert.Equal(t, tt.wantAction, action)
		})
	}
}

func TestResolveTarget_DynamicTo(t *testing.T) {
	events := evaluate(t, map[string]string{
		"config/routes.rb": "Rails.application.routes.draw do\n  get 'photos/search', to: target\nend\n",
	}, "config/routes.rb")
	assert.Empty(t, events)
}

func TestRouteVerb(t *testing.T) {
	events := evaluate(t, map[string]string{
		"config/routes.rb": `Rails.application.routes.draw do
  root 'home#index'
  delete 'photos/purge'
  match 'legacy', to: 'home#legacy', via: :all
  match 'old' => 'home#old'
  patch 'profile', to: 'profiles#update'
end
`,
	}, "config/routes.rb")

	var verbs []string
	for _, ev := range events {
		verbs = append(verbs, ev.Verb)
	}
	assert.Equal(t, []string{"GET", "DELETE", "ALL", "ANY", "PATCH"}, verbs)
}
