// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package gems

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDir creates a temporary directory with the given subdirectories.
func setupTestDir(t *testing.T, dirs ...string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for _, dir := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, dir), 0o755))
	}
	return tmpDir
}

func TestNameFromDir(t *testing.T) {
	tests := []struct {
		dir  string
		name string
		ok   bool
	}{
		{"devise-4.9.3", "devise", true},
		{"rails-html-sanitizer-1.6.0", "rails-html-sanitizer", true},
		{"nokogiri-1.16.0-x86_64-linux", "nokogiri", true},
		{"minitest", "", false},
		{"some-thing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			name, ok := NameFromDir(tt.dir)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestLocator_GlobDiscovery(t *testing.T) {
	root := setupTestDir(t,
		"vendor/bundle/ruby/3.3.0/gems/devise-4.9.3/app/controllers",
		"vendor/bundle/ruby/3.3.0/gems/minitest-5.22.0/lib",
		"vendor/bundle/ruby/3.3.0/gems/not_a_gem",
	)

	locator, err := NewLocator(root, nil, []string{"vendor/bundle/ruby/*/gems/*"})
	require.NoError(t, err)
	assert.Len(t, locator.Gems(), 2)

	gemRoot := filepath.Join(root, "vendor/bundle/ruby/3.3.0/gems/minitest-5.22.0")
	fullPath := filepath.Join(gemRoot, "lib/some/path.rb")

	name, ok := locator.Identify(fullPath)
	require.True(t, ok)
	assert.Equal(t, "minitest", name)
	assert.Equal(t, "minitest @ lib/some/path.rb:3", locator.Clean(fullPath+":3", false))
}

func TestLocator_LongestPrefixWins(t *testing.T) {
	locator, err := NewLocator("/app", map[string]string{
		"outer": "/gems/outer",
		"inner": "/gems/outer/vendor/inner",
	}, nil)
	require.NoError(t, err)

	name, ok := locator.Identify("/gems/outer/vendor/inner/lib/a.rb")
	require.True(t, ok)
	assert.Equal(t, "inner", name)

	name, ok = locator.Identify("/gems/outer/lib/a.rb")
	require.True(t, ok)
	assert.Equal(t, "outer", name)

	_, ok = locator.Identify("/gems/outerwear/lib/a.rb")
	assert.False(t, ok)
}

func TestLocator_Clean(t *testing.T) {
	locator, err := NewLocator("/app", map[string]string{"engine": "/opt/gems/engine-1.0"}, nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		location string
		fullPath bool
		want     string
	}{
		{"application", "/app/app/controllers/home_controller.rb:4", false, "./app/controllers/home_controller.rb:4"},
		{"application full path", "/app/app/controllers/home_controller.rb:4", true, "/app/app/controllers/home_controller.rb:4"},
		{"gem", "/opt/gems/engine-1.0/app/controllers/x.rb:9", false, "engine @ app/controllers/x.rb:9"},
		{"gem full path", "/opt/gems/engine-1.0/app/controllers/x.rb:9", true, "engine @ app/controllers/x.rb:9"},
		{"elsewhere", "/usr/lib/ruby/x.rb:1", false, "/usr/lib/ruby/x.rb:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, locator.Clean(tt.location, tt.fullPath))
		})
	}
}

func TestLocator_Nil(t *testing.T) {
	var locator *Locator
	_, ok := locator.Identify("/x.rb")
	assert.False(t, ok)
	assert.Equal(t, "/x.rb:1", locator.Clean("/x.rb:1", false))
}
