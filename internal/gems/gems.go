// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package gems identifies installed Ruby gems from source file paths.
package gems

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Gem is an installed gem root.
type Gem struct {
	Name string
	Path string
}

// Locator maps gem root directories to gem names.
type Locator struct {
	root string
	gems []Gem // longest path first
}

// NewLocator creates a locator for an application rooted at root. Explicit
// entries map gem names to directories; each pattern is a glob matching
// "<name>-<version>" gem directories, relative to root unless absolute.
func NewLocator(root string, entries map[string]string, patterns []string) (*Locator, error) {
	l := &Locator{root: cleanDir(root)}

	for name, path := range entries {
		l.add(name, resolve(root, path))
	}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(resolve(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid gem path pattern %q: %w", pattern, err)
		}
		for _, dir := range matches {
			if name, ok := NameFromDir(filepath.Base(dir)); ok {
				l.add(name, dir)
			}
		}
	}

	sort.SliceStable(l.gems, func(i, j int) bool {
		return len(l.gems[i].Path) > len(l.gems[j].Path)
	})
	return l, nil
}

func (l *Locator) add(name, path string) {
	l.gems = append(l.gems, Gem{Name: name, Path: cleanDir(path)})
}

// Gems returns the known gems, longest path first.
func (l *Locator) Gems() []Gem {
	return append([]Gem(nil), l.gems...)
}

// Identify returns the gem that contains path.
func (l *Locator) Identify(path string) (string, bool) {
	if g, ok := l.match(path); ok {
		return g.Name, true
	}
	return "", false
}

func (l *Locator) match(path string) (Gem, bool) {
	if l == nil {
		return Gem{}, false
	}
	for _, g := range l.gems {
		if strings.HasPrefix(path, g.Path+"/") || path == g.Path {
			return g, true
		}
	}
	return Gem{}, false
}

// Clean shortens a "file:line" source location for display. Gem paths become
// "<gem> @ relative/path.rb:12" and application paths become "./relative/path.rb:12".
// With fullPath set only gem paths are rewritten.
func (l *Locator) Clean(location string, fullPath bool) string {
	if g, ok := l.match(location); ok {
		return g.Name + " @ " + strings.TrimPrefix(location, g.Path+"/")
	}
	if !fullPath && l != nil && l.root != "" && strings.HasPrefix(location, l.root+"/") {
		return "./" + strings.TrimPrefix(location, l.root+"/")
	}
	return location
}

// NameFromDir extracts the gem name from an installed gem directory name such
// as "devise-4.9.3" or "nokogiri-1.16.0-x86_64-linux".
func NameFromDir(dir string) (string, bool) {
	parts := strings.Split(dir, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" && parts[i][0] >= '0' && parts[i][0] <= '9' {
			return strings.Join(parts[:i], "-"), true
		}
	}
	return "", false
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}

func cleanDir(path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSuffix(filepath.Clean(path), "/")
}
