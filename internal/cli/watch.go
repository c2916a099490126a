// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/api2spec/routelint/internal/config"
)

var watchDebounce int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch routes and controllers and report issues on every change",
	Long: `Watch re-runs the route analysis whenever a routes file or a controller
changes and prints the issues.

Changes are debounced, so saving several files at once triggers a single
analysis. Stop watching with Ctrl+C.

Example:
  routelint watch                         # Watch the configured files
  routelint watch --debounce 1000         # Wait 1s after the last change
  routelint watch --format json           # Print JSON reports`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", -1, "debounce duration in milliseconds (default from config: 500)")
	addSuggestionFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(func(cfg *config.Config) error {
		if watchDebounce >= 0 {
			cfg.Watch.Debounce = watchDebounce
		}
		return applySuggestionFlags(cfg)
	})
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fail(fmt.Errorf("failed to create watcher: %w", err))
	}
	defer watcher.Close()

	dirs := watchDirs(s.root, slices.Concat(s.cfg.Routes.Files, s.cfg.Controllers.Include))
	if len(dirs) == 0 {
		return fail(fmt.Errorf("nothing to watch under %s", s.root))
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fail(fmt.Errorf("failed to watch %s: %w", dir, err))
		}
		printVerbose("Watching %s", s.relative(dir))
	}

	analyzeOnce := func() {
		result, _, err := s.analyze(ctx)
		if err != nil {
			printError("%v", err)
			return
		}
		if err := writeIssues(cmd.OutOrStdout(), s.format(), result); err != nil {
			printError("%v", err)
		}
	}

	printInfo("Watching %d directories under %s", len(dirs), s.root)
	printInfo("Press Ctrl+C to stop")
	analyzeOnce()

	loop := &watchLoop{
		watcher:  watcher,
		debounce: time.Duration(s.cfg.Watch.Debounce) * time.Millisecond,
		relevant: hasExtension(s.plugin.Extensions()),
		logger:   s.logger,
	}
	if err := loop.run(ctx, analyzeOnce); err != nil {
		return fail(err)
	}
	printInfo("Stopped watching")
	return nil
}

// watchLoop debounces file system events into analysis runs.
type watchLoop struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	relevant func(path string) bool
	logger   *slog.Logger
}

// run calls onChange once per burst of relevant events until ctx is done.
// New directories are added to the watcher as they appear.
func (l *watchLoop) run(ctx context.Context, onChange func()) error {
	timer := time.NewTimer(l.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-l.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for _, dir := range walkDirs(event.Name) {
						if err := l.watcher.Add(dir); err != nil {
							l.logger.Warn("failed to watch new directory", "dir", dir, "error", err)
						}
					}
					continue
				}
			}
			if event.Op == fsnotify.Chmod || !l.relevant(event.Name) {
				continue
			}
			l.logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(l.debounce)

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				l.logger.Warn("watcher overflowed, re-analyzing")
				timer.Reset(l.debounce)
				continue
			}
			return fmt.Errorf("watch failed: %w", err)

		case <-timer.C:
			onChange()
		}
	}
}

// watchDirs returns the existing directories, recursively, that the glob
// patterns can match files in.
func watchDirs(root string, patterns []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		for _, dir := range walkDirs(filepath.Join(root, filepath.FromSlash(base))) {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}
	slices.Sort(dirs)
	return dirs
}

// walkDirs returns dir and every directory below it.
func walkDirs(dir string) []string {
	var dirs []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs
}

// hasExtension matches paths ending in one of extensions.
func hasExtension(extensions []string) func(string) bool {
	return func(path string) bool {
		ext := strings.ToLower(filepath.Ext(path))
		return slices.Contains(extensions, ext)
	}
}
