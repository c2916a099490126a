// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package annotator writes analysis results back into routes files, either
// as trailing suggestion comments or as mechanical fixes.
package annotator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"

	"github.com/api2spec/routelint/internal/analysis"
)

var (
	// ErrFileNotFound is returned when a routes file to annotate does not exist.
	ErrFileNotFound = errors.New("routes file not found")

	// ErrNotModifiable is returned when a file may not be rewritten in place.
	ErrNotModifiable = errors.New("routes file is not modifiable")

	// ErrMultipleFiles is returned when several files would be written to one stream.
	ErrMultipleFiles = errors.New("can annotate only one file at a time to stdout")
)

// State is the kind of outcome of Run.
type State int

const (
	// StateClean means no routes file has issues.
	StateClean State = iota

	// StateAmbiguous means several files have issues and none was chosen.
	StateAmbiguous

	// StateAnnotated means the files were annotated.
	StateAnnotated
)

func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateAmbiguous:
		return "ambiguous"
	case StateAnnotated:
		return "annotated"
	default:
		return "unknown"
	}
}

// Outcome is the result of Run.
type Outcome struct {
	State State

	// Files are the candidates when ambiguous, the processed files when annotated
	Files []string
}

// Options controls an Annotator.
type Options struct {
	// Root is the application root; files outside it are never modified
	Root string

	// InPlace rewrites the files instead of printing them
	InPlace bool

	// TryToFix applies mechanical fixes where they are safe
	TryToFix bool

	// AllowDeleting permits fixes that remove whole lines
	AllowDeleting bool

	// Force skips the root and version control checks
	Force bool

	// SkipGit skips only the version control check
	SkipGit bool

	// Diff prints a unified diff instead of the annotated content
	Diff bool

	// Changes detects uncommitted changes; nil runs git
	Changes ChangeDetector

	// GitTimeout bounds the version control query
	GitTimeout time.Duration

	// Logger receives notices; nil discards them
	Logger *slog.Logger
}

// Annotator annotates the routes files of one analysis result.
type Annotator struct {
	fs      afero.Fs
	result  *analysis.Result
	opts    Options
	changes ChangeDetector
	logger  *slog.Logger
}

// New creates an annotator reading and writing through fs.
func New(fs afero.Fs, result *analysis.Result, opts Options) *Annotator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	changes := opts.Changes
	if changes == nil {
		changes = &GitStatus{Timeout: opts.GitTimeout}
	}
	return &Annotator{
		fs:      fs,
		result:  result,
		opts:    opts,
		changes: changes,
		logger:  logger,
	}
}

// AnnotatedContent returns file with every route line annotated or fixed.
// Lines without calls are copied unchanged.
func (a *Annotator) AnnotatedContent(file string) (string, error) {
	file = analysis.FullFilename(a.opts.Root, file)

	data, err := afero.ReadFile(a.fs, file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, file)
		}
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}

	lines := a.result.RouteLinesForFile(file)
	if !anyIssues(lines) {
		a.logger.Info("no route issues in file", "file", file, "filesWithIssues", a.result.FilesWithIssues())
	}
	a.logger.Info("annotating", "file", file)

	annotate := analysis.AnnotateOptions{TryToFix: a.opts.TryToFix, AllowDeleting: a.opts.AllowDeleting}

	var sb strings.Builder
	for i, line := range splitLines(string(data)) {
		if rl, ok := lines[i+1]; ok {
			sb.WriteString(rl.Annotate(line, annotate))
			continue
		}
		sb.WriteString(line)
	}
	return sb.String(), nil
}

// Run annotates files, or the files with issues when none are given, and
// writes the result to w or back to the files in place.
func (a *Annotator) Run(ctx context.Context, w io.Writer, files ...string) (Outcome, error) {
	targets, err := a.filesToWorkOn(ctx, files)
	if err != nil {
		return Outcome{}, err
	}
	if len(targets) == 0 {
		return Outcome{State: StateClean}, nil
	}
	if len(files) == 0 && len(targets) > 1 && !a.opts.InPlace {
		return Outcome{State: StateAmbiguous, Files: targets}, nil
	}
	if len(targets) > 1 && !a.opts.InPlace {
		return Outcome{}, fmt.Errorf("%w: got %d files", ErrMultipleFiles, len(targets))
	}

	for _, file := range targets {
		if _, err := a.fs.Stat(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Outcome{}, fmt.Errorf("%w: %s", ErrFileNotFound, file)
			}
			return Outcome{}, fmt.Errorf("failed to stat %s: %w", file, err)
		}
	}

	for _, file := range targets {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		if err := a.annotate(ctx, w, file); err != nil {
			return Outcome{}, err
		}
	}
	return Outcome{State: StateAnnotated, Files: targets}, nil
}

func (a *Annotator) annotate(ctx context.Context, w io.Writer, file string) error {
	if a.opts.InPlace && !a.opts.Force {
		if err := a.CheckModifiable(ctx, file); err != nil {
			a.logger.Warn("refusing to modify", "file", file, "reason", err)
			return err
		}
	}

	content, err := a.AnnotatedContent(file)
	if err != nil {
		return err
	}

	if a.opts.Diff || !a.opts.InPlace {
		var original []byte
		if a.opts.Diff {
			if original, err = afero.ReadFile(a.fs, file); err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
		}
		if err := a.print(w, file, string(original), content); err != nil {
			return err
		}
	}

	if a.opts.InPlace {
		return a.writeFile(file, content)
	}
	return nil
}

func (a *Annotator) print(w io.Writer, file, original, content string) error {
	if !a.opts.Diff {
		_, err := io.WriteString(w, content)
		return err
	}
	if original == content {
		return nil
	}
	name := a.relative(file)
	return difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(content),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}

// writeFile replaces the content of an existing file. The content is fully
// computed before the file is opened.
func (a *Annotator) writeFile(file, content string) (err error) {
	f, err := a.fs.OpenFile(file, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", file, cerr)
		}
	}()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}

func (a *Annotator) filesToWorkOn(ctx context.Context, files []string) ([]string, error) {
	if len(files) > 0 {
		out := make([]string, len(files))
		for i, f := range files {
			out[i] = analysis.FullFilename(a.opts.Root, f)
		}
		return out, nil
	}

	candidates := a.result.FilesWithIssues()
	if !a.opts.InPlace || a.opts.Force || len(candidates) == 0 {
		return candidates, nil
	}

	var modifiable []string
	for _, f := range candidates {
		if err := a.CheckModifiable(ctx, f); err != nil {
			a.logger.Debug("skipping file", "file", f, "reason", err)
			continue
		}
		modifiable = append(modifiable, f)
	}
	if len(modifiable) == 0 {
		return nil, fmt.Errorf("%w: none of %s", ErrNotModifiable, strings.Join(candidates, ", "))
	}
	return modifiable, nil
}

// CheckModifiable returns nil when file lies under the root and has no
// uncommitted changes. A failing version control query counts as changes.
func (a *Annotator) CheckModifiable(ctx context.Context, file string) error {
	if !a.underRoot(file) {
		return fmt.Errorf("%w: %s is outside the root %s", ErrNotModifiable, file, a.opts.Root)
	}
	if a.opts.SkipGit {
		return nil
	}

	changed, err := a.changes.HasChanges(ctx, a.opts.Root, file)
	if err != nil {
		return fmt.Errorf("%w: could not query version control at %s: %v", ErrNotModifiable, a.opts.Root, err)
	}
	if changed {
		return fmt.Errorf("%w: %s has uncommitted changes", ErrNotModifiable, a.relative(file))
	}
	return nil
}

func (a *Annotator) underRoot(file string) bool {
	if a.opts.Root == "" {
		return false
	}
	rel, err := filepath.Rel(a.opts.Root, file)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func (a *Annotator) relative(file string) string {
	if rel, err := filepath.Rel(a.opts.Root, file); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return file
}

func anyIssues(lines map[int]*analysis.RouteLine) bool {
	for _, rl := range lines {
		if rl.HasIssues() {
			return true
		}
	}
	return false
}

// splitLines splits s after every "\n", keeping the terminators.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
