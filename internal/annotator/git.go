// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package annotator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultGitTimeout bounds a git status query.
const DefaultGitTimeout = 5 * time.Second

// ChangeDetector reports whether a file has uncommitted changes.
type ChangeDetector interface {
	HasChanges(ctx context.Context, repoRoot, file string) (bool, error)
}

// ChangeDetectorFunc adapts a function to ChangeDetector.
type ChangeDetectorFunc func(ctx context.Context, repoRoot, file string) (bool, error)

// HasChanges calls f.
func (f ChangeDetectorFunc) HasChanges(ctx context.Context, repoRoot, file string) (bool, error) {
	return f(ctx, repoRoot, file)
}

// GitStatus detects changes with "git status --porcelain". Untracked files
// are not changes.
type GitStatus struct {
	// Timeout bounds the query; zero means DefaultGitTimeout
	Timeout time.Duration
}

// HasChanges runs git in repoRoot for file.
func (g *GitStatus) HasChanges(ctx context.Context, repoRoot, file string) (bool, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultGitTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", repoRoot, "status", "--porcelain", "--untracked-files=no", "--", file)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return false, fmt.Errorf("git status: %w: %s", err, msg)
		}
		return false, fmt.Errorf("git status: %w", err)
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}
