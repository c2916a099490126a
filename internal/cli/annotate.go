// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/api2spec/routelint/internal/annotator"
	"github.com/api2spec/routelint/internal/config"
)

var (
	annotateInPlace  bool
	annotateDiff     bool
	annotateForce    bool
	annotateSkipGit  bool
	fixAllowDeleting bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [files...]",
	Short: "Print routes files with a suggestion on every offending line",
	Long: `Annotate appends a "# SUGGESTION ..." comment to every routes file line
that declares a broken route, replacing any earlier suggestion.

Without file arguments the routes file with issues is annotated. When
several files have issues, name one as an argument or with ROUTES_FILE,
or use --in-place to annotate all of them.

In-place mode refuses files outside the application root and files with
uncommitted changes, unless --force is given.

Example:
  routelint annotate                           # Print the annotated file
  routelint annotate config/routes.rb --diff   # Show the changes as a diff
  routelint annotate --in-place                # Annotate every file with issues`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnnotate(cmd, args, false)
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [files...]",
	Short: "Rewrite offending routes where a mechanical fix is safe",
	Long: `Fix works like annotate but rewrites lines it can fix: resources calls
get the suggested only: or except: clause, and with --allow-deleting lines
that declare nothing but missing routes are removed. Lines that cannot be
fixed mechanically are annotated instead.

Example:
  routelint fix                                # Print the fixed file
  routelint fix --in-place --allow-deleting    # Fix every file with issues`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnnotate(cmd, args, true)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{annotateCmd, fixCmd} {
		cmd.Flags().BoolVarP(&annotateInPlace, "in-place", "i", false, "rewrite the files instead of printing them")
		cmd.Flags().BoolVar(&annotateDiff, "diff", false, "print a unified diff instead of the whole file")
		cmd.Flags().BoolVar(&annotateForce, "force", false, "modify files outside the root or with uncommitted changes")
		cmd.Flags().BoolVar(&annotateSkipGit, "skip-git", false, "do not check files for uncommitted changes")
		addSuggestionFlags(cmd)
	}
	fixCmd.Flags().BoolVar(&fixAllowDeleting, "allow-deleting", false, "remove lines that declare only missing routes")
}

func runAnnotate(cmd *cobra.Command, args []string, tryToFix bool) error {
	s, err := newSession(func(cfg *config.Config) error {
		if annotateForce {
			cfg.Annotate.Force = true
		}
		if annotateSkipGit {
			cfg.Annotate.SkipGit = true
		}
		return applySuggestionFlags(cfg)
	})
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	result, _, err := s.analyze(cmd.Context())
	if err != nil {
		return fail(err)
	}

	files := args
	if len(files) == 0 && s.cfg.Annotate.File != "" {
		files = []string{s.cfg.Annotate.File}
	}

	a := annotator.New(afero.NewOsFs(), result, annotator.Options{
		Root:          s.root,
		InPlace:       annotateInPlace,
		TryToFix:      tryToFix,
		AllowDeleting: tryToFix && fixAllowDeleting,
		Force:         s.cfg.Annotate.Force,
		SkipGit:       s.cfg.Annotate.SkipGit,
		Diff:          annotateDiff,
		GitTimeout:    annotator.DefaultGitTimeout,
		Logger:        s.logger,
	})

	outcome, err := a.Run(cmd.Context(), cmd.OutOrStdout(), files...)
	if err != nil {
		return fail(err)
	}

	switch outcome.State {
	case annotator.StateClean:
		printInfo("%s, nothing to annotate", AllGoodMessage)
	case annotator.StateAmbiguous:
		printInfo("Routes with issues are declared in several files:")
		for _, file := range outcome.Files {
			printInfo("  %s", s.relative(file))
		}
		printInfo("Pass one of them as an argument, set %s, or use --in-place", config.EnvFile)
		return issuesFound()
	case annotator.StateAnnotated:
		if annotateInPlace {
			for _, file := range outcome.Files {
				printInfo("Updated %s", s.relative(file))
			}
		}
	}
	return nil
}

// relative returns path relative to the root when it lies under it.
func (s *session) relative(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
