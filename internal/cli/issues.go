// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/api2spec/routelint/internal/analysis"
	"github.com/api2spec/routelint/internal/config"
	"github.com/api2spec/routelint/internal/output"
)

// AllGoodMessage is printed when no route has an issue.
const AllGoodMessage = "All routes are good"

var (
	issuesOnlyOnly   bool
	issuesOnlyExcept bool
)

// now is the report timestamp source; tests replace it.
var now = time.Now

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List routes pointing to missing controllers or actions",
	Long: `Issues evaluates the routes files and reports every route declaring call
whose controller or action does not exist, and every resources call that
should be narrowed with only: or except:.

The command exits with status 1 when issues are found and 2 when the
analysis fails, so it can gate CI pipelines.

Example:
  routelint issues                       # Human readable list
  routelint issues -v                    # Include verbose details
  routelint issues --format json         # Machine readable report
  routelint issues --only-except         # Always suggest except:`,
	RunE: runIssues,
}

func init() {
	addSuggestionFlags(issuesCmd)
}

// addSuggestionFlags registers the flags that steer resources suggestions.
func addSuggestionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&issuesOnlyOnly, "only-only", false, "always suggest only: for resources calls")
	cmd.Flags().BoolVar(&issuesOnlyExcept, "only-except", false, "always suggest except: for resources calls")
}

func runIssues(cmd *cobra.Command, args []string) error {
	s, err := newSession(applySuggestionFlags)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	result, _, err := s.analyze(cmd.Context())
	if err != nil {
		return fail(err)
	}

	if err := writeIssues(cmd.OutOrStdout(), s.format(), result); err != nil {
		return fail(err)
	}

	if len(result.Issues()) > 0 {
		return issuesFound()
	}
	return nil
}

// applySuggestionFlags applies --only-only and --only-except.
func applySuggestionFlags(cfg *config.Config) error {
	if issuesOnlyOnly {
		cfg.Analysis.OnlyOnly = true
	}
	if issuesOnlyExcept {
		cfg.Analysis.OnlyExcept = true
	}
	return nil
}

// writeIssues prints the issues of result in the given format.
func writeIssues(w io.Writer, format string, result *analysis.Result) error {
	if format != "text" {
		return output.NewWriter().Write(result.IssueReport(now()), format, w)
	}

	calls := result.CallsWithIssues()
	if len(calls) == 0 {
		_, err := fmt.Fprintln(w, AllGoodMessage)
		return err
	}

	for _, call := range calls {
		if _, err := fmt.Fprintln(w, call.HumanReadableError(result.Verbose)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s in %s\n",
		plural(len(result.Issues()), "issue"),
		plural(len(result.FilesWithIssues()), "file"))
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
