// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	suggestionComment = regexp.MustCompile(`( # SUGGESTION.*)?$`)
	blockOpener       = regexp.MustCompile(`\sdo(\s|$)`)
)

// RouteLine is every call declared on one physical line of a routes file.
type RouteLine struct {
	// File is the absolute path of the routes file
	File string

	// Line is the 1-based line number
	Line int

	// Calls are the calls on this line in order of first appearance
	Calls []*RouteCall

	verbose bool
}

// FileLocation returns "file:line".
func (l *RouteLine) FileLocation() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Issues flattens the issues of every call on the line.
func (l *RouteLine) Issues() []Issue {
	var issues []Issue
	for _, c := range l.Calls {
		issues = append(issues, c.Issues...)
	}
	return issues
}

// HasIssues reports whether any call on the line has an issue.
func (l *RouteLine) HasIssues() bool {
	for _, c := range l.Calls {
		if c.HasIssues() {
			return true
		}
	}
	return false
}

// HasPresentActions reports whether any call on the line reaches a real action.
func (l *RouteLine) HasPresentActions() bool {
	for _, c := range l.Calls {
		if c.HasPresentActions() {
			return true
		}
	}
	return false
}

// ControllerClassNames returns the distinct controllers called on the line.
func (l *RouteLine) ControllerClassNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range l.Calls {
		if !seen[c.ControllerClassName] {
			seen[c.ControllerClassName] = true
			names = append(names, c.ControllerClassName)
		}
	}
	return names
}

// SuggestionContext returns the context issues on this line are rendered in.
func (l *RouteLine) SuggestionContext() SuggestionContext {
	return SuggestionContext{
		HasPresentActions: l.HasPresentActions(),
		NumControllers:    len(l.ControllerClassNames()),
		Verbose:           l.verbose,
	}
}

// CombinedSuggestions joins the suggestion of every issue on the line with ", ".
// The second result is false when the line has no issues.
func (l *RouteLine) CombinedSuggestions() (string, bool) {
	if !l.HasIssues() {
		return "", false
	}
	ctx := l.SuggestionContext()
	var parts []string
	for _, issue := range l.Issues() {
		parts = append(parts, issue.Suggestion(ctx))
	}
	return strings.Join(parts, ", "), true
}

// AnnotateOptions controls RouteLine.Annotate.
type AnnotateOptions struct {
	// TryToFix rewrites the line instead of commenting when that is safe
	TryToFix bool

	// AllowDeleting permits fixes that remove the whole line
	AllowDeleting bool
}

// Annotate returns the replacement for raw, the source text of this line.
// A trailing line break is preserved. An empty result means the line is to
// be deleted together with its line break.
func (l *RouteLine) Annotate(raw string, opts AnnotateOptions) string {
	body, eol := splitLineBreak(raw)

	if opts.TryToFix {
		if fix, ok := l.TryToFixLine(body, opts.AllowDeleting); ok {
			if fix == "" {
				return ""
			}
			return fix + eol
		}
	}

	suggestion, ok := l.CombinedSuggestions()
	if !ok {
		return suggestionComment.ReplaceAllLiteralString(body, "") + eol
	}
	return suggestionComment.ReplaceAllLiteralString(body, " # SUGGESTION "+suggestion) + eol
}

// TryToFixLine applies the mechanical fix of the line's only issue.
// Lines with several calls or several issues are never fixed, since the fix
// would have to change the code generating them.
func (l *RouteLine) TryToFixLine(body string, allowDeleting bool) (string, bool) {
	if len(l.Calls) != 1 || len(l.Calls[0].Issues) != 1 {
		return "", false
	}

	stripped := suggestionComment.ReplaceAllLiteralString(body, "")
	fix, ok := l.Calls[0].Issues[0].TryToFixLine(stripped)
	if !ok {
		return "", false
	}
	fix = strings.TrimRight(fix, " \t\r\n")
	if fix == "" {
		if !allowDeleting || opensBlock(stripped) || l.HasPresentActions() {
			return "", false
		}
	}
	return fix, true
}

func opensBlock(line string) bool {
	return blockOpener.MatchString(line) || strings.Contains(line, "{")
}

func splitLineBreak(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	}
	return line, ""
}
