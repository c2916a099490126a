// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"fmt"

	"github.com/api2spec/routelint/internal/rewriter"
	"github.com/api2spec/routelint/internal/util"
)

// IssueKind names an issue variant.
type IssueKind string

const (
	KindNoController IssueKind = "no_controller"
	KindNoAction     IssueKind = "no_action"
	KindResources    IssueKind = "resources"
)

// SuggestionContext describes the physical line an issue is rendered for.
type SuggestionContext struct {
	// HasPresentActions is true when some call on the line reaches a real action
	HasPresentActions bool

	// NumControllers is the number of distinct controllers called on the line
	NumControllers int

	// Verbose appends the issue's verbose message
	Verbose bool
}

// Issue is a problem found at a route declaring call.
// The set of variants is closed: NoControllerIssue, NoActionIssue and ResourcesIssue.
type Issue interface {
	// Kind returns the variant tag.
	Kind() IssueKind

	// Call returns the call the issue is attached to.
	Call() *RouteCall

	// HumanReadableError returns one descriptive sentence per problem.
	HumanReadableError(verbose bool) []string

	// Suggestion returns a short actionable phrase.
	Suggestion(ctx SuggestionContext) string

	// TryToFixLine rewrites the source line that produced the issue.
	// An empty result means the line should be deleted; ok is false when no
	// safe rewrite exists.
	TryToFixLine(line string) (fix string, ok bool)

	// VerboseMessage returns the extra detail shown in verbose mode, if any.
	VerboseMessage() string

	sealed()
}

type issueBase struct {
	call *RouteCall
}

func (b issueBase) Call() *RouteCall { return b.call }

func (b issueBase) VerboseMessage() string { return "" }

func (issueBase) sealed() {}

func withVerbose(message, verbose string, enabled bool) string {
	if enabled && verbose != "" {
		return message + "| " + verbose
	}
	return message
}

// NoControllerIssue reports a call whose controller does not resolve.
type NoControllerIssue struct {
	issueBase

	// Error is the resolution failure message, if any
	Error string
}

// Kind implements Issue.
func (i *NoControllerIssue) Kind() IssueKind { return KindNoController }

// HumanReadableError implements Issue.
func (i *NoControllerIssue) HumanReadableError(verbose bool) []string {
	c := i.call
	msg := fmt.Sprintf("`%s' call at %s there is no controller: %s for '%s' (actions: %s)",
		c.Method, c.Location, c.ControllerClassName, c.ControllerName, util.SymbolList(c.ActionNames))
	if i.Error != "" {
		msg += " error: " + i.Error
	}
	return []string{withVerbose(msg, i.VerboseMessage(), verbose)}
}

// Suggestion implements Issue.
func (i *NoControllerIssue) Suggestion(ctx SuggestionContext) string {
	var msg string
	if ctx.HasPresentActions {
		msg = fmt.Sprintf("remove case for %s as it doesn't exist", i.call.ControllerClassName)
	} else {
		msg = fmt.Sprintf("delete, %s not found", i.call.ControllerClassName)
	}
	return withVerbose(msg, i.VerboseMessage(), ctx.Verbose)
}

// TryToFixLine implements Issue. The whole line goes.
func (i *NoControllerIssue) TryToFixLine(string) (string, bool) {
	return "", true
}

// NoActionIssue reports single-action calls naming actions that do not exist.
type NoActionIssue struct {
	issueBase

	// Missing are the requested actions the controller lacks
	Missing []string
}

// Kind implements Issue.
func (i *NoActionIssue) Kind() IssueKind { return KindNoAction }

// HumanReadableError implements Issue. It returns one message per missing action.
func (i *NoActionIssue) HumanReadableError(verbose bool) []string {
	c := i.call
	messages := make([]string, 0, len(i.Missing))
	for _, action := range i.Missing {
		msg := fmt.Sprintf("`%s :%s' call at %s there is no matching action in %s",
			c.Method, action, c.Location, c.ControllerClassName)
		messages = append(messages, withVerbose(msg, i.VerboseMessage(), verbose))
	}
	return messages
}

// Suggestion implements Issue.
func (i *NoActionIssue) Suggestion(ctx SuggestionContext) string {
	actions := util.FormatSymbols(i.Missing)

	var msg string
	if ctx.HasPresentActions {
		plural := ""
		if len(i.Missing) > 1 {
			plural = "s"
		}
		msg = fmt.Sprintf("remove case%s for %s", plural, actions)
	} else {
		msg = fmt.Sprintf("delete line, %s matches nothing", actions)
	}
	if ctx.NumControllers > 1 {
		msg += " for controller " + i.call.ControllerClassName
	}
	return withVerbose(msg, i.VerboseMessage(), ctx.Verbose)
}

// TryToFixLine implements Issue. The whole line goes.
func (i *NoActionIssue) TryToFixLine(string) (string, bool) {
	return "", true
}

// ResourcesIssue suggests narrowing a resource(s) call with only: or except:.
type ResourcesIssue struct {
	issueBase

	// SuggestedParam is the clause to use, e.g. "only: [:index, :show]"
	SuggestedParam string

	// Missing are the generated actions the controller lacks
	Missing []string
}

// Kind implements Issue.
func (i *ResourcesIssue) Kind() IssueKind { return KindResources }

// HumanReadableError implements Issue.
func (i *ResourcesIssue) HumanReadableError(verbose bool) []string {
	c := i.call
	msg := fmt.Sprintf("`%s' call at %s for %s should use %s",
		c.Method, c.Location, c.ControllerClassName, i.SuggestedParam)
	return []string{withVerbose(msg, i.VerboseMessage(), verbose)}
}

// Suggestion implements Issue.
func (i *ResourcesIssue) Suggestion(ctx SuggestionContext) string {
	msg := "use " + i.SuggestedParam
	if ctx.NumControllers > 1 {
		msg += " only for " + i.call.ControllerClassName
	}
	return withVerbose(msg, i.VerboseMessage(), ctx.Verbose)
}

// TryToFixLine implements Issue by injecting the suggested clause.
func (i *ResourcesIssue) TryToFixLine(line string) (string, bool) {
	return rewriter.FixResourcesLine(line, i.SuggestedParam)
}

// VerboseMessage implements Issue.
func (i *ResourcesIssue) VerboseMessage() string {
	return "This route currently covers unimplemented actions: " + util.SymbolList(util.SortedUnique(i.Missing))
}
