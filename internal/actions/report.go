// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package actions

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/api2spec/routelint/internal/analysis"
	"github.com/api2spec/routelint/pkg/types"
)

// MaxActionLength caps the column action names are aligned to.
const MaxActionLength = 30

// PreambleWarning follows the list of controllers without routes.
const PreambleWarning = "Note: such controllers may still be used as base classes or reached by routes that cannot be resolved statically.\n\n"

// NoActionsMessage is printed when no action needs reporting.
const NoActionsMessage = "There are no actions without a route\n"

// Report renders a catalog as an indented controller tree.
type Report struct {
	catalog *Catalog
	opts    Options
	cache   map[*analysis.Controller]bool
}

// NewReport creates a report over catalog.
func NewReport(catalog *Catalog, opts Options) *Report {
	return &Report{catalog: catalog, opts: opts}
}

// Write prints the unused controllers followed by the action tree.
func (r *Report) Write(w io.Writer) error {
	r.cache = make(map[*analysis.Controller]bool)

	var sb strings.Builder
	if unused := r.UnusedControllers(); len(unused) > 0 {
		sb.WriteString("Controllers with no routes pointing to them:\n")
		for _, c := range unused {
			sb.WriteString("  " + c.Name + "\n")
		}
		sb.WriteString("\n")
		sb.WriteString(PreambleWarning)
	}

	if r.catalog.AnyNeedsReporting(r.opts) {
		r.writeTree(&sb, r.catalog.Roots(), 0)
	} else {
		sb.WriteString(NoActionsMessage)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// ActionsToReport returns the descriptors of ctrl that pass the filters.
func (r *Report) ActionsToReport(ctrl *analysis.Controller) []Descriptor {
	var out []Descriptor
	for _, d := range r.catalog.For(ctrl) {
		if d.NeedsReporting(r.opts) {
			out = append(out, d)
		}
	}
	return out
}

func (r *Report) writeTree(sb *strings.Builder, controllers []*analysis.Controller, level int) {
	for _, ctrl := range controllers {
		if !r.needsReporting(ctrl) {
			continue
		}
		sb.WriteString(indent(level) + ctrl.Name + "\n")

		if reported := r.ActionsToReport(ctrl); len(reported) > 0 {
			actionLevel := level + 1
			for _, child := range ctrl.Children {
				if r.needsReporting(child) {
					sb.WriteString(indent(actionLevel) + "Actions:\n")
					actionLevel++
					break
				}
			}

			width := 0
			for _, d := range reported {
				width = max(width, len(d.Action))
			}
			width = min(width, MaxActionLength)

			for _, d := range reported {
				line := fmt.Sprintf("%-*s @ %s", width, d.Action, d.Location)
				if r.opts.Metadata {
					line += " " + d.Metadata()
				}
				sb.WriteString(indent(actionLevel) + line + "\n")
			}
		}

		r.writeTree(sb, ctrl.Children, level+1)
	}
}

// needsReporting is memoized per Write call.
func (r *Report) needsReporting(ctrl *analysis.Controller) bool {
	if r.cache == nil {
		r.cache = make(map[*analysis.Controller]bool)
	}
	if v, ok := r.cache[ctrl]; ok {
		return v
	}
	v := len(r.ActionsToReport(ctrl)) > 0
	if !v {
		for _, child := range ctrl.Children {
			if r.needsReporting(child) {
				v = true
				break
			}
		}
	}
	r.cache[ctrl] = v
	return v
}

// UnusedControllers returns the controllers that no route reaches, directly
// or through a subclass, sorted by name. Unless gems are reported, controllers
// whose every action comes from a gem, a module or a parent are left out.
func (r *Report) UnusedControllers() []*analysis.Controller {
	var out []*analysis.Controller
	for _, ctrl := range r.catalog.Controllers() {
		if !r.hasNoRoutes(ctrl) {
			continue
		}
		if !r.opts.ReportGems && r.likelyFromGem(ctrl) {
			continue
		}
		out = append(out, ctrl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ActionReport returns the reported actions and unused controllers in their
// serializable form.
func (r *Report) ActionReport(root string) *types.ActionReport {
	report := &types.ActionReport{
		Root:              root,
		UnusedControllers: []string{},
		Actions:           []types.ActionEntry{},
	}
	for _, ctrl := range r.UnusedControllers() {
		report.UnusedControllers = append(report.UnusedControllers, ctrl.Name)
	}
	for _, d := range r.catalog.All() {
		if !d.NeedsReporting(r.opts) {
			continue
		}
		report.Actions = append(report.Actions, types.ActionEntry{
			Controller:   d.Controller,
			Action:       d.Action,
			Location:     d.Location,
			Owner:        d.Owner,
			RouteMissing: d.RouteMissing,
			Inherited:    d.Inherited,
			FromModule:   d.FromModule,
			FromGem:      d.FromGem,
		})
	}
	return report
}

func (r *Report) hasNoRoutes(ctrl *analysis.Controller) bool {
	for _, d := range r.catalog.For(ctrl) {
		if !d.RouteMissing {
			return false
		}
	}
	for _, child := range ctrl.Children {
		if !r.hasNoRoutes(child) {
			return false
		}
	}
	return true
}

func (r *Report) likelyFromGem(ctrl *analysis.Controller) bool {
	for _, d := range r.catalog.For(ctrl) {
		if d.FromGem == "" && !d.FromModule && !d.Inherited {
			return false
		}
	}
	return true
}

func indent(level int) string {
	return strings.Repeat("  ", level)
}
