// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package actions catalogs controller actions and reports the ones no route reaches.
package actions

import (
	"fmt"

	"github.com/api2spec/routelint/internal/analysis"
	"github.com/api2spec/routelint/internal/gems"
)

// Options selects which actions are reported and how they are printed.
type Options struct {
	// ReportDuplicates includes actions inherited unchanged from the parent controller
	ReportDuplicates bool

	// ReportGems includes actions implemented inside installed gems
	ReportGems bool

	// ReportModules includes actions provided by mixed-in modules
	ReportModules bool

	// FullPath keeps absolute paths for application source locations
	FullPath bool

	// Metadata appends route/inheritance details to every action line
	Metadata bool

	// ReportAll includes actions that do have a route
	ReportAll bool
}

// Descriptor describes one controller action.
type Descriptor struct {
	Controller   string `json:"controller" yaml:"controller" toml:"controller"`
	Action       string `json:"action" yaml:"action" toml:"action"`
	Location     string `json:"location" yaml:"location" toml:"location"`
	Owner        string `json:"owner" yaml:"owner" toml:"owner"`
	RouteMissing bool   `json:"routeMissing" yaml:"routeMissing" toml:"routeMissing"`
	Inherited    bool   `json:"inherited" yaml:"inherited" toml:"inherited"`
	FromModule   bool   `json:"fromModule" yaml:"fromModule" toml:"fromModule"`
	FromGem      string `json:"fromGem,omitempty" yaml:"fromGem,omitempty" toml:"fromGem,omitempty"`

	// Parent is the superclass name when the action is inherited
	Parent string `json:"-" yaml:"-" toml:"-"`
}

// NeedsReporting reports whether the descriptor passes every filter in opts.
func (d Descriptor) NeedsReporting(opts Options) bool {
	return (d.RouteMissing || opts.ReportAll) &&
		(!d.Inherited || opts.ReportDuplicates) &&
		(d.FromGem == "" || opts.ReportGems) &&
		(!d.FromModule || opts.ReportModules)
}

// Metadata renders the descriptor's flags, e.g.
// "route_missing:true inherited:false from_gem:false". from_gem carries the
// gem name when the action lives in a gem.
func (d Descriptor) Metadata() string {
	fromGem := "false"
	if d.FromGem != "" {
		fromGem = d.FromGem
	}
	return fmt.Sprintf("route_missing:%t inherited:%t from_gem:%s", d.RouteMissing, d.Inherited, fromGem)
}

// Catalog holds exactly one descriptor per (controller, action) pair.
type Catalog struct {
	roots        []*analysis.Controller
	byController map[*analysis.Controller][]Descriptor
	order        []*analysis.Controller
}

// RouteCoverage answers whether a route reaches controller#action.
type RouteCoverage interface {
	IsImplemented(controller, action string) bool
}

// Build walks the controller tree from roots and describes every action.
func Build(roots []*analysis.Controller, coverage RouteCoverage, locator *gems.Locator, opts Options) *Catalog {
	c := &Catalog{
		roots:        roots,
		byController: make(map[*analysis.Controller][]Descriptor),
	}
	for _, root := range roots {
		c.walk(root, coverage, locator, opts)
	}
	return c
}

func (c *Catalog) walk(ctrl *analysis.Controller, coverage RouteCoverage, locator *gems.Locator, opts Options) {
	c.order = append(c.order, ctrl)

	descriptors := make([]Descriptor, 0, len(ctrl.Actions))
	for _, action := range ctrl.Actions {
		d := Descriptor{
			Controller:   ctrl.Name,
			Action:       action.Name,
			Location:     locator.Clean(action.Location, opts.FullPath),
			Owner:        action.Owner,
			RouteMissing: !coverage.IsImplemented(ctrl.Name, action.Name),
			FromModule:   action.OwnerIsModule,
		}
		if ctrl.Parent != nil {
			if parentAction, ok := ctrl.Parent.Action(action.Name); ok && parentAction.Location == action.Location {
				d.Inherited = true
				d.Parent = ctrl.Parent.Name
			}
		}
		if gem, ok := locator.Identify(action.Location); ok {
			d.FromGem = gem
		}
		descriptors = append(descriptors, d)
	}
	c.byController[ctrl] = descriptors

	for _, child := range ctrl.Children {
		c.walk(child, coverage, locator, opts)
	}
}

// Roots returns the top-level controllers.
func (c *Catalog) Roots() []*analysis.Controller {
	return c.roots
}

// For returns the descriptors of one controller, sorted by action name.
func (c *Catalog) For(ctrl *analysis.Controller) []Descriptor {
	return c.byController[ctrl]
}

// All returns every descriptor, controllers in tree order.
func (c *Catalog) All() []Descriptor {
	var out []Descriptor
	for _, ctrl := range c.order {
		out = append(out, c.byController[ctrl]...)
	}
	return out
}

// Controllers returns every controller in tree order.
func (c *Catalog) Controllers() []*analysis.Controller {
	return c.order
}

// AnyNeedsReporting reports whether at least one action passes the filters.
func (c *Catalog) AnyNeedsReporting(opts Options) bool {
	for _, d := range c.All() {
		if d.NeedsReporting(opts) {
			return true
		}
	}
	return false
}
