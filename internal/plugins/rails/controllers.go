// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package rails

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/api2spec/routelint/internal/analysis"
	"github.com/api2spec/routelint/internal/parser"
	"github.com/api2spec/routelint/internal/scanner"
)

// ControllerLoader builds the controller hierarchy from controller sources.
type ControllerLoader struct {
	logger        *slog.Logger
	maxGoroutines int
}

// NewControllerLoader creates a loader that parses files on up to GOMAXPROCS goroutines.
func NewControllerLoader(logger *slog.Logger) *ControllerLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ControllerLoader{
		logger:        logger,
		maxGoroutines: runtime.GOMAXPROCS(0),
	}
}

// definition is a class or module body found in one file.
type definition struct {
	parser.RubyClass
	File string
}

// Load parses files and returns the controllers they define.
func (l *ControllerLoader) Load(ctx context.Context, files []scanner.SourceFile) (*analysis.ControllerSet, error) {
	p := pool.NewWithResults[[]definition]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(l.maxGoroutines)

	for _, file := range files {
		p.Go(func(ctx context.Context) ([]definition, error) {
			pf, err := parser.NewRubyParser().ParseCtx(ctx, file.Path, file.Content)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", file.Path, err)
			}
			defs := make([]definition, len(pf.Classes))
			for i, cls := range pf.Classes {
				defs[i] = definition{RubyClass: cls, File: file.Path}
			}
			return defs, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	var defs []definition
	for _, r := range results {
		defs = append(defs, r...)
	}
	set := newHierarchy(defs).build()
	l.logger.Debug("loaded controllers", "files", len(files), "controllers", set.Len())
	return set, nil
}

// constant is a class or module merged across all of its definitions.
type constant struct {
	name       string
	isModule   bool
	superclass string
	nesting    []string
	modules    []string
	methods    []located
}

// located is a method with the file it is defined in.
type located struct {
	parser.RubyMethod
	file string
}

type hierarchy struct {
	constants map[string]*constant
}

func newHierarchy(defs []definition) *hierarchy {
	h := &hierarchy{constants: make(map[string]*constant)}
	for _, d := range defs {
		c, ok := h.constants[d.Name]
		if !ok {
			c = &constant{name: d.Name, isModule: d.IsModule, nesting: d.Nesting}
			h.constants[d.Name] = c
		}
		if c.superclass == "" && d.SuperClass != "" {
			c.superclass = d.SuperClass
			c.nesting = d.Nesting
		}
		c.modules = append(c.modules, d.Modules...)
		for _, m := range d.Methods {
			c.methods = append(c.methods, located{RubyMethod: m, file: d.File})
		}
	}
	return h
}

// resolve finds the constant a reference written inside nesting points to.
func (h *hierarchy) resolve(ref string, nesting []string) (*constant, bool) {
	if strings.HasPrefix(ref, "::") {
		c, ok := h.constants[strings.TrimPrefix(ref, "::")]
		return c, ok
	}
	for i := len(nesting) - 1; i >= 0; i-- {
		if c, ok := h.constants[nesting[i]+"::"+ref]; ok {
			return c, true
		}
	}
	c, ok := h.constants[ref]
	return c, ok
}

func (h *hierarchy) parent(c *constant) (*constant, bool) {
	if c.superclass == "" {
		return nil, false
	}
	p, ok := h.resolve(c.superclass, c.nesting)
	if !ok || p.isModule || p == c {
		return nil, false
	}
	return p, true
}

// isController reports whether c is a controller class: its name ends in
// Controller, it extends an ActionController class, or it inherits from a
// controller.
func (h *hierarchy) isController(c *constant) bool {
	seen := make(map[*constant]bool)
	for cur := c; cur != nil && !seen[cur]; {
		if cur.isModule {
			return false
		}
		seen[cur] = true
		if strings.HasSuffix(cur.name, "Controller") ||
			strings.HasPrefix(strings.TrimPrefix(cur.superclass, "::"), "ActionController::") {
			return true
		}
		next, ok := h.parent(cur)
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

// ancestors returns the method lookup order of c: the class itself, its
// included modules with the last included first, then its superclass chain.
func (h *hierarchy) ancestors(c *constant) []*constant {
	var out []*constant
	seen := make(map[*constant]bool)

	var addModules func(owner *constant)
	addModules = func(owner *constant) {
		for i := len(owner.modules) - 1; i >= 0; i-- {
			m, ok := h.resolve(owner.modules[i], owner.nesting)
			if !ok || !m.isModule || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
			addModules(m)
		}
	}

	for cur := c; cur != nil && !seen[cur]; {
		seen[cur] = true
		out = append(out, cur)
		addModules(cur)
		next, ok := h.parent(cur)
		if !ok {
			break
		}
		cur = next
	}
	return out
}

// actions returns the public methods reachable from c. The first definition
// of a name along the lookup order decides its visibility.
func (h *hierarchy) actions(c *constant) []analysis.ActionMethod {
	decided := make(map[string]bool)
	var out []analysis.ActionMethod

	for _, owner := range h.ancestors(c) {
		for i := len(owner.methods) - 1; i >= 0; i-- {
			m := owner.methods[i]
			if decided[m.Name] {
				continue
			}
			decided[m.Name] = true
			if m.Visibility != parser.VisibilityPublic {
				continue
			}
			out = append(out, analysis.ActionMethod{
				Name:          m.Name,
				Owner:         owner.name,
				OwnerIsModule: owner.isModule,
				Location:      m.file + ":" + strconv.Itoa(m.Line),
			})
		}
	}
	return out
}

func (h *hierarchy) build() *analysis.ControllerSet {
	names := make([]string, 0, len(h.constants))
	for name, c := range h.constants {
		if h.isController(c) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	set := analysis.NewControllerSet()
	nodes := make(map[string]*analysis.Controller, len(names))
	for _, name := range names {
		ctrl := analysis.NewController(name, h.actions(h.constants[name])...)
		nodes[name] = ctrl
		set.Add(ctrl)
	}
	for _, name := range names {
		p, ok := h.parent(h.constants[name])
		if !ok {
			continue
		}
		if parent, ok := nodes[p.name]; ok {
			set.Link(nodes[name], parent)
		}
	}
	return set
}
