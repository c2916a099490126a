// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package rails

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/api2spec/routelint/internal/analysis"
	"github.com/api2spec/routelint/internal/parser"
	"github.com/api2spec/routelint/internal/plugins"
	"github.com/api2spec/routelint/internal/plugins/ruby"
)

// DefaultRoutesFiles are the conventional route definition files.
var DefaultRoutesFiles = []string{"config/routes.rb", "config/routes/**/*.rb"}

// ErrNoRoutesFiles is returned when none of the configured routes files exist.
var ErrNoRoutesFiles = errors.New("no routes files found")

// resourceRoute is one canonical route a resources call generates.
type resourceRoute struct {
	verb   string
	action string
}

// Routes generated by resources, in generation order. update appears
// twice, once for PATCH and once for PUT.
var (
	pluralResourceRoutes = []resourceRoute{
		{"GET", "index"},
		{"POST", "create"},
		{"GET", "new"},
		{"GET", "edit"},
		{"GET", "show"},
		{"PATCH", "update"},
		{"PUT", "update"},
		{"DELETE", "destroy"},
	}
	singularResourceRoutes = pluralResourceRoutes[1:]
)

// Calls whose blocks hold route templates or non-controller endpoints.
var ignoredCalls = map[string]bool{
	"concern": true,
	"mount":   true,
	"direct":  true,
	"resolve": true,
}

// RoutesEvaluator statically evaluates routes files into a route event log.
type RoutesEvaluator struct {
	root   string
	files  []string
	logger *slog.Logger
}

// NewRoutesEvaluator creates an evaluator for the project's routes files.
func NewRoutesEvaluator(project plugins.Project) *RoutesEvaluator {
	files := project.RoutesFiles
	if len(files) == 0 {
		files = DefaultRoutesFiles
	}
	return &RoutesEvaluator{
		root:   project.Root,
		files:  files,
		logger: project.LoggerOrDiscard(),
	}
}

// Files resolves the configured patterns to absolute paths in pattern order.
func (r *RoutesEvaluator) Files() ([]string, error) {
	var out []string
	seen := make(map[string]bool)

	for _, pattern := range r.files {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(r.root, pattern)
		}

		var matches []string
		if strings.ContainsAny(pattern, "*?[{") {
			var err error
			matches, err = doublestar.FilepathGlob(full)
			if err != nil {
				return nil, fmt.Errorf("invalid routes pattern %q: %w", pattern, err)
			}
			sort.Strings(matches)
		} else if _, err := os.Stat(full); err == nil {
			matches = []string{full}
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w under %s (patterns: %s)", ErrNoRoutesFiles, r.root, strings.Join(r.files, ", "))
	}
	return out, nil
}

// Events evaluates every routes file and returns a fresh event log.
// Files already pulled in through draw are not evaluated again.
func (r *RoutesEvaluator) Events(ctx context.Context) ([]analysis.Event, error) {
	files, err := r.Files()
	if err != nil {
		return nil, err
	}

	run := &routesRun{
		evaluator: r,
		parser:    parser.NewRubyParser(),
		drawn:     make(map[string]bool),
	}
	for _, file := range files {
		if run.drawn[file] {
			continue
		}
		if err := run.evalFile(ctx, file, frame{vars: parser.NewScope(nil)}); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("evaluated routes", "files", len(files), "events", len(run.events))
	return run.events, nil
}

// routesRun is the state of one Events call.
type routesRun struct {
	evaluator *RoutesEvaluator
	parser    *parser.RubyParser
	drawn     map[string]bool
	events    []analysis.Event
}

// frame is the routing scope a statement is evaluated in.
type frame struct {
	vars *parser.Scope

	// module is the controller namespace, e.g. "admin/reports"
	module string

	// controller is the default controller, already namespaced
	controller string
}

func (f frame) child() frame {
	f.vars = parser.NewScope(f.vars)
	return f
}

// source is the routes file being evaluated.
type source struct {
	rel string
	src []byte
}

func (s source) location(node *sitter.Node) string {
	return s.rel + ":" + strconv.Itoa(parser.Line(node))
}

func (run *routesRun) evalFile(ctx context.Context, path string, f frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	run.drawn[path] = true

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read routes file: %w", err)
	}
	pf, err := run.parser.ParseCtx(ctx, path, content)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rel, err := filepath.Rel(run.evaluator.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}
	file := source{rel: filepath.ToSlash(rel), src: content}

	return run.walk(ctx, parser.Statements(pf.RootNode), f, file)
}

func (run *routesRun) walk(ctx context.Context, stmts []*sitter.Node, f frame, file source) error {
	for _, node := range stmts {
		switch node.Type() {
		case "call":
			if err := run.call(ctx, node, f, file); err != nil {
				return err
			}

		case "assignment":
			left := node.ChildByFieldName("left")
			if left != nil && left.Type() == "identifier" {
				f.vars.Set(left.Content(file.src), parser.Eval(node.ChildByFieldName("right"), file.src, f.vars))
			}

		case "if", "unless", "then", "else", "elsif", "begin", "body_statement", "parenthesized_statements":
			if err := run.walk(ctx, parser.Statements(node), f, file); err != nil {
				return err
			}
		}
	}
	return nil
}

func (run *routesRun) enter(ctx context.Context, block *sitter.Node, f frame, file source) error {
	if block == nil {
		return nil
	}
	return run.walk(ctx, parser.BlockStatements(block), f.child(), file)
}

func (run *routesRun) call(ctx context.Context, node *sitter.Node, f frame, file source) error {
	method := node.ChildByFieldName("method")
	if method == nil {
		return nil
	}
	name := method.Content(file.src)
	block := node.ChildByFieldName("block")
	logger := run.evaluator.logger

	if node.ChildByFieldName("receiver") != nil {
		if block == nil {
			return nil
		}
		if scopes, ok := parser.Iterations(node, file.src, f.vars); ok {
			stmts := parser.BlockStatements(block)
			for _, scope := range scopes {
				iter := f
				iter.vars = scope
				if err := run.walk(ctx, stmts, iter, file); err != nil {
					return err
				}
			}
			return nil
		}
		if parser.LoopMethods[name] {
			logger.Debug("skipping loop over a non-literal collection", "location", file.location(node))
			return nil
		}
		return run.enter(ctx, block, f, file)
	}

	if ignoredCalls[name] {
		return nil
	}

	args := ruby.EvalArguments(node, file.src, f.vars)

	switch {
	case name == "namespace":
		first, ok := args.First()
		ns, known := first.Text()
		if !ok || !known {
			logger.Debug("skipping namespace with a dynamic name", "location", file.location(node))
			return nil
		}
		if m, ok := args.Option("module"); ok {
			ns = m
		}
		inner := f
		inner.module = ruby.JoinPath(f.module, ns)
		inner.controller = ""
		return run.enter(ctx, block, inner, file)

	case name == "scope":
		inner := f
		if m, ok := args.Option("module"); ok {
			inner.module = ruby.JoinPath(f.module, m)
		}
		if c, ok := args.Option("controller"); ok {
			inner.controller = ruby.JoinPath(inner.module, c)
		}
		return run.enter(ctx, block, inner, file)

	case name == "controller":
		first, ok := args.First()
		c, known := first.Text()
		if !ok || !known {
			logger.Debug("skipping controller scope with a dynamic name", "location", file.location(node))
			return nil
		}
		inner := f
		inner.controller = ruby.JoinPath(f.module, c)
		return run.enter(ctx, block, inner, file)

	case name == "draw":
		first, ok := args.First()
		if !ok {
			return run.enter(ctx, block, f, file)
		}
		drawName, known := first.Text()
		if !known {
			logger.Debug("skipping draw with a dynamic name", "location", file.location(node))
			return nil
		}
		path := filepath.Join(run.evaluator.root, "config", "routes", drawName+".rb")
		if run.drawn[path] {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s: routes file %s not found: %w", file.location(node), path, err)
		}
		return run.evalFile(ctx, path, f)

	case analysis.IsMultiMethod(name):
		return run.resources(ctx, node, name, args, f, file)

	case analysis.IsSingleMethod(name):
		run.route(node, name, args, f, file)
		return nil
	}

	return run.enter(ctx, block, f, file)
}

// resources emits the canonical routes of a resources or resource call and
// evaluates its block with the resource as the default controller.
func (run *routesRun) resources(ctx context.Context, node *sitter.Node, method string, args ruby.Arguments, f frame, file source) error {
	logger := run.evaluator.logger

	canonical := pluralResourceRoutes
	if method == "resource" {
		canonical = singularResourceRoutes
	}
	routes, ok := filterRoutes(canonical, args)
	if !ok {
		logger.Debug("skipping resource routes with dynamic only/except", "location", file.location(node))
	}

	module := f.module
	if m, ok := args.Option("module"); ok {
		module = ruby.JoinPath(module, m)
	}

	for _, arg := range args.Positional {
		resource, known := arg.Text()
		if !known {
			logger.Debug("skipping resource with a dynamic name", "location", file.location(node))
			continue
		}

		controller, ok := args.Option("controller")
		if !ok {
			controller = resource
			if method == "resource" {
				controller = Pluralize(resource)
			}
		}
		qualified := ruby.JoinPath(module, controller)

		for _, r := range routes {
			run.emit(node, r.verb, method, qualified, r.action, file)
		}

		inner := f
		inner.module = module
		inner.controller = qualified
		if err := run.enter(ctx, node.ChildByFieldName("block"), inner, file); err != nil {
			return err
		}
	}
	return nil
}

// filterRoutes applies only: and except: to the canonical routes.
func filterRoutes(canonical []resourceRoute, args ruby.Arguments) ([]resourceRoute, bool) {
	routes := canonical

	if args.Has("only") {
		only, ok := args.OptionList("only")
		if !ok {
			return nil, false
		}
		routes = keep(routes, only, true)
	}
	if args.Has("except") {
		except, ok := args.OptionList("except")
		if !ok {
			return nil, false
		}
		routes = keep(routes, except, false)
	}
	return routes, true
}

func keep(routes []resourceRoute, names []string, wanted bool) []resourceRoute {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	var out []resourceRoute
	for _, r := range routes {
		if set[r.action] == wanted {
			out = append(out, r)
		}
	}
	return out
}

// route emits the event of a single-action route call.
func (run *routesRun) route(node *sitter.Node, method string, args ruby.Arguments, f frame, file source) {
	controller, action := resolveTarget(method, args, f)
	if controller == "" || action == "" {
		run.evaluator.logger.Debug("skipping route without a resolvable target",
			"location", file.location(node), "method", method)
		return
	}
	run.emit(node, routeVerb(method, args), method, controller, action, file)
}

// routeVerb returns the HTTP verb of a single-action route. match routes
// join their via: verbs with "|", or answer to ANY verb without one.
func routeVerb(method string, args ruby.Arguments) string {
	switch method {
	case "root":
		return "GET"
	case "match":
		via, ok := args.OptionList("via")
		if !ok || len(via) == 0 {
			return "ANY"
		}
		verbs := make([]string, len(via))
		for i, v := range via {
			verbs[i] = strings.ToUpper(v)
		}
		return strings.Join(verbs, "|")
	}
	return strings.ToUpper(method)
}

// resolveTarget works out the namespaced controller and the action a route
// call dispatches to. Empty results mean the target is not static.
func resolveTarget(method string, args ruby.Arguments, f frame) (string, string) {
	var controller, action string

	target, ok := args.Option("to")
	if !ok && args.Has("to") {
		return "", ""
	}
	if !ok {
		target, ok = args.RocketTarget()
	}
	if !ok && method == "root" {
		if first, has := args.First(); has && first.Kind == parser.KindString {
			target, ok = first.Str, true
		}
	}
	if ok {
		if c, a, split := ruby.SplitTarget(target); split {
			controller, action = c, a
		} else {
			action = target
		}
	}

	if c, ok := args.Option("controller"); ok {
		controller = c
	}
	if a, ok := args.Option("action"); ok {
		action = a
	}

	if action == "" && method != "root" {
		if first, has := args.First(); has {
			switch first.Kind {
			case parser.KindSymbol:
				action = first.Str
			case parser.KindString:
				controller, action = targetFromPath(first.Str, controller, f)
			}
		}
	}

	switch {
	case strings.HasPrefix(controller, "/"):
		controller = strings.TrimPrefix(controller, "/")
	case controller != "":
		controller = ruby.JoinPath(f.module, controller)
	default:
		controller = f.controller
	}
	return controller, action
}

// targetFromPath derives the target of "get 'photos/search'" style routes.
// The returned controller is not namespaced yet.
func targetFromPath(path, controller string, f frame) (string, string) {
	path = strings.Trim(path, "/")
	if path == "" {
		return controller, ""
	}
	segments := strings.Split(path, "/")
	for _, s := range segments {
		if strings.ContainsAny(s, ":*()") {
			return controller, ""
		}
	}

	if controller != "" || f.controller != "" {
		if len(segments) == 1 {
			return controller, segments[0]
		}
		return controller, ""
	}
	if len(segments) < 2 {
		return controller, ""
	}
	return strings.Join(segments[:len(segments)-1], "/"), segments[len(segments)-1]
}

func (run *routesRun) emit(node *sitter.Node, verb, method, controller, action string, file source) {
	run.events = append(run.events, analysis.Event{
		Location:   file.location(node),
		Verb:       verb,
		Method:     method,
		Controller: controller,
		Action:     action,
	})
}
