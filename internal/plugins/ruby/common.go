// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package ruby provides shared utilities for Ruby framework plugins.
package ruby

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/api2spec/routelint/internal/parser"
)

// Arguments is an evaluated method call argument list.
type Arguments struct {
	// Positional are the non keyword arguments in order
	Positional []parser.Value

	// Options holds keyword and hash arguments, merged in order
	Options parser.Value
}

// EvalArguments evaluates the argument list of a call node.
// A call without arguments yields empty positional and option lists.
func EvalArguments(call *sitter.Node, src []byte, scope *parser.Scope) Arguments {
	args := Arguments{Options: parser.Value{Kind: parser.KindHash}}

	list := call.ChildByFieldName("arguments")
	if list == nil {
		return args
	}

	for _, arg := range parser.Statements(list) {
		switch arg.Type() {
		case "pair":
			args.Options.Pairs = append(args.Options.Pairs, parser.Pair{
				Key:   parser.Eval(arg.ChildByFieldName("key"), src, scope),
				Value: parser.Eval(arg.ChildByFieldName("value"), src, scope),
			})
		case "hash":
			args.Options.Pairs = append(args.Options.Pairs, parser.Eval(arg, src, scope).Pairs...)
		case "block_argument":
			continue
		default:
			args.Positional = append(args.Positional, parser.Eval(arg, src, scope))
		}
	}
	return args
}

// Option returns the text of a scalar option.
func (a Arguments) Option(key string) (string, bool) {
	v, ok := a.Options.Get(key)
	if !ok {
		return "", false
	}
	return v.Text()
}

// OptionList returns the texts of an option given as a scalar or an array.
func (a Arguments) OptionList(key string) ([]string, bool) {
	v, ok := a.Options.Get(key)
	if !ok {
		return nil, false
	}
	return v.Texts()
}

// Has reports whether the option is present, even when its value is not a literal.
func (a Arguments) Has(key string) bool {
	_, ok := a.Options.Get(key)
	return ok
}

// First returns the first positional argument.
func (a Arguments) First() (parser.Value, bool) {
	if len(a.Positional) == 0 {
		return parser.Unknown, false
	}
	return a.Positional[0], true
}

// RocketTarget returns the value of a "'path' => 'controller#action'" pair.
func (a Arguments) RocketTarget() (string, bool) {
	for _, p := range a.Options.Pairs {
		if p.Key.Kind != parser.KindString || p.Value.Kind != parser.KindString {
			continue
		}
		if strings.Contains(p.Value.Str, "#") {
			return p.Value.Str, true
		}
	}
	return "", false
}

// SplitTarget splits "controller#action". Either side may be empty.
func SplitTarget(target string) (string, string, bool) {
	controller, action, ok := strings.Cut(target, "#")
	if !ok {
		return "", "", false
	}
	return controller, action, true
}

// JoinPath joins controller namespace segments with "/", skipping empty ones.
func JoinPath(parts ...string) string {
	var kept []string
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}
