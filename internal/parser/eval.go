// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package parser

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Kind is the type of an evaluated Ruby literal.
type Kind int

const (
	KindUnknown Kind = iota
	KindNil
	KindSymbol
	KindString
	KindInteger
	KindBool
	KindArray
	KindHash
	KindRange
)

// Value is a statically evaluated Ruby literal. Anything the evaluator does
// not understand is KindUnknown.
type Value struct {
	Kind  Kind
	Str   string
	Int   int
	Bool  bool
	Items []Value
	Pairs []Pair
}

// Pair is one hash entry.
type Pair struct {
	Key   Value
	Value Value
}

// Unknown is the value of anything that cannot be evaluated statically.
var Unknown = Value{Kind: KindUnknown}

// Symbol returns a symbol value.
func Symbol(s string) Value { return Value{Kind: KindSymbol, Str: s} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Integer returns an integer value.
func Integer(n int) Value { return Value{Kind: KindInteger, Int: n} }

// Array returns an array value.
func Array(items ...Value) Value { return Value{Kind: KindArray, Items: items} }

// IsKnown reports whether the value was evaluated.
func (v Value) IsKnown() bool {
	return v.Kind != KindUnknown
}

// Text returns the text of a symbol, string or integer.
func (v Value) Text() (string, bool) {
	switch v.Kind {
	case KindSymbol, KindString:
		return v.Str, true
	case KindInteger:
		return strconv.Itoa(v.Int), true
	}
	return "", false
}

// Texts returns the texts of an array's elements, or of a single scalar.
func (v Value) Texts() ([]string, bool) {
	if v.Kind != KindArray {
		s, ok := v.Text()
		if !ok {
			return nil, false
		}
		return []string{s}, true
	}
	out := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		s, ok := item.Text()
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Get looks up a hash entry by symbol or string key.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindHash {
		return Unknown, false
	}
	for _, p := range v.Pairs {
		if k, ok := p.Key.Text(); ok && k == key && (p.Key.Kind == KindSymbol || p.Key.Kind == KindString) {
			return p.Value, true
		}
	}
	return Unknown, false
}

// Elements returns the values an each loop over v yields.
func (v Value) Elements() ([]Value, bool) {
	switch v.Kind {
	case KindArray:
		return v.Items, true
	case KindRange:
		if len(v.Items) != 2 || v.Items[0].Kind != KindInteger || v.Items[1].Kind != KindInteger {
			return nil, false
		}
		last := v.Items[1].Int
		if v.Bool {
			last--
		}
		var out []Value
		for i := v.Items[0].Int; i <= last; i++ {
			out = append(out, Integer(i))
		}
		return out, true
	case KindHash:
		out := make([]Value, len(v.Pairs))
		for i, p := range v.Pairs {
			out[i] = Array(p.Key, p.Value)
		}
		return out, true
	}
	return nil, false
}

// Inspect renders the value the way Ruby's #to_s would for interpolation.
func (v Value) Inspect() string {
	switch v.Kind {
	case KindSymbol, KindString:
		return v.Str
	case KindInteger:
		return strconv.Itoa(v.Int)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNil:
		return ""
	}
	return "?"
}

// Scope holds local variables visible to the evaluator.
type Scope struct {
	parent *Scope
	vars   map[string]Value
}

// NewScope creates a scope nested in parent, which may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]Value)}
}

// Set assigns a local variable in this scope.
func (s *Scope) Set(name string, v Value) {
	s.vars[name] = v
}

// Lookup resolves a local variable through the enclosing scopes.
func (s *Scope) Lookup(name string) (Value, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v, true
		}
	}
	return Unknown, false
}

// Eval evaluates a literal expression node.
func Eval(node *sitter.Node, src []byte, scope *Scope) Value {
	if node == nil {
		return Unknown
	}

	switch node.Type() {
	case "nil":
		return Value{Kind: KindNil}
	case "true":
		return Value{Kind: KindBool, Bool: true}
	case "false":
		return Value{Kind: KindBool, Bool: false}
	case "integer":
		n, err := strconv.Atoi(strings.ReplaceAll(node.Content(src), "_", ""))
		if err != nil {
			return Unknown
		}
		return Integer(n)
	case "simple_symbol":
		return Symbol(strings.TrimPrefix(node.Content(src), ":"))
	case "hash_key_symbol":
		return Symbol(node.Content(src))
	case "delimited_symbol":
		s, ok := evalInterpolated(node, src, scope)
		if !ok {
			return Unknown
		}
		return Symbol(s)
	case "string":
		s, ok := evalInterpolated(node, src, scope)
		if !ok {
			return Unknown
		}
		return String(s)
	case "bare_string":
		return String(node.Content(src))
	case "bare_symbol":
		return Symbol(node.Content(src))
	case "array", "string_array", "symbol_array":
		items := make([]Value, 0, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			items = append(items, Eval(node.NamedChild(i), src, scope))
		}
		return Array(items...)
	case "hash":
		return evalPairs(node, src, scope)
	case "range":
		beginNode, endNode := node.ChildByFieldName("begin"), node.ChildByFieldName("end")
		if beginNode == nil && endNode == nil && node.NamedChildCount() == 2 {
			beginNode, endNode = node.NamedChild(0), node.NamedChild(1)
		}
		begin := Eval(beginNode, src, scope)
		end := Eval(endNode, src, scope)
		exclusive := false
		if op := node.ChildByFieldName("operator"); op != nil {
			exclusive = op.Content(src) == "..."
		} else {
			exclusive = strings.Contains(node.Content(src), "...")
		}
		return Value{Kind: KindRange, Items: []Value{begin, end}, Bool: exclusive}
	case "parenthesized_statements":
		if node.NamedChildCount() == 1 {
			return Eval(node.NamedChild(0), src, scope)
		}
	case "identifier":
		if scope != nil {
			if v, ok := scope.Lookup(node.Content(src)); ok {
				return v
			}
		}
	case "call":
		return evalCall(node, src, scope)
	}
	return Unknown
}

// EvalPairs collects the pair children of node (an argument list or hash) into a hash value.
func EvalPairs(node *sitter.Node, src []byte, scope *Scope) Value {
	return evalPairs(node, src, scope)
}

func evalPairs(node *sitter.Node, src []byte, scope *Scope) Value {
	h := Value{Kind: KindHash}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "pair" {
			continue
		}
		h.Pairs = append(h.Pairs, Pair{
			Key:   Eval(child.ChildByFieldName("key"), src, scope),
			Value: Eval(child.ChildByFieldName("value"), src, scope),
		})
	}
	return h
}

func evalInterpolated(node *sitter.Node, src []byte, scope *Scope) (string, bool) {
	var sb strings.Builder
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "string_content":
			sb.WriteString(child.Content(src))
		case "escape_sequence":
			sb.WriteString(unescape(child.Content(src)))
		case "interpolation":
			if child.NamedChildCount() != 1 {
				return "", false
			}
			v := Eval(child.NamedChild(0), src, scope)
			if !v.IsKnown() {
				return "", false
			}
			sb.WriteString(v.Inspect())
		default:
			return "", false
		}
	}
	return sb.String(), true
}

func unescape(seq string) string {
	switch seq {
	case `\n`:
		return "\n"
	case `\t`:
		return "\t"
	}
	return strings.TrimPrefix(seq, `\`)
}

// evalCall handles the few side-effect free conversions routes files use on literals.
func evalCall(node *sitter.Node, src []byte, scope *Scope) Value {
	receiver := node.ChildByFieldName("receiver")
	method := node.ChildByFieldName("method")
	if receiver == nil || method == nil || node.ChildByFieldName("arguments") != nil {
		return Unknown
	}
	v := Eval(receiver, src, scope)
	switch method.Content(src) {
	case "to_s":
		if s, ok := v.Text(); ok {
			return String(s)
		}
	case "to_sym":
		if s, ok := v.Text(); ok {
			return Symbol(s)
		}
	case "to_a":
		if items, ok := v.Elements(); ok {
			return Array(items...)
		}
	case "freeze":
		return v
	}
	return Unknown
}

// LoopMethods are the iteration calls the evaluator unrolls.
var LoopMethods = map[string]bool{
	"each":            true,
	"each_with_index": true,
	"times":           true,
	"map":             true,
	"each_key":        true,
}

// Iterations unrolls a literal loop call such as "[:a, :b].each do |x|" or
// "2.times do |i|". It returns one scope per iteration with the block
// parameters bound, and false when the call is not a loop over a literal.
func Iterations(call *sitter.Node, src []byte, scope *Scope) ([]*Scope, bool) {
	receiver := call.ChildByFieldName("receiver")
	method := call.ChildByFieldName("method")
	block := call.ChildByFieldName("block")
	if receiver == nil || method == nil || block == nil {
		return nil, false
	}
	name := method.Content(src)
	if !LoopMethods[name] {
		return nil, false
	}

	recv := Eval(receiver, src, scope)
	var elements []Value
	switch {
	case name == "times" && recv.Kind == KindInteger:
		for i := 0; i < recv.Int; i++ {
			elements = append(elements, Integer(i))
		}
	case name == "each_key" && recv.Kind == KindHash:
		for _, p := range recv.Pairs {
			elements = append(elements, p.Key)
		}
	case name != "times" && name != "each_key":
		var ok bool
		if elements, ok = recv.Elements(); !ok {
			return nil, false
		}
	default:
		return nil, false
	}

	params := BlockParameters(block, src)
	scopes := make([]*Scope, 0, len(elements))
	for i, el := range elements {
		iter := NewScope(scope)
		bind(iter, params, el, i, name == "each_with_index")
		scopes = append(scopes, iter)
	}
	return scopes, true
}

func bind(scope *Scope, params []string, el Value, index int, withIndex bool) {
	if len(params) == 0 {
		return
	}
	if withIndex {
		scope.Set(params[0], el)
		if len(params) > 1 {
			scope.Set(params[1], Integer(index))
		}
		return
	}
	if len(params) > 1 && el.Kind == KindArray {
		for i, p := range params {
			if i < len(el.Items) {
				scope.Set(p, el.Items[i])
			}
		}
		return
	}
	scope.Set(params[0], el)
}

// BlockParameters returns the names of a block's parameters.
func BlockParameters(block *sitter.Node, src []byte) []string {
	params := block.ChildByFieldName("parameters")
	if params == nil {
		for i := 0; i < int(block.NamedChildCount()); i++ {
			if child := block.NamedChild(i); child.Type() == "block_parameters" {
				params = child
				break
			}
		}
	}
	if params == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		switch child.Type() {
		case "identifier":
			names = append(names, child.Content(src))
		case "destructured_parameter":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if inner := child.NamedChild(j); inner.Type() == "identifier" {
					names = append(names, inner.Content(src))
				}
			}
		}
	}
	return names
}

// BlockStatements returns the statements of a do/brace block body.
func BlockStatements(block *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		switch child.Type() {
		case "block_parameters":
			continue
		case "body_statement", "block_body":
			out = append(out, Statements(child)...)
		default:
			out = append(out, child)
		}
	}
	return out
}

// Statements returns the named children of a statement container, skipping comments.
func Statements(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// Line returns the 1-based line a node starts on.
func Line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
