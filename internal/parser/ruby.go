// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package parser provides Ruby parsing on top of tree-sitter.
package parser

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// Method visibilities.
const (
	VisibilityPublic    = "public"
	VisibilityPrivate   = "private"
	VisibilityProtected = "protected"
)

// RubyParser provides Ruby AST parsing capabilities using tree-sitter.
// A RubyParser is not safe for concurrent use.
type RubyParser struct {
	parser *sitter.Parser
}

// NewRubyParser creates a new Ruby parser.
func NewRubyParser() *RubyParser {
	parser := sitter.NewParser()
	parser.SetLanguage(ruby.GetLanguage())
	return &RubyParser{
		parser: parser,
	}
}

// RubyClass represents a Ruby class or module definition.
type RubyClass struct {
	// Name is the name qualified by its lexical nesting, e.g. "Admin::UsersController"
	Name string

	// IsModule is true for module definitions
	IsModule bool

	// SuperClass is the superclass as written, e.g. "ApplicationController"
	SuperClass string

	// Nesting is the lexical nesting the definition appears in, outermost first
	Nesting []string

	// Modules are the included modules as written
	Modules []string

	// Methods are the instance methods in definition order
	Methods []RubyMethod

	// Line is the source line number
	Line int
}

// RubyMethod represents an instance method definition.
type RubyMethod struct {
	// Name is the method name
	Name string

	// Visibility is public, private or protected
	Visibility string

	// Dynamic is true for define_method definitions
	Dynamic bool

	// Line is the source line number
	Line int
}

// ParsedRubyFile represents a parsed Ruby source file.
type ParsedRubyFile struct {
	// Path is the file path
	Path string

	// Content is the original source content
	Content []byte

	// Tree is the tree-sitter parse tree
	Tree *sitter.Tree

	// RootNode is the root node of the AST
	RootNode *sitter.Node

	// Classes contains class and module definitions in source order.
	// A class reopened in the same file appears once per definition.
	Classes []RubyClass
}

// Parse parses Ruby source code from bytes.
func (p *RubyParser) Parse(filename string, content []byte) (*ParsedRubyFile, error) {
	return p.ParseCtx(context.Background(), filename, content)
}

// ParseCtx parses Ruby source code, honouring cancellation of ctx.
func (p *RubyParser) ParseCtx(ctx context.Context, filename string, content []byte) (*ParsedRubyFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Ruby: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("failed to get root node")
	}

	pf := &ParsedRubyFile{
		Path:     filename,
		Content:  content,
		Tree:     tree,
		RootNode: rootNode,
	}

	ex := &classExtractor{src: content}
	ex.walk(Statements(rootNode), nil, nil, NewScope(nil))
	pf.Classes = ex.classes

	return pf, nil
}

// ParseFile parses a Ruby source file from disk.
func (p *RubyParser) ParseFile(path string) (*ParsedRubyFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.Parse(path, content)
}

// IsSupported returns whether Ruby parsing is supported.
func (p *RubyParser) IsSupported() bool {
	return true
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *RubyParser) SupportedExtensions() []string {
	return []string{".rb"}
}

// Text returns the source text of a node.
func (f *ParsedRubyFile) Text(node *sitter.Node) string {
	return node.Content(f.Content)
}

// Class returns the first definition with the given qualified name.
func (f *ParsedRubyFile) Class(name string) (RubyClass, bool) {
	for _, c := range f.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return RubyClass{}, false
}

// classExtractor walks statements collecting class and module definitions.
type classExtractor struct {
	src     []byte
	classes []RubyClass
}

// definition tracks the class being filled while its body is walked.
type definition struct {
	index      int
	visibility string
}

func (e *classExtractor) current(def *definition) *RubyClass {
	return &e.classes[def.index]
}

func (e *classExtractor) walk(stmts []*sitter.Node, nesting []string, def *definition, scope *Scope) {
	for _, node := range stmts {
		switch node.Type() {
		case "class", "module":
			e.extractDefinition(node, nesting, scope)

		case "method":
			if def != nil {
				e.addMethod(def, node, def.visibility)
			}

		case "identifier":
			if def != nil {
				switch text := node.Content(e.src); text {
				case VisibilityPublic, VisibilityPrivate, VisibilityProtected:
					def.visibility = text
				}
			}

		case "call":
			e.handleCall(node, nesting, def, scope)

		case "body_statement", "begin":
			e.walk(Statements(node), nesting, def, scope)
		}
	}
}

func (e *classExtractor) extractDefinition(node *sitter.Node, nesting []string, scope *Scope) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := strings.TrimPrefix(nameNode.Content(e.src), "::")

	cls := RubyClass{
		Name:     qualify(nesting, name),
		IsModule: node.Type() == "module",
		Nesting:  append([]string(nil), nesting...),
		Line:     Line(node),
	}

	superNode := node.ChildByFieldName("superclass")
	if superNode != nil {
		for i := 0; i < int(superNode.NamedChildCount()); i++ {
			child := superNode.NamedChild(i)
			if child.Type() == "constant" || child.Type() == "scope_resolution" {
				cls.SuperClass = child.Content(e.src)
				break
			}
		}
	}

	e.classes = append(e.classes, cls)
	def := &definition{index: len(e.classes) - 1, visibility: VisibilityPublic}

	var body []*sitter.Node
	for _, child := range Statements(node) {
		if sameNode(child, nameNode) || (superNode != nil && sameNode(child, superNode)) {
			continue
		}
		body = append(body, child)
	}

	inner := append(append([]string(nil), nesting...), cls.Name)
	e.walk(body, inner, def, NewScope(scope))
}

func (e *classExtractor) addMethod(def *definition, node *sitter.Node, visibility string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	cls := e.current(def)
	cls.Methods = append(cls.Methods, RubyMethod{
		Name:       nameNode.Content(e.src),
		Visibility: visibility,
		Line:       Line(node),
	})
}

func (e *classExtractor) handleCall(node *sitter.Node, nesting []string, def *definition, scope *Scope) {
	method := node.ChildByFieldName("method")
	if method == nil {
		return
	}
	name := method.Content(e.src)

	if node.ChildByFieldName("receiver") != nil {
		if block := node.ChildByFieldName("block"); block != nil {
			if scopes, ok := Iterations(node, e.src, scope); ok {
				stmts := BlockStatements(block)
				for _, iter := range scopes {
					e.walk(stmts, nesting, def, iter)
				}
			}
		}
		return
	}

	if def == nil {
		return
	}
	args := node.ChildByFieldName("arguments")

	switch name {
	case VisibilityPublic, VisibilityPrivate, VisibilityProtected:
		if args == nil {
			def.visibility = name
			return
		}
		for _, arg := range Statements(args) {
			switch arg.Type() {
			case "method":
				e.addMethod(def, arg, name)
			default:
				if names, ok := Eval(arg, e.src, scope).Texts(); ok {
					e.setVisibility(def, names, name)
				}
			}
		}

	case "include":
		if args == nil {
			return
		}
		cls := e.current(def)
		for _, arg := range Statements(args) {
			if arg.Type() == "constant" || arg.Type() == "scope_resolution" {
				cls.Modules = append(cls.Modules, arg.Content(e.src))
			}
		}

	case "define_method":
		if args == nil || args.NamedChildCount() == 0 {
			return
		}
		methodName, ok := Eval(args.NamedChild(0), e.src, scope).Text()
		if !ok {
			return
		}
		cls := e.current(def)
		cls.Methods = append(cls.Methods, RubyMethod{
			Name:       methodName,
			Visibility: def.visibility,
			Dynamic:    true,
			Line:       Line(node),
		})
	}
}

// setVisibility applies "private :a, :b" to methods already defined.
func (e *classExtractor) setVisibility(def *definition, names []string, visibility string) {
	cls := e.current(def)
	for _, n := range names {
		for i := range cls.Methods {
			if cls.Methods[i].Name == n {
				cls.Methods[i].Visibility = visibility
			}
		}
	}
}

func qualify(nesting []string, name string) string {
	if len(nesting) == 0 {
		return name
	}
	return nesting[len(nesting)-1] + "::" + name
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
