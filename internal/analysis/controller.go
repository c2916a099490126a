// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package analysis

import (
	"fmt"
	"sort"
)

// ActionMethod is a public action method as seen on one controller.
type ActionMethod struct {
	// Name is the action name
	Name string

	// Owner is the class or module that defines the method
	Owner string

	// OwnerIsModule is true when Owner is a mixed-in module
	OwnerIsModule bool

	// Location is the absolute "file:line" of the definition
	Location string
}

// Controller is a node of the controller inheritance tree.
type Controller struct {
	// Name is the fully qualified class name
	Name string

	// Parent is the superclass when it is itself a known controller
	Parent *Controller

	// Children are the direct subclasses, sorted by name
	Children []*Controller

	// Actions are the action methods, sorted by name
	Actions []ActionMethod

	actionIndex map[string]int
}

// NewController creates a controller with the given actions.
func NewController(name string, actions ...ActionMethod) *Controller {
	c := &Controller{Name: name}
	c.SetActions(actions)
	return c
}

// SetActions replaces the controller's actions.
func (c *Controller) SetActions(actions []ActionMethod) {
	sorted := append([]ActionMethod(nil), actions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	c.Actions = sorted
	c.actionIndex = make(map[string]int, len(sorted))
	for i, a := range sorted {
		c.actionIndex[a.Name] = i
	}
}

// Action returns the named action method.
func (c *Controller) Action(name string) (ActionMethod, bool) {
	i, ok := c.actionIndex[name]
	if !ok {
		return ActionMethod{}, false
	}
	return c.Actions[i], true
}

// HasAction reports whether the controller implements the named action.
func (c *Controller) HasAction(name string) bool {
	_, ok := c.actionIndex[name]
	return ok
}

// ActionNames returns the sorted action names.
func (c *Controller) ActionNames() []string {
	names := make([]string, len(c.Actions))
	for i, a := range c.Actions {
		names[i] = a.Name
	}
	return names
}

// Descendants returns all subclasses depth-first in name order.
func (c *Controller) Descendants() []*Controller {
	var out []*Controller
	for _, child := range c.Children {
		out = append(out, child)
		out = append(out, child.Descendants()...)
	}
	return out
}

// Reflector resolves controller class names and exposes the hierarchy.
type Reflector interface {
	// Lookup returns the controller with the given class name.
	Lookup(className string) (*Controller, error)

	// Roots returns the controllers without a known parent, sorted by name.
	Roots() []*Controller
}

// ControllerNotFoundError reports a class name that does not resolve.
type ControllerNotFoundError struct {
	Name string
}

func (e *ControllerNotFoundError) Error() string {
	return fmt.Sprintf("uninitialized constant %s", e.Name)
}

// ControllerSet is an in-memory Reflector.
type ControllerSet struct {
	byName map[string]*Controller
	order  []string
}

// NewControllerSet creates an empty set.
func NewControllerSet() *ControllerSet {
	return &ControllerSet{byName: make(map[string]*Controller)}
}

// Add registers a controller. A later controller with the same name replaces the earlier one.
func (s *ControllerSet) Add(c *Controller) {
	if _, exists := s.byName[c.Name]; !exists {
		s.order = append(s.order, c.Name)
	}
	s.byName[c.Name] = c
}

// Link makes parent the superclass of child.
func (s *ControllerSet) Link(child, parent *Controller) {
	child.Parent = parent
	parent.Children = append(parent.Children, child)
	sort.Slice(parent.Children, func(i, j int) bool {
		return parent.Children[i].Name < parent.Children[j].Name
	})
}

// Lookup implements Reflector.
func (s *ControllerSet) Lookup(className string) (*Controller, error) {
	if c, ok := s.byName[className]; ok {
		return c, nil
	}
	return nil, &ControllerNotFoundError{Name: className}
}

// Roots implements Reflector.
func (s *ControllerSet) Roots() []*Controller {
	var roots []*Controller
	for _, c := range s.byName {
		if c.Parent == nil {
			roots = append(roots, c)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })
	return roots
}

// All returns every controller in registration order.
func (s *ControllerSet) All() []*Controller {
	out := make([]*Controller, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Len returns the number of controllers.
func (s *ControllerSet) Len() int {
	return len(s.byName)
}
