// Package codegen renders semantic nodes as output code through
// pluggable per-dialect generators.
package codegen

import (
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// Generator turns a semantic node into code for one output dialect.
// Implementations must be safe for concurrent use and must not fail:
// unknown actions produce placeholder output plus a warning
// diagnostic so batch generation keeps going.
type Generator interface {
	Name() string
	Generate(node *semantic.Node) (string, []diag.Diagnostic)
}

// Template renders one action. The node's action is guaranteed to be
// the template's registered action.
type Template func(node *semantic.Node) string

// Set is a Generator backed by an action→template registry.
type Set struct {
	name      string
	templates map[string]Template
	// placeholder formats the marker emitted for unregistered actions.
	placeholder func(action string) string
}

// Option configures a Set.
type Option func(*Set)

// WithPlaceholder overrides the marker emitted for unregistered
// actions, e.g. to use a dialect's comment syntax.
func WithPlaceholder(f func(action string) string) Option {
	return func(s *Set) { s.placeholder = f }
}

// NewSet builds a generator from an action→template map.
func NewSet(name string, templates map[string]Template, opts ...Option) *Set {
	s := &Set{
		name:      name,
		templates: templates,
		placeholder: func(action string) string {
			return "/* unsupported action: " + action + " */"
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Set) Name() string { return s.name }

// Actions returns the registered action names.
func (s *Set) Actions() []string {
	out := make([]string, 0, len(s.templates))
	for action := range s.templates {
		out = append(out, action)
	}
	return out
}

// Generate maps the node's action to its template. An unregistered
// action yields the placeholder and a warning, never an error.
func (s *Set) Generate(node *semantic.Node) (string, []diag.Diagnostic) {
	tmpl, ok := s.templates[node.Action]
	if !ok {
		return s.placeholder(node.Action), []diag.Diagnostic{
			diag.Warnf(diag.CodeUnknownAction, "no template for action %q", node.Action),
		}
	}
	return tmpl(node), nil
}
