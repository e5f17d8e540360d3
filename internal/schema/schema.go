// Package schema models the command catalog a DSL instance serves:
// role definitions, command schemas, language profiles, and the
// registry binding them. Everything here is immutable once a Registry
// is built.
package schema

import (
	"fmt"

	"github.com/mattjoyce/glossa/internal/semantic"
)

// Role describes one named slot a command can fill.
type Role struct {
	Name     string
	Required bool
	// Kinds is the set of accepted value kinds. Empty accepts any kind.
	Kinds []semantic.ValueKind
	// Greedy lets the role absorb multiple trailing tokens instead of
	// exactly one span.
	Greedy bool
	// Positions maps a word order to this role's weight in it; higher
	// weights sort earlier in the phrase. A missing entry falls back to
	// the profile's default for the role name.
	Positions map[WordOrder]int
	// Markers overrides the profile's role marker for specific
	// languages, keyed by language code.
	Markers map[string]string
}

// Accepts reports whether the role admits values of kind k.
func (r Role) Accepts(k semantic.ValueKind) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	for _, want := range r.Kinds {
		if want == k {
			return true
		}
	}
	return false
}

// Command is the canonical description of one action.
type Command struct {
	Action   string
	Category string
	Roles    []Role
	// Primary names the role that carries the command's object; it
	// must appear in Roles.
	Primary string
}

// Validate checks the schema's internal consistency.
func (c Command) Validate() error {
	if c.Action == "" {
		return fmt.Errorf("command: action is required")
	}
	seen := make(map[string]struct{}, len(c.Roles))
	for i, role := range c.Roles {
		if role.Name == "" {
			return fmt.Errorf("command %q: roles[%d]: name is required", c.Action, i)
		}
		if _, dup := seen[role.Name]; dup {
			return fmt.Errorf("command %q: duplicate role %q", c.Action, role.Name)
		}
		seen[role.Name] = struct{}{}
	}
	if c.Primary == "" {
		return fmt.Errorf("command %q: primary role is required", c.Action)
	}
	if _, ok := seen[c.Primary]; !ok {
		return fmt.Errorf("command %q: primary role %q not among roles", c.Action, c.Primary)
	}
	return nil
}

// Role returns the named role definition.
func (c Command) Role(name string) (Role, bool) {
	for _, role := range c.Roles {
		if role.Name == name {
			return role, true
		}
	}
	return Role{}, false
}

// RequiredRoles returns the names of required roles in declaration
// order.
func (c Command) RequiredRoles() []string {
	var names []string
	for _, role := range c.Roles {
		if role.Required {
			names = append(names, role.Name)
		}
	}
	return names
}
