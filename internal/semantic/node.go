// Package semantic defines the language-neutral representation a command
// parses into: the role value union, the semantic node, its JSON wire form,
// and the canonical fingerprint used as a cache key.
package semantic

// Role is one named slot filled on a node. Nodes keep roles in fill order.
type Role struct {
	Name  string
	Value RoleValue
}

// Trigger is an optional event clause attached to a node
// ("on click", "on keyup[key=='Enter']").
type Trigger struct {
	Event  string `json:"event"`
	Filter string `json:"filter,omitempty"`
}

// Node is the language-neutral parse of a command. Built by the parser per
// invocation and owned by the caller; safe to hand to the renderer or store
// as a cache value.
type Node struct {
	Action     string
	Roles      []Role
	Trigger    *Trigger
	Confidence float64
}

// NewNode returns a node for the given canonical action.
func NewNode(action string) *Node {
	return &Node{Action: action}
}

// SetRole fills the named role, replacing an existing fill of the same name
// in place so role order stays stable.
func (n *Node) SetRole(name string, v RoleValue) {
	for i := range n.Roles {
		if n.Roles[i].Name == name {
			n.Roles[i].Value = v
			return
		}
	}
	n.Roles = append(n.Roles, Role{Name: name, Value: v})
}

// Role returns the value filled for name.
func (n *Node) Role(name string) (RoleValue, bool) {
	for _, r := range n.Roles {
		if r.Name == name {
			return r.Value, true
		}
	}
	return RoleValue{}, false
}

// HasRole reports whether name is filled.
func (n *Node) HasRole(name string) bool {
	_, ok := n.Role(name)
	return ok
}

// RoleNames returns the filled role names in fill order.
func (n *Node) RoleNames() []string {
	names := make([]string, 0, len(n.Roles))
	for _, r := range n.Roles {
		names = append(names, r.Name)
	}
	return names
}

// EqualValues reports whether two nodes carry the same action, the same
// role fills (order-insensitive) and the same trigger. Confidence is
// ignored: it describes the parse, not the command.
func (n *Node) EqualValues(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Action != o.Action || len(n.Roles) != len(o.Roles) {
		return false
	}
	for _, r := range n.Roles {
		ov, ok := o.Role(r.Name)
		if !ok || !r.Value.Equal(ov) {
			return false
		}
	}
	if (n.Trigger == nil) != (o.Trigger == nil) {
		return false
	}
	if n.Trigger != nil && *n.Trigger != *o.Trigger {
		return false
	}
	return true
}

// Clone returns a deep copy. Role values are immutable so a slice copy is
// enough; the trigger is duplicated.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Action:     n.Action,
		Roles:      append([]Role(nil), n.Roles...),
		Confidence: n.Confidence,
	}
	if n.Trigger != nil {
		t := *n.Trigger
		out.Trigger = &t
	}
	return out
}
