package semantic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Object is the decoded JSON wire form of a node, prior to semantic
// validation. The compile service validates it field by field so every
// defect can be reported in one pass; Node() converts fail-fast.
type Object struct {
	Action  string                `json:"action"`
	Roles   map[string]ObjectRole `json:"roles,omitempty"`
	Trigger *Trigger              `json:"trigger,omitempty"`
}

// ObjectRole is one wire role entry. Value is a pointer so an absent or
// null value can be told apart from an empty string.
type ObjectRole struct {
	Type  string  `json:"type"`
	Value *string `json:"value"`
}

// DecodeObject parses data as the semantic-object wire shape. Unknown
// fields are rejected so free-form JSON is not mistaken for a node, but no
// semantic checks happen here.
func DecodeObject(data []byte) (*Object, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields() // Strict parsing

	var obj Object
	if err := decoder.Decode(&obj); err != nil {
		return nil, fmt.Errorf("failed to decode semantic object: %w", err)
	}
	// Reject trailing garbage after the object.
	if decoder.More() {
		return nil, fmt.Errorf("unexpected trailing data after semantic object")
	}
	return &obj, nil
}

// Node converts the wire object into a Node, failing on the first invalid
// entry. Roles come back sorted by name: JSON objects carry no order.
func (o *Object) Node() (*Node, error) {
	if o.Action == "" {
		return nil, fmt.Errorf("semantic object missing required field: action")
	}

	n := NewNode(o.Action)

	names := make([]string, 0, len(o.Roles))
	for name := range o.Roles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := o.Roles[name]
		kind, ok := ParseValueKind(entry.Type)
		if !ok {
			return nil, fmt.Errorf("role %q: unknown value type %q", name, entry.Type)
		}
		if entry.Value == nil {
			return nil, fmt.Errorf("role %q: value is required", name)
		}
		v, err := ValueFromWire(kind, *entry.Value)
		if err != nil {
			return nil, fmt.Errorf("role %q: %w", name, err)
		}
		n.SetRole(name, v)
	}

	if o.Trigger != nil {
		if o.Trigger.Event == "" {
			return nil, fmt.Errorf("trigger: event is required")
		}
		t := *o.Trigger
		n.Trigger = &t
	}

	return n, nil
}

// Object returns the wire form of the node.
func (n *Node) Object() *Object {
	obj := &Object{Action: n.Action}
	if len(n.Roles) > 0 {
		obj.Roles = make(map[string]ObjectRole, len(n.Roles))
		for _, r := range n.Roles {
			text := r.Value.Text()
			obj.Roles[r.Name] = ObjectRole{
				Type:  string(r.Value.Kind()),
				Value: &text,
			}
		}
	}
	if n.Trigger != nil {
		t := *n.Trigger
		obj.Trigger = &t
	}
	return obj
}

// DecodeNode parses and converts in one step, failing fast.
func DecodeNode(data []byte) (*Node, error) {
	obj, err := DecodeObject(data)
	if err != nil {
		return nil, err
	}
	return obj.Node()
}

// EncodeNode serializes the node to its JSON wire form.
func EncodeNode(n *Node) ([]byte, error) {
	data, err := json.Marshal(n.Object())
	if err != nil {
		return nil, fmt.Errorf("failed to encode semantic node: %w", err)
	}
	return data, nil
}
