package semantic

import (
	"strings"
	"testing"
)

func TestDecodeNode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		checkFn func(t *testing.T, n *Node)
	}{
		{
			name:  "valid node with roles",
			input: `{"action":"toggle","roles":{"target":{"type":"selector","value":".active"}}}`,
			checkFn: func(t *testing.T, n *Node) {
				if n.Action != "toggle" {
					t.Errorf("want action=toggle, got %s", n.Action)
				}
				v, ok := n.Role("target")
				if !ok || !v.Equal(Selector(".active")) {
					t.Errorf("target role not decoded: %v", v)
				}
			},
		},
		{
			name:  "valid node with trigger",
			input: `{"action":"show","roles":{"target":{"type":"selector","value":"#modal"}},"trigger":{"event":"click","filter":"button"}}`,
			checkFn: func(t *testing.T, n *Node) {
				if n.Trigger == nil || n.Trigger.Event != "click" || n.Trigger.Filter != "button" {
					t.Errorf("trigger not decoded: %+v", n.Trigger)
				}
			},
		},
		{
			name:  "duration and dimension values",
			input: `{"action":"wait","roles":{"duration":{"type":"duration","value":"300ms"},"size":{"type":"dimension","value":"375x812"}}}`,
			checkFn: func(t *testing.T, n *Node) {
				d, _ := n.Role("duration")
				if d.Millis() != 300 {
					t.Errorf("duration not canonicalized: %v", d)
				}
				s, _ := n.Role("size")
				if w, h := s.Size(); w != 375 || h != 812 {
					t.Errorf("dimension not decoded: %dx%d", w, h)
				}
			},
		},
		{
			name:    "missing action",
			input:   `{"roles":{"target":{"type":"selector","value":".a"}}}`,
			wantErr: true,
		},
		{
			name:    "unknown role type",
			input:   `{"action":"toggle","roles":{"target":{"type":"object","value":".a"}}}`,
			wantErr: true,
		},
		{
			name:    "missing role value",
			input:   `{"action":"toggle","roles":{"target":{"type":"selector"}}}`,
			wantErr: true,
		},
		{
			name:    "null role value",
			input:   `{"action":"toggle","roles":{"target":{"type":"selector","value":null}}}`,
			wantErr: true,
		},
		{
			name:    "empty trigger event",
			input:   `{"action":"toggle","trigger":{"event":""}}`,
			wantErr: true,
		},
		{
			name:    "unknown top-level field",
			input:   `{"action":"toggle","verb":"toggle"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `toggle .active`,
			wantErr: true,
		},
		{
			name:    "trailing garbage",
			input:   `{"action":"toggle"} {"action":"add"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := DecodeNode([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeNode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.checkFn != nil {
				tt.checkFn(t, n)
			}
		})
	}
}

func TestEncodeNodeRoundTrip(t *testing.T) {
	n := NewNode("set")
	n.SetRole("target", Selector("#title"))
	n.SetRole("value", Literal("hello world"))
	n.SetRole("delay", Duration(1500))
	n.Trigger = &Trigger{Event: "submit"}

	data, err := EncodeNode(n)
	if err != nil {
		t.Fatalf("EncodeNode() error = %v", err)
	}
	if !strings.Contains(string(data), `"action":"set"`) {
		t.Errorf("encoded form missing action: %s", data)
	}

	back, err := DecodeNode(data)
	if err != nil {
		t.Fatalf("DecodeNode() error = %v", err)
	}
	if !n.EqualValues(back) {
		t.Errorf("round trip changed node:\n in: %+v\nout: %+v", n, back)
	}
}

func TestDecodeObjectLooseEntries(t *testing.T) {
	// DecodeObject itself accepts structurally valid entries that Node()
	// would reject; the compile service relies on this to accumulate
	// every defect instead of stopping at the first.
	obj, err := DecodeObject([]byte(`{"action":"","roles":{"x":{"type":"bogus"}},"trigger":{"event":""}}`))
	if err != nil {
		t.Fatalf("DecodeObject() error = %v", err)
	}
	if obj.Action != "" {
		t.Errorf("want empty action preserved, got %q", obj.Action)
	}
	if entry, ok := obj.Roles["x"]; !ok || entry.Value != nil {
		t.Errorf("want role x with absent value, got %+v", obj.Roles)
	}
	if _, err := obj.Node(); err == nil {
		t.Error("Node() should fail on invalid object")
	}
}
