package semantic

import (
	"strings"
	"testing"
)

func TestFingerprintDeterminism(t *testing.T) {
	build := func() *Node {
		n := NewNode("remove")
		n.SetRole("patient", Selector(".loading"))
		n.SetRole("target", Selector("#spinner"))
		return n
	}

	a, err := Fingerprint(build(), map[string]string{"dialect": "js", "minify": "true"})
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	if !strings.HasPrefix(a, "blake3:") {
		t.Errorf("fingerprint missing scheme prefix: %s", a)
	}

	// Distinct objects, same structure, different fill and option order.
	n2 := NewNode("remove")
	n2.SetRole("target", Selector("#spinner"))
	n2.SetRole("patient", Selector(".loading"))
	b, err := Fingerprint(n2, map[string]string{"minify": "true", "dialect": "js"})
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	if a != b {
		t.Errorf("structurally equal inputs produced different fingerprints:\n%s\n%s", a, b)
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := NewNode("toggle")
	base.SetRole("target", Selector(".active"))
	ref, _ := Fingerprint(base, nil)

	tests := []struct {
		name   string
		mutate func() (*Node, map[string]string)
	}{
		{
			name: "role value change",
			mutate: func() (*Node, map[string]string) {
				n := NewNode("toggle")
				n.SetRole("target", Selector(".inactive"))
				return n, nil
			},
		},
		{
			name: "role kind change",
			mutate: func() (*Node, map[string]string) {
				n := NewNode("toggle")
				n.SetRole("target", Literal(".active"))
				return n, nil
			},
		},
		{
			name: "action change",
			mutate: func() (*Node, map[string]string) {
				n := NewNode("add")
				n.SetRole("target", Selector(".active"))
				return n, nil
			},
		},
		{
			name: "added option",
			mutate: func() (*Node, map[string]string) {
				n := NewNode("toggle")
				n.SetRole("target", Selector(".active"))
				return n, map[string]string{"dialect": "js"}
			},
		},
		{
			name: "added trigger",
			mutate: func() (*Node, map[string]string) {
				n := NewNode("toggle")
				n.SetRole("target", Selector(".active"))
				n.Trigger = &Trigger{Event: "click"}
				return n, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, opts := tt.mutate()
			fp, err := Fingerprint(n, opts)
			if err != nil {
				t.Fatalf("Fingerprint() error = %v", err)
			}
			if fp == ref {
				t.Error("mutation did not change fingerprint")
			}
		})
	}
}

func TestFingerprintConfidenceIgnored(t *testing.T) {
	a := NewNode("hide")
	a.SetRole("target", Selector("#menu"))
	a.Confidence = 1.0

	b := a.Clone()
	b.Confidence = 0.4

	fa, _ := Fingerprint(a, nil)
	fb, _ := Fingerprint(b, nil)
	if fa != fb {
		t.Error("confidence must not participate in the fingerprint")
	}
}
