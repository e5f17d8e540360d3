package codegen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/semantic"
)

func testSet() *Set {
	return NewSet("js", map[string]Template{
		"toggle": func(n *semantic.Node) string {
			v, _ := n.Role("target")
			return fmt.Sprintf("document.querySelector(%q).classList.toggle('active');", v.Text())
		},
		"wait": func(n *semantic.Node) string {
			v, _ := n.Role("duration")
			return fmt.Sprintf("await new Promise(r => setTimeout(r, %d));", v.Millis())
		},
	})
}

func TestGenerate(t *testing.T) {
	s := testSet()

	node := semantic.NewNode("toggle")
	node.SetRole("target", semantic.Selector("#menu"))

	code, diags := s.Generate(node)
	assert.Empty(t, diags)
	assert.Equal(t, `document.querySelector("#menu").classList.toggle('active');`, code)

	wait := semantic.NewNode("wait")
	wait.SetRole("duration", semantic.Duration(300))
	code, diags = s.Generate(wait)
	assert.Empty(t, diags)
	assert.Equal(t, "await new Promise(r => setTimeout(r, 300));", code)
}

func TestGenerateUnknownActionPlaceholder(t *testing.T) {
	s := testSet()

	code, diags := s.Generate(semantic.NewNode("explode"))
	assert.Equal(t, "/* unsupported action: explode */", code)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CodeUnknownAction, diags[0].Code)
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
}

func TestGenerateCustomPlaceholder(t *testing.T) {
	s := NewSet("py", nil, WithPlaceholder(func(action string) string {
		return "# no template: " + action
	}))

	code, diags := s.Generate(semantic.NewNode("toggle"))
	assert.Equal(t, "# no template: toggle", code)
	require.Len(t, diags, 1)
}

func TestGenerateIgnoresWordOrderProvenance(t *testing.T) {
	s := testSet()

	// Two nodes carrying the same semantics generate identical code no
	// matter which phrasing produced them.
	a := semantic.NewNode("toggle")
	a.SetRole("target", semantic.Selector("#menu"))
	b := a.Clone()
	b.Confidence = 0.7

	codeA, _ := s.Generate(a)
	codeB, _ := s.Generate(b)
	assert.Equal(t, codeA, codeB)
}
