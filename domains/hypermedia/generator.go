package hypermedia

import (
	"fmt"
	"strings"

	"github.com/mattjoyce/glossa/internal/codegen"
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// jsGenerator emits browser JavaScript. Action bodies come from the
// template set; a trigger on the node wraps the body in an event
// handler.
type jsGenerator struct {
	set *codegen.Set
}

// NewGenerator returns the domain's JavaScript generator.
func NewGenerator() codegen.Generator {
	return &jsGenerator{set: codegen.NewSet("js", map[string]codegen.Template{
		"toggle":   genToggle,
		"show":     genShow,
		"hide":     genHide,
		"add":      genAdd,
		"remove":   genRemove,
		"set":      genSet,
		"wait":     genWait,
		"navigate": genNavigate,
		"resize":   genResize,
	}, codegen.WithPlaceholder(func(action string) string {
		return fmt.Sprintf("/* no handler for action %q */", action)
	}))}
}

func (g *jsGenerator) Name() string { return g.set.Name() }

func (g *jsGenerator) Generate(node *semantic.Node) (string, []diag.Diagnostic) {
	body, ds := g.set.Generate(node)
	if node.Trigger == nil {
		return body, ds
	}

	var b strings.Builder
	fmt.Fprintf(&b, "document.addEventListener(%q, async (event) => {\n", node.Trigger.Event)
	if node.Trigger.Filter != "" {
		fmt.Fprintf(&b, "  if (!(%s)) return;\n", node.Trigger.Filter)
	}
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("});")
	return b.String(), ds
}

func roleText(n *semantic.Node, name string) (string, bool) {
	v, ok := n.Role(name)
	if !ok {
		return "", false
	}
	return v.Text(), true
}

func genToggle(n *semantic.Node) string {
	sel, _ := roleText(n, "target")
	return fmt.Sprintf("document.querySelector(%q).toggleAttribute(\"hidden\");", sel)
}

func genShow(n *semantic.Node) string {
	sel, _ := roleText(n, "target")
	return fmt.Sprintf("document.querySelector(%q).removeAttribute(\"hidden\");", sel)
}

func genHide(n *semantic.Node) string {
	sel, _ := roleText(n, "target")
	return fmt.Sprintf("document.querySelector(%q).setAttribute(\"hidden\", \"\");", sel)
}

// genAdd distinguishes the patient's shape: a class is added to the
// target's classList, an element is appended, and anything else is
// inserted as text.
func genAdd(n *semantic.Node) string {
	patient, _ := roleText(n, "patient")
	target, _ := roleText(n, "target")
	switch {
	case strings.HasPrefix(patient, "."):
		return fmt.Sprintf("document.querySelector(%q).classList.add(%q);", target, strings.TrimPrefix(patient, "."))
	case strings.HasPrefix(patient, "#"):
		return fmt.Sprintf("document.querySelector(%q).append(document.querySelector(%q));", target, patient)
	default:
		return fmt.Sprintf("document.querySelector(%q).insertAdjacentText(\"beforeend\", %q);", target, patient)
	}
}

func genRemove(n *semantic.Node) string {
	patient, _ := roleText(n, "patient")
	target, hasTarget := roleText(n, "target")
	if hasTarget && strings.HasPrefix(patient, ".") {
		return fmt.Sprintf("document.querySelector(%q).classList.remove(%q);", target, strings.TrimPrefix(patient, "."))
	}
	return fmt.Sprintf("document.querySelector(%q).remove();", patient)
}

func genSet(n *semantic.Node) string {
	target, _ := roleText(n, "target")
	v, ok := n.Role("value")
	if !ok {
		return fmt.Sprintf("document.querySelector(%q).textContent = \"\";", target)
	}
	if v.Kind() == semantic.KindExpression {
		return fmt.Sprintf("document.querySelector(%q).textContent = %s;", target, v.Text())
	}
	return fmt.Sprintf("document.querySelector(%q).textContent = %q;", target, v.Text())
}

func genWait(n *semantic.Node) string {
	ms := int64(0)
	if v, ok := n.Role("duration"); ok {
		ms = v.Millis()
	}
	return fmt.Sprintf("await new Promise((resolve) => setTimeout(resolve, %d));", ms)
}

func genNavigate(n *semantic.Node) string {
	dest, _ := roleText(n, "destination")
	return fmt.Sprintf("window.location.assign(%q);", dest)
}

func genResize(n *semantic.Node) string {
	target, _ := roleText(n, "target")
	w, h := 0, 0
	if v, ok := n.Role("size"); ok {
		w, h = v.Size()
	}
	return fmt.Sprintf("Object.assign(document.querySelector(%q).style, { width: \"%dpx\", height: \"%dpx\" });", target, w, h)
}
