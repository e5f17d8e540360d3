// Package render inverts semantic nodes back into natural-language
// text. It walks the same pattern the parser matched against, which
// keeps the two operations symmetric.
package render

import (
	"fmt"
	"strings"

	"github.com/mattjoyce/glossa/internal/pattern"
	"github.com/mattjoyce/glossa/internal/schema"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// Renderer produces phrasing for any registered language from a
// language-neutral node. Read-only after New, safe for concurrent
// use.
type Renderer struct {
	reg      *schema.Registry
	patterns *pattern.Set
}

func New(reg *schema.Registry, patterns *pattern.Set) *Renderer {
	return &Renderer{reg: reg, patterns: patterns}
}

// Render phrases node in the given language: the native action term
// at its word-order position, each filled role in pattern order, and
// markers only next to the roles they introduce.
func (r *Renderer) Render(node *semantic.Node, language string) (string, error) {
	if node == nil {
		return "", fmt.Errorf("render: nil node")
	}
	prof, ok := r.reg.Profile(language)
	if !ok {
		return "", fmt.Errorf("unsupported language %q", language)
	}
	term, ok := prof.TermFor(node.Action)
	if !ok {
		return "", fmt.Errorf("language %q has no term for action %q", language, node.Action)
	}
	pat, ok := r.patterns.Lookup(node.Action, language)
	if !ok {
		return "", fmt.Errorf("no pattern for %s/%s", node.Action, language)
	}

	var words []string
	if prof.Order != schema.SOV {
		words = append(words, term.Native)
	}
	for i, slot := range pat.Slots {
		switch slot.Kind {
		case pattern.MarkerSlot:
			if node.HasRole(partnerRole(pat, i, prof.MarksAfter())) {
				words = append(words, slot.Text)
			}
		case pattern.RoleSlot:
			if v, ok := node.Role(slot.Role.Name); ok {
				words = append(words, valueText(v))
			}
		}
	}
	if prof.Order == schema.SOV {
		words = append(words, term.Native)
	}
	return strings.Join(words, " "), nil
}

// partnerRole names the role a marker slot belongs to: the following
// slot for prepositional languages, the preceding one otherwise.
func partnerRole(pat pattern.Pattern, i int, after bool) string {
	j := i + 1
	if after {
		j = i - 1
	}
	if j >= 0 && j < len(pat.Slots) && pat.Slots[j].Kind == pattern.RoleSlot {
		return pat.Slots[j].Role.Name
	}
	return ""
}

// valueText phrases one role value. Spaced literals are quoted so the
// rendered text tokenizes back into a single span.
func valueText(v semantic.RoleValue) string {
	text := v.Text()
	if v.Kind() == semantic.KindLiteral && strings.ContainsRune(text, ' ') {
		return `"` + text + `"`
	}
	return text
}
