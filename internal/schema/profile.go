package schema

import (
	"fmt"
	"strings"
)

// WordOrder is the relative ordering of subject, verb, and object in a
// language's default phrasing.
type WordOrder string

const (
	SVO WordOrder = "SVO"
	SOV WordOrder = "SOV"
	VSO WordOrder = "VSO"
)

// ParseWordOrder converts a config string into a WordOrder.
func ParseWordOrder(s string) (WordOrder, error) {
	switch WordOrder(strings.ToUpper(s)) {
	case SVO:
		return SVO, nil
	case SOV:
		return SOV, nil
	case VSO:
		return VSO, nil
	default:
		return "", fmt.Errorf("unknown word order %q", s)
	}
}

// Term is a native command term plus the aliases accepted on input.
type Term struct {
	Native  string   `yaml:"native"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// Profile describes one language: its word order, how canonical
// actions are said natively, and the particles that mark roles. The
// yaml tags let profiles ship as data packs.
type Profile struct {
	Code  string    `yaml:"code"`
	Name  string    `yaml:"name,omitempty"`
	Order WordOrder `yaml:"word_order"`
	// Actions maps canonical action names to their native terms.
	Actions map[string]Term `yaml:"actions"`
	// Markers maps role names to the particle introducing that role in
	// this language.
	Markers map[string]string `yaml:"markers,omitempty"`
	// Positions supplies default weights for roles that do not declare
	// one for this profile's word order.
	Positions map[string]int `yaml:"positions,omitempty"`
	// MarkerPlacement is "before" for prepositional languages and
	// "after" for postpositional ones ("#menu を"). Empty means before.
	MarkerPlacement string `yaml:"marker_placement,omitempty"`
	// Direction is "ltr" or "rtl". Empty means ltr.
	Direction string `yaml:"direction,omitempty"`
	// Extra lists additional tokenizer keywords beyond terms and
	// markers, e.g. particles with no role binding.
	Extra []string `yaml:"keywords,omitempty"`
}

// MarksAfter reports whether markers follow their role in this
// language.
func (p Profile) MarksAfter() bool { return p.MarkerPlacement == "after" }

// Validate checks the profile's internal consistency.
func (p Profile) Validate() error {
	if p.Code == "" {
		return fmt.Errorf("profile: code is required")
	}
	switch p.Order {
	case SVO, SOV, VSO:
	default:
		return fmt.Errorf("profile %q: word_order must be SVO, SOV, or VSO, got %q", p.Code, p.Order)
	}
	if len(p.Actions) == 0 {
		return fmt.Errorf("profile %q: at least one action term is required", p.Code)
	}
	for action, term := range p.Actions {
		if term.Native == "" {
			return fmt.Errorf("profile %q: actions.%s: native term is required", p.Code, action)
		}
	}
	switch p.MarkerPlacement {
	case "", "before", "after":
	default:
		return fmt.Errorf("profile %q: marker_placement must be before or after, got %q", p.Code, p.MarkerPlacement)
	}
	switch p.Direction {
	case "", "ltr", "rtl":
	default:
		return fmt.Errorf("profile %q: direction must be ltr or rtl, got %q", p.Code, p.Direction)
	}
	return nil
}

// ActionFor resolves a native word (or alias) to its canonical action
// name. Matching folds case for bicameral scripts and is exact
// otherwise.
func (p Profile) ActionFor(word string) (string, bool) {
	for action, term := range p.Actions {
		if strings.EqualFold(word, term.Native) {
			return action, true
		}
		for _, alias := range term.Aliases {
			if strings.EqualFold(word, alias) {
				return action, true
			}
		}
	}
	return "", false
}

// TermFor returns the native term for a canonical action.
func (p Profile) TermFor(action string) (Term, bool) {
	term, ok := p.Actions[action]
	return term, ok
}

// MarkerFor resolves the particle that introduces a role in this
// language: the role's per-language override first, then the profile
// table. ok is false for unmarked roles.
func (p Profile) MarkerFor(role Role) (string, bool) {
	if m, ok := role.Markers[p.Code]; ok {
		return m, m != ""
	}
	m, ok := p.Markers[role.Name]
	return m, ok && m != ""
}

// PositionFor resolves a role's weight under this profile's word
// order.
func (p Profile) PositionFor(role Role) (int, bool) {
	if w, ok := role.Positions[p.Order]; ok {
		return w, true
	}
	w, ok := p.Positions[role.Name]
	return w, ok
}

// Keywords collects every native term, alias, and marker so a
// tokenizer can classify them as keywords.
func (p Profile) Keywords() []string {
	var words []string
	for _, term := range p.Actions {
		words = append(words, term.Native)
		words = append(words, term.Aliases...)
	}
	for _, m := range p.Markers {
		if m != "" {
			words = append(words, m)
		}
	}
	words = append(words, p.Extra...)
	return words
}
