// Package pattern derives word-order-correct slot sequences from a
// command schema and a language profile. The same pattern drives both
// parsing and rendering, which is what keeps the two inverses of each
// other.
package pattern

import (
	"fmt"
	"sort"

	"github.com/mattjoyce/glossa/internal/schema"
)

// SlotKind distinguishes the two slot forms.
type SlotKind int

const (
	// MarkerSlot is a literal particle that must appear verbatim.
	MarkerSlot SlotKind = iota
	// RoleSlot is a placeholder that captures a role value.
	RoleSlot
)

// Slot is one position in a pattern: a literal marker or a role
// placeholder.
type Slot struct {
	Kind SlotKind
	// Text is the marker text. Set only for MarkerSlot.
	Text string
	// Role is the captured role definition. Set only for RoleSlot.
	Role schema.Role
}

// Pattern is the derived (schema, profile) artifact: an ordered slot
// list covering every role of the command, in the phrase order of the
// language. The action term itself is not a slot; it sits at the
// word-order position (initial for SVO and VSO, final for SOV) and is
// handled by the parser and renderer directly.
type Pattern struct {
	Action   string
	Language string
	Order    schema.WordOrder
	Slots    []Slot
}

// Roles returns the role slots in phrase order.
func (p Pattern) Roles() []schema.Role {
	var roles []schema.Role
	for _, s := range p.Slots {
		if s.Kind == RoleSlot {
			roles = append(roles, s.Role)
		}
	}
	return roles
}

// Build derives the pattern for cmd under profile. Roles sort by
// their position weight for the profile's word order, higher weights
// earlier; ties keep schema declaration order. Each role contributes
// exactly one placeholder slot, with its marker slot placed before or
// after it per the profile's marker placement.
func Build(cmd schema.Command, profile schema.Profile) (Pattern, error) {
	type placed struct {
		role   schema.Role
		weight int
	}
	order := make([]placed, 0, len(cmd.Roles))
	for _, role := range cmd.Roles {
		w, ok := profile.PositionFor(role)
		if !ok {
			return Pattern{}, fmt.Errorf("pattern %s/%s: role %q has no position for word order %s",
				cmd.Action, profile.Code, role.Name, profile.Order)
		}
		order = append(order, placed{role: role, weight: w})
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].weight > order[j].weight
	})

	p := Pattern{
		Action:   cmd.Action,
		Language: profile.Code,
		Order:    profile.Order,
		Slots:    make([]Slot, 0, 2*len(order)),
	}
	for _, pl := range order {
		marker, marked := profile.MarkerFor(pl.role)
		if marked && !profile.MarksAfter() {
			p.Slots = append(p.Slots, Slot{Kind: MarkerSlot, Text: marker})
		}
		p.Slots = append(p.Slots, Slot{Kind: RoleSlot, Role: pl.role})
		if marked && profile.MarksAfter() {
			p.Slots = append(p.Slots, Slot{Kind: MarkerSlot, Text: marker})
		}
	}
	return p, nil
}
