package pattern

import "github.com/mattjoyce/glossa/internal/schema"

type key struct {
	action   string
	language string
}

// Set holds the precomputed pattern for every (command, profile) pair
// in a registry. Built once at DSL construction and read-only after,
// so lookups need no synchronization.
type Set struct {
	patterns map[key]Pattern
}

// BuildSet derives patterns for the full command × profile product.
func BuildSet(reg *schema.Registry) (*Set, error) {
	s := &Set{patterns: make(map[key]Pattern)}
	for _, cmd := range reg.Commands() {
		for _, profile := range reg.Profiles() {
			p, err := Build(cmd, profile)
			if err != nil {
				return nil, err
			}
			s.patterns[key{cmd.Action, profile.Code}] = p
		}
	}
	return s, nil
}

// Lookup returns the pattern for an (action, language) pair.
func (s *Set) Lookup(action, language string) (Pattern, bool) {
	p, ok := s.patterns[key{action, language}]
	return p, ok
}

// Len returns the number of stored patterns.
func (s *Set) Len() int { return len(s.patterns) }
