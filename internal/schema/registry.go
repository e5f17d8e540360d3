package schema

import "fmt"

// Registry is the catalog of commands and profiles a DSL instance
// serves. It is append-only at construction and read-only afterwards,
// so it is freely shareable across goroutines.
type Registry struct {
	commands map[string]Command
	actions  []string
	profiles map[string]Profile
	codes    []string
}

// NewRegistry validates and binds a command set to a profile set.
// Every role of every command must resolve a position under each
// registered profile, from the role itself or the profile default.
func NewRegistry(commands []Command, profiles []Profile) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]Command, len(commands)),
		profiles: make(map[string]Profile, len(profiles)),
	}
	for _, cmd := range commands {
		if err := cmd.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.commands[cmd.Action]; dup {
			return nil, fmt.Errorf("duplicate command %q", cmd.Action)
		}
		r.commands[cmd.Action] = cmd
		r.actions = append(r.actions, cmd.Action)
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.profiles[p.Code]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.Code)
		}
		r.profiles[p.Code] = p
		r.codes = append(r.codes, p.Code)
	}
	for _, action := range r.actions {
		cmd := r.commands[action]
		for _, code := range r.codes {
			p := r.profiles[code]
			for _, role := range cmd.Roles {
				if _, ok := p.PositionFor(role); !ok {
					return nil, fmt.Errorf("command %q: role %q has no position for word order %s (language %q)",
						cmd.Action, role.Name, p.Order, p.Code)
				}
			}
		}
	}
	return r, nil
}

// Command returns the schema registered for an action.
func (r *Registry) Command(action string) (Command, bool) {
	cmd, ok := r.commands[action]
	return cmd, ok
}

// Commands returns all schemas in registration order.
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.actions))
	for _, action := range r.actions {
		out = append(out, r.commands[action])
	}
	return out
}

// Actions returns the registered action names in registration order.
func (r *Registry) Actions() []string {
	return append([]string(nil), r.actions...)
}

// Profile returns the profile registered for a language code.
func (r *Registry) Profile(code string) (Profile, bool) {
	p, ok := r.profiles[code]
	return p, ok
}

// Profiles returns all profiles in registration order.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.profiles[code])
	}
	return out
}

// Languages returns the registered language codes in registration
// order.
func (r *Registry) Languages() []string {
	return append([]string(nil), r.codes...)
}

// ActionForWord scans every command's native terms for the given
// language and resolves word to a canonical action.
func (r *Registry) ActionForWord(word, code string) (string, bool) {
	p, ok := r.profiles[code]
	if !ok {
		return "", false
	}
	action, ok := p.ActionFor(word)
	if !ok {
		return "", false
	}
	if _, registered := r.commands[action]; !registered {
		return "", false
	}
	return action, true
}
