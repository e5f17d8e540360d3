package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/glossa/internal/semantic"
)

func testCommand() Command {
	return Command{
		Action:   "toggle",
		Category: "class",
		Primary:  "target",
		Roles: []Role{
			{
				Name:      "target",
				Required:  true,
				Kinds:     []semantic.ValueKind{semantic.KindSelector},
				Positions: map[WordOrder]int{SVO: 10, SOV: 10, VSO: 10},
			},
			{
				Name:      "scope",
				Kinds:     []semantic.ValueKind{semantic.KindSelector, semantic.KindLiteral},
				Positions: map[WordOrder]int{SVO: 5, SOV: 5, VSO: 5},
			},
		},
	}
}

func testProfile() Profile {
	return Profile{
		Code:  "en",
		Order: SVO,
		Actions: map[string]Term{
			"toggle": {Native: "toggle", Aliases: []string{"switch", "flip"}},
		},
		Markers: map[string]string{"scope": "in"},
	}
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Command)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Command) {},
		},
		{
			name:    "missing action",
			mutate:  func(c *Command) { c.Action = "" },
			wantErr: "action is required",
		},
		{
			name: "duplicate role",
			mutate: func(c *Command) {
				c.Roles = append(c.Roles, Role{Name: "target"})
			},
			wantErr: `duplicate role "target"`,
		},
		{
			name:    "missing primary",
			mutate:  func(c *Command) { c.Primary = "" },
			wantErr: "primary role is required",
		},
		{
			name:    "primary not among roles",
			mutate:  func(c *Command) { c.Primary = "destination" },
			wantErr: `primary role "destination" not among roles`,
		},
		{
			name: "unnamed role",
			mutate: func(c *Command) {
				c.Roles = append(c.Roles, Role{})
			},
			wantErr: "roles[2]: name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := testCommand()
			tt.mutate(&cmd)
			err := cmd.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRoleAccepts(t *testing.T) {
	cmd := testCommand()
	target, ok := cmd.Role("target")
	require.True(t, ok)
	assert.True(t, target.Accepts(semantic.KindSelector))
	assert.False(t, target.Accepts(semantic.KindLiteral))

	open := Role{Name: "value"}
	assert.True(t, open.Accepts(semantic.KindExpression), "empty kind set accepts anything")
	assert.True(t, open.Accepts(semantic.KindDuration))
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Profile) {},
		},
		{
			name:    "missing code",
			mutate:  func(p *Profile) { p.Code = "" },
			wantErr: "code is required",
		},
		{
			name:    "bad word order",
			mutate:  func(p *Profile) { p.Order = "OVS" },
			wantErr: "word_order must be SVO, SOV, or VSO",
		},
		{
			name:    "no actions",
			mutate:  func(p *Profile) { p.Actions = nil },
			wantErr: "at least one action term",
		},
		{
			name: "empty native term",
			mutate: func(p *Profile) {
				p.Actions["toggle"] = Term{Aliases: []string{"flip"}}
			},
			wantErr: "actions.toggle: native term is required",
		},
		{
			name:    "bad direction",
			mutate:  func(p *Profile) { p.Direction = "down" },
			wantErr: "direction must be ltr or rtl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseWordOrder(t *testing.T) {
	got, err := ParseWordOrder("sov")
	require.NoError(t, err)
	assert.Equal(t, SOV, got)

	_, err = ParseWordOrder("OSV")
	assert.Error(t, err)
}

func TestProfileLookups(t *testing.T) {
	p := testProfile()

	action, ok := p.ActionFor("Toggle")
	require.True(t, ok)
	assert.Equal(t, "toggle", action)

	action, ok = p.ActionFor("flip")
	require.True(t, ok)
	assert.Equal(t, "toggle", action)

	_, ok = p.ActionFor("destroy")
	assert.False(t, ok)

	cmd := testCommand()
	scope, _ := cmd.Role("scope")
	marker, ok := p.MarkerFor(scope)
	require.True(t, ok)
	assert.Equal(t, "in", marker)

	target, _ := cmd.Role("target")
	_, ok = p.MarkerFor(target)
	assert.False(t, ok, "unmarked role has no marker")

	// A per-language override on the role wins over the profile table.
	scope.Markers = map[string]string{"en": "inside"}
	marker, ok = p.MarkerFor(scope)
	require.True(t, ok)
	assert.Equal(t, "inside", marker)
}

func TestProfilePositionFallback(t *testing.T) {
	p := testProfile()
	p.Positions = map[string]int{"extra": 3}

	declared := Role{Name: "target", Positions: map[WordOrder]int{SVO: 10}}
	w, ok := p.PositionFor(declared)
	require.True(t, ok)
	assert.Equal(t, 10, w)

	fallback := Role{Name: "extra"}
	w, ok = p.PositionFor(fallback)
	require.True(t, ok)
	assert.Equal(t, 3, w)

	_, ok = p.PositionFor(Role{Name: "unknown"})
	assert.False(t, ok)
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry([]Command{testCommand()}, []Profile{testProfile()})
	require.NoError(t, err)

	cmd, ok := reg.Command("toggle")
	require.True(t, ok)
	assert.Equal(t, "target", cmd.Primary)

	assert.Equal(t, []string{"toggle"}, reg.Actions())
	assert.Equal(t, []string{"en"}, reg.Languages())

	action, ok := reg.ActionForWord("switch", "en")
	require.True(t, ok)
	assert.Equal(t, "toggle", action)

	_, ok = reg.ActionForWord("switch", "xx")
	assert.False(t, ok)
}

func TestNewRegistryRejects(t *testing.T) {
	valid := testCommand()

	_, err := NewRegistry([]Command{valid, valid}, []Profile{testProfile()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate command "toggle"`)

	_, err = NewRegistry([]Command{valid}, []Profile{testProfile(), testProfile()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate profile "en"`)

	// A role with no position for a registered word order is rejected
	// unless the profile supplies a default.
	sov := testProfile()
	sov.Code = "ja"
	sov.Order = SOV
	bare := valid
	bare.Roles = append([]Role(nil), valid.Roles...)
	bare.Roles[1] = Role{Name: "scope", Positions: map[WordOrder]int{SVO: 5}}
	_, err = NewRegistry([]Command{bare}, []Profile{testProfile(), sov})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `role "scope" has no position for word order SOV`)

	sov.Positions = map[string]int{"scope": 5}
	_, err = NewRegistry([]Command{bare}, []Profile{testProfile(), sov})
	assert.NoError(t, err, "profile default position satisfies the invariant")
}

func TestRequiredRoles(t *testing.T) {
	cmd := testCommand()
	assert.Equal(t, []string{"target"}, cmd.RequiredRoles())
}
