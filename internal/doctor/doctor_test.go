package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/glossa/internal/config"
	"github.com/mattjoyce/glossa/internal/dsl"
	"github.com/mattjoyce/glossa/internal/schema"
	"github.com/mattjoyce/glossa/internal/semantic"
)

func allOrders(w int) map[schema.WordOrder]int {
	return map[schema.WordOrder]int{schema.SVO: w, schema.SOV: w, schema.VSO: w}
}

func testDomain() dsl.Domain {
	return dsl.Domain{
		Name: "testdom",
		Commands: []schema.Command{
			{
				Action:  "toggle",
				Primary: "target",
				Roles: []schema.Role{
					{Name: "target", Kinds: []semantic.ValueKind{semantic.KindSelector}, Positions: allOrders(10)},
				},
			},
			{
				Action:  "add",
				Primary: "patient",
				Roles: []schema.Role{
					{Name: "patient", Required: true, Positions: allOrders(20)},
					{
						Name:      "target",
						Required:  true,
						Positions: allOrders(10),
						Markers:   map[string]string{"en": "to"},
					},
				},
			},
		},
		Profiles: []schema.Profile{
			{
				Code:  "en",
				Name:  "English",
				Order: schema.SVO,
				Actions: map[string]schema.Term{
					"toggle": {Native: "toggle"},
					"add":    {Native: "add"},
				},
			},
		},
	}
}

func baseConfig() *config.Config {
	return config.Defaults()
}

func TestValidateCleanSetup(t *testing.T) {
	d := New(baseConfig(), testDomain())

	r := d.Validate()

	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func categories(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Category)
	}
	return out
}

func TestValidateAccumulatesEverything(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("{"), 0o644))

	cfg := baseConfig()
	cfg.History.Enabled = true
	cfg.History.Path = ""
	cfg.API.Enabled = true
	cfg.API.Auth.Tokens = []config.APIToken{
		{Token: "t1", Scopes: []string{"compile:rw", "bogus:scope"}},
	}
	cfg.Engine.ProfileDir = dir
	cfg.Engine.DefaultLanguage = "xx"
	cfg.Engine.MinConfidence = 2

	d := New(cfg, testDomain())
	r := d.Validate()

	assert.False(t, r.Valid)
	cats := categories(r.Errors)
	assert.Contains(t, cats, "history")
	assert.Contains(t, cats, "token_scopes")
	assert.Contains(t, cats, "packs")
	assert.Contains(t, cats, "engine")
	require.Len(t, r.Errors, 4)

	warnCats := categories(r.Warnings)
	assert.Contains(t, warnCats, "threshold")
}

func TestValidateAPIWithoutCredentials(t *testing.T) {
	cfg := baseConfig()
	cfg.API.Enabled = true

	r := New(cfg, testDomain()).Validate()

	assert.True(t, r.Valid)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "api", r.Warnings[0].Category)
}

func TestValidatePackExtendsLanguages(t *testing.T) {
	dir := t.TempDir()
	pack := `
language: tr
name: Türkçe
word_order: SOV
actions:
  toggle:
    term: değiştir
  add:
    term: ekle
markers:
  target: ile
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tr.yaml"), []byte(pack), 0o644))

	cfg := baseConfig()
	cfg.Engine.ProfileDir = dir

	r := New(cfg, testDomain()).Validate()

	assert.True(t, r.Valid, "%+v", r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestValidateReportsUnlockedPackDrift(t *testing.T) {
	dir := t.TempDir()
	pack := `
language: tr
name: Türkçe
word_order: SOV
actions:
  toggle:
    term: değiştir
  add:
    term: ekle
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tr.yaml"), []byte(pack), 0o644))
	require.NoError(t, config.LockProfiles(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tr.yaml"), []byte(pack+"keywords: [lütfen]\n"), 0o644))

	cfg := baseConfig()
	cfg.Engine.ProfileDir = dir

	r := New(cfg, testDomain()).Validate()

	assert.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "packs", r.Errors[0].Category)
	assert.Contains(t, r.Errors[0].Message, "glossa config lock")
}

func TestValidateMissingProfileDir(t *testing.T) {
	cfg := baseConfig()
	cfg.Engine.ProfileDir = filepath.Join(t.TempDir(), "nope")

	r := New(cfg, testDomain()).Validate()

	assert.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "packs", r.Errors[0].Category)
}

func TestWarnMissingTerms(t *testing.T) {
	domain := testDomain()
	domain.Profiles = append(domain.Profiles, schema.Profile{
		Code:  "es",
		Order: schema.SVO,
		Actions: map[string]schema.Term{
			"add": {Native: "añadir"},
		},
	})

	r := New(baseConfig(), domain).Validate()

	assert.True(t, r.Valid)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "terms", r.Warnings[0].Category)
	assert.Contains(t, r.Warnings[0].Message, `"toggle"`)
	assert.Contains(t, r.Warnings[0].Message, `"es"`)
}

func TestWarnMarkerCollisions(t *testing.T) {
	domain := testDomain()
	domain.Commands[1].Roles[0].Markers = map[string]string{"en": "to"}

	r := New(baseConfig(), domain).Validate()

	assert.True(t, r.Valid)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "markers", r.Warnings[0].Category)
	assert.Contains(t, r.Warnings[0].Message, `"to"`)
}

func TestValidateSchemaFailure(t *testing.T) {
	domain := testDomain()
	domain.Commands = append(domain.Commands, domain.Commands[0])

	r := New(baseConfig(), domain).Validate()

	assert.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "schema", r.Errors[0].Category)
}

func TestFormatHuman(t *testing.T) {
	clean := &Result{Valid: true}
	assert.Equal(t, "✓ configuration valid\n", FormatHuman(clean))

	broken := &Result{
		Errors:   []Issue{{Category: "packs", Field: "engine.profile_dir", Message: "missing"}},
		Warnings: []Issue{{Category: "api", Message: "open access"}},
	}
	out := FormatHuman(broken)
	assert.Contains(t, out, "✗ configuration invalid (1 error(s), 1 warning(s))")
	assert.Contains(t, out, "✗ [packs] engine.profile_dir: missing")
	assert.Contains(t, out, "⚠ [api] open access")
}

func TestFormatJSON(t *testing.T) {
	r := &Result{Valid: false, Errors: []Issue{{Category: "schema", Message: "boom"}}}

	out, err := FormatJSON(r)
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": false`)
	assert.Contains(t, out, `"category": "schema"`)
}
