package dsl

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/glossa/internal/codegen"
	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/schema"
	"github.com/mattjoyce/glossa/internal/semantic"
)

func allOrders(w int) map[schema.WordOrder]int {
	return map[schema.WordOrder]int{schema.SVO: w, schema.SOV: w, schema.VSO: w}
}

func testDomain() Domain {
	return Domain{
		Name: "testdom",
		Commands: []schema.Command{
			{
				Action:   "toggle",
				Category: "state",
				Primary:  "target",
				Roles: []schema.Role{
					{Name: "target", Kinds: []semantic.ValueKind{semantic.KindSelector}, Positions: allOrders(10)},
				},
			},
			{
				Action:   "add",
				Category: "content",
				Primary:  "patient",
				Roles: []schema.Role{
					{
						Name:      "patient",
						Required:  true,
						Positions: allOrders(20),
						Markers:   map[string]string{"ja": "を"},
					},
					{
						Name:      "target",
						Required:  true,
						Kinds:     []semantic.ValueKind{semantic.KindSelector},
						Positions: allOrders(10),
						Markers:   map[string]string{"en": "to", "ja": "に"},
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
					"toggle": {Native: "toggle", Aliases: []string{"switch"}},
					"add":    {Native: "add"},
				},
			},
			{
				Code:            "ja",
				Name:            "日本語",
				Order:           schema.SOV,
				MarkerPlacement: "after",
				Actions: map[string]schema.Term{
					"toggle": {Native: "切り替え"},
					"add":    {Native: "追加"},
				},
			},
		},
		Generator: codegen.NewSet("js", map[string]codegen.Template{
			"toggle": func(n *semantic.Node) string {
				v, _ := n.Role("target")
				return fmt.Sprintf("toggle(%q);", v.Text())
			},
			"add": func(n *semantic.Node) string {
				p, _ := n.Role("patient")
				tgt, _ := n.Role("target")
				return fmt.Sprintf("add(%q, %q);", p.Text(), tgt.Text())
			},
		}),
	}
}

func newTestHandle(t *testing.T) *Handle {
	t.Helper()
	h, err := New(testDomain(), Options{CacheCapacity: 16})
	require.NoError(t, err)
	return h
}

func TestNewValidatesDomain(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Domain)
		wantErr string
	}{
		{"missing name", func(d *Domain) { d.Name = "" }, "name is required"},
		{"missing generator", func(d *Domain) { d.Generator = nil }, "generator is required"},
		{"no commands", func(d *Domain) { d.Commands = nil }, "at least one command"},
		{"no profiles", func(d *Domain) { d.Profiles = nil }, "at least one language profile"},
		{
			"duplicate language",
			func(d *Domain) { d.Profiles = append(d.Profiles, d.Profiles[0]) },
			"duplicate",
		},
		{
			"role missing position",
			func(d *Domain) { d.Commands[0].Roles[0].Positions = map[schema.WordOrder]int{schema.SVO: 10} },
			"no position",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain := testDomain()
			tt.mutate(&domain)
			_, err := New(domain, Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewRejectsUnknownDefaultLanguage(t *testing.T) {
	_, err := New(testDomain(), Options{DefaultLanguage: "xx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `default language "xx"`)
}

func TestHandleCatalog(t *testing.T) {
	h := newTestHandle(t)
	assert.Equal(t, "testdom", h.Name())
	assert.Equal(t, []string{"en", "ja"}, h.SupportedLanguages())
	assert.Equal(t, []string{"add", "toggle"}, h.Actions())
}

func TestHandleParseUsesRoleMarkers(t *testing.T) {
	// "to" is declared only as a role-level marker override, so a
	// successful full-confidence parse proves role markers reach the
	// tokenizer keyword set.
	h := newTestHandle(t)
	node, err := h.Parse("add .item to #list", "en")
	require.NoError(t, err)
	assert.Equal(t, 1.0, node.Confidence)
	v, ok := node.Role("target")
	require.True(t, ok)
	assert.Equal(t, "#list", v.Text())
}

func TestTranslate(t *testing.T) {
	h := newTestHandle(t)

	out, err := h.Translate("add .item to #list", "en", "ja", 0.9)
	require.NoError(t, err)
	assert.Equal(t, ".item を #list に 追加", out)

	back, err := h.Translate(out, "ja", "en", 0.9)
	require.NoError(t, err)
	assert.Equal(t, "add .item to #list", back)
}

func TestTranslateLowConfidence(t *testing.T) {
	h := newTestHandle(t)

	_, err := h.Translate("toggle #menu now", "en", "ja", 0.9)
	require.Error(t, err)
	var lce *LowConfidenceError
	require.ErrorAs(t, err, &lce)
	assert.InDelta(t, 0.667, lce.Confidence, 0.001)
	assert.Equal(t, 0.9, lce.Threshold)
	require.NotNil(t, lce.Node)
	assert.Equal(t, "toggle", lce.Node.Action)
	assert.Contains(t, err.Error(), string(diag.CodeLowConfidence))

	// The same parse passes under a permissive threshold.
	out, err := h.Translate("toggle #menu now", "en", "ja", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "#menu 切り替え", out)
}

func TestTranslateParseFailurePassesThrough(t *testing.T) {
	h := newTestHandle(t)
	_, err := h.Translate("explode #menu", "en", "ja", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(diag.CodeNoActionMatch))
}

func TestHandleCompileAndValidate(t *testing.T) {
	h := newTestHandle(t)

	res, err := h.Compile(compiler.Request{Input: "[toggle target:#menu]"})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, `toggle("#menu");`, res.Code)
	assert.Equal(t, 1, h.CacheStats().Size)

	ds, err := h.Validate("[add patient:]")
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, diag.CodeMissingValue, ds[0].Code)

	h.ClearCache()
	assert.Equal(t, 0, h.CacheStats().Size)
}

func TestHandleGenerate(t *testing.T) {
	h := newTestHandle(t)
	node := semantic.NewNode("toggle")
	node.SetRole("target", semantic.Selector("#menu"))
	code, ds := h.Generate(node)
	assert.Equal(t, `toggle("#menu");`, code)
	assert.Empty(t, ds)
}
