package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/glossa/internal/parser"
	"github.com/mattjoyce/glossa/internal/pattern"
	"github.com/mattjoyce/glossa/internal/schema"
	"github.com/mattjoyce/glossa/internal/semantic"
	"github.com/mattjoyce/glossa/internal/token"
)

func allOrders(w int) map[schema.WordOrder]int {
	return map[schema.WordOrder]int{schema.SVO: w, schema.SOV: w, schema.VSO: w}
}

func fixture(t *testing.T) (*schema.Registry, *pattern.Set, map[string]*token.Tokenizer) {
	t.Helper()
	selLit := []semantic.ValueKind{semantic.KindSelector, semantic.KindLiteral}
	commands := []schema.Command{
		{
			Action:  "toggle",
			Primary: "target",
			Roles: []schema.Role{
				{Name: "target", Required: true, Kinds: selLit, Positions: allOrders(10)},
			},
		},
		{
			Action:  "add",
			Primary: "patient",
			Roles: []schema.Role{
				{Name: "patient", Required: true, Kinds: selLit, Positions: allOrders(10)},
				{
					Name:      "target",
					Kinds:     []semantic.ValueKind{semantic.KindSelector},
					Positions: allOrders(5),
					Markers:   map[string]string{"en": "to", "ja": "に", "ar": "الى"},
				},
			},
		},
	}
	profiles := []schema.Profile{
		{
			Code:  "en",
			Order: schema.SVO,
			Actions: map[string]schema.Term{
				"toggle": {Native: "toggle"},
				"add":    {Native: "add"},
			},
		},
		{
			Code:            "ja",
			Order:           schema.SOV,
			MarkerPlacement: "after",
			Actions: map[string]schema.Term{
				"toggle": {Native: "切り替え"},
				"add":    {Native: "追加"},
			},
			Markers: map[string]string{"target": "を", "patient": "を"},
		},
		{
			Code:  "ar",
			Order: schema.VSO,
			Actions: map[string]schema.Term{
				"toggle": {Native: "بدل"},
				"add":    {Native: "أضف"},
			},
		},
	}
	reg, err := schema.NewRegistry(commands, profiles)
	require.NoError(t, err)
	set, err := pattern.BuildSet(reg)
	require.NoError(t, err)

	jaWords := map[string]bool{"切り替え": true, "追加": true, "を": true, "に": true}
	tokenizers := map[string]*token.Tokenizer{
		"en": token.New(token.Config{Language: "en", Keywords: []string{"toggle", "add", "to"}}),
		"ja": token.New(token.Config{Language: "ja", IsKeyword: func(s string) bool { return jaWords[s] }}),
		"ar": token.New(token.Config{Language: "ar", Keywords: []string{"بدل", "أضف", "الى"}}),
	}
	return reg, set, tokenizers
}

func TestRenderWordOrders(t *testing.T) {
	reg, set, _ := fixture(t)
	r := New(reg, set)

	node := semantic.NewNode("add")
	node.SetRole("patient", semantic.Selector(".item"))
	node.SetRole("target", semantic.Selector("#list"))

	tests := []struct {
		language string
		want     string
	}{
		{"en", "add .item to #list"},
		{"ja", ".item を #list に 追加"},
		{"ar", "أضف .item الى #list"},
	}
	for _, tt := range tests {
		got, err := r.Render(node, tt.language)
		require.NoError(t, err, tt.language)
		assert.Equal(t, tt.want, got, tt.language)
	}
}

func TestRenderSkipsUnfilledRoleAndMarker(t *testing.T) {
	reg, set, _ := fixture(t)
	r := New(reg, set)

	node := semantic.NewNode("add")
	node.SetRole("patient", semantic.Selector(".item"))

	got, err := r.Render(node, "en")
	require.NoError(t, err)
	assert.Equal(t, "add .item", got, "marker of an unfilled role must not leak")

	got, err = r.Render(node, "ja")
	require.NoError(t, err)
	assert.Equal(t, ".item を 追加", got)
}

func TestRenderQuotesSpacedLiterals(t *testing.T) {
	reg, set, _ := fixture(t)
	r := New(reg, set)

	node := semantic.NewNode("add")
	node.SetRole("patient", semantic.Literal("dark mode"))
	node.SetRole("target", semantic.Selector("#body"))

	got, err := r.Render(node, "en")
	require.NoError(t, err)
	assert.Equal(t, `add "dark mode" to #body`, got)
}

func TestRenderErrors(t *testing.T) {
	reg, set, _ := fixture(t)
	r := New(reg, set)

	_, err := r.Render(nil, "en")
	assert.Error(t, err)

	node := semantic.NewNode("toggle")
	node.SetRole("target", semantic.Selector(".x"))
	_, err = r.Render(node, "xx")
	assert.ErrorContains(t, err, "unsupported language")

	unknown := semantic.NewNode("explode")
	_, err = r.Render(unknown, "en")
	assert.ErrorContains(t, err, `no term for action "explode"`)
}

func TestRenderParseRoundTrip(t *testing.T) {
	reg, set, tokenizers := fixture(t)
	r := New(reg, set)
	p := parser.New(reg, set, tokenizers)

	nodes := []*semantic.Node{
		func() *semantic.Node {
			n := semantic.NewNode("toggle")
			n.SetRole("target", semantic.Selector(".active"))
			return n
		}(),
		func() *semantic.Node {
			n := semantic.NewNode("add")
			n.SetRole("patient", semantic.Literal("dark mode"))
			n.SetRole("target", semantic.Selector("#body"))
			return n
		}(),
		func() *semantic.Node {
			n := semantic.NewNode("add")
			n.SetRole("patient", semantic.Selector(".item"))
			n.SetRole("target", semantic.Selector("#list"))
			return n
		}(),
	}

	for _, node := range nodes {
		for _, language := range reg.Languages() {
			text, err := r.Render(node, language)
			require.NoError(t, err, "%s/%s", node.Action, language)

			back, err := p.Parse(text, language)
			require.NoError(t, err, "reparse %q (%s)", text, language)
			assert.True(t, node.EqualValues(back),
				"round trip %q (%s): got %+v", text, language, back)
			assert.Equal(t, 1.0, back.Confidence, "round trip %q (%s)", text, language)
		}
	}
}
