package hypermedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/dsl"
	"github.com/mattjoyce/glossa/internal/semantic"
)

func newHandle(t *testing.T) *dsl.Handle {
	t.Helper()
	h, err := New(dsl.Options{DefaultLanguage: "en", CacheCapacity: 64})
	require.NoError(t, err)
	return h
}

func TestDomainCatalog(t *testing.T) {
	h := newHandle(t)
	assert.Equal(t, Name, h.Name())
	assert.Equal(t, []string{"ar", "en", "es", "ga", "ja", "tr"}, h.SupportedLanguages())
	assert.Equal(t,
		[]string{"add", "hide", "navigate", "remove", "resize", "set", "show", "toggle", "wait"},
		h.Actions())
}

func TestParseAcrossLanguages(t *testing.T) {
	h := newHandle(t)
	tests := []struct {
		name     string
		language string
		input    string
		action   string
		role     string
		want     semantic.RoleValue
	}{
		{"en toggle", "en", "toggle #menu", "toggle", "target", semantic.Selector("#menu")},
		{"en alias", "en", "flip #menu", "toggle", "target", semantic.Selector("#menu")},
		{"en add", "en", "add .item to #list", "add", "target", semantic.Selector("#list")},
		{"en set quoted", "en", `set #title to "Hello World"`, "set", "value", semantic.Literal("Hello World")},
		{"en wait marked", "en", "wait for 2 seconds", "wait", "duration", semantic.Duration(2000)},
		{"en wait bare", "en", "wait 300ms", "wait", "duration", semantic.Duration(300)},
		{"en navigate", "en", "go to /home", "navigate", "destination", semantic.Literal("/home")},
		{"en resize", "en", "resize #app to 375x812", "resize", "size", semantic.Dimension(375, 812)},
		{"es toggle", "es", "alternar #menu", "toggle", "target", semantic.Selector("#menu")},
		{"es add", "es", "añadir .item a #list", "add", "target", semantic.Selector("#list")},
		{"es wait", "es", "esperar durante 300ms", "wait", "duration", semantic.Duration(300)},
		{"ja toggle", "ja", "#menu を 切り替え", "toggle", "target", semantic.Selector("#menu")},
		{"ja add", "ja", ".item を #list に 追加", "add", "target", semantic.Selector("#list")},
		{"tr toggle", "tr", "#menu değiştir", "toggle", "target", semantic.Selector("#menu")},
		{"tr add", "tr", ".item #list içine ekle", "add", "target", semantic.Selector("#list")},
		{"ar toggle", "ar", "بدّل #menu", "toggle", "target", semantic.Selector("#menu")},
		{"ar add", "ar", "أضف .item إلى #list", "add", "target", semantic.Selector("#list")},
		{"ga toggle", "ga", "scoránaigh #menu", "toggle", "target", semantic.Selector("#menu")},
		{"ga add", "ga", "cuir .item le #list", "add", "target", semantic.Selector("#list")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := h.Parse(tt.input, tt.language)
			require.NoError(t, err)
			assert.Equal(t, tt.action, node.Action)
			assert.Equal(t, 1.0, node.Confidence, "full input must be consumed")
			got, ok := node.Role(tt.role)
			require.True(t, ok, "role %q unfilled", tt.role)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	h := newHandle(t)

	toggle := semantic.NewNode("toggle")
	toggle.SetRole("target", semantic.Selector("#menu"))

	add := semantic.NewNode("add")
	add.SetRole("patient", semantic.Selector(".item"))
	add.SetRole("target", semantic.Selector("#list"))

	set := semantic.NewNode("set")
	set.SetRole("target", semantic.Selector("#title"))
	set.SetRole("value", semantic.Literal("Hello World"))

	wait := semantic.NewNode("wait")
	wait.SetRole("duration", semantic.Duration(2000))

	resize := semantic.NewNode("resize")
	resize.SetRole("target", semantic.Selector("#app"))
	resize.SetRole("size", semantic.Dimension(375, 812))

	nodes := map[string]*semantic.Node{
		"toggle": toggle, "add": add, "set": set, "wait": wait, "resize": resize,
	}
	for name, node := range nodes {
		for _, language := range h.SupportedLanguages() {
			text, err := h.Render(node, language)
			require.NoError(t, err, "%s/%s render", name, language)

			parsed, err := h.Parse(text, language)
			require.NoError(t, err, "%s/%s reparse of %q", name, language, text)
			assert.True(t, node.EqualValues(parsed),
				"%s/%s: %q parsed to a different node", name, language, text)
			assert.Equal(t, 1.0, parsed.Confidence,
				"%s/%s: rendering %q must parse cleanly", name, language, text)
		}
	}
}

func TestTranslateMatrix(t *testing.T) {
	h := newHandle(t)
	want := map[string]string{
		"es": "añadir .item a #list",
		"ja": ".item を #list に 追加",
		"tr": ".item #list içine ekle",
		"ar": "أضف .item إلى #list",
		"ga": "cuir .item le #list",
	}
	for to, phrase := range want {
		out, err := h.Translate("add .item to #list", "en", to, 0.9)
		require.NoError(t, err, "en→%s", to)
		assert.Equal(t, phrase, out, "en→%s", to)

		back, err := h.Translate(out, to, "en", 0.9)
		require.NoError(t, err, "%s→en", to)
		assert.Equal(t, "add .item to #list", back, "%s→en", to)
	}
}

func TestCompileProducesHandlerCode(t *testing.T) {
	h := newHandle(t)

	res, err := h.Compile(compiler.Request{Input: "toggle #menu"})
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, `document.querySelector("#menu").toggleAttribute("hidden");`, res.Code)
	require.NotNil(t, res.Semantic)
	assert.Equal(t, "toggle", res.Semantic.Action)

	triggered, err := h.Compile(compiler.Request{
		Input: `{"action":"toggle","roles":{"target":{"type":"selector","value":"#menu"}},"trigger":{"event":"click"}}`,
	})
	require.NoError(t, err)
	require.True(t, triggered.OK)
	assert.Contains(t, triggered.Code, `document.addEventListener("click"`)
	assert.Contains(t, triggered.Code, `toggleAttribute("hidden")`)
}

func TestOptionalRoleStaysOptional(t *testing.T) {
	h := newHandle(t)

	bare, err := h.Parse("remove .loading", "en")
	require.NoError(t, err)
	assert.False(t, bare.HasRole("target"))
	assert.Equal(t, 1.0, bare.Confidence)

	scoped, err := h.Parse("remove .done from #tasks", "en")
	require.NoError(t, err)
	v, ok := scoped.Role("target")
	require.True(t, ok)
	assert.Equal(t, "#tasks", v.Text())
	assert.Equal(t, 1.0, scoped.Confidence)
}
