// Package tui implements the interactive console for a compiled-in domain.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// --- Styles ---

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD"))

	statusOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	statusFailed = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	statusWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1)

	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	langStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61AFEF"))
	codeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
)

// Engine is the in-process surface the console drives. *dsl.Handle
// satisfies it.
type Engine interface {
	Name() string
	DefaultLanguage() string
	SupportedLanguages() []string
	Actions() []string
	Compile(req compiler.Request) (compiler.Result, error)
	Render(node *semantic.Node, language string) (string, error)
}

type rendering struct {
	language string
	text     string
	err      error
}

type consoleEntry struct {
	input    string
	language string
	result   compiler.Result
	renders  []rendering
}

// Console is the interactive translator: type a command, see its parse,
// its renderings in every registered language, and the generated code.
type Console struct {
	engine    Engine
	languages []string
	langIdx   int

	input     textinput.Model
	roleTable table.Model
	scroll    viewport.Model

	entries []consoleEntry
	lastErr string

	width  int
	height int
	ready  bool
}

// NewConsole builds the console around an in-process engine.
func NewConsole(engine Engine) *Console {
	ti := textinput.New()
	ti.Placeholder = "type a command"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()

	rt := table.New(
		table.WithColumns([]table.Column{
			{Title: "Role", Width: 12},
			{Title: "Kind", Width: 11},
			{Title: "Value", Width: 36},
		}),
		table.WithHeight(5),
	)
	rs := table.DefaultStyles()
	rs.Header = rs.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	rs.Selected = lipgloss.NewStyle()
	rt.SetStyles(rs)

	langs := engine.SupportedLanguages()
	idx := 0
	for i, l := range langs {
		if l == engine.DefaultLanguage() {
			idx = i
			break
		}
	}

	return &Console{
		engine:    engine,
		languages: langs,
		langIdx:   idx,
		input:     ti,
		roleTable: rt,
		scroll:    viewport.New(0, 0),
	}
}

// Language returns the currently selected input language.
func (c *Console) Language() string {
	if len(c.languages) == 0 {
		return c.engine.DefaultLanguage()
	}
	return c.languages[c.langIdx]
}

// Entries exposes the scrollback, newest first.
func (c *Console) Entries() []consoleEntry { return c.entries }

func (c *Console) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (c *Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return c, tea.Quit
		case "tab":
			c.cycleLanguage(1)
			return c, nil
		case "shift+tab":
			c.cycleLanguage(-1)
			return c, nil
		case "enter":
			c.submit()
			return c, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			c.scroll, cmd = c.scroll.Update(msg)
			return c, cmd
		}

	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.input.Width = c.width - 10
		c.roleTable.SetWidth(c.width - 6)
		c.scroll.Width = c.width - 6
		c.scroll.Height = c.scrollHeight()
		c.scroll.SetContent(c.renderEntries())
		c.ready = true
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *Console) cycleLanguage(step int) {
	if len(c.languages) == 0 {
		return
	}
	c.langIdx = (c.langIdx + step + len(c.languages)) % len(c.languages)
}

func (c *Console) submit() {
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return
	}

	res, err := c.engine.Compile(compiler.Request{Input: text, Language: c.Language()})
	if err != nil {
		c.lastErr = err.Error()
		return
	}
	c.lastErr = ""

	entry := consoleEntry{input: text, language: c.Language(), result: res}
	if res.Node != nil {
		for _, lang := range c.languages {
			out, rerr := c.engine.Render(res.Node, lang)
			entry.renders = append(entry.renders, rendering{language: lang, text: out, err: rerr})
		}
	}

	c.entries = append([]consoleEntry{entry}, c.entries...)
	if len(c.entries) > 20 {
		c.entries = c.entries[:20]
	}

	c.roleTable.SetRows(roleRows(res.Node))
	c.scroll.SetContent(c.renderEntries())
	c.scroll.GotoTop()
	c.input.Reset()
}

func roleRows(node *semantic.Node) []table.Row {
	if node == nil {
		return nil
	}
	rows := make([]table.Row, 0, len(node.Roles)+1)
	for _, r := range node.Roles {
		rows = append(rows, table.Row{r.Name, string(r.Value.Kind()), r.Value.Text()})
	}
	if node.Trigger != nil {
		t := node.Trigger.Event
		if node.Trigger.Filter != "" {
			t += "[" + node.Trigger.Filter + "]"
		}
		rows = append(rows, table.Row{"trigger", "event", t})
	}
	return rows
}

func (c *Console) scrollHeight() int {
	h := c.height - 16
	if h < 5 {
		h = 5
	}
	return h
}

// --- View ---

func (c *Console) View() string {
	if !c.ready {
		return "Initializing console..."
	}

	header := c.renderHeader()
	inputBox := borderStyle.Width(c.width - 4).Render(c.input.View())

	var result string
	if len(c.entries) > 0 {
		result = borderStyle.Width(c.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Roles"),
				c.roleTable.View(),
			),
		)
	}

	scrollback := borderStyle.Width(c.width - 4).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Translations"),
			c.scroll.View(),
		),
	)

	var errBar string
	if c.lastErr != "" {
		errBar = statusFailed.Render(" ✗ " + c.lastErr)
	}

	help := dimStyle.Render(" [enter] Compile • [tab] Language • [↑/↓] Scroll • [esc] Quit")

	parts := []string{header, inputBox}
	if result != "" {
		parts = append(parts, result)
	}
	parts = append(parts, scrollback)
	if errBar != "" {
		parts = append(parts, errBar)
	}
	parts = append(parts, help)

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (c *Console) renderHeader() string {
	name := titleStyle.Render(strings.ToUpper(c.engine.Name()) + " CONSOLE")
	lang := langStyle.Render(fmt.Sprintf("[%s]", c.Language()))
	actions := dimStyle.Render(fmt.Sprintf("%d actions", len(c.engine.Actions())))
	langs := dimStyle.Render(strings.Join(c.languages, " "))

	line := fmt.Sprintf("%s %s  %s  %s", name, lang, actions, langs)
	return borderStyle.Width(c.width - 4).Render(line)
}

func (c *Console) renderEntries() string {
	if len(c.entries) == 0 {
		return dimStyle.Render("  Nothing compiled yet...")
	}

	var blocks []string
	for _, e := range c.entries {
		blocks = append(blocks, formatEntry(e))
	}
	return strings.Join(blocks, "\n\n")
}

func formatEntry(e consoleEntry) string {
	var b strings.Builder

	verdict := statusOK.Render(fmt.Sprintf("ok %.2f", e.result.Confidence))
	if !e.result.OK {
		verdict = statusFailed.Render("failed")
	} else if e.result.Confidence < 1 {
		verdict = statusWarn.Render(fmt.Sprintf("ok %.2f", e.result.Confidence))
	}

	cached := ""
	if e.result.Cached {
		cached = dimStyle.Render(" (cached)")
	}

	fmt.Fprintf(&b, " %s %s  %s%s\n",
		langStyle.Render(fmt.Sprintf("[%s]", e.language)),
		e.input,
		verdict,
		cached,
	)

	for _, r := range e.renders {
		if r.err != nil {
			fmt.Fprintf(&b, "   %s %s\n", langStyle.Render(r.language+":"), statusFailed.Render(r.err.Error()))
			continue
		}
		fmt.Fprintf(&b, "   %s %s\n", langStyle.Render(r.language+":"), r.text)
	}

	if e.result.Code != "" {
		fmt.Fprintf(&b, "   %s\n", codeStyle.Render(strings.ReplaceAll(e.result.Code, "\n", "\n   ")))
	}

	for _, d := range e.result.Diagnostics {
		style := statusFailed
		if d.Severity == diag.SeverityWarning {
			style = statusWarn
		}
		fmt.Fprintf(&b, "   %s\n", style.Render(fmt.Sprintf("%s: %s", d.Code, d.Message)))
	}

	return strings.TrimRight(b.String(), "\n")
}
