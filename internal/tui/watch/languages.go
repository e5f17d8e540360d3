package watch

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/glossa/internal/events"
)

// LanguageActivity aggregates what the event stream reveals about one
// input language.
type LanguageActivity struct {
	Code          string
	Compiles      int
	Failures      int
	CacheHits     int
	Translations  int
	ConfidenceSum float64 // over successful compiles
	LastAction    string
	LastOK        bool
	LastAt        time.Time
}

// AvgConfidence is the mean confidence of successful compiles.
func (a LanguageActivity) AvgConfidence() (float64, bool) {
	ok := a.Compiles - a.Failures
	if ok <= 0 {
		return 0, false
	}
	return a.ConfidenceSum / float64(ok), true
}

func getOrCreateLanguage(langs map[string]*LanguageActivity, code string) *LanguageActivity {
	a, ok := langs[code]
	if !ok {
		a = &LanguageActivity{Code: code}
		langs[code] = a
	}
	return a
}

// updateLanguageActivity folds one event into the per-language table.
// service.started seeds a zero row per registered language so the panel
// shows the full language set before any traffic arrives.
func updateLanguageActivity(langs map[string]*LanguageActivity, e events.Event) {
	switch e.Type {
	case events.TypeServiceStarted:
		var p struct {
			Languages []string `json:"languages"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil {
			return
		}
		for _, code := range p.Languages {
			getOrCreateLanguage(langs, code)
		}

	case events.TypeCompileCompleted:
		var p struct {
			Language   string  `json:"language"`
			Action     string  `json:"action"`
			OK         bool    `json:"ok"`
			Cached     bool    `json:"cached"`
			Confidence float64 `json:"confidence"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil || p.Language == "" {
			return
		}
		a := getOrCreateLanguage(langs, p.Language)
		a.Compiles++
		if p.OK {
			a.ConfidenceSum += p.Confidence
		} else {
			a.Failures++
		}
		if p.Cached {
			a.CacheHits++
		}
		a.LastAction = p.Action
		a.LastOK = p.OK
		a.LastAt = time.Now()

	case events.TypeTranslateCompleted:
		var p struct {
			From   string `json:"from"`
			Action string `json:"action"`
		}
		if err := json.Unmarshal(e.Data, &p); err != nil || p.From == "" {
			return
		}
		a := getOrCreateLanguage(langs, p.From)
		a.Translations++
		a.LastAction = p.Action
		a.LastOK = true
		a.LastAt = time.Now()
	}
}

// sortedLanguageCodes returns language codes in stable sorted order.
func sortedLanguageCodes(langs map[string]*LanguageActivity) []string {
	codes := make([]string, 0, len(langs))
	for code := range langs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func renderLanguages(langs map[string]*LanguageActivity, selected int, theme Theme, width int) string {
	innerWidth := width - 4

	if len(langs) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			theme.Title.Render("LANGUAGES"),
			theme.Dim.Render("  No activity yet..."),
		)
		return theme.Border.Width(innerWidth).Render(content)
	}

	codes := sortedLanguageCodes(langs)

	var lines []string
	for i, code := range codes {
		lines = append(lines, renderLanguageRow(i+1, langs[code], i == selected, theme))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{theme.Title.Render("LANGUAGES")}, lines...)...,
	)

	return theme.Border.Width(innerWidth).Render(content)
}

func renderLanguageRow(num int, a *LanguageActivity, isSelected bool, theme Theme) string {
	codeStyle := lipgloss.NewStyle().Bold(true)
	if isSelected {
		codeStyle = codeStyle.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
	}

	var stats string
	if a.Compiles == 0 && a.Translations == 0 {
		stats = theme.Dim.Render("[idle]")
	} else {
		parts := []string{fmt.Sprintf("%d compiled", a.Compiles)}
		if a.Failures > 0 {
			parts = append(parts, theme.StatusFailed.Render(fmt.Sprintf("%d failed", a.Failures)))
		}
		if avg, ok := a.AvgConfidence(); ok {
			parts = append(parts, fmt.Sprintf("avg %.2f", avg))
		}
		if a.CacheHits > 0 {
			parts = append(parts, theme.Dim.Render(fmt.Sprintf("%d cached", a.CacheHits)))
		}
		if a.Translations > 0 {
			parts = append(parts, fmt.Sprintf("%d translated", a.Translations))
		}
		stats = strings.Join(parts, "  ")
	}

	var last string
	if !a.LastAt.IsZero() {
		icon := theme.StatusOK.Render("✓")
		if !a.LastOK {
			icon = theme.StatusFailed.Render("✗")
		}
		action := a.LastAction
		if action == "" {
			action = "?"
		}
		ago := time.Since(a.LastAt).Round(time.Second)
		last = fmt.Sprintf("Last: %s %s %s", action, icon, theme.Dim.Render(formatAgo(ago)))
	}

	return fmt.Sprintf(" %d. %s  %s  %s",
		num,
		codeStyle.Render(fmt.Sprintf("%-4s", a.Code)),
		stats,
		last,
	)
}

func formatAgo(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}
