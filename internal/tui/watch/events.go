package watch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattjoyce/glossa/internal/events"
)

func renderEventStream(eventLog []events.Event, theme Theme, width int) string {
	innerWidth := width - 4

	if len(eventLog) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			theme.Title.Render("EVENT STREAM"),
			theme.Dim.Render("  Waiting for events..."),
		)
		return theme.Border.Width(innerWidth).Render(content)
	}

	var lines []string
	for i, e := range eventLog {
		if i >= 10 {
			break
		}
		lines = append(lines, formatEvent(e, theme))
	}

	eventsText := lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(lines, "\n"))
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("EVENT STREAM"),
		eventsText,
	)

	return theme.Border.Width(innerWidth).Render(content)
}

func formatEvent(e events.Event, theme Theme) string {
	ts := theme.Dim.Render(e.At.Format("15:04:05"))

	data := make(map[string]any)
	_ = json.Unmarshal(e.Data, &data)

	var typeStyle lipgloss.Style
	switch e.Type {
	case events.TypeCompileCompleted:
		typeStyle = theme.StatusOK
		if ok, found := data["ok"].(bool); found && !ok {
			typeStyle = theme.StatusFailed
		}
	case events.TypeTranslateCompleted:
		typeStyle = theme.StatusOK
	case events.TypeServiceStarted:
		typeStyle = theme.Highlight
	case events.TypeCacheCleared:
		typeStyle = theme.StatusWarn
	default:
		typeStyle = theme.Dim
	}

	typeName := typeStyle.Render(fmt.Sprintf("%-20s", e.Type))

	return fmt.Sprintf("%s %s %s", ts, typeName, eventDesc(e.Type, data, e.Data))
}

// eventDesc compresses an event payload into one line.
func eventDesc(eventType string, data map[string]any, raw json.RawMessage) string {
	var parts []string

	switch eventType {
	case events.TypeCompileCompleted:
		if lang, ok := data["language"].(string); ok && lang != "" {
			parts = append(parts, fmt.Sprintf("[%s]", lang))
		}
		if action, ok := data["action"].(string); ok && action != "" {
			parts = append(parts, action)
		}
		if ok, found := data["ok"].(bool); found {
			if ok {
				if conf, has := data["confidence"].(float64); has {
					parts = append(parts, fmt.Sprintf("conf %.2f", conf))
				}
			} else {
				parts = append(parts, "failed")
			}
		}
		if cached, ok := data["cached"].(bool); ok && cached {
			parts = append(parts, "cached")
		}

	case events.TypeTranslateCompleted:
		from, _ := data["from"].(string)
		to, _ := data["to"].(string)
		if from != "" || to != "" {
			parts = append(parts, fmt.Sprintf("%s→%s", from, to))
		}
		if action, ok := data["action"].(string); ok && action != "" {
			parts = append(parts, action)
		}

	case events.TypeServiceStarted:
		if name, ok := data["name"].(string); ok && name != "" {
			parts = append(parts, name)
		}
		if version, ok := data["version"].(string); ok && version != "" {
			parts = append(parts, version)
		}

	case events.TypeCacheCleared:
		if by, ok := data["by"].(string); ok && by != "" {
			parts = append(parts, "by "+by)
		}
	}

	if len(parts) == 0 {
		s := string(raw)
		if len(s) > 60 {
			s = s[:60] + "..."
		}
		return s
	}

	return strings.Join(parts, " ")
}
