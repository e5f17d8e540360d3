package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HealthState tracks service health from /healthz polling.
type HealthState struct {
	Status        string
	Version       string
	Domain        string
	UptimeSeconds int64
	Languages     int
	Actions       int
	CacheSize     int
	CacheHits     uint64
	CacheMisses   uint64
	History       bool
	Connected     bool
	LastCheck     time.Time
}

// HitRate is the lifetime cache hit rate, false before any lookup.
func (h HealthState) HitRate() (float64, bool) {
	total := h.CacheHits + h.CacheMisses
	if total == 0 {
		return 0, false
	}
	return float64(h.CacheHits) / float64(total), true
}

func renderHeader(health HealthState, ticker Ticker, pulse Pulse, theme Theme, width int) string {
	innerWidth := width - 4

	statusText := theme.StatusOK.Render("HEALTHY")
	statusIcon := "✅"
	if !health.Connected {
		statusText = theme.StatusFailed.Render("CONNECTING")
		statusIcon = "🔌"
	} else if health.Status != "ok" && health.Status != "" {
		statusText = theme.StatusFailed.Render("DEGRADED")
		statusIcon = "⚠️"
	}

	uptime := time.Duration(health.UptimeSeconds) * time.Second
	uptimeStr := formatDuration(uptime)

	lastEventStr := "never"
	if !pulse.LastEvent().IsZero() {
		ago := time.Since(pulse.LastEvent()).Round(time.Second)
		lastEventStr = fmt.Sprintf("%s ago", ago)
	}

	// Title line with ticker and clock
	tickerStr := theme.Highlight.Render(ticker.Current())
	clock := theme.Dim.Render(time.Now().Format("15:04:05"))
	title := "GLOSSA WATCH"
	if health.Domain != "" {
		title = fmt.Sprintf("GLOSSA WATCH · %s", health.Domain)
	}
	if health.Version != "" {
		title += " " + health.Version
	}
	titleText := fmt.Sprintf(" %s %s", title, tickerStr)

	titleWidth := lipgloss.Width(titleText)
	clockWidth := lipgloss.Width(clock)
	pad := innerWidth - titleWidth - clockWidth - 4
	if pad < 1 {
		pad = 1
	}
	titleLine := titleText + strings.Repeat(" ", pad) + clock + " "

	cacheStr := "-"
	if rate, ok := health.HitRate(); ok {
		cacheStr = fmt.Sprintf("%.0f%% (%d)", rate*100, health.CacheSize)
	} else if health.CacheSize > 0 {
		cacheStr = fmt.Sprintf("(%d)", health.CacheSize)
	}

	historyStr := "off"
	if health.History {
		historyStr = "on"
	}

	statsLine := fmt.Sprintf(" %s %s  ⏱ %s  Languages: %d  Actions: %d  Cache: %s  History: %s",
		statusIcon, statusText,
		uptimeStr,
		health.Languages,
		health.Actions,
		cacheStr,
		historyStr,
	)

	activityLine := fmt.Sprintf(" Last event: %s %s",
		lastEventStr,
		pulse.Render(theme),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleLine,
		statsLine,
		activityLine,
	)

	return theme.Border.Width(innerWidth).Render(content)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
