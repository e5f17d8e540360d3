// Package inspect renders recorded compilations as terminal and JSON
// reports for the history CLI.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mattjoyce/glossa/internal/history"
)

// Store is the slice of the history store the reports read from.
type Store interface {
	Get(ctx context.Context, id string) (history.Entry, error)
}

// BuildReport renders a terminal-friendly report of one recorded
// compilation. A unique id prefix is accepted.
func BuildReport(ctx context.Context, store Store, id string) (string, error) {
	entry, err := lookup(ctx, store, id)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Compile Record\n")
	fmt.Fprintf(&out, "ID          : %s\n", entry.ID)
	fmt.Fprintf(&out, "Created     : %s\n", entry.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&out, "Language    : %s\n", entry.Language)
	fmt.Fprintf(&out, "Format      : %s\n", entry.Format)
	fmt.Fprintf(&out, "Status      : %s\n", statusWord(entry.OK))
	fmt.Fprintf(&out, "Action      : %s\n", renderUnset(entry.Action, "<none>"))
	fmt.Fprintf(&out, "Confidence  : %.2f\n", entry.Confidence)
	fmt.Fprintf(&out, "Cache hit   : %t\n", entry.CacheHit)
	fmt.Fprintf(&out, "Duration    : %dms\n", entry.DurationMS)
	fmt.Fprintf(&out, "Fingerprint : %s\n", renderUnset(entry.Fingerprint, "<none>"))
	fmt.Fprintf(&out, "\n")

	fmt.Fprintf(&out, "Input:\n")
	writeIndented(&out, entry.Input)

	if entry.Code != "" {
		fmt.Fprintf(&out, "\nCode:\n")
		writeIndented(&out, entry.Code)
	}

	if len(entry.Diagnostics) > 0 {
		fmt.Fprintf(&out, "\nDiagnostics:\n")
		for _, d := range entry.Diagnostics {
			fmt.Fprintf(&out, "  [%s] %s: %s\n", d.Severity, d.Code, d.Message)
		}
	}

	return strings.TrimRight(out.String(), "\n") + "\n", nil
}

// BuildJSONReport returns the machine-readable form of the record.
func BuildJSONReport(ctx context.Context, store Store, id string) (string, error) {
	entry, err := lookup(ctx, store, id)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json report: %w", err)
	}
	return string(data), nil
}

func lookup(ctx context.Context, store Store, id string) (history.Entry, error) {
	if strings.TrimSpace(id) == "" {
		return history.Entry{}, fmt.Errorf("record id is required")
	}
	return store.Get(ctx, strings.TrimSpace(id))
}

func statusWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func writeIndented(out *strings.Builder, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

func renderUnset(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
