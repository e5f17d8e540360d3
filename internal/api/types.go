package api

import (
	"github.com/mattjoyce/glossa/internal/cache"
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/history"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthzResponse reports liveness and the engine's shape.
type HealthzResponse struct {
	Status        string      `json:"status"`
	Version       string      `json:"version,omitempty"`
	Domain        string      `json:"domain"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	Languages     int         `json:"languages"`
	Actions       int         `json:"actions"`
	Cache         cache.Stats `json:"cache"`
	History       bool        `json:"history"`
}

// CompileRequest is the wire form of a compilation job. Format is
// validated before it reaches the engine; empty means auto-detect.
type CompileRequest struct {
	Input    string            `json:"input"`
	Format   string            `json:"format,omitempty"`
	Language string            `json:"language,omitempty"`
	Options  map[string]string `json:"options,omitempty"`
}

// ParseRequest asks for the semantic reading of one natural-language
// command. Language empty uses the engine default.
type ParseRequest struct {
	Input    string `json:"input"`
	Language string `json:"language,omitempty"`
}

// ParseResponse carries the parse outcome. A failed parse is OK=false
// with diagnostics, not an HTTP error.
type ParseResponse struct {
	OK          bool              `json:"ok"`
	Language    string            `json:"language"`
	Action      string            `json:"action,omitempty"`
	Confidence  float64           `json:"confidence"`
	Semantic    *semantic.Object  `json:"semantic,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
}

// TranslateRequest re-phrases a command across languages.
// MinConfidence nil applies the server default; an explicit 0 accepts
// every parse.
type TranslateRequest struct {
	Input         string   `json:"input"`
	From          string   `json:"from"`
	To            string   `json:"to"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
}

// TranslateResponse carries the rendered output or, on a rejected
// parse, the confidence that fell short of the threshold.
type TranslateResponse struct {
	OK          bool              `json:"ok"`
	Output      string            `json:"output,omitempty"`
	Action      string            `json:"action,omitempty"`
	Confidence  float64           `json:"confidence"`
	Threshold   float64           `json:"threshold"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
}

// ValidateRequest checks explicit or JSON input without generating
// code.
type ValidateRequest struct {
	Input string `json:"input"`
}

// ValidateResponse lists every structural defect found.
type ValidateResponse struct {
	OK          bool              `json:"ok"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// LanguagesResponse lists the registered language codes.
type LanguagesResponse struct {
	Default   string   `json:"default"`
	Languages []string `json:"languages"`
}

// ActionsResponse lists the canonical actions.
type ActionsResponse struct {
	Actions []string `json:"actions"`
}

// CacheClearedResponse acknowledges a cache flush.
type CacheClearedResponse struct {
	Status string `json:"status"`
}

// HistoryListResponse wraps recent compilation records.
type HistoryListResponse struct {
	Entries []history.Entry `json:"entries"`
}
