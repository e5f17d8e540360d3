// Package scanner walks template trees and extracts embedded DSL
// snippets for audit. It recognizes underscore and data-glossa
// attributes, text/glossa script blocks, and {% glossa %} template
// tags, and can push every distinct snippet through the compiler to
// report defects before they ship.
package scanner

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/log"
)

// Carrier names the syntax that held a snippet.
type Carrier string

const (
	CarrierAttr     Carrier = "underscore"
	CarrierData     Carrier = "data-glossa"
	CarrierScript   Carrier = "script"
	CarrierTemplate Carrier = "template-tag"
)

// Usage is one snippet found in one place.
type Usage struct {
	File    string  `json:"file"`
	Line    int     `json:"line"`
	Carrier Carrier `json:"carrier"`
	Snippet string  `json:"snippet"`
}

// SnippetReport is one distinct snippet with its occurrence count and,
// after Check, its compile outcome.
type SnippetReport struct {
	Snippet     string            `json:"snippet"`
	Count       int               `json:"count"`
	Checked     bool              `json:"checked,omitempty"`
	OK          bool              `json:"ok,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
}

// Report aggregates a scan.
type Report struct {
	Root            string          `json:"root"`
	FilesScanned    int             `json:"files_scanned"`
	FilesWithUsages int             `json:"files_with_usages"`
	ByCarrier       map[Carrier]int `json:"by_carrier"`
	Usages          []Usage         `json:"usages"`
	Snippets        []SnippetReport `json:"snippets"`
}

// Config tunes the walk. Zero values take the defaults.
type Config struct {
	// Extensions are the file suffixes scanned, dot included.
	Extensions []string
	// Excludes are path substrings that skip a file or whole
	// directory.
	Excludes []string
}

func defaultExtensions() []string {
	return []string{".html", ".htm", ".xml", ".tmpl", ".gohtml", ".jinja", ".jinja2", ".txt"}
}

func defaultExcludes() []string {
	return []string{"node_modules", ".git", "vendor", "__pycache__", ".venv"}
}

// Scanner finds DSL usage in template files. Safe for concurrent use.
type Scanner struct {
	extensions map[string]struct{}
	excludes   []string
	log        *slog.Logger
}

// New builds a scanner.
func New(cfg Config) *Scanner {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = defaultExtensions()
	}
	extSet := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = struct{}{}
	}
	excludes := cfg.Excludes
	if len(excludes) == 0 {
		excludes = defaultExcludes()
	}
	return &Scanner{
		extensions: extSet,
		excludes:   excludes,
		log:        log.WithComponent("scanner"),
	}
}

func (s *Scanner) excluded(path string) bool {
	for _, pattern := range s.excludes {
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

func (s *Scanner) shouldScan(path string) bool {
	if _, ok := s.extensions[strings.ToLower(filepath.Ext(path))]; !ok {
		return false
	}
	return !s.excluded(path)
}

// ScanContent extracts every usage from one file's content. Block
// carriers split on newlines: each non-empty line is one command.
func (s *Scanner) ScanContent(content, file string) []Usage {
	var usages []Usage
	for _, cp := range carrierPatterns {
		for _, m := range cp.re.FindAllStringSubmatchIndex(content, -1) {
			if len(m) < 4 || m[2] < 0 {
				continue
			}
			raw := content[m[2]:m[3]]
			base := lineAt(content, m[2])
			if cp.block {
				for offset, line := range strings.Split(raw, "\n") {
					snippet := strings.TrimSpace(line)
					if snippet == "" {
						continue
					}
					usages = append(usages, Usage{
						File:    file,
						Line:    base + offset,
						Carrier: cp.carrier,
						Snippet: snippet,
					})
				}
				continue
			}
			snippet := strings.TrimSpace(raw)
			if snippet == "" {
				continue
			}
			usages = append(usages, Usage{
				File:    file,
				Line:    base,
				Carrier: cp.carrier,
				Snippet: snippet,
			})
		}
	}
	sort.SliceStable(usages, func(i, j int) bool { return usages[i].Line < usages[j].Line })
	return usages
}

// ScanFile reads and scans one file. Binary content yields no usages.
func (s *Scanner) ScanFile(path string) ([]Usage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if bytes.IndexByte(raw, 0) >= 0 {
		return nil, nil
	}
	return s.ScanContent(string(raw), path), nil
}

// ScanDir walks root and aggregates every usage found. Unreadable
// files are logged and skipped; a missing root is an error.
func (s *Scanner) ScanDir(root string) (*Report, error) {
	report := &Report{
		Root:      root,
		ByCarrier: map[Carrier]int{},
	}
	filesWith := map[string]struct{}{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && s.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.shouldScan(path) {
			return nil
		}
		report.FilesScanned++
		usages, err := s.ScanFile(path)
		if err != nil {
			s.log.Warn("skipping unreadable file", "path", path, "error", err)
			return nil
		}
		if len(usages) > 0 {
			filesWith[path] = struct{}{}
		}
		report.Usages = append(report.Usages, usages...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	report.FilesWithUsages = len(filesWith)
	sort.SliceStable(report.Usages, func(i, j int) bool {
		if report.Usages[i].File != report.Usages[j].File {
			return report.Usages[i].File < report.Usages[j].File
		}
		return report.Usages[i].Line < report.Usages[j].Line
	})

	counts := map[string]int{}
	for _, u := range report.Usages {
		report.ByCarrier[u.Carrier]++
		counts[u.Snippet]++
	}
	report.Snippets = make([]SnippetReport, 0, len(counts))
	for snippet, count := range counts {
		report.Snippets = append(report.Snippets, SnippetReport{Snippet: snippet, Count: count})
	}
	sort.Slice(report.Snippets, func(i, j int) bool {
		if report.Snippets[i].Count != report.Snippets[j].Count {
			return report.Snippets[i].Count > report.Snippets[j].Count
		}
		return report.Snippets[i].Snippet < report.Snippets[j].Snippet
	})
	return report, nil
}

// Engine compiles snippets for Check.
type Engine interface {
	Compile(req compiler.Request) (compiler.Result, error)
}

// Check compiles every distinct snippet and records the outcome on
// its SnippetReport. Defects stay in the report; the error return is
// for engine contract violations only.
func (r *Report) Check(engine Engine, language string) error {
	for i := range r.Snippets {
		res, err := engine.Compile(compiler.Request{
			Input:    r.Snippets[i].Snippet,
			Language: language,
		})
		if err != nil {
			return fmt.Errorf("check snippet %q: %w", r.Snippets[i].Snippet, err)
		}
		r.Snippets[i].Checked = true
		r.Snippets[i].OK = res.OK
		r.Snippets[i].Diagnostics = res.Diagnostics
	}
	return nil
}

// DefectCount returns how many checked snippets failed.
func (r *Report) DefectCount() int {
	n := 0
	for _, s := range r.Snippets {
		if s.Checked && !s.OK {
			n++
		}
	}
	return n
}

// lineAt returns the 1-based line number of byte offset in content.
func lineAt(content string, offset int) int {
	return 1 + strings.Count(content[:offset], "\n")
}
