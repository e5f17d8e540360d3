// Package dsl is the domain-author surface. A domain bundles command
// schemas, language profiles, per-language tokenizer configs, and a
// code generator; New wires them into a handle that parses, renders,
// translates, and compiles commands in any registered language.
package dsl

import (
	"fmt"

	"github.com/mattjoyce/glossa/internal/cache"
	"github.com/mattjoyce/glossa/internal/codegen"
	"github.com/mattjoyce/glossa/internal/compiler"
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/parser"
	"github.com/mattjoyce/glossa/internal/pattern"
	"github.com/mattjoyce/glossa/internal/render"
	"github.com/mattjoyce/glossa/internal/schema"
	"github.com/mattjoyce/glossa/internal/semantic"
	"github.com/mattjoyce/glossa/internal/token"
)

// Domain is everything a domain author supplies.
type Domain struct {
	Name     string
	Commands []schema.Command
	Profiles []schema.Profile
	// Tokenizers carries per-language tokenizer overrides keyed by
	// language code: custom extractors, an IsKeyword hook for scripts
	// without word boundaries, extra keywords. Languages without an
	// entry get the default tokenizer. Keyword lists derived from the
	// profile and role markers are merged in either way.
	Tokenizers map[string]token.Config
	Generator  codegen.Generator
}

// Options tunes the handle.
type Options struct {
	// DefaultLanguage is used when a compile request names none. Empty
	// falls back to the first profile in declaration order.
	DefaultLanguage string
	CacheCapacity   int
}

// Handle is a ready DSL instance. All methods are safe for concurrent
// use; the registry and patterns are immutable after New.
type Handle struct {
	name      string
	reg       *schema.Registry
	patterns  *pattern.Set
	parser    *parser.Parser
	renderer  *render.Renderer
	generator codegen.Generator
	service   *compiler.Service
}

// New validates the domain and builds its handle.
func New(domain Domain, opts Options) (*Handle, error) {
	if domain.Name == "" {
		return nil, fmt.Errorf("dsl: domain name is required")
	}
	if domain.Generator == nil {
		return nil, fmt.Errorf("dsl: domain %q: generator is required", domain.Name)
	}
	if len(domain.Commands) == 0 {
		return nil, fmt.Errorf("dsl: domain %q: at least one command is required", domain.Name)
	}
	if len(domain.Profiles) == 0 {
		return nil, fmt.Errorf("dsl: domain %q: at least one language profile is required", domain.Name)
	}

	reg, err := schema.NewRegistry(domain.Commands, domain.Profiles)
	if err != nil {
		return nil, fmt.Errorf("dsl: domain %q: %w", domain.Name, err)
	}
	patterns, err := pattern.BuildSet(reg)
	if err != nil {
		return nil, fmt.Errorf("dsl: domain %q: %w", domain.Name, err)
	}

	tokenizers := make(map[string]*token.Tokenizer, len(domain.Profiles))
	for _, profile := range domain.Profiles {
		cfg := domain.Tokenizers[profile.Code]
		cfg.Language = profile.Code
		cfg.Keywords = append(cfg.Keywords, keywordsFor(reg, profile)...)
		tokenizers[profile.Code] = token.New(cfg)
	}

	defLang := opts.DefaultLanguage
	if defLang == "" {
		defLang = domain.Profiles[0].Code
	}
	if _, ok := reg.Profile(defLang); !ok {
		return nil, fmt.Errorf("dsl: domain %q: default language %q has no profile", domain.Name, defLang)
	}

	p := parser.New(reg, patterns, tokenizers)
	h := &Handle{
		name:      domain.Name,
		reg:       reg,
		patterns:  patterns,
		parser:    p,
		renderer:  render.New(reg, patterns),
		generator: domain.Generator,
		service: compiler.NewService(p, domain.Generator, compiler.Config{
			DefaultLanguage: defLang,
			CacheCapacity:   opts.CacheCapacity,
		}),
	}
	return h, nil
}

// keywordsFor collects everything the tokenizer must classify as a
// keyword for one language: the profile's terms, aliases, and markers
// plus role-level marker overrides, which the profile cannot see.
func keywordsFor(reg *schema.Registry, profile schema.Profile) []string {
	words := profile.Keywords()
	for _, cmd := range reg.Commands() {
		for _, role := range cmd.Roles {
			if m, ok := role.Markers[profile.Code]; ok && m != "" {
				words = append(words, m)
			}
		}
	}
	return words
}

// Name returns the domain name.
func (h *Handle) Name() string { return h.name }

// Registry exposes the domain's command and profile catalog.
func (h *Handle) Registry() *schema.Registry { return h.reg }

// SupportedLanguages returns the registered language codes, sorted.
func (h *Handle) SupportedLanguages() []string { return h.reg.Languages() }

// DefaultLanguage returns the language assumed when a request names none.
func (h *Handle) DefaultLanguage() string { return h.service.DefaultLanguage() }

// Actions returns the registered canonical actions, sorted.
func (h *Handle) Actions() []string { return h.reg.Actions() }

// Parse tokenizes text in the given language and matches it against
// the domain's patterns.
func (h *Handle) Parse(text, language string) (*semantic.Node, error) {
	return h.parser.Parse(text, language)
}

// Render phrases the node in the given language.
func (h *Handle) Render(node *semantic.Node, language string) (string, error) {
	return h.renderer.Render(node, language)
}

// Generate runs the domain's code generator directly on a node.
func (h *Handle) Generate(node *semantic.Node) (string, []diag.Diagnostic) {
	return h.generator.Generate(node)
}

// Compile routes a request through the compilation service.
func (h *Handle) Compile(req compiler.Request) (compiler.Result, error) {
	return h.service.Compile(req)
}

// Validate accumulates structural defects in explicit or JSON input.
func (h *Handle) Validate(input string) ([]diag.Diagnostic, error) {
	return h.service.Validate(input)
}

// LowConfidenceError reports a parse that matched structurally but
// scored below the caller's threshold.
type LowConfidenceError struct {
	Confidence float64
	Threshold  float64
	Node       *semantic.Node
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("%s: parse confidence %.2f below threshold %.2f",
		diag.CodeLowConfidence, e.Confidence, e.Threshold)
}

// Translate parses text in one language and renders the node in
// another. minConfidence in (0,1] rejects shaky parses; 0 accepts
// everything a parse produces.
func (h *Handle) Translate(text, from, to string, minConfidence float64) (string, error) {
	node, err := h.parser.Parse(text, from)
	if err != nil {
		return "", err
	}
	if node.Confidence < minConfidence {
		return "", &LowConfidenceError{
			Confidence: node.Confidence,
			Threshold:  minConfidence,
			Node:       node,
		}
	}
	return h.renderer.Render(node, to)
}

// SetRecorder installs the compile observer on the service.
func (h *Handle) SetRecorder(r compiler.Recorder) { h.service.SetRecorder(r) }

// CacheStats returns the result cache counters.
func (h *Handle) CacheStats() cache.Stats { return h.service.CacheStats() }

// ClearCache drops all cached compile results.
func (h *Handle) ClearCache() { h.service.ClearCache() }
