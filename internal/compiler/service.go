// Package compiler orchestrates the compilation service: input format
// detection, structural validation, parse or adopt, code generation,
// and fingerprint-keyed result caching.
package compiler

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mattjoyce/glossa/internal/cache"
	"github.com/mattjoyce/glossa/internal/codegen"
	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/log"
	"github.com/mattjoyce/glossa/internal/parser"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// Request is one compilation job.
type Request struct {
	// Input carries natural text, explicit syntax, or a JSON semantic
	// object. Format declares which shape; FormatAuto detects it.
	Input  string `json:"input"`
	Format Format `json:"format,omitempty"`
	// Language selects the profile for natural-language parsing.
	// Empty uses the service default.
	Language string `json:"language,omitempty"`
	// Options tune code generation and participate in the result
	// fingerprint.
	Options map[string]string `json:"options,omitempty"`
}

// Result is the compilation service response.
type Result struct {
	OK          bool              `json:"ok"`
	Code        string            `json:"code,omitempty"`
	Semantic    *semantic.Object  `json:"semantic,omitempty"`
	Confidence  float64           `json:"confidence"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Format      Format            `json:"format,omitempty"`
	Cached      bool              `json:"cached"`

	// Node is the runtime form of Semantic for in-process callers.
	Node *semantic.Node `json:"-"`
}

// Record is one compile outcome handed to the recorder hook.
type Record struct {
	Fingerprint string
	Format      Format
	Language    string
	Input       string
	Action      string
	OK          bool
	Cached      bool
	Confidence  float64
	Code        string
	Diagnostics []diag.Diagnostic
	Elapsed     time.Duration
}

// Recorder observes completed compilations. Implementations run
// inline on the compile path and must be cheap and concurrency-safe.
type Recorder interface {
	RecordCompile(rec Record)
}

// Config carries the service knobs.
type Config struct {
	DefaultLanguage string
	CacheCapacity   int
}

// Service drives compilation. Safe for concurrent use; the result
// cache is the only mutable state.
type Service struct {
	parser    *parser.Parser
	generator codegen.Generator
	results   *cache.Cache[Result]
	defLang   string
	recorder  Recorder
	log       *slog.Logger
}

func NewService(p *parser.Parser, gen codegen.Generator, cfg Config) *Service {
	return &Service{
		parser:    p,
		generator: gen,
		results:   cache.New[Result](cfg.CacheCapacity),
		defLang:   cfg.DefaultLanguage,
		log:       log.WithComponent("compiler"),
	}
}

// SetRecorder installs the compile observer. Install before serving;
// the hook is read without locking afterwards.
func (s *Service) SetRecorder(r Recorder) { s.recorder = r }

// DefaultLanguage returns the language assumed when a request names none.
func (s *Service) DefaultLanguage() string { return s.defLang }

// CacheStats returns the result cache counters.
func (s *Service) CacheStats() cache.Stats { return s.results.Stats() }

// ClearCache drops all cached results. Counters survive.
func (s *Service) ClearCache() { s.results.Clear() }

// Compile routes one request through detection, validation or
// parsing, and code generation. Malformed user input lands in
// Result.Diagnostics with OK=false; the error return is reserved for
// caller contract violations such as an unregistered language.
func (s *Service) Compile(req Request) (Result, error) {
	start := time.Now()
	language := req.Language
	if language == "" {
		language = s.defLang
	}

	if strings.TrimSpace(req.Input) == "" {
		res := Result{Diagnostics: []diag.Diagnostic{
			diag.Errorf(diag.CodeNoInput, "no input supplied"),
		}}
		s.finish(req, language, start, &res)
		return res, nil
	}

	format := req.Format
	if format == FormatAuto {
		format = DetectFormat(req.Input)
	}

	node, failed, err := s.resolve(req.Input, format, language)
	if err != nil {
		return Result{}, err
	}
	if failed != nil {
		s.finish(req, language, start, failed)
		return *failed, nil
	}

	fp, err := semantic.Fingerprint(node, req.Options)
	if err != nil {
		return Result{}, fmt.Errorf("fingerprint: %w", err)
	}
	if hit, ok := s.results.Get(fp); ok {
		// Reuse the generated code; confidence and the semantic echo
		// belong to this call's parse, not the one that populated the
		// cache.
		hit.Cached = true
		hit.Format = format
		hit.Confidence = node.Confidence
		hit.Node = node
		hit.Semantic = node.Object()
		s.finish(req, language, start, &hit)
		return hit, nil
	}

	code, gdiags := s.generator.Generate(node)
	res := Result{
		OK:          !diag.HasErrors(gdiags),
		Code:        code,
		Semantic:    node.Object(),
		Confidence:  node.Confidence,
		Diagnostics: gdiags,
		Fingerprint: fp,
		Format:      format,
		Node:        node,
	}
	if res.OK {
		s.results.Put(fp, res)
	}
	s.finish(req, language, start, &res)
	return res, nil
}

// resolve turns input into a semantic node, or into a terminal Result
// when the input itself is defective.
func (s *Service) resolve(input string, format Format, language string) (*semantic.Node, *Result, error) {
	switch format {
	case FormatNatural:
		node, err := s.parser.Parse(input, language)
		if err != nil {
			f, ok := parser.AsFailure(err)
			if !ok {
				return nil, nil, err
			}
			res := &Result{
				Format:      format,
				Diagnostics: []diag.Diagnostic{diag.Errorf(f.Code, "%s", f.Message)},
			}
			if f.Partial != nil {
				res.Semantic = f.Partial.Object()
				res.Node = f.Partial
				res.Confidence = f.Partial.Confidence
			}
			return nil, res, nil
		}
		return node, nil, nil

	case FormatExplicit:
		obj, ds := ParseExplicit(input)
		ds = append(ds, ValidateObject(obj)...)
		if diag.HasErrors(ds) {
			return nil, &Result{Format: format, Diagnostics: ds}, nil
		}
		return s.adopt(obj, format, ds)

	case FormatJSON:
		obj, err := semantic.DecodeObject([]byte(strings.TrimSpace(input)))
		if err != nil {
			res := &Result{
				Format: format,
				Diagnostics: []diag.Diagnostic{
					diag.Errorf(diag.CodeInvalidAction, "input is not a semantic object: %v", err),
				},
			}
			return nil, res, nil
		}
		ds := ValidateObject(obj)
		if diag.HasErrors(ds) {
			return nil, &Result{Format: format, Diagnostics: ds}, nil
		}
		return s.adopt(obj, format, ds)

	default:
		return nil, nil, fmt.Errorf("unknown format %q", format)
	}
}

// adopt converts a validated loose object into a node. Structured
// input is authoritative, so adopted nodes carry full confidence.
func (s *Service) adopt(obj *semantic.Object, format Format, ds []diag.Diagnostic) (*semantic.Node, *Result, error) {
	node, err := obj.Node()
	if err != nil {
		// Validation passed but a value does not fit its declared
		// type, e.g. {"type":"duration","value":"soon"}.
		ds = append(ds, diag.Errorf(diag.CodeInvalidValueType, "%v", err))
		return nil, &Result{Format: format, Diagnostics: ds}, nil
	}
	node.Confidence = 1.0
	return node, nil, nil
}

func (s *Service) finish(req Request, language string, start time.Time, res *Result) {
	if res.Diagnostics == nil {
		res.Diagnostics = []diag.Diagnostic{}
	}
	action := ""
	if res.Node != nil {
		action = res.Node.Action
	}
	elapsed := time.Since(start)
	s.log.Debug("compile",
		"format", string(res.Format),
		"language", language,
		"action", action,
		"ok", res.OK,
		"cached", res.Cached,
		"confidence", res.Confidence,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	if s.recorder != nil {
		s.recorder.RecordCompile(Record{
			Fingerprint: res.Fingerprint,
			Format:      res.Format,
			Language:    language,
			Input:       req.Input,
			Action:      action,
			OK:          res.OK,
			Cached:      res.Cached,
			Confidence:  res.Confidence,
			Code:        res.Code,
			Diagnostics: res.Diagnostics,
			Elapsed:     elapsed,
		})
	}
}
