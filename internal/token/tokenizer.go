package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Config parameterizes a Tokenizer for one language.
type Config struct {
	Language string
	// Keywords lists the language's command vocabulary for
	// space-delimited scripts. Membership is checked case-insensitively.
	Keywords []string
	// IsKeyword replaces the Keywords table when set. Agglutinative and
	// non-Latin scripts enumerate whole morphemes through this hook
	// instead of relying on case folding.
	IsKeyword func(string) bool
	// Extractors are tried in order at each scan position. Empty means
	// DefaultExtractors.
	Extractors []Extractor
}

// Tokenizer splits command text for one language. Safe for concurrent
// use once constructed.
type Tokenizer struct {
	language   string
	keywords   map[string]struct{}
	isKeyword  func(string) bool
	extractors []Extractor
}

func New(cfg Config) *Tokenizer {
	t := &Tokenizer{
		language:   cfg.Language,
		keywords:   make(map[string]struct{}, len(cfg.Keywords)),
		isKeyword:  cfg.IsKeyword,
		extractors: cfg.Extractors,
	}
	for _, kw := range cfg.Keywords {
		t.keywords[strings.ToLower(kw)] = struct{}{}
	}
	if len(t.extractors) == 0 {
		t.extractors = DefaultExtractors()
	}
	return t
}

func (t *Tokenizer) Language() string { return t.language }

// Tokenize splits text into classified tokens. It never fails; input
// no extractor recognizes degrades rune by rune instead of erroring.
func (t *Tokenizer) Tokenize(text string) []Token {
	var tokens []Token
	pos := 0
	atBoundary := true
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if unicode.IsSpace(r) {
			pos += size
			atBoundary = true
			continue
		}
		n := t.extract(text[pos:], atBoundary)
		if n == 0 {
			pos += size
			atBoundary = false
			continue
		}
		raw := text[pos : pos+n]
		tokens = append(tokens, Token{Kind: t.classify(raw), Text: raw, Pos: pos})
		pos += n
		atBoundary = false
	}
	return tokens
}

func (t *Tokenizer) extract(rest string, atBoundary bool) int {
	for _, ex := range t.extractors {
		if n := ex.Match(rest, atBoundary); n > 0 {
			return n
		}
	}
	return 0
}

// classify maps captured text to a token kind. The keyword lookup runs
// first so native command terms beat shape-based classification.
func (t *Tokenizer) classify(text string) Kind {
	if t.keyword(text) {
		return Keyword
	}
	switch text[0] {
	case '#', '.':
		return Selector
	case '"', '\'', '/':
		return Literal
	}
	if text[0] >= '0' && text[0] <= '9' {
		return Literal
	}
	return Identifier
}

func (t *Tokenizer) keyword(text string) bool {
	if t.isKeyword != nil {
		return t.isKeyword(text)
	}
	_, ok := t.keywords[strings.ToLower(text)]
	return ok
}
