// Package parser turns natural-language command text into semantic
// nodes by walking the precomputed pattern for the identified action.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/pattern"
	"github.com/mattjoyce/glossa/internal/schema"
	"github.com/mattjoyce/glossa/internal/semantic"
	"github.com/mattjoyce/glossa/internal/token"
)

// Parser matches tokenized input against registered command patterns.
// Safe for concurrent use: all fields are read-only after New.
type Parser struct {
	reg        *schema.Registry
	patterns   *pattern.Set
	tokenizers map[string]*token.Tokenizer
}

// New binds a registry, its pattern set, and one tokenizer per
// supported language.
func New(reg *schema.Registry, patterns *pattern.Set, tokenizers map[string]*token.Tokenizer) *Parser {
	return &Parser{reg: reg, patterns: patterns, tokenizers: tokenizers}
}

// Parse analyzes text in the given language and returns a semantic
// node with a confidence score. Failed parses return a *Failure whose
// Partial field carries whatever the walk recovered.
func (p *Parser) Parse(text, language string) (*semantic.Node, error) {
	prof, ok := p.reg.Profile(language)
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", language)
	}
	tok, ok := p.tokenizers[language]
	if !ok {
		return nil, fmt.Errorf("no tokenizer for language %q", language)
	}

	toks := tok.Tokenize(text)
	if len(toks) == 0 {
		return nil, &Failure{Code: diag.CodeNoActionMatch, Message: "empty input"}
	}

	// The action sits at the position the word order dictates: the
	// final token for SOV, the initial token otherwise.
	actionIdx := 0
	if prof.Order == schema.SOV {
		actionIdx = len(toks) - 1
	}
	action, ok := p.reg.ActionForWord(toks[actionIdx].Text, language)
	if !ok {
		return nil, &Failure{
			Code:    diag.CodeNoActionMatch,
			Message: fmt.Sprintf("no action matches %q in language %q", toks[actionIdx].Text, language),
		}
	}
	cmd, _ := p.reg.Command(action)
	pat, ok := p.patterns.Lookup(action, language)
	if !ok {
		return nil, fmt.Errorf("no pattern for %s/%s", action, language)
	}

	rest := make([]token.Token, 0, len(toks)-1)
	rest = append(rest, toks[:actionIdx]...)
	rest = append(rest, toks[actionIdx+1:]...)
	return p.walk(cmd, pat, rest, len(toks))
}

// walk fills node roles by advancing through pattern slots and tokens
// in lockstep. total is the full token count including the action
// token, used for confidence coverage.
func (p *Parser) walk(cmd schema.Command, pat pattern.Pattern, toks []token.Token, total int) (*semantic.Node, error) {
	node := semantic.NewNode(pat.Action)
	t := 0
	used := 1 // the action token
	for i, slot := range pat.Slots {
		switch slot.Kind {
		case pattern.MarkerSlot:
			// An absent marker leaves its role unfilled; the walk
			// continues so later roles can still match.
			if t < len(toks) && strings.EqualFold(toks[t].Text, slot.Text) {
				t++
				used++
			}
		case pattern.RoleSlot:
			span := takeSpan(pat, i, toks, t)
			if len(span) == 0 {
				continue
			}
			value := inferValue(span, slot.Role)
			if !slot.Role.Accepts(value.Kind()) {
				node.Confidence = score(cmd, node, used, total)
				return nil, &Failure{
					Code:    diag.CodeRoleTypeMismatch,
					Message: fmt.Sprintf("role %q does not accept %s values", slot.Role.Name, value.Kind()),
					Partial: node,
				}
			}
			node.SetRole(slot.Role.Name, value)
			t += len(span)
			used += len(span)
		}
	}

	node.Confidence = score(cmd, node, used, total)
	var missing []string
	for _, name := range cmd.RequiredRoles() {
		if !node.HasRole(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &Failure{
			Code:    diag.CodeMissingRequiredRole,
			Message: fmt.Sprintf("missing required role(s): %s", strings.Join(missing, ", ")),
			Partial: node,
		}
	}
	return node, nil
}

// takeSpan selects the tokens a role slot consumes: everything up to
// the bounding marker when the next slot is a marker present in the
// remaining input, else the whole remainder for a greedy role, else a
// single token.
func takeSpan(pat pattern.Pattern, i int, toks []token.Token, t int) []token.Token {
	if t >= len(toks) {
		return nil
	}
	if i+1 < len(pat.Slots) && pat.Slots[i+1].Kind == pattern.MarkerSlot {
		bound := pat.Slots[i+1].Text
		for k := t; k < len(toks); k++ {
			if strings.EqualFold(toks[k].Text, bound) {
				return toks[t:k]
			}
		}
	}
	if pat.Slots[i].Role.Greedy {
		return toks[t:]
	}
	return toks[t : t+1]
}

// score computes the confidence for a (possibly partial) node: the
// required-role fill ratio scaled by token coverage. 1.0 exactly when
// every required role is filled and no tokens were left over.
func score(cmd schema.Command, node *semantic.Node, used, total int) float64 {
	req := cmd.RequiredRoles()
	filled := 0
	for _, name := range req {
		if node.HasRole(name) {
			filled++
		}
	}
	base := 1.0
	if len(req) > 0 {
		base = float64(filled) / float64(len(req))
	}
	coverage := 1.0
	if total > 0 {
		coverage = float64(used) / float64(total)
	}
	return base * coverage
}

// inferValue builds a role value from a captured token span. Shape
// wins first (dimension, duration), then token classification, with a
// role-aware fallback so duration-only roles accept bare numbers.
func inferValue(span []token.Token, role schema.Role) semantic.RoleValue {
	if len(span) > 1 {
		parts := make([]string, len(span))
		for i, tok := range span {
			parts[i] = tok.Text
		}
		return semantic.Literal(strings.Join(parts, " "))
	}

	tok := span[0]
	switch tok.Kind {
	case token.Selector:
		return semantic.Selector(tok.Text)
	case token.Literal:
		if v, ok := semantic.DimensionFromText(tok.Text); ok {
			return v
		}
		if v, ok := semantic.DurationFromText(tok.Text); ok {
			return v
		}
		if isQuoted(tok.Text) {
			return semantic.Literal(unquote(tok.Text))
		}
		if ms, ok := bareNumber(tok.Text); ok &&
			role.Accepts(semantic.KindDuration) && !role.Accepts(semantic.KindLiteral) {
			return semantic.Duration(ms)
		}
		return semantic.Literal(tok.Text)
	default:
		return semantic.Literal(tok.Text)
	}
}

func isQuoted(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'')
}

func unquote(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func bareNumber(s string) (int64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(math.Round(f)), true
}
