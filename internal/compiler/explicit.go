package compiler

import (
	"strings"

	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// ParseExplicit parses the compact "[action role:value ...]" syntax
// into a loose semantic object. Values containing spaces must be
// quoted. Defects this function can represent structurally (empty
// action, empty value) are left for ValidateObject; only pairs it
// cannot represent at all are reported here.
func ParseExplicit(input string) (*semantic.Object, []diag.Diagnostic) {
	t := strings.TrimSpace(input)
	t = strings.TrimPrefix(t, "[")
	t = strings.TrimSuffix(t, "]")

	obj := &semantic.Object{Roles: make(map[string]semantic.ObjectRole)}
	fields := splitQuoted(t)
	if len(fields) == 0 {
		return obj, nil
	}
	obj.Action = fields[0]

	var ds []diag.Diagnostic
	for _, pair := range fields[1:] {
		name, raw, ok := strings.Cut(pair, ":")
		if !ok || name == "" {
			ds = append(ds, diag.Errorf(diag.CodeMissingValue, "malformed pair %q (want role:value)", pair))
			continue
		}
		value := unquote(raw)
		if value == "" && !isQuoted(raw) {
			obj.Roles[name] = semantic.ObjectRole{Type: string(semantic.KindLiteral)}
			continue
		}
		v := value
		obj.Roles[name] = semantic.ObjectRole{Type: inferWireType(value), Value: &v}
	}
	return obj, ds
}

// inferWireType classifies an explicit-syntax value by shape.
func inferWireType(value string) string {
	if value == "" {
		return string(semantic.KindLiteral)
	}
	if value[0] == '#' || value[0] == '.' {
		return string(semantic.KindSelector)
	}
	if _, ok := semantic.DimensionFromText(value); ok {
		return string(semantic.KindDimension)
	}
	if _, ok := semantic.DurationFromText(value); ok {
		return string(semantic.KindDuration)
	}
	return string(semantic.KindLiteral)
}

// splitQuoted splits on whitespace while keeping quoted runs, quotes
// included, as single fields.
func splitQuoted(s string) []string {
	var fields []string
	var cur strings.Builder
	var quote byte
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
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
