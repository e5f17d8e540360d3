package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{"explicit", "[toggle target:#menu]", FormatExplicit},
		{"explicit padded", "  [remove patient:.loading]  ", FormatExplicit},
		{"explicit empty brackets", "[]", FormatExplicit},
		{"json object", `{"action":"toggle"}`, FormatJSON},
		{"json with roles", `{"action":"toggle","roles":{"target":{"type":"selector","value":"#m"}}}`, FormatJSON},
		{"json empty action is natural", `{"action":""}`, FormatNatural},
		{"json unknown field is natural", `{"verb":"toggle"}`, FormatNatural},
		{"malformed json is natural", `{"action": oops`, FormatNatural},
		{"natural text", "toggle #menu", FormatNatural},
		{"empty", "", FormatNatural},
		{"lone open bracket", "[", FormatNatural},
		{"bracket without close", "[toggle target:#menu", FormatNatural},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input  string
		want   Format
		wantOK bool
	}{
		{"natural", FormatNatural, true},
		{"explicit", FormatExplicit, true},
		{"JSON", FormatJSON, true},
		{" json ", FormatJSON, true},
		{"", FormatAuto, true},
		{"yaml", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.input)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
