package compiler

import (
	"strings"

	"github.com/mattjoyce/glossa/internal/semantic"
)

// Format names one of the three accepted input shapes.
type Format string

const (
	// FormatAuto asks the service to detect the shape.
	FormatAuto     Format = ""
	FormatNatural  Format = "natural"
	FormatExplicit Format = "explicit"
	FormatJSON     Format = "json"
)

// ParseFormat maps a wire string to a Format.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatAuto:
		return FormatAuto, true
	case FormatNatural:
		return FormatNatural, true
	case FormatExplicit:
		return FormatExplicit, true
	case FormatJSON:
		return FormatJSON, true
	}
	return "", false
}

// DetectFormat classifies raw input. It is total: every string,
// including empty and malformed JSON, maps to exactly one of
// explicit, json, or natural.
func DetectFormat(input string) Format {
	t := strings.TrimSpace(input)
	if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") && len(t) >= 2 {
		return FormatExplicit
	}
	if obj, err := semantic.DecodeObject([]byte(t)); err == nil && obj.Action != "" {
		return FormatJSON
	}
	return FormatNatural
}
