package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Extractor recognizes one literal shape at the head of the remaining
// input. Match returns the byte length of the recognized span, or 0
// when the shape is not present. atBoundary reports whether the scan
// position is at input start or immediately after whitespace; the
// digit-leading shapes (duration, dimension) refuse to match mid-token
// so suffixes like "2px" inside a longer word are not misread.
type Extractor struct {
	Name  string
	Match func(rest string, atBoundary bool) int
}

// DefaultExtractors returns the built-in recognizers in priority
// order. Domain-specific extractors belong in front of these so they
// win whenever both could match.
func DefaultExtractors() []Extractor {
	return []Extractor{
		SelectorExtractor(),
		URLPathExtractor(),
		DurationExtractor(),
		DimensionExtractor(),
		QuotedStringExtractor(),
		NumberExtractor(),
		BareWordExtractor(),
	}
}

// SelectorExtractor matches #id and .class shapes.
func SelectorExtractor() Extractor {
	return Extractor{
		Name: "selector",
		Match: func(rest string, _ bool) int {
			if rest == "" || (rest[0] != '#' && rest[0] != '.') {
				return 0
			}
			n := 1
			for n < len(rest) {
				r, size := utf8.DecodeRuneInString(rest[n:])
				if !isSelectorRune(r) {
					break
				}
				n += size
			}
			if n == 1 {
				return 0
			}
			return n
		},
	}
}

// URLPathExtractor matches slash-rooted paths up to the next
// whitespace. A lone slash is not a path.
func URLPathExtractor() Extractor {
	return Extractor{
		Name: "url-path",
		Match: func(rest string, _ bool) int {
			if rest == "" || rest[0] != '/' {
				return 0
			}
			n := 1
			for n < len(rest) {
				r, size := utf8.DecodeRuneInString(rest[n:])
				if unicode.IsSpace(r) {
					break
				}
				n += size
			}
			if n == 1 {
				return 0
			}
			return n
		},
	}
}

var durationUnits = map[string]struct{}{
	"ms": {}, "millisecond": {}, "milliseconds": {},
	"s": {}, "sec": {}, "secs": {}, "second": {}, "seconds": {},
	"m": {}, "min": {}, "mins": {}, "minute": {}, "minutes": {},
	"h": {}, "hour": {}, "hours": {},
}

// DurationExtractor matches "300ms", "2s" and the spaced form
// "2 seconds". Only attempted at a token boundary.
func DurationExtractor() Extractor {
	return Extractor{
		Name: "duration",
		Match: func(rest string, atBoundary bool) int {
			if !atBoundary {
				return 0
			}
			d := leadingDigits(rest)
			if d == 0 {
				return 0
			}
			if g := wordLen(rest[d:]); g > 0 {
				if isDurationUnit(rest[d:d+g]) && endsTokenAt(rest, d+g) {
					return d + g
				}
				return 0
			}
			if d < len(rest) && rest[d] == ' ' {
				w := wordLen(rest[d+1:])
				if w > 0 && isDurationUnit(rest[d+1:d+1+w]) && endsTokenAt(rest, d+1+w) {
					return d + 1 + w
				}
			}
			return 0
		},
	}
}

// DimensionExtractor matches WxH pairs like "375x812". Only attempted
// at a token boundary.
func DimensionExtractor() Extractor {
	return Extractor{
		Name: "dimension",
		Match: func(rest string, atBoundary bool) int {
			if !atBoundary {
				return 0
			}
			w := leadingDigits(rest)
			if w == 0 || w >= len(rest) || (rest[w] != 'x' && rest[w] != 'X') {
				return 0
			}
			h := leadingDigits(rest[w+1:])
			if h == 0 {
				return 0
			}
			n := w + 1 + h
			if !endsTokenAt(rest, n) {
				return 0
			}
			return n
		},
	}
}

// QuotedStringExtractor matches single- or double-quoted spans,
// keeping the quotes in the captured text. An unterminated quote
// claims the remainder of the input.
func QuotedStringExtractor() Extractor {
	return Extractor{
		Name: "quoted",
		Match: func(rest string, _ bool) int {
			if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
				return 0
			}
			quote := rest[0]
			for n := 1; n < len(rest); n++ {
				if rest[n] == '\\' {
					n++
					continue
				}
				if rest[n] == quote {
					return n + 1
				}
			}
			return len(rest)
		},
	}
}

// NumberExtractor matches a whole-token integer or decimal. A digit
// run glued to trailing letters is left for the bare-word extractor.
func NumberExtractor() Extractor {
	return Extractor{
		Name: "number",
		Match: func(rest string, _ bool) int {
			d := leadingDigits(rest)
			if d == 0 {
				return 0
			}
			n := d
			if n < len(rest) && rest[n] == '.' {
				if f := leadingDigits(rest[n+1:]); f > 0 {
					n += 1 + f
				}
			}
			if !endsTokenAt(rest, n) {
				return 0
			}
			return n
		},
	}
}

// BareWordExtractor claims everything up to the next whitespace. It is
// the final fallback and matches any non-empty remainder.
func BareWordExtractor() Extractor {
	return Extractor{
		Name: "bare-word",
		Match: func(rest string, _ bool) int {
			n := 0
			for n < len(rest) {
				r, size := utf8.DecodeRuneInString(rest[n:])
				if unicode.IsSpace(r) {
					break
				}
				n += size
			}
			return n
		},
	}
}

func isSelectorRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDurationUnit(word string) bool {
	_, ok := durationUnits[strings.ToLower(word)]
	return ok
}

// leadingDigits returns the length of the ASCII digit run at the start
// of s.
func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// wordLen returns the length of the letter run at the start of s.
func wordLen(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsLetter(r) {
			break
		}
		n += size
	}
	return n
}

// endsTokenAt reports whether offset n falls on end-of-input or
// whitespace, i.e. the span [0,n) is a complete token.
func endsTokenAt(s string, n int) bool {
	if n >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[n:])
	return unicode.IsSpace(r)
}
