package semantic

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ValueKind discriminates the closed set of role value shapes.
type ValueKind string

const (
	KindSelector   ValueKind = "selector"
	KindLiteral    ValueKind = "literal"
	KindExpression ValueKind = "expression"
	KindDuration   ValueKind = "duration"
	KindDimension  ValueKind = "dimension"
)

// ParseValueKind maps a wire type string to a ValueKind.
func ParseValueKind(s string) (ValueKind, bool) {
	switch ValueKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSelector:
		return KindSelector, true
	case KindLiteral:
		return KindLiteral, true
	case KindExpression:
		return KindExpression, true
	case KindDuration:
		return KindDuration, true
	case KindDimension:
		return KindDimension, true
	}
	return "", false
}

// RoleValue is a closed tagged union over the value shapes a role can hold.
// Construct via Selector, Literal, Expression, Duration, or Dimension;
// consumers switch on Kind and read the matching accessor.
type RoleValue struct {
	kind ValueKind
	text string
	ms   int64
	w, h int
}

// Selector names a DOM-style target (#id or .class).
func Selector(text string) RoleValue {
	return RoleValue{kind: KindSelector, text: text}
}

// Literal holds plain text: quoted strings, numbers, URLs, bare words.
func Literal(text string) RoleValue {
	return RoleValue{kind: KindLiteral, text: text}
}

// Expression holds an uninterpreted expression consumed verbatim by codegen.
func Expression(text string) RoleValue {
	return RoleValue{kind: KindExpression, text: text}
}

// Duration holds a time span canonicalized to milliseconds.
func Duration(ms int64) RoleValue {
	return RoleValue{kind: KindDuration, ms: ms}
}

// Dimension holds a width x height pair.
func Dimension(w, h int) RoleValue {
	return RoleValue{kind: KindDimension, w: w, h: h}
}

func (v RoleValue) Kind() ValueKind { return v.kind }

// Text returns the canonical textual form of the value. For selector,
// literal and expression kinds this is the stored text; duration renders as
// "<n>ms" and dimension as "<w>x<h>".
func (v RoleValue) Text() string {
	switch v.kind {
	case KindDuration:
		return strconv.FormatInt(v.ms, 10) + "ms"
	case KindDimension:
		return strconv.Itoa(v.w) + "x" + strconv.Itoa(v.h)
	default:
		return v.text
	}
}

// Millis returns the duration in milliseconds. Zero for other kinds.
func (v RoleValue) Millis() int64 { return v.ms }

// Size returns the width and height. Zeroes for other kinds.
func (v RoleValue) Size() (w, h int) { return v.w, v.h }

// Equal reports structural equality: same kind and same payload.
func (v RoleValue) Equal(o RoleValue) bool {
	return v == o
}

func (v RoleValue) String() string {
	return fmt.Sprintf("%s(%s)", v.kind, v.Text())
}

// ValueFromWire rebuilds a RoleValue from its wire (kind, text) pair.
// Duration accepts "<n>ms", a bare millisecond integer, or any
// time.ParseDuration string; dimension expects "<w>x<h>".
func ValueFromWire(kind ValueKind, text string) (RoleValue, error) {
	switch kind {
	case KindSelector:
		return Selector(text), nil
	case KindLiteral:
		return Literal(text), nil
	case KindExpression:
		return Expression(text), nil
	case KindDuration:
		ms, err := parseDurationText(text)
		if err != nil {
			return RoleValue{}, err
		}
		return Duration(ms), nil
	case KindDimension:
		w, h, err := parseDimensionText(text)
		if err != nil {
			return RoleValue{}, err
		}
		return Dimension(w, h), nil
	}
	return RoleValue{}, fmt.Errorf("unknown value kind %q", kind)
}

// DurationFromText recognizes duration-shaped text: "300ms", "2s",
// "1.5s", "2 seconds", "2seconds". Bare numbers carry no unit and are
// not durations.
func DurationFromText(text string) (RoleValue, bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return RoleValue{}, false
	}
	if ms, ok := wordDuration(t); ok {
		return Duration(ms), true
	}
	if _, err := strconv.ParseFloat(t, 64); err == nil {
		return RoleValue{}, false
	}
	d, err := time.ParseDuration(t)
	if err != nil {
		return RoleValue{}, false
	}
	return Duration(d.Milliseconds()), true
}

// DimensionFromText recognizes "<w>x<h>" text like "375x812".
func DimensionFromText(text string) (RoleValue, bool) {
	w, h, err := parseDimensionText(text)
	if err != nil {
		return RoleValue{}, false
	}
	return Dimension(w, h), true
}

var durationScale = map[string]float64{
	"ms": 1, "millisecond": 1, "milliseconds": 1,
	"s": 1000, "sec": 1000, "secs": 1000, "second": 1000, "seconds": 1000,
	"m": 60000, "min": 60000, "mins": 60000, "minute": 60000, "minutes": 60000,
	"h": 3600000, "hour": 3600000, "hours": 3600000,
}

// wordDuration handles "<n> <unit>" and "<n><unit>" forms where unit
// is a word from durationScale.
func wordDuration(t string) (int64, bool) {
	i := 0
	for i < len(t) && (t[i] >= '0' && t[i] <= '9' || t[i] == '.') {
		i++
	}
	if i == 0 {
		return 0, false
	}
	num, err := strconv.ParseFloat(t[:i], 64)
	if err != nil {
		return 0, false
	}
	scale, ok := durationScale[strings.ToLower(strings.TrimSpace(t[i:]))]
	if !ok {
		return 0, false
	}
	return int64(math.Round(num * scale)), true
}

func parseDurationText(text string) (int64, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if v, ok := DurationFromText(t); ok {
		return v.ms, nil
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return n, nil
	}
	return 0, fmt.Errorf("invalid duration %q", text)
}

func parseDimensionText(text string) (int, int, error) {
	t := strings.TrimSpace(text)
	i := strings.IndexAny(t, "xX")
	if i < 0 {
		return 0, 0, fmt.Errorf("invalid dimension %q (want <w>x<h>)", text)
	}
	w, err := strconv.Atoi(t[:i])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid dimension width %q", t[:i])
	}
	h, err := strconv.Atoi(t[i+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid dimension height %q", t[i+1:])
	}
	return w, h, nil
}
