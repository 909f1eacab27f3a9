package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindText
	KindFloat
	KindInt
	KindSlant
	KindWeight
	KindStretch
)

// Value is an immutable theme attribute value. The zero Value is "absent".
type Value struct {
	kind Kind
	text string
	num  float64
	enum uint8
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, num: f} }

// Int returns an integer value.
func Int(i int) Value { return Value{kind: KindInt, num: float64(i)} }

// FromSlant wraps a font slant.
func FromSlant(s Slant) Value { return Value{kind: KindSlant, enum: uint8(s)} }

// FromWeight wraps a font weight.
func FromWeight(w Weight) Value { return Value{kind: KindWeight, enum: uint8(w)} }

// FromStretch wraps a font stretch.
func FromStretch(s Stretch) Value { return Value{kind: KindStretch, enum: uint8(s)} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether v holds no value.
func (v Value) IsZero() bool { return v.kind == KindNone }

// String renders v the way it appears in SVG attributes.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindFloat:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(int64(v.num), 10)
	case KindSlant:
		return Slant(v.enum).String()
	case KindWeight:
		return Weight(v.enum).String()
	case KindStretch:
		return Stretch(v.enum).String()
	}
	return ""
}

// Float converts v to a number. Text values are parsed; enums never convert.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat, KindInt:
		return v.num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		return f, err == nil
	}
	return 0, false
}

// GoString makes test failure output readable.
func (v Value) GoString() string {
	if v.kind == KindNone {
		return "theme.Value{}"
	}
	return fmt.Sprintf("theme.Value{%d:%q}", v.kind, v.String())
}

// Slant is a CSS font-style.
type Slant uint8

const (
	SlantNormal Slant = iota
	SlantItalic
	SlantOblique
)

var slantNames = []string{"normal", "italic", "oblique"}

func (s Slant) String() string { return enumName(slantNames, uint8(s)) }

// ParseSlant parses a CSS font-style keyword, case-insensitively.
func ParseSlant(s string) (Slant, error) { return parseEnum[Slant]("font slant", s, slantNames) }

// Weight is a CSS font-weight.
type Weight uint8

const (
	WeightNormal Weight = iota
	WeightBold
	WeightBolder
	WeightLighter
	Weight100
	Weight200
	Weight300
	Weight400
	Weight500
	Weight600
	Weight700
	Weight800
	Weight900
)

var weightNames = []string{
	"normal", "bold", "bolder", "lighter",
	"100", "200", "300", "400", "500", "600", "700", "800", "900",
}

func (w Weight) String() string { return enumName(weightNames, uint8(w)) }

// ParseWeight parses a CSS font-weight keyword or numeric weight.
func ParseWeight(s string) (Weight, error) { return parseEnum[Weight]("font weight", s, weightNames) }

// Stretch is a CSS font-stretch.
type Stretch uint8

const (
	StretchNormal Stretch = iota
	StretchWider
	StretchNarrower
	StretchUltraCondensed
	StretchExtraCondensed
	StretchCondensed
	StretchSemiCondensed
	StretchSemiExpanded
	StretchExpanded
	StretchExtraExpanded
	StretchUltraExpanded
)

var stretchNames = []string{
	"normal", "wider", "narrower",
	"ultra-condensed", "extra-condensed", "condensed", "semi-condensed",
	"semi-expanded", "expanded", "extra-expanded", "ultra-expanded",
}

func (s Stretch) String() string { return enumName(stretchNames, uint8(s)) }

// ParseStretch parses a CSS font-stretch keyword.
func ParseStretch(s string) (Stretch, error) {
	return parseEnum[Stretch]("font stretch", s, stretchNames)
}

func enumName(names []string, i uint8) string {
	if int(i) < len(names) {
		return names[i]
	}
	return names[0]
}

func parseEnum[T ~uint8](what, s string, names []string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("invalid %s: %q", what, s)
}
