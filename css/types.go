package css

import (
	"strings"
)

// ValueType names the variant of a Value. The names double as "type" tags in
// the JSON form of values.
type ValueType string

const (
	TypeUnit       ValueType = "unit"
	TypeKeyword    ValueType = "keyword"
	TypeColor      ValueType = "rgb"
	TypeImage      ValueType = "image"
	TypeFontFamily ValueType = "fontFamily"
	TypeTuple      ValueType = "tuple"
	TypeLayers     ValueType = "layers"
	TypeFunction   ValueType = "function"
	TypeShadow     ValueType = "shadow"
	TypeVar        ValueType = "var"
	TypeUnparsed   ValueType = "unparsed"
	TypeInvalid    ValueType = "invalid"
	TypeUnset      ValueType = "unset"
)

// Value is a structured CSS property value. Values are immutable once
// constructed and compared structurally with Equal.
type Value interface {
	Type() ValueType
	isValue()
}

// Unit is a CSS unit as written after a number ("px", "em", "deg"), "%" for
// percentages or "number" for unitless numbers.
type Unit string

const (
	UnitNumber  Unit = "number"
	UnitPercent Unit = "%"
)

// UnitValue is a number with a unit.
type UnitValue struct {
	Value float64
	Unit  Unit
}

// KeywordValue is an identifier like "auto" or "inherit". Value is lowercased.
type KeywordValue struct {
	Value string
}

// ColorValue is an sRGB color, channels 0-255 and alpha 0-1.
type ColorValue struct {
	R, G, B int
	Alpha   float64
}

// ImageValue references an image either by project asset id or by URL.
// Exactly one of Asset and URL is set.
type ImageValue struct {
	Asset  string
	URL    string
	Hidden bool
}

// FontFamilyValue is an ordered font family list with quotes removed.
type FontFamilyValue struct {
	Names []string
}

// TupleValue is a space separated list whose arity is defined by the property.
type TupleValue struct {
	Items  []Value
	Hidden bool
}

// LayersValue is a comma separated list of arbitrary length.
type LayersValue struct {
	Items []Value
}

// FunctionValue is a recognized function call. Args is a TupleValue for space
// separated arguments and a LayersValue for comma separated ones.
type FunctionValue struct {
	Name   string
	Args   Value
	Hidden bool
}

// ShadowPosition tells inner shadows from outer ones.
type ShadowPosition string

const (
	ShadowOutset ShadowPosition = "outset"
	ShadowInset  ShadowPosition = "inset"
)

// ShadowValue is a single box-shadow or text-shadow layer. Blur, Spread and
// Color are nil when omitted.
type ShadowValue struct {
	Position ShadowPosition
	OffsetX  Value
	OffsetY  Value
	Blur     Value
	Spread   Value
	Color    Value
	Hidden   bool
}

// VarValue is a custom property reference. Name is stored without the
// leading "--". Fallback is nil when absent and otherwise a static value.
type VarValue struct {
	Name     string
	Fallback Value
}

// UnparsedValue keeps syntactically plausible text this package does not
// decompose. It is emitted verbatim.
type UnparsedValue struct {
	Value  string
	Hidden bool
}

// InvalidValue keeps rejected input so it can still be shown to the user.
type InvalidValue struct {
	Value string
}

// UnsetValue marks a property without a value.
type UnsetValue struct{}

func (UnitValue) Type() ValueType       { return TypeUnit }
func (KeywordValue) Type() ValueType    { return TypeKeyword }
func (ColorValue) Type() ValueType      { return TypeColor }
func (ImageValue) Type() ValueType      { return TypeImage }
func (FontFamilyValue) Type() ValueType { return TypeFontFamily }
func (TupleValue) Type() ValueType      { return TypeTuple }
func (LayersValue) Type() ValueType     { return TypeLayers }
func (FunctionValue) Type() ValueType   { return TypeFunction }
func (ShadowValue) Type() ValueType     { return TypeShadow }
func (VarValue) Type() ValueType        { return TypeVar }
func (UnparsedValue) Type() ValueType   { return TypeUnparsed }
func (InvalidValue) Type() ValueType    { return TypeInvalid }
func (UnsetValue) Type() ValueType      { return TypeUnset }

func (UnitValue) isValue()       {}
func (KeywordValue) isValue()    {}
func (ColorValue) isValue()      {}
func (ImageValue) isValue()      {}
func (FontFamilyValue) isValue() {}
func (TupleValue) isValue()      {}
func (LayersValue) isValue()     {}
func (FunctionValue) isValue()   {}
func (ShadowValue) isValue()     {}
func (VarValue) isValue()        {}
func (UnparsedValue) isValue()   {}
func (InvalidValue) isValue()    {}
func (UnsetValue) isValue()      {}

// Equal reports whether two values are structurally equal. Nil values are
// equal only to each other.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case UnitValue, KeywordValue, ColorValue, ImageValue, UnparsedValue, InvalidValue, UnsetValue:
		return a == b
	case FontFamilyValue:
		bv, ok := b.(FontFamilyValue)
		if !ok || len(av.Names) != len(bv.Names) {
			return false
		}
		for i := range av.Names {
			if av.Names[i] != bv.Names[i] {
				return false
			}
		}
		return true
	case TupleValue:
		bv, ok := b.(TupleValue)
		return ok && av.Hidden == bv.Hidden && equalList(av.Items, bv.Items)
	case LayersValue:
		bv, ok := b.(LayersValue)
		return ok && equalList(av.Items, bv.Items)
	case FunctionValue:
		bv, ok := b.(FunctionValue)
		return ok && av.Name == bv.Name && av.Hidden == bv.Hidden && Equal(av.Args, bv.Args)
	case ShadowValue:
		bv, ok := b.(ShadowValue)
		return ok && av.Position == bv.Position && av.Hidden == bv.Hidden &&
			Equal(av.OffsetX, bv.OffsetX) && Equal(av.OffsetY, bv.OffsetY) &&
			Equal(av.Blur, bv.Blur) && Equal(av.Spread, bv.Spread) && Equal(av.Color, bv.Color)
	case VarValue:
		bv, ok := b.(VarValue)
		return ok && av.Name == bv.Name && Equal(av.Fallback, bv.Fallback)
	}
	return false
}

func equalList(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsValidStaticValue reports whether v may be used as a var() fallback:
// plain leaves only, no references, no invalid or unset markers.
func IsValidStaticValue(v Value) bool {
	switch v.(type) {
	case UnitValue, KeywordValue, ColorValue, UnparsedValue:
		return true
	}
	return false
}

// ToVarFallback converts a value into something acceptable as var() fallback.
// Values which are not static are rendered to text and kept as unparsed.
func ToVarFallback(v Value, transform TransformValue) Value {
	if v == nil {
		return nil
	}
	if IsValidStaticValue(v) {
		return v
	}
	text := ToValue(v, transform)
	if text == "" {
		return nil
	}
	return UnparsedValue{Value: text}
}

// IsCSSWideKeyword reports whether v is one of initial, inherit, unset,
// revert or revert-layer.
func IsCSSWideKeyword(v Value) bool {
	kw, ok := v.(KeywordValue)
	if !ok {
		return false
	}
	_, wide := cssWideKeywords[kw.Value]
	return wide
}

var cssWideKeywords = map[string]struct{}{
	"initial":      {},
	"inherit":      {},
	"unset":        {},
	"revert":       {},
	"revert-layer": {},
}

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
func cssEscapeDoubleQuoted(s string) string {
	if !strings.ContainsAny(s, `"\`+"\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\a `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
