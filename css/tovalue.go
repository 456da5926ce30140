package css

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// TransformValue substitutes values while serializing. It is called for
// every value, nested ones included, and returns nil to keep the value as is.
// Typical uses are resolving asset images to URLs and appending font
// fallbacks to font family lists.
type TransformValue func(Value) Value

// ToValue renders v as CSS text. Invalid and unset values render as an empty
// string.
func ToValue(v Value, transform TransformValue) string {
	if v == nil {
		return ""
	}
	if transform != nil {
		if t := transform(v); t != nil {
			v = t
		}
	}
	switch v := v.(type) {
	case UnitValue:
		return formatUnit(v)
	case KeywordValue:
		return v.Value
	case ColorValue:
		var b strings.Builder
		b.WriteString("rgba(")
		b.WriteString(strconv.Itoa(v.R))
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(v.G))
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(v.B))
		b.WriteString(", ")
		b.WriteString(formatNumber(v.Alpha))
		b.WriteByte(')')
		return b.String()
	case ImageValue:
		if v.Hidden || v.URL == "" {
			return "none"
		}
		return `url("` + cssEscapeDoubleQuoted(v.URL) + `")`
	case FontFamilyValue:
		names := make([]string, 0, len(v.Names))
		for _, name := range v.Names {
			names = append(names, quoteFontFamily(name))
		}
		return strings.Join(names, ", ")
	case TupleValue:
		return joinValues(v.Items, " ", transform)
	case LayersValue:
		visible := make([]Value, 0, len(v.Items))
		for _, item := range v.Items {
			if !IsHidden(item) {
				visible = append(visible, item)
			}
		}
		if s := joinValues(visible, ", ", transform); s != "" {
			return s
		}
		return "none"
	case FunctionValue:
		return v.Name + "(" + functionArgs(v.Args, transform) + ")"
	case ShadowValue:
		return ToValue(v.Tuple(), transform)
	case VarValue:
		if v.Fallback == nil {
			return "var(--" + v.Name + ")"
		}
		return "var(--" + v.Name + ", " + ToValue(v.Fallback, transform) + ")"
	case UnparsedValue:
		return v.Value
	}
	return ""
}

// IsHidden reports whether a layer item is switched off by the user.
func IsHidden(v Value) bool {
	switch v := v.(type) {
	case ImageValue:
		return v.Hidden
	case TupleValue:
		return v.Hidden
	case FunctionValue:
		return v.Hidden
	case ShadowValue:
		return v.Hidden
	case UnparsedValue:
		return v.Hidden
	}
	return false
}

func functionArgs(args Value, transform TransformValue) string {
	switch args := args.(type) {
	case LayersValue:
		return joinValues(args.Items, ", ", transform)
	case TupleValue:
		return joinValues(args.Items, " ", transform)
	}
	return ToValue(args, transform)
}

func joinValues(items []Value, sep string, transform TransformValue) string {
	var b strings.Builder
	for _, item := range items {
		s := ToValue(item, transform)
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s)
	}
	return b.String()
}

func formatUnit(v UnitValue) string {
	switch v.Unit {
	case UnitNumber, "":
		return formatNumber(v.Value)
	default:
		return formatNumber(v.Value) + string(v.Unit)
	}
}

func formatNumber(f float64) string {
	if f == 0 {
		// no "-0"
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// quoteFontFamily leaves single identifier family names ("serif", "Arial")
// alone and quotes everything else.
func quoteFontFamily(name string) string {
	_, wide := cssWideKeywords[strings.ToLower(name)]
	if !wide && css.IsIdent([]byte(name)) {
		return name
	}
	return `"` + cssEscapeDoubleQuoted(name) + `"`
}
