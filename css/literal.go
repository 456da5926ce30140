package css

import (
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// keywordFilter decides which identifiers are keywords in the current context.
type keywordFilter func(kw string) bool

func anyKeyword(string) bool { return true }

func noKeywords(string) bool { return false }

// parseLiteral maps a single node to a leaf value. It returns nil for nodes
// it does not recognize and leaves the fallback to the caller.
func parseLiteral(n node, allowed keywordFilter) Value {
	if allowed == nil {
		allowed = noKeywords
	}
	switch n.kind {
	case nodeNumber:
		return UnitValue{Value: n.num, Unit: UnitNumber}
	case nodePercentage:
		return UnitValue{Value: n.num, Unit: UnitPercent}
	case nodeDimension:
		if classifyUnit(n.unit) == unitUnknown {
			return nil
		}
		return UnitValue{Value: n.num, Unit: Unit(n.unit)}
	case nodeIdent:
		kw := n.lowerName()
		if allowed(kw) {
			return KeywordValue{Value: kw}
		}
		if c, ok := parseColorNode(n); ok {
			return c
		}
	case nodeHash:
		if c, ok := parseColorNode(n); ok {
			return c
		}
	case nodeURL:
		return ImageValue{URL: n.str}
	case nodeFunction:
		return parseFunctionLiteral(n)
	}
	return nil
}

func parseFunctionLiteral(n node) Value {
	switch name := n.lowerName(); name {
	case "url":
		if len(n.args) == 1 && n.args[0].kind == nodeString {
			return ImageValue{URL: n.args[0].str}
		}
		return nil
	case "var":
		if v, ok := parseVarNode(n); ok {
			return v
		}
		return nil
	case "rgb", "rgba", "hsl", "hsla":
		if c, ok := parseColorNode(n); ok {
			return c
		}
		return nil
	}
	if fn, ok := parseFunctionNode(n); ok {
		return fn
	}
	return nil
}

// parseVarNode handles var(--name[, fallback]). The fallback is everything
// after the first comma, re-serialized and kept unparsed.
func parseVarNode(n node) (VarValue, bool) {
	if !n.isFunction("var") || len(n.args) == 0 {
		return VarValue{}, false
	}
	name := n.args[0]
	if name.kind != nodeIdent || !strings.HasPrefix(name.name, "--") || len(name.name) == 2 {
		return VarValue{}, false
	}
	v := VarValue{Name: strings.TrimPrefix(name.name, "--")}
	if len(n.args) > 1 {
		if !n.args[1].isOperator(",") {
			return VarValue{}, false
		}
		if fallback := strings.TrimSpace(joinNodes(n.args[2:])); fallback != "" {
			v.Fallback = UnparsedValue{Value: fallback}
		}
	}
	return v, true
}

// parseFunctionNode parses functions from the static function table.
func parseFunctionNode(n node) (FunctionValue, bool) {
	spec, ok := lookupFunction(n.name)
	if !ok || n.kind != nodeFunction {
		return FunctionValue{}, false
	}
	args, ok := parseFunctionArgs(n.args, spec)
	if !ok {
		return FunctionValue{}, false
	}
	return FunctionValue{Name: n.name, Args: args}, true
}

func parseFunctionArgs(args []node, spec functionSpec) (Value, bool) {
	var items []Value
	switch spec.grouping {
	case groupSpace:
		if hasOperator(args) {
			return nil, false
		}
		for _, arg := range args {
			v := parseArgument(arg, spec.keywords)
			if v == nil {
				return nil, false
			}
			items = append(items, v)
		}
		if !spec.validArgs(items) {
			return nil, false
		}
		return TupleValue{Items: items}, true
	default:
		if len(args) > 0 {
			for _, group := range splitComma(args) {
				var v Value
				switch {
				case len(group) == 1:
					v = parseArgument(group[0], spec.keywords)
				case len(group) > 1 && spec.maxArgs < 0 && !hasOperator(group):
					tuple := TupleValue{}
					for _, arg := range group {
						if item := parseArgument(arg, spec.keywords); item != nil {
							tuple.Items = append(tuple.Items, item)
						} else {
							return nil, false
						}
					}
					v = tuple
				}
				if v == nil {
					return nil, false
				}
				items = append(items, v)
			}
		}
		if !spec.validArgs(items) {
			return nil, false
		}
		if items == nil {
			items = []Value{}
		}
		return LayersValue{Items: items}, true
	}
}

func parseArgument(n node, keywords keywordSet) Value {
	if n.kind == nodeFunction && mathFunctions.has(n.lowerName()) {
		return UnparsedValue{Value: n.text}
	}
	return parseLiteral(n, keywords.has)
}

// parseColorNode resolves hex colors, named colors and rgb()/hsl() calls.
func parseColorNode(n node) (ColorValue, bool) {
	var (
		text      string
		roundHalf bool
	)
	switch n.kind {
	case nodeHash:
		switch len(n.name) {
		case 3, 4, 6, 8:
		default:
			return ColorValue{}, false
		}
		if !isHex(n.name) {
			return ColorValue{}, false
		}
		text, roundHalf = "#"+n.name, true
	case nodeIdent:
		name := n.lowerName()
		// csscolorparser accepts bare hex digits, identifiers are never hex colors
		if name == "currentcolor" || isHex(name) {
			return ColorValue{}, false
		}
		text = name
	case nodeFunction:
		for _, arg := range n.args {
			if arg.kind == nodeFunction || arg.kind == nodeIdent && arg.lowerName() != "none" {
				return ColorValue{}, false
			}
		}
		text = n.text
	default:
		return ColorValue{}, false
	}
	c, err := csscolorparser.Parse(text)
	if err != nil {
		return ColorValue{}, false
	}
	alpha := c.A
	if roundHalf {
		alpha = math.Round(alpha*100) / 100
	}
	return ColorValue{
		R:     channel(c.R),
		G:     channel(c.G),
		B:     channel(c.B),
		Alpha: alpha,
	}, true
}

func channel(f float64) int {
	v := int(math.Round(f * 255))
	return min(max(v, 0), 255)
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
