package css

import "strings"

// GradientStop is one color stop. Hint is the color interpolation hint
// written between the previous stop and this one.
type GradientStop struct {
	Color    Value
	Position Value
	Hint     Value
}

// LinearGradient is a parsed [repeating-]linear-gradient(). At most one of
// Angle and To is set.
type LinearGradient struct {
	Repeating bool
	Angle     Value
	To        string // side or corner, "right" or "top left"
	Stops     []GradientStop
}

// RadialGradient is a parsed [repeating-]radial-gradient().
type RadialGradient struct {
	Repeating bool
	Shape     string // circle, ellipse or empty
	Size      Value  // extent keyword, a length or a tuple of two
	Position  Value  // tuple of position components after "at"
	Stops     []GradientStop
}

// ConicGradient is a parsed [repeating-]conic-gradient().
type ConicGradient struct {
	Repeating bool
	Angle     Value // after "from"
	Position  Value // tuple of position components after "at"
	Stops     []GradientStop
}

var (
	radialShapes   = words("circle ellipse")
	radialExtents  = words("closest-side closest-corner farthest-side farthest-corner")
	positionWords  = words("left center right top bottom")
	sideWords      = words("left right top bottom")
	stopColorWords = words(kwColor)
)

// ParseLinearGradient parses text holding a single linear gradient. It
// returns nil when the text is not one, letting callers keep it unparsed.
func ParseLinearGradient(text string) *LinearGradient {
	groups, repeating, ok := gradientArgs(text, "linear")
	if !ok {
		return nil
	}
	g := &LinearGradient{Repeating: repeating}
	if first := groups[0]; first[0].isIdent("to") {
		if len(first) < 2 || len(first) > 3 {
			return nil
		}
		var sides []string
		for _, n := range first[1:] {
			if n.kind != nodeIdent || !sideWords.has(n.lowerName()) {
				return nil
			}
			sides = append(sides, n.lowerName())
		}
		if len(sides) == 2 && sameAxis(sides[0], sides[1]) {
			return nil
		}
		g.To = strings.Join(sides, " ")
		groups = groups[1:]
	} else if len(first) == 1 {
		if angle, ok := gradientAngle(first[0], false); ok {
			g.Angle = angle
			groups = groups[1:]
		}
	}
	if g.Stops, ok = parseStops(groups, acceptLengthPercentage); !ok {
		return nil
	}
	return g
}

// ParseRadialGradient parses text holding a single radial gradient.
func ParseRadialGradient(text string) *RadialGradient {
	groups, repeating, ok := gradientArgs(text, "radial")
	if !ok {
		return nil
	}
	g := &RadialGradient{Repeating: repeating}
	if first := groups[0]; isRadialDirective(first) {
		var (
			size []Value
			i    int
		)
		for ; i < len(first) && !first[i].isIdent("at"); i++ {
			n := first[i]
			kw := n.lowerName()
			switch {
			case n.kind == nodeIdent && radialShapes.has(kw):
				if g.Shape != "" {
					return nil
				}
				g.Shape = kw
			case n.kind == nodeIdent && radialExtents.has(kw):
				if len(size) > 0 {
					return nil
				}
				size = append(size, KeywordValue{Value: kw})
			default:
				v, ok := gradientLength(n, acceptLengthPercentage)
				if !ok || len(size) == 2 || len(size) == 1 && isKeyword(size[0]) {
					return nil
				}
				size = append(size, v)
			}
		}
		switch len(size) {
		case 1:
			g.Size = size[0]
		case 2:
			if g.Shape == "circle" {
				return nil
			}
			g.Size = TupleValue{Items: size}
		}
		if i < len(first) {
			if g.Position, ok = gradientPosition(first[i+1:]); !ok {
				return nil
			}
		}
		groups = groups[1:]
	}
	if g.Stops, ok = parseStops(groups, acceptLengthPercentage); !ok {
		return nil
	}
	return g
}

// ParseConicGradient parses text holding a single conic gradient.
func ParseConicGradient(text string) *ConicGradient {
	groups, repeating, ok := gradientArgs(text, "conic")
	if !ok {
		return nil
	}
	g := &ConicGradient{Repeating: repeating}
	first := groups[0]
	switch {
	case first[0].isIdent("from") || first[0].isIdent("at"):
		rest := first
		if rest[0].isIdent("from") {
			if len(rest) < 2 {
				return nil
			}
			if g.Angle, ok = gradientAngle(rest[1], true); !ok {
				return nil
			}
			rest = rest[2:]
		}
		if len(rest) > 0 {
			if !rest[0].isIdent("at") {
				return nil
			}
			if g.Position, ok = gradientPosition(rest[1:]); !ok {
				return nil
			}
		}
		groups = groups[1:]
	case len(first) == 1:
		// a lone var() standing for the starting angle
		if v, ok := parseVarNode(first[0]); ok && isAngleVar(v) {
			g.Angle = v
			groups = groups[1:]
		}
	}
	if g.Stops, ok = parseStops(groups, acceptAngle|acceptPercentage); !ok {
		return nil
	}
	return g
}

// Format renders the gradient, passing nested values through transform.
func (g *LinearGradient) Format(transform TransformValue) string {
	var parts []string
	switch {
	case g.Angle != nil:
		parts = append(parts, ToValue(g.Angle, transform))
	case g.To != "":
		parts = append(parts, "to "+g.To)
	}
	parts = append(parts, formatStops(g.Stops, transform)...)
	return gradientName("linear", g.Repeating) + "(" + strings.Join(parts, ", ") + ")"
}

func (g *LinearGradient) String() string { return g.Format(nil) }

// Format renders the gradient, passing nested values through transform.
func (g *RadialGradient) Format(transform TransformValue) string {
	var directive []string
	if g.Shape != "" {
		directive = append(directive, g.Shape)
	}
	if g.Size != nil {
		directive = append(directive, ToValue(g.Size, transform))
	}
	if g.Position != nil {
		directive = append(directive, "at", ToValue(g.Position, transform))
	}
	var parts []string
	if len(directive) > 0 {
		parts = append(parts, strings.Join(directive, " "))
	}
	parts = append(parts, formatStops(g.Stops, transform)...)
	return gradientName("radial", g.Repeating) + "(" + strings.Join(parts, ", ") + ")"
}

func (g *RadialGradient) String() string { return g.Format(nil) }

// Format renders the gradient, passing nested values through transform.
func (g *ConicGradient) Format(transform TransformValue) string {
	var directive []string
	if g.Angle != nil {
		directive = append(directive, "from", ToValue(g.Angle, transform))
	}
	if g.Position != nil {
		directive = append(directive, "at", ToValue(g.Position, transform))
	}
	var parts []string
	if len(directive) > 0 {
		parts = append(parts, strings.Join(directive, " "))
	}
	parts = append(parts, formatStops(g.Stops, transform)...)
	return gradientName("conic", g.Repeating) + "(" + strings.Join(parts, ", ") + ")"
}

func (g *ConicGradient) String() string { return g.Format(nil) }

func gradientName(kind string, repeating bool) string {
	if repeating {
		return "repeating-" + kind + "-gradient"
	}
	return kind + "-gradient"
}

// gradientArgs tokenizes text and returns the comma groups of the gradient
// function arguments.
func gradientArgs(text, kind string) ([][]node, bool, bool) {
	nodes, err := tokenize(strings.TrimSpace(text))
	if err != nil || len(nodes) != 1 || nodes[0].kind != nodeFunction {
		return nil, false, false
	}
	name := nodes[0].lowerName()
	repeating := strings.HasPrefix(name, "repeating-")
	if strings.TrimPrefix(name, "repeating-") != kind+"-gradient" || len(nodes[0].args) == 0 {
		return nil, false, false
	}
	groups := splitComma(nodes[0].args)
	for _, group := range groups {
		if len(group) == 0 {
			return nil, false, false
		}
	}
	return groups, repeating, true
}

func parseStops(groups [][]node, positions accept) ([]GradientStop, bool) {
	var (
		stops []GradientStop
		hint  Value
	)
	for _, group := range groups {
		switch len(group) {
		case 1:
			if pos, ok := loneHint(group[0], positions); ok {
				if hint != nil || len(stops) == 0 {
					return nil, false
				}
				hint = pos
				continue
			}
			color, ok := stopColor(group[0])
			if !ok {
				return nil, false
			}
			stops = append(stops, GradientStop{Color: color, Hint: hint})
		case 2, 3:
			color, ok := stopColor(group[0])
			if !ok {
				return nil, false
			}
			for i, n := range group[1:] {
				pos, ok := gradientLength(n, positions)
				if !ok {
					return nil, false
				}
				stop := GradientStop{Color: color, Position: pos}
				if i == 0 {
					stop.Hint = hint
				}
				stops = append(stops, stop)
			}
		default:
			return nil, false
		}
		hint = nil
	}
	if hint != nil || len(stops) == 0 {
		return nil, false
	}
	return stops, true
}

func formatStops(stops []GradientStop, transform TransformValue) []string {
	parts := make([]string, 0, len(stops))
	for _, stop := range stops {
		if stop.Hint != nil {
			parts = append(parts, ToValue(stop.Hint, transform))
		}
		s := ToValue(stop.Color, transform)
		if stop.Position != nil {
			s += " " + ToValue(stop.Position, transform)
		}
		parts = append(parts, s)
	}
	return parts
}

// loneHint reports whether a single node group is an interpolation hint.
// A lone var() is taken for a color unless it looks like an angle in a
// gradient positioned by angles.
func loneHint(n node, positions accept) (Value, bool) {
	if v, ok := parseVarNode(n); ok {
		if positions&acceptAngle != 0 && isAngleVar(v) {
			return v, true
		}
		return nil, false
	}
	return gradientLength(n, positions)
}

func stopColor(n node) (Value, bool) {
	if v, ok := parseVarNode(n); ok {
		return v, true
	}
	switch v := parseLiteral(n, stopColorWords.has).(type) {
	case ColorValue, KeywordValue:
		return v, true
	}
	// color-mix(), light-dark() and friends stay as written
	if n.kind == nodeFunction && !mathFunctions.has(n.lowerName()) {
		if _, known := lookupFunction(n.name); !known {
			return UnparsedValue{Value: n.text}, true
		}
	}
	return nil, false
}

func gradientLength(n node, a accept) (Value, bool) {
	switch n.kind {
	case nodeNumber, nodeDimension, nodePercentage:
		if v := parseLiteral(n, noKeywords); v != nil && matchesAccept(v, a, nil) {
			return v, true
		}
	case nodeFunction:
		if mathFunctions.has(n.lowerName()) {
			return UnparsedValue{Value: n.text}, true
		}
		if v, ok := parseVarNode(n); ok {
			return v, true
		}
	}
	return nil, false
}

// gradientAngle parses an angle slot. After "from" any var() is an angle,
// in a leading group it has to look like one.
func gradientAngle(n node, explicit bool) (Value, bool) {
	if v, ok := parseVarNode(n); ok {
		return v, explicit || isAngleVar(v)
	}
	switch n.kind {
	case nodeNumber, nodeDimension:
		if v := parseLiteral(n, noKeywords); v != nil && isAngleValue(v) {
			return v, true
		}
	case nodeFunction:
		if mathFunctions.has(n.lowerName()) {
			return UnparsedValue{Value: n.text}, true
		}
	}
	return nil, false
}

func gradientPosition(nodes []node) (Value, bool) {
	if len(nodes) == 0 || len(nodes) > 4 {
		return nil, false
	}
	t := TupleValue{Items: make([]Value, 0, len(nodes))}
	for _, n := range nodes {
		if n.kind == nodeIdent && positionWords.has(n.lowerName()) {
			t.Items = append(t.Items, KeywordValue{Value: n.lowerName()})
			continue
		}
		v, ok := gradientLength(n, acceptLengthPercentage)
		if !ok {
			return nil, false
		}
		t.Items = append(t.Items, v)
	}
	return t, true
}

func isRadialDirective(group []node) bool {
	for _, n := range group {
		if n.kind != nodeIdent {
			continue
		}
		if kw := n.lowerName(); kw == "at" || radialShapes.has(kw) || radialExtents.has(kw) {
			return true
		}
	}
	_, isLength := gradientLength(group[0], acceptLengthPercentage)
	return isLength && group[0].kind != nodeFunction
}

// isAngleVar guesses whether a var() stands for an angle or direction.
func isAngleVar(v VarValue) bool {
	name := strings.ToLower(v.Name)
	if strings.Contains(name, "angle") || strings.Contains(name, "direction") {
		return true
	}
	fb, ok := v.Fallback.(UnparsedValue)
	if !ok {
		return false
	}
	nodes, err := tokenize(fb.Value)
	if err != nil || len(nodes) == 0 {
		return false
	}
	if nodes[0].isIdent("to") {
		return true
	}
	if len(nodes) != 1 || nodes[0].kind != nodeDimension {
		return false
	}
	return classifyUnit(nodes[0].unit) == unitAngle
}

func sameAxis(a, b string) bool {
	horizontal := func(s string) bool { return s == "left" || s == "right" }
	return horizontal(a) == horizontal(b)
}

func isKeyword(v Value) bool {
	_, ok := v.(KeywordValue)
	return ok
}
