package css

import "strings"

// parseShadow decomposes box-shadow and text-shadow values. Each comma
// separated layer becomes a tuple in canonical order:
//
//	[inset] offset-x offset-y [blur [spread]] [color]
//
// One bad layer makes the whole value unusable.
func parseShadow(nodes []node, allowInset bool, maxLengths int) (LayersValue, bool) {
	layers := LayersValue{}
	for _, group := range splitComma(nodes) {
		tuple, ok := parseShadowLayer(group, allowInset, maxLengths)
		if !ok {
			return LayersValue{}, false
		}
		layers.Items = append(layers.Items, tuple)
	}
	return layers, true
}

func parseShadowLayer(nodes []node, allowInset bool, maxLengths int) (TupleValue, bool) {
	var (
		inset   bool
		color   Value
		lengths []Value
		// lengths must form one contiguous run
		runClosed bool
	)
	for _, n := range nodes {
		if n.isIdent("inset") {
			if !allowInset || inset {
				return TupleValue{}, false
			}
			inset = true
			runClosed = runClosed || len(lengths) > 0
			continue
		}
		if length, ok := shadowLength(n); ok {
			if runClosed {
				return TupleValue{}, false
			}
			lengths = append(lengths, length)
			continue
		}
		c, ok := shadowColor(n)
		if !ok || color != nil {
			return TupleValue{}, false
		}
		color = c
		runClosed = runClosed || len(lengths) > 0
	}
	if len(lengths) < 2 || len(lengths) > maxLengths {
		return TupleValue{}, false
	}

	tuple := TupleValue{}
	if inset {
		tuple.Items = append(tuple.Items, KeywordValue{Value: "inset"})
	}
	tuple.Items = append(tuple.Items, lengths...)
	if color != nil {
		tuple.Items = append(tuple.Items, color)
	}
	return tuple, true
}

func shadowLength(n node) (Value, bool) {
	switch n.kind {
	case nodeNumber, nodeDimension:
		if v := parseLiteral(n, noKeywords); v != nil && matchesAccept(v, acceptLength, nil) {
			return v, true
		}
	case nodeFunction:
		if mathFunctions.has(n.lowerName()) {
			return UnparsedValue{Value: n.text}, true
		}
		if v, ok := parseVarNode(n); ok && !isColorVar(v) {
			return v, true
		}
	}
	return nil, false
}

var shadowColorKeywords = words(kwColor)

func shadowColor(n node) (Value, bool) {
	if v, ok := parseVarNode(n); ok {
		return v, isColorVar(v)
	}
	switch v := parseLiteral(n, shadowColorKeywords.has).(type) {
	case ColorValue, KeywordValue:
		return v, true
	}
	return nil, false
}

// isColorVar guesses whether a var() stands for a color.
func isColorVar(v VarValue) bool {
	if strings.Contains(strings.ToLower(v.Name), "color") {
		return true
	}
	fb, ok := v.Fallback.(UnparsedValue)
	if !ok {
		return false
	}
	nodes, err := tokenize(fb.Value)
	if err != nil || len(nodes) != 1 {
		return false
	}
	_, isColor := shadowColor(nodes[0])
	return isColor
}

// ShadowFromTuple converts one parsed shadow layer into a ShadowValue.
func ShadowFromTuple(t TupleValue) (ShadowValue, bool) {
	s := ShadowValue{Position: ShadowOutset, Hidden: t.Hidden}
	items := t.Items
	if len(items) > 0 {
		if kw, ok := items[0].(KeywordValue); ok && kw.Value == "inset" {
			s.Position = ShadowInset
			items = items[1:]
		}
	}
	if len(items) > 0 {
		last := items[len(items)-1]
		switch v := last.(type) {
		case ColorValue, KeywordValue:
			s.Color = v
			items = items[:len(items)-1]
		case VarValue:
			if isColorVar(v) {
				s.Color = v
				items = items[:len(items)-1]
			}
		}
	}
	if len(items) < 2 || len(items) > 4 {
		return ShadowValue{}, false
	}
	s.OffsetX, s.OffsetY = items[0], items[1]
	if len(items) > 2 {
		s.Blur = items[2]
	}
	if len(items) > 3 {
		s.Spread = items[3]
	}
	return s, true
}

// Tuple converts the shadow back to the canonical layer tuple.
func (s ShadowValue) Tuple() TupleValue {
	t := TupleValue{Hidden: s.Hidden}
	if s.Position == ShadowInset {
		t.Items = append(t.Items, KeywordValue{Value: "inset"})
	}
	t.Items = append(t.Items, s.OffsetX, s.OffsetY)
	if s.Blur != nil {
		t.Items = append(t.Items, s.Blur)
	} else if s.Spread != nil {
		t.Items = append(t.Items, UnitValue{Value: 0, Unit: "px"})
	}
	if s.Spread != nil {
		t.Items = append(t.Items, s.Spread)
	}
	if s.Color != nil {
		t.Items = append(t.Items, s.Color)
	}
	return t
}
