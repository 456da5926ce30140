package css

// shorthandMergeRule folds longhands of one family into a shorthand.
type shorthandMergeRule struct {
	name string
	fn   func(m *StyleMap)
}

// mergeRules are applied in order, later rules see the results of earlier
// ones.
var mergeRules = []shorthandMergeRule{
	{"border-side", mergeBorderSides},
	{"border", mergeBorder},
	{"box", mergeBoxes},
	{"white-space", mergeWhiteSpace},
	{"text-wrap", mergeTextWrap},
	{"background-position", mergeBackgroundPosition},
}

var sides = [...]string{"top", "right", "bottom", "left"}

// Merge returns a copy of styles with longhands recombined into shorthands
// where this does not change the computed style.
func Merge(styles *StyleMap) *StyleMap {
	m := styles.Clone()
	for _, rule := range mergeRules {
		rule.fn(m)
	}
	return m
}

func mergeable(v Value) bool {
	switch v.(type) {
	case nil, InvalidValue, UnsetValue:
		return false
	}
	return true
}

// lookupAll returns the values of all properties, or false if any one is
// missing or cannot take part in a merge.
func lookupAll(m *StyleMap, properties []string) ([]Value, bool) {
	values := make([]Value, 0, len(properties))
	for _, p := range properties {
		v, ok := m.Get(p)
		if !ok || !mergeable(v) {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// sameText compares values by their serialized form, so var() references
// to different properties never collapse.
func sameText(values []Value) bool {
	first := ToValue(values[0], nil)
	for _, v := range values[1:] {
		if ToValue(v, nil) != first {
			return false
		}
	}
	return true
}

func mergeBorderSides(m *StyleMap) {
	for _, side := range sides {
		longhands := []string{"border-" + side + "-width", "border-" + side + "-style", "border-" + side + "-color"}
		values, ok := lookupAll(m, longhands)
		if !ok {
			continue
		}
		wide := false
		for _, v := range values {
			wide = wide || IsCSSWideKeyword(v)
		}
		if wide {
			continue
		}
		m.replace(longhands, "border-"+side, TupleValue{Items: values})
	}
}

func mergeBorder(m *StyleMap) {
	longhands := make([]string, 0, len(sides))
	for _, side := range sides {
		longhands = append(longhands, "border-"+side)
	}
	if values, ok := lookupAll(m, longhands); ok && sameText(values) {
		m.replace(longhands, "border", values[0])
	}
}

var boxShorthands = []struct {
	shorthand string
	longhand  func(side string) string
}{
	{"margin", func(side string) string { return "margin-" + side }},
	{"padding", func(side string) string { return "padding-" + side }},
	{"border-width", func(side string) string { return "border-" + side + "-width" }},
	{"border-style", func(side string) string { return "border-" + side + "-style" }},
	{"border-color", func(side string) string { return "border-" + side + "-color" }},
}

func mergeBoxes(m *StyleMap) {
	for _, box := range boxShorthands {
		longhands := make([]string, 0, len(sides))
		for _, side := range sides {
			longhands = append(longhands, box.longhand(side))
		}
		if values, ok := lookupAll(m, longhands); ok && sameText(values) {
			m.replace(longhands, box.shorthand, values[0])
		}
	}
}

type whiteSpacePair struct{ collapse, mode string }

var whiteSpaceKeywords = map[whiteSpacePair]string{
	{"collapse", "wrap"}:        "normal",
	{"collapse", "nowrap"}:      "nowrap",
	{"preserve", "nowrap"}:      "pre",
	{"preserve", "wrap"}:        "pre-wrap",
	{"preserve-breaks", "wrap"}: "pre-line",
	{"preserve-spaces", "wrap"}: "normal",
	{"break-spaces", "wrap"}:    "break-spaces",
}

func keywordOf(m *StyleMap, property string) (string, bool) {
	v, ok := m.Get(property)
	if !ok {
		return "", false
	}
	kw, ok := v.(KeywordValue)
	return kw.Value, ok
}

// mergeWhiteSpace replaces text-wrap-mode with the legacy white-space
// keyword. white-space-collapse stays and must come after the shorthand.
func mergeWhiteSpace(m *StyleMap) {
	collapse, ok := keywordOf(m, "white-space-collapse")
	if !ok {
		return
	}
	mode, ok := keywordOf(m, "text-wrap-mode")
	if !ok {
		return
	}
	legacy := whiteSpaceKeywords[whiteSpacePair{collapse, mode}]
	if legacy == "" {
		return
	}
	m.Delete("text-wrap-mode")
	m.Delete("white-space")
	m.insertBefore("white-space-collapse", "white-space", KeywordValue{Value: legacy})
}

func mergeTextWrap(m *StyleMap) {
	if m.Has("white-space-collapse") {
		return
	}
	mode, ok := keywordOf(m, "text-wrap-mode")
	if !ok {
		return
	}
	style, ok := keywordOf(m, "text-wrap-style")
	if !ok {
		return
	}
	var wrap Value
	switch {
	case style == "auto":
		wrap = KeywordValue{Value: mode}
	case mode == "wrap":
		wrap = KeywordValue{Value: style}
	default:
		wrap = TupleValue{Items: []Value{KeywordValue{Value: mode}, KeywordValue{Value: style}}}
	}
	m.replace([]string{"text-wrap-mode", "text-wrap-style"}, "text-wrap", wrap)
	if !m.Has("white-space") {
		m.insertBefore("text-wrap", "white-space", KeywordValue{Value: "normal"})
	}
}

func mergeBackgroundPosition(m *StyleMap) {
	xv, ok := m.Get("background-position-x")
	if !ok {
		return
	}
	yv, ok := m.Get("background-position-y")
	if !ok {
		return
	}
	x, ok := xv.(LayersValue)
	if !ok {
		return
	}
	y, ok := yv.(LayersValue)
	if !ok || len(x.Items) != len(y.Items) || len(x.Items) == 0 {
		return
	}
	merged := LayersValue{Items: make([]Value, 0, len(x.Items))}
	for i := range x.Items {
		merged.Items = append(merged.Items, TupleValue{Items: []Value{x.Items[i], y.Items[i]}})
	}
	m.replace([]string{"background-position-x", "background-position-y"}, "background-position", merged)
}
