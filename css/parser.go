package css

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Parser turns textual property values into structured values.
type Parser struct {
	log *zap.Logger

	mu       sync.Mutex
	reported map[string]struct{}
}

// NewParser creates a new CSS value parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		log:      log.Named("css-parser"),
		reported: make(map[string]struct{}),
	}
}

// ParseValue parses raw as a value of property. Property names may be given
// in camelCase. ParseValue never fails: input it cannot accept comes back as
// InvalidValue holding the original text.
func (p *Parser) ParseValue(property, raw string) Value {
	return p.parse(Hyphenate(property), raw, true)
}

func (p *Parser) parse(property, raw string, topLevel bool) Value {
	text := strings.TrimSpace(raw)
	custom := IsCustomProperty(property)

	if topLevel {
		kw := strings.ToLower(text)
		if _, wide := cssWideKeywords[kw]; wide {
			return KeywordValue{Value: kw}
		}
	}
	if text == "" {
		if custom && topLevel {
			return UnparsedValue{}
		}
		return InvalidValue{Value: raw}
	}

	if topLevel {
		if err := checkDeclaration(property, text); err != nil {
			p.reportOnce("Declaration rejected", property, text, err)
			return InvalidValue{Value: raw}
		}
	}
	nodes, err := tokenize(text)
	if err != nil {
		p.reportOnce("Unable to tokenize value", property, text, err)
		return InvalidValue{Value: raw}
	}

	if custom {
		if len(nodes) == 1 {
			switch v := parseLiteral(nodes[0], noKeywords).(type) {
			case VarValue, UnitValue, ColorValue:
				return v
			}
		}
		return UnparsedValue{Value: text}
	}

	if len(nodes) == 1 && nodes[0].isFunction("var") {
		if v, ok := parseVarNode(nodes[0]); ok {
			return v
		}
		return InvalidValue{Value: raw}
	}

	g, known := lookupProperty(property)
	if !known {
		if len(nodes) == 1 {
			if v := parseLiteral(nodes[0], anyKeyword); v != nil {
				return v
			}
		}
		return UnparsedValue{Value: text}
	}

	if g.comma && topLevel {
		if len(nodes) == 1 && nodes[0].kind == nodeIdent && g.only.has(nodes[0].lowerName()) {
			return KeywordValue{Value: nodes[0].lowerName()}
		}
		layers := LayersValue{}
		for _, group := range splitComma(nodes) {
			layer := p.parse(property, joinNodes(group), false)
			if _, bad := layer.(InvalidValue); bad {
				return InvalidValue{Value: raw}
			}
			layers.Items = append(layers.Items, layer)
		}
		return layers
	}

	switch g.shape {
	case shapeFontFamily:
		if v, ok := parseFontFamily(nodes); ok {
			return v
		}
		return InvalidValue{Value: raw}
	case shapeShadow:
		if len(nodes) == 1 && nodes[0].isIdent("none") {
			return KeywordValue{Value: "none"}
		}
		maxLengths := 4
		if property == "text-shadow" {
			maxLengths = 3
		}
		if v, ok := parseShadow(nodes, property == "box-shadow", maxLengths); ok {
			return v
		}
		return InvalidValue{Value: raw}
	case shapeTransform, shapeFilter:
		if len(nodes) == 1 && nodes[0].isIdent("none") {
			return KeywordValue{Value: "none"}
		}
		if v, ok := parseFunctionList(nodes, g.functions); ok {
			return v
		}
		if g.shape == shapeTransform {
			return InvalidValue{Value: raw}
		}
		return UnparsedValue{Value: text}
	}

	if err := validateNodes(g, nodes, topLevel); err != nil {
		p.log.Debug("Value does not match property grammar",
			zap.String("property", property), zap.String("value", text), zap.Error(err))
		return InvalidValue{Value: raw}
	}

	allowed := keywordsFor(g, topLevel && len(nodes) == 1)
	if len(nodes) >= 2 && !hasOperator(nodes) && (len(nodes) == 2 || g.tuple) {
		tuple := TupleValue{Items: make([]Value, 0, len(nodes))}
		for _, n := range nodes {
			item := parseLiteral(n, allowed)
			if item == nil {
				item = UnparsedValue{Value: n.text}
			}
			tuple.Items = append(tuple.Items, item)
		}
		return tuple
	}
	if len(nodes) == 1 {
		if v := parseLiteral(nodes[0], allowed); v != nil {
			return v
		}
	}
	return UnparsedValue{Value: text}
}

// parseFontFamily splits a family list by commas. Quoted names are unquoted,
// unquoted names keep their spelling with whitespace collapsed.
func parseFontFamily(nodes []node) (FontFamilyValue, bool) {
	v := FontFamilyValue{}
	for _, group := range splitComma(nodes) {
		switch {
		case len(group) == 0:
			return FontFamilyValue{}, false
		case len(group) == 1 && group[0].kind == nodeString:
			v.Names = append(v.Names, group[0].str)
		default:
			for _, n := range group {
				if n.kind != nodeIdent {
					return FontFamilyValue{}, false
				}
			}
			v.Names = append(v.Names, joinNodes(group))
		}
	}
	return v, true
}

// maxReported bounds the set of remembered diagnostics, it is cleared when
// full and repeated inputs may be logged again afterwards.
const maxReported = 1024

// reportOnce logs a diagnostic once per distinct message and input.
func (p *Parser) reportOnce(msg, property, value string, err error) {
	key := msg + "\x00" + property + "\x00" + value
	p.mu.Lock()
	_, seen := p.reported[key]
	if !seen {
		if len(p.reported) >= maxReported {
			clear(p.reported)
		}
		p.reported[key] = struct{}{}
	}
	p.mu.Unlock()
	if seen {
		return
	}
	p.log.Warn(msg, zap.String("property", property), zap.String("value", value), zap.Error(err))
}
