package css

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

var errNotDeclaration = errors.New("value does not form a single declaration")

// checkDeclaration runs "property: value" through the inline grammar parser
// and makes sure it yields exactly one declaration for property. It rejects
// values which would leak out of the declaration (";", "}", stray blocks).
func checkDeclaration(property, value string) error {
	p := css.NewParser(parse.NewInputString(property+": "+value), true)
	count := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && err != io.EOF {
				return err
			}
			if count != 1 {
				return errNotDeclaration
			}
			return nil
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			count++
			if !strings.EqualFold(string(data), property) {
				return fmt.Errorf("unexpected property %q", data)
			}
		default:
			return fmt.Errorf("unexpected %s in declaration value", gt)
		}
	}
}

// keywordsFor returns the keyword filter for a property. Keywords flagged as
// "only" are recognized when they form the whole value.
func keywordsFor(g propertyGrammar, wholeValue bool) keywordFilter {
	return func(kw string) bool {
		if g.allowsKeyword(kw, wholeValue) {
			return true
		}
		if g.only.has(kw) {
			return false
		}
		if _, wide := cssWideKeywords[kw]; wide {
			return false
		}
		return g.accept&acceptIdent != 0
	}
}

// validateNodes checks one value (or one layer of a repeated value) against
// the property table.
func validateNodes(g propertyGrammar, nodes []node, wholeValue bool) error {
	items := 0
	for _, n := range nodes {
		if n.kind == nodeOperator {
			switch {
			case n.name == "/" && g.slash:
				continue
			case n.name == "," && g.comma && wholeValue:
				continue
			}
			return fmt.Errorf("unexpected %q", n.name)
		}
		items++
		if err := validateNode(g, n, wholeValue && len(nodes) == 1); err != nil {
			return err
		}
	}
	if g.maxItems > 0 && items > g.maxItems {
		return fmt.Errorf("too many values, %d allowed", g.maxItems)
	}
	return nil
}

func validateNode(g propertyGrammar, n node, wholeValue bool) error {
	switch n.kind {
	case nodeIdent:
		kw := n.lowerName()
		if keywordsFor(g, wholeValue)(kw) {
			return nil
		}
		// "none" inside a transition-property layer is a plain identifier
		if g.only.has(kw) && g.accept&acceptIdent != 0 {
			return nil
		}
		if g.accept&acceptColor != 0 {
			if _, ok := parseColorNode(n); ok {
				return nil
			}
		}
		return fmt.Errorf("unexpected keyword %q", n.name)
	case nodeNumber, nodePercentage, nodeDimension:
		v := parseLiteral(n, noKeywords)
		if v == nil || !matchesAccept(v, g.accept, nil) {
			return fmt.Errorf("unexpected value %q", n.text)
		}
	case nodeHash:
		if g.accept&acceptColor == 0 {
			return fmt.Errorf("unexpected color %q", n.text)
		}
		if _, ok := parseColorNode(n); !ok {
			return fmt.Errorf("bad color %q", n.text)
		}
	case nodeString:
		if g.accept&acceptString == 0 {
			return fmt.Errorf("unexpected string %q", n.text)
		}
	case nodeURL:
		if g.accept&acceptImage == 0 {
			return fmt.Errorf("unexpected url %q", n.text)
		}
	case nodeBlock:
		if g.accept&acceptFunction == 0 {
			return fmt.Errorf("unexpected block %q", n.text)
		}
	case nodeFunction:
		return validateFunction(g, n)
	}
	return nil
}

const acceptNumeric = acceptLength | acceptPercentage | acceptNumber | acceptInteger | acceptAngle | acceptTime | acceptResolution | acceptFlex

func validateFunction(g propertyGrammar, n node) error {
	name := n.lowerName()
	switch {
	case name == "var":
		if _, ok := parseVarNode(n); !ok {
			return fmt.Errorf("malformed %q", n.text)
		}
		return nil
	case mathFunctions.has(name):
		if g.accept&acceptNumeric == 0 {
			return fmt.Errorf("unexpected %s()", n.name)
		}
		return nil
	case name == "rgb" || name == "rgba" || name == "hsl" || name == "hsla":
		if g.accept&acceptColor == 0 {
			return fmt.Errorf("unexpected color %q", n.text)
		}
		return nil
	case name == "url" || name == "image-set" || strings.HasSuffix(name, "-gradient"):
		if g.accept&acceptImage == 0 {
			return fmt.Errorf("unexpected image %q", n.text)
		}
		return nil
	}
	if spec, ok := lookupFunction(name); ok && spec.family&g.functions == 0 && g.accept&acceptFunction == 0 {
		return fmt.Errorf("%s() is not allowed here", n.name)
	}
	return nil
}
