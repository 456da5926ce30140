package css

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// nodeKind is the small grammar vocabulary value parsers work with. Anything
// the tokenizer produces is mapped onto it so parsers never see lexer tokens.
type nodeKind int

const (
	nodeNumber nodeKind = iota
	nodeDimension
	nodePercentage
	nodeIdent
	nodeFunction
	nodeOperator
	nodeString
	nodeURL
	nodeHash
	nodeBlock
)

// node is one component value. Functions and blocks carry their children in
// args, commas and slashes included as operator nodes.
type node struct {
	kind nodeKind
	text string  // verbatim source
	name string  // ident, function name, hash without '#', operator, block opener
	num  float64 // number, dimension, percentage
	unit string  // dimension unit, lowercased
	str  string  // string contents, url target
	args []node
}

var errUnbalanced = errors.New("unbalanced parentheses")

type frame struct {
	n   node
	raw strings.Builder
}

// tokenize splits a property value into component nodes. Whitespace and
// comments only separate nodes.
func tokenize(value string) ([]node, error) {
	l := css.NewLexer(parse.NewInputString(value))

	root := &frame{}
	stack := []*frame{root}
	top := func() *frame { return stack[len(stack)-1] }

	emit := func(n node) {
		f := top()
		f.n.args = append(f.n.args, n)
	}
	// every token's bytes belong to all enclosing functions' verbatim text
	record := func(data string) {
		for _, f := range stack[1:] {
			f.raw.WriteString(data)
		}
	}

	for {
		tt, data := l.Next()
		text := string(data)
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, err
			}
			if len(stack) > 1 {
				return nil, errUnbalanced
			}
			return root.n.args, nil

		case css.WhitespaceToken, css.CommentToken:
			record(text)
			continue

		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			record(text)
			f := &frame{}
			f.raw.WriteString(text)
			if tt == css.FunctionToken {
				f.n = node{kind: nodeFunction, name: strings.TrimSuffix(text, "(")}
			} else {
				f.n = node{kind: nodeBlock, name: text}
			}
			stack = append(stack, f)
			continue

		case css.RightParenthesisToken, css.RightBracketToken:
			if len(stack) == 1 {
				return nil, errUnbalanced
			}
			f := top()
			if (tt == css.RightBracketToken) != (f.n.name == "[") {
				return nil, errUnbalanced
			}
			record(text)
			stack = stack[:len(stack)-1]
			f.n.text = f.raw.String()
			emit(f.n)
			continue
		}

		n, err := leafNode(tt, text)
		if err != nil {
			return nil, err
		}
		record(text)
		emit(n)
	}
}

func leafNode(tt css.TokenType, text string) (node, error) {
	n := node{text: text}
	switch tt {
	case css.NumberToken:
		num, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return n, fmt.Errorf("bad number %q: %w", text, err)
		}
		n.kind, n.num = nodeNumber, num
	case css.PercentageToken:
		num, err := strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
		if err != nil {
			return n, fmt.Errorf("bad percentage %q: %w", text, err)
		}
		n.kind, n.num = nodePercentage, num
	case css.DimensionToken:
		num, unit, ok := splitDimension(text)
		if !ok {
			return n, fmt.Errorf("bad dimension %q", text)
		}
		n.kind, n.num, n.unit = nodeDimension, num, unit
	case css.IdentToken, css.CustomPropertyNameToken:
		n.kind, n.name = nodeIdent, text
	case css.HashToken:
		n.kind, n.name = nodeHash, strings.TrimPrefix(text, "#")
	case css.StringToken:
		n.kind, n.str = nodeString, unquote(text)
	case css.URLToken:
		open := strings.IndexByte(text, '(')
		if open < 0 || !strings.HasSuffix(text, ")") {
			return n, fmt.Errorf("unterminated url %q", text)
		}
		inner := strings.TrimSpace(text[open+1 : len(text)-1])
		n.kind, n.str = nodeURL, unquote(inner)
	case css.CommaToken:
		n.kind, n.name = nodeOperator, ","
	case css.DelimToken:
		switch text {
		case "/", "+", "-", "*":
			n.kind, n.name = nodeOperator, text
		default:
			return n, fmt.Errorf("unexpected %q", text)
		}
	default:
		return n, fmt.Errorf("unexpected %s token %q", tt, text)
	}
	return n, nil
}

// splitDimension separates "1.5em" into 1.5 and "em".
func splitDimension(s string) (float64, string, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i, digits = i+1, digits+1
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i, digits = i+1, digits+1
		}
	}
	if digits == 0 {
		return 0, "", false
	}
	// exponent only when followed by digits, "1em" is a unit
	if i+1 < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if s[j] == '+' || s[j] == '-' {
			j++
		}
		if j < len(s) && s[j] >= '0' && s[j] <= '9' {
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	num, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || i == len(s) {
		return 0, "", false
	}
	return num, strings.ToLower(s[i:]), true
}

// unquote removes surrounding quotes and resolves simple escapes.
func unquote(s string) string {
	if len(s) < 2 || (s[0] != '"' && s[0] != '\'') {
		return s
	}
	q := s[0]
	s = s[1:]
	if s[len(s)-1] == q {
		s = s[:len(s)-1]
	}
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			if s[i] == '\n' {
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitComma splits nodes on top level commas. Empty groups are kept so the
// caller can reject "a,,b".
func splitComma(nodes []node) [][]node {
	var groups [][]node
	start := 0
	for i, n := range nodes {
		if n.isOperator(",") {
			groups = append(groups, nodes[start:i])
			start = i + 1
		}
	}
	return append(groups, nodes[start:])
}

func hasOperator(nodes []node) bool {
	for _, n := range nodes {
		if n.kind == nodeOperator {
			return true
		}
	}
	return false
}

// joinNodes renders nodes back to normalized text.
func joinNodes(nodes []node) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 && !n.isOperator(",") {
			b.WriteByte(' ')
		}
		b.WriteString(n.text)
	}
	return b.String()
}

func (n node) isOperator(op string) bool {
	return n.kind == nodeOperator && n.name == op
}

func (n node) isIdent(name string) bool {
	return n.kind == nodeIdent && strings.EqualFold(n.name, name)
}

func (n node) isFunction(name string) bool {
	return n.kind == nodeFunction && strings.EqualFold(n.name, name)
}

// lowerName is the case folded ident or function name.
func (n node) lowerName() string {
	return strings.ToLower(n.name)
}
