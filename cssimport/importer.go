// Package cssimport reads stylesheet text into parsed declarations which can
// be applied to an engine style sheet.
package cssimport

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	parse "github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"wscss/css"
	"wscss/engine"
)

// Rule holds the declarations of one selector inside one breakpoint. State
// is the trailing pseudo part of the selector, e.g. ":hover" or "::before".
type Rule struct {
	Media        engine.MediaRuleOptions
	Selector     string
	State        string
	Declarations []css.Declaration
}

// Result is everything recovered from a stylesheet.
type Result struct {
	Rules     []Rule
	FontFaces []engine.FontFace
	Warnings  []string
}

// Importer converts stylesheet text. It keeps a value parser so repeated
// diagnostics are reported once.
type Importer struct {
	log    *zap.Logger
	values *css.Parser
}

func NewImporter(log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{log: log.Named("css-import"), values: css.NewParser(log)}
}

// Import parses stylesheet text. Unsupported at-rules and invalid
// declarations are skipped and reported in Result.Warnings.
func (im *Importer) Import(data []byte, source string) *Result {
	res := &Result{}
	if source != "" {
		im.log.Debug("Importing CSS", zap.String("source", source), zap.Int("bytes", len(data)))
	}

	parser := tcss.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case tcss.ErrorGrammar:
			if err := parser.Err(); err != nil && err != io.EOF {
				res.warn("parse error: %v", err)
			}
			return res

		case tcss.BeginAtRuleGrammar:
			switch name := strings.ToLower(string(data)); name {
			case "@media":
				query := tokensText(parser.Values())
				media, err := engine.ParseMediaQuery(query)
				if err != nil {
					res.warn("skipping @media %s: %v", query, err)
					skipAtRuleBlock(parser)
					continue
				}
				im.parseMediaBlock(parser, media, res)
			case "@font-face":
				if ff := parseFontFace(parser); ff.Family != "" {
					res.FontFaces = append(res.FontFaces, ff)
				} else {
					res.warn("skipping @font-face without font-family")
				}
			default:
				res.warn("skipping unsupported %s", name)
				skipAtRuleBlock(parser)
			}

		case tcss.AtRuleGrammar:
			res.warn("skipping unsupported %s", strings.ToLower(string(data)))

		case tcss.BeginRulesetGrammar:
			im.parseRuleset(parser, data, engine.MediaRuleOptions{}, res)

		case tcss.DeclarationGrammar, tcss.CustomPropertyGrammar:
			res.warn("skipping declaration %s outside of a rule", string(data))
		}
	}
}

func (im *Importer) parseMediaBlock(parser *tcss.Parser, media engine.MediaRuleOptions, res *Result) {
	for {
		gt, _, data := parser.Next()
		switch gt {
		case tcss.ErrorGrammar, tcss.EndAtRuleGrammar:
			return
		case tcss.BeginRulesetGrammar:
			im.parseRuleset(parser, data, media, res)
		case tcss.BeginAtRuleGrammar:
			res.warn("skipping nested %s", strings.ToLower(string(data)))
			skipAtRuleBlock(parser)
		}
	}
}

func (im *Importer) parseRuleset(parser *tcss.Parser, data []byte, media engine.MediaRuleOptions, res *Result) {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range parser.Values() {
		sb.Write(v.Data)
	}
	selectors := splitSelectors(sb.String())
	decls := im.parseDeclarations(parser, res)
	if len(decls) == 0 {
		return
	}
	for _, sel := range selectors {
		subject, state := splitState(sel)
		if subject == "" {
			res.warn("skipping selector %q without subject", sel)
			continue
		}
		res.Rules = append(res.Rules, Rule{
			Media:        media,
			Selector:     subject,
			State:        state,
			Declarations: append([]css.Declaration(nil), decls...),
		})
	}
}

func (im *Importer) parseDeclarations(parser *tcss.Parser, res *Result) []css.Declaration {
	var decls []css.Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case tcss.ErrorGrammar, tcss.EndRulesetGrammar:
			return decls
		case tcss.DeclarationGrammar, tcss.CustomPropertyGrammar:
			property := string(data)
			if gt == tcss.DeclarationGrammar {
				property = strings.ToLower(property)
			}
			raw := stripImportant(tokensText(parser.Values()))
			v := im.values.ParseValue(property, raw)
			if _, ok := v.(css.InvalidValue); ok {
				res.warn("skipping invalid %s: %s", property, raw)
				continue
			}
			decls = append(decls, css.Declaration{Property: property, Value: v})
		}
	}
}

func skipAtRuleBlock(parser *tcss.Parser) {
	for depth := 1; depth > 0; {
		switch gt, _, _ := parser.Next(); gt {
		case tcss.ErrorGrammar:
			return
		case tcss.BeginAtRuleGrammar, tcss.BeginRulesetGrammar:
			depth++
		case tcss.EndAtRuleGrammar, tcss.EndRulesetGrammar:
			depth--
		}
	}
}

func parseFontFace(parser *tcss.Parser) engine.FontFace {
	var ff engine.FontFace
	for {
		gt, _, data := parser.Next()
		switch gt {
		case tcss.ErrorGrammar, tcss.EndAtRuleGrammar:
			return ff
		case tcss.DeclarationGrammar:
			value := tokensText(parser.Values())
			switch strings.ToLower(string(data)) {
			case "font-family":
				ff.Family = unquote(value)
			case "src":
				ff.Src = value
			case "font-style":
				ff.Style = value
			case "font-weight":
				ff.Weight = value
			case "font-display":
				ff.Display = value
			}
		}
	}
}

// tokensText joins tokens back into text, collapsing whitespace runs.
func tokensText(tokens []tcss.Token) string {
	var sb strings.Builder
	space := false
	for _, t := range tokens {
		if t.TokenType == tcss.WhitespaceToken || t.TokenType == tcss.CommentToken {
			space = sb.Len() > 0
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(t.Data)
	}
	return sb.String()
}

func stripImportant(s string) string {
	lower := strings.ToLower(s)
	if !strings.HasSuffix(lower, "important") {
		return s
	}
	rest := strings.TrimRight(s[:len(s)-len("important")], " \t\n")
	if before, ok := strings.CutSuffix(rest, "!"); ok {
		return strings.TrimSpace(before)
	}
	return s
}

// splitSelectors splits a selector list on top level commas.
func splitSelectors(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	add := func(part string) {
		if part = strings.Join(strings.Fields(part), " "); part != "" {
			out = append(out, part)
		}
	}
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				add(s[start:i])
				start = i + 1
			}
		}
	}
	add(s[start:])
	return out
}

// splitState separates a trailing pseudo class or element from the selector
// subject. Pseudo parts followed by another compound stay in the subject.
func splitState(sel string) (subject, state string) {
	depth := 0
	for i, r := range sel {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ':':
			if depth != 0 {
				continue
			}
			rest := sel[i:]
			if strings.ContainsAny(stripParens(rest), " >+~") {
				return sel, ""
			}
			return sel[:i], rest
		}
	}
	return sel, ""
}

// stripParens drops parenthesized arguments so combinators inside
// :not(...) are not mistaken for the end of the pseudo part.
func stripParens(s string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Apply adds imported rules and font faces to sheet. Breakpoints equal to an
// existing one are reused, others are registered under an id derived from
// the media query.
func (r *Result) Apply(sheet *engine.StyleSheet) error {
	for _, ff := range r.FontFaces {
		sheet.AddFontFaceRule(ff)
	}
	for _, rule := range r.Rules {
		id, err := breakpointFor(sheet, rule.Media)
		if err != nil {
			return err
		}
		nr := sheet.AddNestingRule(rule.Selector, "")
		for _, d := range rule.Declarations {
			nr.SetDeclaration(engine.Declaration{
				Breakpoint: id,
				Selector:   rule.State,
				Property:   d.Property,
				Value:      d.Value,
			})
		}
	}
	return nil
}

func breakpointFor(sheet *engine.StyleSheet, media engine.MediaRuleOptions) (string, error) {
	for _, m := range sheet.MediaRules() {
		if engine.EqualMedia(m.Options(), media) {
			return m.ID(), nil
		}
	}
	id := slug.Make(media.String())
	if _, taken := sheet.MediaRule(id); taken || id == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("unable to generate breakpoint id: %w", err)
		}
		id = u.String()
	}
	if _, err := sheet.AddMediaRule(id, media); err != nil {
		return "", err
	}
	return id, nil
}
