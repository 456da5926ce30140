package engine

import (
	"slices"
	"strings"

	"wscss/css"
)

// Declaration is one property value for a breakpoint and selector suffix. The
// suffix is appended to the rule selector, it is empty for the rule itself
// and holds states like ":hover" or "::before" otherwise.
type Declaration struct {
	Breakpoint string
	Selector   string
	Property   string
	Value      css.Value
}

func (d Declaration) key() string {
	return d.Breakpoint + "\x00" + d.Selector + "\x00" + d.Property
}

// declarations keeps declarations unique by breakpoint, selector and
// property. Replacing a declaration keeps its position.
type declarations struct {
	list  []Declaration
	index map[string]int
}

func (ds *declarations) set(d Declaration) {
	if ds.index == nil {
		ds.index = make(map[string]int)
	}
	if i, ok := ds.index[d.key()]; ok {
		ds.list[i] = d
		return
	}
	ds.index[d.key()] = len(ds.list)
	ds.list = append(ds.list, d)
}

func (ds *declarations) delete(d Declaration) bool {
	i, ok := ds.index[d.key()]
	if !ok {
		return false
	}
	ds.list = slices.Delete(ds.list, i, i+1)
	clear(ds.index)
	for i, d := range ds.list {
		ds.index[d.key()] = i
	}
	return true
}

// ruleState is the declaration storage shared by nesting and mixin rules.
type ruleState struct {
	sheet *StyleSheet
	decls declarations
	rev   uint64
}

func (s *ruleState) touch() {
	if s.sheet == nil {
		s.rev++
		return
	}
	s.rev = s.sheet.bump()
}

// SetDeclaration adds a declaration or replaces the one with the same
// breakpoint, selector and property.
func (s *ruleState) SetDeclaration(d Declaration) {
	s.decls.set(d)
	s.touch()
}

// DeleteDeclaration removes the declaration keyed like d. Value is ignored.
func (s *ruleState) DeleteDeclaration(d Declaration) {
	if s.decls.delete(d) {
		s.touch()
	}
}

// Declarations returns a copy of all declarations in insertion order.
func (s *ruleState) Declarations() []Declaration {
	return slices.Clone(s.decls.list)
}

// MixinRule is a reusable set of declarations without a selector.
type MixinRule struct {
	ruleState
	id string
}

func (r *MixinRule) ID() string { return r.id }

// RenderOptions select what NestingRule.Render produces.
type RenderOptions struct {
	Breakpoint string
	Indent     int
}

type renderStamp struct {
	deps   []uint64 // own revision followed by each applied mixin's
	indent int
	xform  uint64
}

type renderCache struct {
	stamp renderStamp
	text  string
}

// NestingRule styles one subject. Its own declarations are merged on top of
// the declarations of applied mixins.
type NestingRule struct {
	ruleState
	selector string
	suffix   string
	mixins   []string
	cache    map[string]renderCache
}

// NewNestingRule creates a rule which does not belong to any style sheet.
func NewNestingRule(selector, descendantSuffix string) *NestingRule {
	return &NestingRule{selector: selector, suffix: descendantSuffix}
}

func (r *NestingRule) Selector() string { return r.selector + r.suffix }

// ApplyMixins replaces the list of applied mixin ids. Later mixins override
// earlier ones.
func (r *NestingRule) ApplyMixins(ids ...string) {
	r.mixins = slices.Clone(ids)
	r.touch()
}

func (r *NestingRule) Mixins() []string { return slices.Clone(r.mixins) }

func (r *NestingRule) mixinRules() []*MixinRule {
	if r.sheet == nil {
		return nil
	}
	rules := make([]*MixinRule, len(r.mixins))
	for i, id := range r.mixins {
		rules[i] = r.sheet.mixins[id]
	}
	return rules
}

func (r *NestingRule) stamp(indent int) renderStamp {
	st := renderStamp{deps: []uint64{r.rev}, indent: indent}
	for _, m := range r.mixinRules() {
		var rev uint64
		if m != nil {
			rev = m.rev
		}
		st.deps = append(st.deps, rev)
	}
	if r.sheet != nil {
		st.xform = r.sheet.transformRev
	}
	return st
}

// MergedDeclarations returns declarations for one breakpoint with mixins
// applied: a declaration keeps the position of its first appearance and the
// value of its last.
func (r *NestingRule) MergedDeclarations(breakpoint string) []Declaration {
	var merged declarations
	add := func(list []Declaration) {
		for _, d := range list {
			if d.Breakpoint == breakpoint {
				merged.set(d)
			}
		}
	}
	for _, m := range r.mixinRules() {
		if m != nil {
			add(m.decls.list)
		}
	}
	add(r.decls.list)
	return merged.list
}

// Render returns the rule text for one breakpoint, or an empty string when
// the rule has no declarations there. The result is cached until the rule,
// one of its mixins or the sheet transform changes.
func (r *NestingRule) Render(opts RenderOptions) string {
	st := r.stamp(opts.Indent)
	if c, ok := r.cache[opts.Breakpoint]; ok && c.stamp.indent == st.indent &&
		c.stamp.xform == st.xform && slices.Equal(c.stamp.deps, st.deps) {
		return c.text
	}
	var (
		transform css.TransformValue
		so        = DefaultOptions()
	)
	if r.sheet != nil {
		transform, so = r.sheet.transform, r.sheet.opts
	}
	text := r.render(opts, transform, so)
	if r.cache == nil {
		r.cache = make(map[string]renderCache)
	}
	r.cache[opts.Breakpoint] = renderCache{stamp: st, text: text}
	return text
}

func (r *NestingRule) render(opts RenderOptions, transform css.TransformValue, so Options) string {
	var (
		order  []string
		groups = make(map[string]*css.StyleMap)
	)
	for _, d := range r.MergedDeclarations(opts.Breakpoint) {
		m, ok := groups[d.Selector]
		if !ok {
			m = &css.StyleMap{}
			groups[d.Selector] = m
			order = append(order, d.Selector)
		}
		m.Set(d.Property, d.Value)
	}
	// the rule itself goes before its states
	slices.SortStableFunc(order, func(a, b string) int {
		switch {
		case a == "" && b != "":
			return -1
		case a != "" && b == "":
			return 1
		}
		return 0
	})

	spaces := strings.Repeat(" ", opts.Indent)
	var blocks []string
	for _, selector := range order {
		styles := groups[selector]
		if so.Merge {
			styles = css.Merge(styles)
		}
		if so.Prefix {
			styles = css.Prefix(styles)
		}
		var props []string
		for property, v := range styles.All() {
			if text := css.ToValue(v, transform); text != "" {
				props = append(props, property+": "+text)
			}
		}
		if len(props) == 0 {
			continue
		}
		blocks = append(blocks, spaces+r.selector+r.suffix+selector+" {\n"+
			spaces+"  "+strings.Join(props, "; ")+"\n"+
			spaces+"}")
	}
	return strings.Join(blocks, "\n")
}

// MediaRule is one breakpoint of a style sheet.
type MediaRule struct {
	id      string
	options MediaRuleOptions
}

func (r *MediaRule) ID() string                { return r.id }
func (r *MediaRule) Options() MediaRuleOptions { return r.options }

// cssText wraps rendered rules into an @media block, nothing is produced
// for an empty block.
func (r *MediaRule) cssText(defaultType string, rules []string) string {
	if len(rules) == 0 {
		return ""
	}
	mediaType := r.options.MediaType
	if mediaType == "" {
		mediaType = defaultType
	}
	head := "@media " + mediaType
	if c := r.options.conditionText(); c != "" {
		head += " and " + c
	}
	return head + " {\n" + strings.Join(rules, "\n") + "\n}"
}

// FontFace is an @font-face rule. Src is CSS text, e.g.
// `url("/fonts/inter.woff2") format("woff2")`.
type FontFace struct {
	Family  string
	Style   string
	Weight  string
	Display string
	Src     string
}

func (f FontFace) CSSText() string {
	decls := []string{`font-family: "` + escapeQuoted(f.Family) + `"`}
	for _, p := range []struct{ name, value string }{
		{"font-style", f.Style},
		{"font-weight", f.Weight},
		{"font-display", f.Display},
		{"src", f.Src},
	} {
		if p.value != "" {
			decls = append(decls, p.name+": "+p.value)
		}
	}
	return "@font-face {\n  " + strings.Join(decls, "; ") + ";\n}"
}

func escapeQuoted(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
