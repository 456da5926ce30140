// Package engine composes parsed style values into style sheets and renders
// them as CSS text.
package engine

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"wscss/css"
)

// Options control rendering for a whole style sheet.
type Options struct {
	MediaType string // used for breakpoints without their own media type
	Indent    int    // indentation of rules inside @media blocks
	Merge     bool   // recombine longhands into shorthands
	Prefix    bool   // add -webkit- copies where browsers still need them
}

func DefaultOptions() Options {
	return Options{MediaType: "all", Indent: 2, Merge: true, Prefix: true}
}

type cacheState int

const (
	stateDirty cacheState = iota
	stateClean
)

// textCache holds generated text between mutations.
type textCache struct {
	state cacheState
	text  string
}

func (c *textCache) invalidate() {
	c.state, c.text = stateDirty, ""
}

func (c *textCache) load(compute func() string) string {
	if c.state == stateClean {
		return c.text
	}
	c.text, c.state = compute(), stateClean
	return c.text
}

// StyleSheet owns breakpoints, rules and the generated CSS text. It is not
// safe for concurrent use.
type StyleSheet struct {
	log  *zap.Logger
	opts Options

	media     map[string]*MediaRule
	plaintext []string
	plainSet  map[string]struct{}
	fontFaces []FontFace
	nesting   []*NestingRule
	nestIndex map[string]*NestingRule
	mixins    map[string]*MixinRule

	transform    css.TransformValue
	transformRev uint64

	rev  uint64
	text textCache
}

// NewStyleSheet creates an empty style sheet.
func NewStyleSheet(log *zap.Logger, opts Options) *StyleSheet {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MediaType == "" {
		opts.MediaType = "all"
	}
	s := &StyleSheet{log: log.Named("style-sheet"), opts: opts}
	s.Clear()
	return s
}

// Clear drops everything but options and the transform hook.
func (s *StyleSheet) Clear() {
	s.media = make(map[string]*MediaRule)
	s.plaintext = nil
	s.plainSet = make(map[string]struct{})
	s.fontFaces = nil
	for _, r := range s.nesting {
		r.sheet = nil
	}
	s.nesting = nil
	s.nestIndex = make(map[string]*NestingRule)
	for _, m := range s.mixins {
		m.sheet = nil
	}
	s.mixins = make(map[string]*MixinRule)
	s.bump()
}

func (s *StyleSheet) Options() Options { return s.opts }

// bump records a mutation and returns the new revision.
func (s *StyleSheet) bump() uint64 {
	s.rev++
	s.text.invalidate()
	return s.rev
}

// AddMediaRule registers a breakpoint. Adding an existing id updates its
// options.
func (s *StyleSheet) AddMediaRule(id string, options MediaRuleOptions) (*MediaRule, error) {
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("breakpoint %q: %w", id, err)
	}
	r, ok := s.media[id]
	if !ok {
		r = &MediaRule{id: id}
		s.media[id] = r
	}
	r.options = options
	s.bump()
	return r, nil
}

func (s *StyleSheet) MediaRule(id string) (*MediaRule, bool) {
	r, ok := s.media[id]
	return r, ok
}

func (s *StyleSheet) DeleteMediaRule(id string) {
	if _, ok := s.media[id]; ok {
		delete(s.media, id)
		s.bump()
	}
}

// MediaRules returns breakpoints in cascade order.
func (s *StyleSheet) MediaRules() []*MediaRule {
	rules := slices.Collect(maps.Values(s.media))
	slices.SortFunc(rules, func(a, b *MediaRule) int {
		if c := CompareMedia(a.options, b.options); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return rules
}

// AddPlaintextRule adds verbatim CSS. Adding the same text twice is a no-op.
func (s *StyleSheet) AddPlaintextRule(text string) {
	if _, ok := s.plainSet[text]; ok {
		return
	}
	s.plainSet[text] = struct{}{}
	s.plaintext = append(s.plaintext, text)
	s.bump()
}

func (s *StyleSheet) AddFontFaceRule(f FontFace) {
	s.fontFaces = append(s.fontFaces, f)
	s.bump()
}

// AddNestingRule returns the rule for selector and descendant suffix,
// creating it on first use.
func (s *StyleSheet) AddNestingRule(selector, descendantSuffix string) *NestingRule {
	key := selector + "\x00" + descendantSuffix
	if r, ok := s.nestIndex[key]; ok {
		return r
	}
	r := NewNestingRule(selector, descendantSuffix)
	r.sheet = s
	s.nestIndex[key] = r
	s.nesting = append(s.nesting, r)
	s.bump()
	return r
}

// NestingRules returns rules in insertion order.
func (s *StyleSheet) NestingRules() []*NestingRule {
	return slices.Clone(s.nesting)
}

// AddMixinRule returns the mixin with id, creating it on first use.
func (s *StyleSheet) AddMixinRule(id string) *MixinRule {
	if m, ok := s.mixins[id]; ok {
		return m
	}
	m := &MixinRule{id: id}
	m.sheet = s
	s.mixins[id] = m
	s.bump()
	return m
}

func (s *StyleSheet) MixinRule(id string) (*MixinRule, bool) {
	m, ok := s.mixins[id]
	return m, ok
}

func (s *StyleSheet) DeleteMixinRule(id string) {
	if m, ok := s.mixins[id]; ok {
		m.sheet = nil
		delete(s.mixins, id)
		s.bump()
	}
}

// SetTransformValue installs the hook used when serializing values, nil
// removes it.
func (s *StyleSheet) SetTransformValue(transform css.TransformValue) {
	s.transform = transform
	s.transformRev = s.bump()
}

// CSSText returns the generated style sheet. It is computed once after each
// mutation.
func (s *StyleSheet) CSSText() string {
	return s.text.load(func() string {
		text := s.generate(s.nesting, func(r *NestingRule, breakpoint string) string {
			return r.Render(RenderOptions{Breakpoint: breakpoint, Indent: s.opts.Indent})
		})
		s.log.Debug("Style sheet generated", zap.Int("rules", len(s.nesting)), zap.Int("bytes", len(text)))
		return text
	})
}

// GenerateWith renders rules which need not belong to the sheet, using the
// sheet breakpoints, font faces and plaintext rules.
func (s *StyleSheet) GenerateWith(rules []*NestingRule, transform css.TransformValue) string {
	return s.generate(rules, func(r *NestingRule, breakpoint string) string {
		return r.render(RenderOptions{Breakpoint: breakpoint, Indent: s.opts.Indent}, transform, s.opts)
	})
}

func (s *StyleSheet) generate(rules []*NestingRule, render func(*NestingRule, string) string) string {
	var parts []string
	for _, f := range s.fontFaces {
		parts = append(parts, f.CSSText())
	}
	parts = append(parts, s.plaintext...)
	for _, m := range s.MediaRules() {
		var texts []string
		for _, r := range rules {
			if text := render(r, m.id); text != "" {
				texts = append(texts, text)
			}
		}
		if block := m.cssText(s.opts.MediaType, texts); block != "" {
			parts = append(parts, block)
		}
	}
	return strings.Join(parts, "\n")
}
