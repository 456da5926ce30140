package engine

import (
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"wscss/css"
)

const (
	DefaultClassPrefix = "c"
	DefaultHashLength  = 7
)

// AtomicOptions configure GenerateAtomic.
type AtomicOptions struct {
	// GetKey groups classes by owner, the rule selector is used when nil.
	GetKey func(*NestingRule) string
	// Transform is applied when serializing values, both for hashing and
	// output.
	Transform   css.TransformValue
	ClassPrefix string
	HashLength  int
}

// AtomicResult is the generated CSS with class names for every owner in
// declaration order.
type AtomicResult struct {
	CSSText string
	Classes map[string][]string
}

// GenerateAtomic turns every declaration of every nesting rule into a single
// declaration rule named by a hash of its content. Owners setting the same
// declaration share one rule.
func GenerateAtomic(sheet *StyleSheet, opts AtomicOptions) AtomicResult {
	if opts.GetKey == nil {
		opts.GetKey = (*NestingRule).Selector
	}
	if opts.ClassPrefix == "" {
		opts.ClassPrefix = DefaultClassPrefix
	}
	if opts.HashLength <= 0 {
		opts.HashLength = DefaultHashLength
	}

	var (
		atomic  []*NestingRule
		interns = make(map[string]*NestingRule)
		classes = make(map[string][]string)
	)
	for _, rule := range sheet.NestingRules() {
		key := opts.GetKey(rule)
		owned := classes[key]
		for _, m := range sheet.MediaRules() {
			for _, d := range rule.MergedDeclarations(m.id) {
				value := css.ToValue(d.Value, opts.Transform)
				if value == "" {
					continue
				}
				class := AtomicClassName(opts.ClassPrefix, opts.HashLength, d.Breakpoint, d.Selector, d.Property, value)
				if _, ok := interns[class]; !ok {
					r := NewNestingRule("."+class, "")
					r.SetDeclaration(d)
					interns[class] = r
					atomic = append(atomic, r)
				}
				if !slices.Contains(owned, class) {
					owned = append(owned, class)
				}
			}
		}
		classes[key] = owned
	}
	return AtomicResult{
		CSSText: sheet.GenerateWith(atomic, opts.Transform),
		Classes: classes,
	}
}

// AtomicClassName derives a stable class name from declaration content. The
// name is prefix followed by length base36 digits of an xxhash sum.
func AtomicClassName(prefix string, length int, breakpoint, selector, property, value string) string {
	h := xxhash.New()
	for _, part := range []string{breakpoint, selector, property, value} {
		_, _ = h.WriteString(part)
		_, _ = h.Write([]byte{0})
	}
	digits := strconv.FormatUint(h.Sum64(), 36)
	if len(digits) < length {
		digits = strings.Repeat("0", length-len(digits)) + digits
	}
	return prefix + digits[:length]
}
