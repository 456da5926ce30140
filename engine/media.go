package engine

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// MediaRuleOptions describes one breakpoint. The zero value is the base
// breakpoint which matches everything. Condition is an opaque media feature
// written without parentheses and excludes width bounds.
type MediaRuleOptions struct {
	MinWidth  *float64 `yaml:"min_width,omitempty" json:"minWidth,omitempty"`
	MaxWidth  *float64 `yaml:"max_width,omitempty" json:"maxWidth,omitempty"`
	Condition string   `yaml:"condition,omitempty" json:"condition,omitempty"`
	MediaType string   `yaml:"media_type,omitempty" json:"mediaType,omitempty"`
}

// Width returns a pointer to w for use in MediaRuleOptions literals.
func Width(w float64) *float64 { return &w }

// IsBase reports whether options carry no condition at all.
func (o MediaRuleOptions) IsBase() bool {
	return o.MinWidth == nil && o.MaxWidth == nil && o.Condition == ""
}

func (o MediaRuleOptions) String() string {
	var parts []string
	if o.MediaType != "" {
		parts = append(parts, o.MediaType)
	}
	if c := o.conditionText(); c != "" {
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return "base"
	}
	return strings.Join(parts, " and ")
}

// conditionText renders the feature part of the query: the custom
// condition when set, width bounds otherwise.
func (o MediaRuleOptions) conditionText() string {
	if o.Condition != "" {
		return "(" + o.Condition + ")"
	}
	var parts []string
	if o.MinWidth != nil {
		parts = append(parts, "(min-width: "+formatPx(*o.MinWidth)+")")
	}
	if o.MaxWidth != nil {
		parts = append(parts, "(max-width: "+formatPx(*o.MaxWidth)+")")
	}
	return strings.Join(parts, " and ")
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Validate checks that a condition is not combined with width bounds.
func (o MediaRuleOptions) Validate() error {
	if o.Condition != "" && (o.MinWidth != nil || o.MaxWidth != nil) {
		return errors.New("media condition cannot be combined with width bounds")
	}
	if o.MinWidth != nil && o.MaxWidth != nil && *o.MinWidth > *o.MaxWidth {
		return fmt.Errorf("min-width %v is larger than max-width %v", *o.MinWidth, *o.MaxWidth)
	}
	return nil
}

// EqualMedia reports whether two option sets describe the same breakpoint.
func EqualMedia(a, b MediaRuleOptions) bool {
	return equalBound(a.MinWidth, b.MinWidth) && equalBound(a.MaxWidth, b.MaxWidth) &&
		a.Condition == b.Condition && a.MediaType == b.MediaType
}

func equalBound(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// media ranks in cascade order
const (
	rankBase = iota
	rankCondition
	rankWidth
)

func mediaRank(o MediaRuleOptions) int {
	switch {
	case o.Condition != "":
		return rankCondition
	case o.MinWidth == nil && o.MaxWidth == nil:
		return rankBase
	}
	return rankWidth
}

// CompareMedia orders breakpoints the way their @media blocks have to appear
// so that later, more specific blocks win in the cascade. The base
// breakpoint goes first, then custom conditions alphabetically, then
// min-width rules by growing width and finally max-width only rules by
// shrinking width.
func CompareMedia(a, b MediaRuleOptions) int {
	if c := cmp.Compare(mediaRank(a), mediaRank(b)); c != 0 {
		return c
	}
	switch mediaRank(a) {
	case rankBase:
		return 0
	case rankCondition:
		return strings.Compare(a.Condition, b.Condition)
	}
	switch {
	case a.MinWidth != nil && b.MinWidth != nil:
		if c := cmp.Compare(*a.MinWidth, *b.MinWidth); c != 0 {
			return c
		}
		return -cmp.Compare(upper(a), upper(b))
	case a.MinWidth != nil:
		return -1
	case b.MinWidth != nil:
		return 1
	}
	return -cmp.Compare(upper(a), upper(b))
}

func lower(o MediaRuleOptions) float64 {
	if o.MinWidth == nil {
		return math.Inf(-1)
	}
	return *o.MinWidth
}

func upper(o MediaRuleOptions) float64 {
	if o.MaxWidth == nil {
		return math.Inf(1)
	}
	return *o.MaxWidth
}

// MatchMedia reports whether a viewport of the given width falls within the
// breakpoint bounds. Custom conditions cannot be evaluated and never match.
func MatchMedia(o MediaRuleOptions, width float64) bool {
	if o.Condition != "" {
		return false
	}
	return lower(o) <= width && width <= upper(o)
}

// FindApplicableMedia returns the breakpoint which wins in the cascade for a
// viewport width: in reverse cascade order the first one to match.
func FindApplicableMedia(media []MediaRuleOptions, width float64) (MediaRuleOptions, bool) {
	sorted := slices.Clone(media)
	slices.SortStableFunc(sorted, func(a, b MediaRuleOptions) int { return CompareMedia(b, a) })
	for _, o := range sorted {
		if MatchMedia(o, width) {
			return o, true
		}
	}
	return MediaRuleOptions{}, false
}

var errEmptyFeature = errors.New("empty media feature")

// ParseMediaQuery reads a media query such as
// "screen and (min-width: 768px) and (max-width: 991px)". Width features in
// px become bounds. A query with any other feature is kept whole as an
// opaque condition.
func ParseMediaQuery(query string) (MediaRuleOptions, error) {
	var (
		o        MediaRuleOptions
		features []string
		feature  strings.Builder
		depth    int
	)
	l := css.NewLexer(parse.NewInputString(query))
	for {
		tt, data := l.Next()
		text := string(data)
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				return MediaRuleOptions{}, err
			}
			break
		}
		switch {
		case tt == css.LeftParenthesisToken || tt == css.FunctionToken && depth > 0:
			if depth > 0 {
				feature.WriteString(text)
			}
			depth++
		case tt == css.RightParenthesisToken:
			depth--
			switch {
			case depth < 0:
				return MediaRuleOptions{}, fmt.Errorf("unbalanced parentheses in %q", query)
			case depth == 0:
				f := strings.Join(strings.Fields(feature.String()), " ")
				if f == "" {
					return MediaRuleOptions{}, errEmptyFeature
				}
				features = append(features, f)
				feature.Reset()
			default:
				feature.WriteString(text)
			}
		case depth > 0:
			feature.WriteString(text)
		case tt == css.WhitespaceToken || tt == css.CommentToken:
		case tt == css.IdentToken:
			switch kw := strings.ToLower(text); {
			case kw == "and":
			case o.MediaType == "" && len(features) == 0 && kw != "not" && kw != "only" && kw != "or":
				o.MediaType = kw
			default:
				return MediaRuleOptions{}, fmt.Errorf("unsupported media query %q", query)
			}
		default:
			return MediaRuleOptions{}, fmt.Errorf("unexpected %q in media query", text)
		}
	}
	if depth != 0 {
		return MediaRuleOptions{}, fmt.Errorf("unbalanced parentheses in %q", query)
	}

	for _, f := range features {
		name, value, _ := strings.Cut(f, ":")
		px, ok := parsePx(strings.TrimSpace(value))
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "min-width":
			if ok && o.MinWidth == nil {
				o.MinWidth = &px
				continue
			}
		case "max-width":
			if ok && o.MaxWidth == nil {
				o.MaxWidth = &px
				continue
			}
		}
		// anything else turns the whole feature list into one condition
		o.MinWidth, o.MaxWidth = nil, nil
		if len(features) == 1 {
			o.Condition = features[0]
		} else {
			o.Condition = "(" + strings.Join(features, ") and (") + ")"
		}
		break
	}
	if err := o.Validate(); err != nil {
		return MediaRuleOptions{}, err
	}
	return o, nil
}

func parsePx(s string) (float64, bool) {
	if s == "0" {
		return 0, true
	}
	num, ok := strings.CutSuffix(strings.ToLower(s), "px")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	return v, err == nil
}
