package css

import (
	"strings"
	"unicode"
)

// accept is the set of value classes a property allows per item.
type accept uint32

const (
	acceptLength accept = 1 << iota
	acceptPercentage
	acceptNumber
	acceptInteger
	acceptAngle
	acceptTime
	acceptResolution
	acceptFlex
	acceptColor
	acceptImage
	acceptString
	acceptIdent    // any <custom-ident>
	acceptFunction // any function, grid repeat(), fit-content() and friends

	acceptLengthPercentage = acceptLength | acceptPercentage
)

// valueShape selects the structural parser used for a property.
type valueShape int

const (
	shapeGeneric valueShape = iota
	shapeFontFamily
	shapeShadow
	shapeTransform
	shapeFilter
)

type keywordSet map[string]struct{}

func words(s string) keywordSet {
	set := make(keywordSet)
	for w := range strings.FieldsSeq(s) {
		set[w] = struct{}{}
	}
	return set
}

func (s keywordSet) has(kw string) bool {
	_, ok := s[kw]
	return ok
}

// propertyGrammar is the embedded grammar table entry for one property. It
// covers only what the supported properties need, not the full CSS grammar.
type propertyGrammar struct {
	accept    accept
	keywords  keywordSet
	only      keywordSet // keywords valid only as the whole value
	functions functionFamily
	shape     valueShape
	comma     bool // repeated by comma, parsed into layers
	tuple     bool // always parsed into a tuple
	slash     bool // '/' separator allowed
	maxItems  int  // space separated items per layer, 0 for unlimited
}

func (g propertyGrammar) allowsKeyword(kw string, topLevel bool) bool {
	if g.keywords.has(kw) {
		return true
	}
	return topLevel && g.only.has(kw)
}

const (
	kwGlobalWidth = "auto min-content max-content fit-content stretch"
	kwBorderStyle = "none hidden dotted dashed solid double groove ridge inset outset"
	kwBorderWidth = "thin medium thick"
	kwColor       = "currentcolor transparent"
	kwBlendMode   = "normal multiply screen overlay darken lighten color-dodge color-burn hard-light soft-light difference exclusion hue saturation color luminosity"
	kwEasing      = "linear ease ease-in ease-out ease-in-out step-start step-end"
	kwBox         = "border-box padding-box content-box"
	kwDisplay     = "block inline inline-block flex inline-flex grid inline-grid flow-root none contents table table-row table-cell table-caption table-column table-column-group table-header-group table-footer-group table-row-group inline-table list-item"
	kwAlign       = "normal stretch center start end flex-start flex-end self-start self-end baseline first last safe unsafe left right space-between space-around space-evenly anchor-center legacy"
	kwCursor      = "auto default none context-menu help pointer progress wait cell crosshair text vertical-text alias copy move no-drop not-allowed grab grabbing all-scroll col-resize row-resize n-resize e-resize s-resize w-resize ne-resize nw-resize se-resize sw-resize ew-resize ns-resize nesw-resize nwse-resize zoom-in zoom-out"
	kwFontSize    = "xx-small x-small small medium large x-large xx-large xxx-large smaller larger math"
)

func lengthProperty(kw string) propertyGrammar {
	return propertyGrammar{accept: acceptLengthPercentage, keywords: words(kw), maxItems: 1}
}

func colorProperty() propertyGrammar {
	return propertyGrammar{accept: acceptColor, keywords: words(kwColor), maxItems: 1}
}

func keywordProperty(kw string, maxItems int) propertyGrammar {
	return propertyGrammar{keywords: words(kw), maxItems: maxItems}
}

func layerProperty(a accept, kw string, maxItems int) propertyGrammar {
	return propertyGrammar{accept: a, keywords: words(kw), comma: true, maxItems: maxItems}
}

var properties = map[string]propertyGrammar{}

func init() {
	for _, p := range []string{"width", "height", "min-width", "min-height", "inline-size", "block-size", "min-inline-size", "min-block-size"} {
		properties[p] = lengthProperty(kwGlobalWidth)
	}
	for _, p := range []string{"max-width", "max-height", "max-inline-size", "max-block-size"} {
		properties[p] = lengthProperty("none min-content max-content fit-content stretch")
	}
	for _, side := range []string{"top", "right", "bottom", "left"} {
		properties[side] = lengthProperty("auto")
		properties["margin-"+side] = lengthProperty("auto")
		properties["padding-"+side] = lengthProperty("")
		properties["border-"+side+"-width"] = propertyGrammar{accept: acceptLength, keywords: words(kwBorderWidth), maxItems: 1}
		properties["border-"+side+"-style"] = keywordProperty(kwBorderStyle, 1)
		properties["border-"+side+"-color"] = colorProperty()
		properties["border-"+side] = propertyGrammar{accept: acceptLength | acceptColor, keywords: words(kwBorderWidth + " " + kwBorderStyle + " " + kwColor), maxItems: 3}
	}
	for _, corner := range []string{"top-left", "top-right", "bottom-right", "bottom-left"} {
		properties["border-"+corner+"-radius"] = propertyGrammar{accept: acceptLengthPercentage, maxItems: 2}
	}
	properties["inset"] = propertyGrammar{accept: acceptLengthPercentage, keywords: words("auto"), maxItems: 4}
	properties["margin"] = propertyGrammar{accept: acceptLengthPercentage, keywords: words("auto"), maxItems: 4}
	properties["padding"] = propertyGrammar{accept: acceptLengthPercentage, maxItems: 4}
	properties["border-width"] = propertyGrammar{accept: acceptLength, keywords: words(kwBorderWidth), maxItems: 4}
	properties["border-style"] = keywordProperty(kwBorderStyle, 4)
	properties["border-color"] = propertyGrammar{accept: acceptColor, keywords: words(kwColor), maxItems: 4}
	properties["border"] = properties["border-top"]
	properties["border-radius"] = propertyGrammar{accept: acceptLengthPercentage, slash: true, maxItems: 9}

	properties["outline-width"] = properties["border-top-width"]
	properties["outline-style"] = keywordProperty(kwBorderStyle+" auto", 1)
	properties["outline-color"] = colorProperty()
	properties["outline-offset"] = propertyGrammar{accept: acceptLength, maxItems: 1}

	for _, p := range []string{"color", "background-color", "text-decoration-color", "caret-color", "accent-color", "column-rule-color", "text-emphasis-color"} {
		properties[p] = colorProperty()
	}
	properties["caret-color"] = propertyGrammar{accept: acceptColor, keywords: words(kwColor + " auto"), maxItems: 1}
	properties["accent-color"] = properties["caret-color"]
	properties["fill"] = propertyGrammar{accept: acceptColor | acceptImage, keywords: words(kwColor + " none context-fill context-stroke"), maxItems: 2}
	properties["stroke"] = properties["fill"]
	properties["opacity"] = propertyGrammar{accept: acceptNumber | acceptPercentage, maxItems: 1}

	properties["display"] = keywordProperty(kwDisplay+" inline flow", 2)
	properties["position"] = keywordProperty("static relative absolute fixed sticky", 1)
	properties["float"] = keywordProperty("left right none inline-start inline-end", 1)
	properties["clear"] = keywordProperty("left right none both inline-start inline-end", 1)
	properties["visibility"] = keywordProperty("visible hidden collapse", 1)
	properties["overflow"] = keywordProperty("visible hidden clip scroll auto", 2)
	properties["overflow-x"] = keywordProperty("visible hidden clip scroll auto", 1)
	properties["overflow-y"] = properties["overflow-x"]
	properties["box-sizing"] = keywordProperty("content-box border-box", 1)
	properties["pointer-events"] = keywordProperty("auto none visiblepainted visiblefill visiblestroke visible painted fill stroke all", 1)
	properties["cursor"] = propertyGrammar{accept: acceptImage | acceptNumber, keywords: words(kwCursor), comma: true, maxItems: 3}
	properties["z-index"] = propertyGrammar{accept: acceptInteger, keywords: words("auto"), maxItems: 1}
	properties["order"] = propertyGrammar{accept: acceptInteger, maxItems: 1}
	properties["object-fit"] = keywordProperty("fill contain cover none scale-down", 1)
	properties["object-position"] = propertyGrammar{accept: acceptLengthPercentage, keywords: words("left center right top bottom"), tuple: true, maxItems: 4}
	properties["aspect-ratio"] = propertyGrammar{accept: acceptNumber, keywords: words("auto"), slash: true, maxItems: 4}
	properties["resize"] = keywordProperty("none both horizontal vertical block inline", 1)
	properties["isolation"] = keywordProperty("auto isolate", 1)
	properties["mix-blend-mode"] = keywordProperty(kwBlendMode+" plus-darker plus-lighter", 1)

	properties["flex-direction"] = keywordProperty("row row-reverse column column-reverse", 1)
	properties["flex-wrap"] = keywordProperty("nowrap wrap wrap-reverse", 1)
	properties["flex-grow"] = propertyGrammar{accept: acceptNumber, maxItems: 1}
	properties["flex-shrink"] = properties["flex-grow"]
	properties["flex-basis"] = lengthProperty("auto content min-content max-content fit-content")
	properties["flex"] = propertyGrammar{accept: acceptNumber | acceptLengthPercentage, keywords: words("none auto content"), maxItems: 3}
	for _, p := range []string{"align-items", "align-self", "align-content", "justify-content", "justify-items", "justify-self", "place-items", "place-content", "place-self"} {
		properties[p] = keywordProperty(kwAlign+" auto", 3)
	}
	properties["gap"] = propertyGrammar{accept: acceptLengthPercentage, keywords: words("normal"), maxItems: 2}
	properties["row-gap"] = lengthProperty("normal")
	properties["column-gap"] = lengthProperty("normal")
	properties["column-count"] = propertyGrammar{accept: acceptInteger, keywords: words("auto"), maxItems: 1}
	properties["grid-auto-flow"] = keywordProperty("row column dense", 2)

	properties["font-family"] = propertyGrammar{shape: shapeFontFamily}
	properties["font-size"] = lengthProperty(kwFontSize)
	properties["font-weight"] = propertyGrammar{accept: acceptNumber, keywords: words("normal bold bolder lighter"), maxItems: 1}
	properties["font-style"] = propertyGrammar{accept: acceptAngle, keywords: words("normal italic oblique"), maxItems: 2}
	properties["font-stretch"] = propertyGrammar{accept: acceptPercentage, keywords: words("normal ultra-condensed extra-condensed condensed semi-condensed semi-expanded expanded extra-expanded ultra-expanded"), maxItems: 1}
	properties["font-display"] = keywordProperty("auto block swap fallback optional", 1)
	properties["line-height"] = propertyGrammar{accept: acceptNumber | acceptLengthPercentage, keywords: words("normal"), maxItems: 1}
	properties["letter-spacing"] = lengthProperty("normal")
	properties["word-spacing"] = lengthProperty("normal")
	properties["text-indent"] = propertyGrammar{accept: acceptLengthPercentage, keywords: words("hanging each-line"), maxItems: 3}
	properties["text-align"] = keywordProperty("start end left right center justify match-parent", 1)
	properties["text-transform"] = keywordProperty("none capitalize uppercase lowercase full-width full-size-kana", 2)
	properties["text-decoration-line"] = keywordProperty("none underline overline line-through blink spelling-error grammar-error", 3)
	properties["text-decoration-style"] = keywordProperty("solid double dotted dashed wavy", 1)
	properties["text-decoration-thickness"] = lengthProperty("auto from-font")
	properties["text-underline-offset"] = lengthProperty("auto")
	properties["text-overflow"] = propertyGrammar{accept: acceptString, keywords: words("clip ellipsis"), maxItems: 2}
	properties["vertical-align"] = lengthProperty("baseline sub super text-top text-bottom middle top bottom")
	properties["white-space"] = keywordProperty("normal pre nowrap pre-wrap break-spaces pre-line", 2)
	properties["white-space-collapse"] = keywordProperty("collapse discard preserve preserve-breaks preserve-spaces break-spaces", 1)
	properties["text-wrap-mode"] = keywordProperty("wrap nowrap", 1)
	properties["text-wrap-style"] = keywordProperty("auto balance stable pretty", 1)
	properties["text-wrap"] = keywordProperty("wrap nowrap balance stable pretty auto", 2)
	properties["word-break"] = keywordProperty("normal break-all keep-all break-word auto-phrase", 1)
	properties["overflow-wrap"] = keywordProperty("normal break-word anywhere", 1)
	properties["hyphens"] = keywordProperty("none manual auto", 1)
	properties["user-select"] = keywordProperty("auto text none contain all", 1)
	properties["text-size-adjust"] = propertyGrammar{accept: acceptPercentage, keywords: words("none auto"), maxItems: 1}
	properties["list-style-type"] = propertyGrammar{accept: acceptString | acceptIdent, keywords: words("none"), maxItems: 1}
	properties["list-style-position"] = keywordProperty("inside outside", 1)
	properties["content"] = propertyGrammar{accept: acceptString | acceptImage | acceptIdent | acceptFunction, keywords: words("none normal open-quote close-quote no-open-quote no-close-quote"), slash: true}

	properties["background-image"] = layerProperty(acceptImage, "none", 1)
	properties["background-position-x"] = layerProperty(acceptLengthPercentage, "left center right x-start x-end", 2)
	properties["background-position-y"] = layerProperty(acceptLengthPercentage, "top center bottom y-start y-end", 2)
	properties["background-position"] = layerProperty(acceptLengthPercentage, "left center right top bottom", 4)
	properties["background-size"] = layerProperty(acceptLengthPercentage, "auto cover contain", 2)
	properties["background-repeat"] = layerProperty(0, "repeat-x repeat-y repeat space round no-repeat", 2)
	properties["background-attachment"] = layerProperty(0, "scroll fixed local", 1)
	properties["background-clip"] = layerProperty(0, kwBox+" text border-area", 1)
	properties["background-origin"] = layerProperty(0, kwBox, 1)
	properties["background-blend-mode"] = layerProperty(0, kwBlendMode, 1)
	properties["mask-image"] = properties["background-image"]

	transitionProperty := layerProperty(acceptIdent, "all", 1)
	transitionProperty.only = words("none")
	properties["transition-property"] = transitionProperty
	for _, p := range []string{"transition-duration", "transition-delay", "animation-delay"} {
		properties[p] = layerProperty(acceptTime, "", 1)
	}
	properties["animation-duration"] = layerProperty(acceptTime, "auto", 1)
	for _, p := range []string{"transition-timing-function", "animation-timing-function"} {
		g := layerProperty(0, kwEasing, 1)
		g.functions = familyEasing
		properties[p] = g
	}
	properties["transition-behavior"] = layerProperty(0, "normal allow-discrete", 1)
	animationName := layerProperty(acceptIdent|acceptString, "", 1)
	animationName.only = words("none")
	properties["animation-name"] = animationName
	properties["animation-iteration-count"] = layerProperty(acceptNumber, "infinite", 1)
	properties["animation-direction"] = layerProperty(0, "normal reverse alternate alternate-reverse", 1)
	properties["animation-fill-mode"] = layerProperty(0, "none forwards backwards both", 1)
	properties["animation-play-state"] = layerProperty(0, "running paused", 1)
	properties["animation-composition"] = layerProperty(0, "replace add accumulate", 1)
	properties["will-change"] = layerProperty(acceptIdent, "auto scroll-position contents", 1)

	properties["box-shadow"] = propertyGrammar{shape: shapeShadow, keywords: words("none")}
	properties["text-shadow"] = propertyGrammar{shape: shapeShadow, keywords: words("none")}
	properties["transform"] = propertyGrammar{shape: shapeTransform, keywords: words("none"), functions: familyTransform}
	properties["filter"] = propertyGrammar{shape: shapeFilter, keywords: words("none"), functions: familyFilter}
	properties["backdrop-filter"] = properties["filter"]
	properties["translate"] = propertyGrammar{accept: acceptLengthPercentage, keywords: words("none"), tuple: true, maxItems: 3}
	properties["scale"] = propertyGrammar{accept: acceptNumber | acceptPercentage, keywords: words("none"), tuple: true, maxItems: 3}
	properties["rotate"] = propertyGrammar{accept: acceptAngle | acceptNumber, keywords: words("none x y z"), maxItems: 4}
	properties["transform-origin"] = propertyGrammar{accept: acceptLengthPercentage, keywords: words("left center right top bottom"), tuple: true, maxItems: 3}
	properties["perspective-origin"] = propertyGrammar{accept: acceptLengthPercentage, keywords: words("left center right top bottom"), tuple: true, maxItems: 2}
	properties["perspective"] = propertyGrammar{accept: acceptLength, keywords: words("none"), maxItems: 1}
	properties["backface-visibility"] = keywordProperty("visible hidden", 1)
	properties["transform-style"] = keywordProperty("flat preserve-3d", 1)
	properties["border-spacing"] = propertyGrammar{accept: acceptLength, maxItems: 2}
}

// lookupProperty returns the grammar for a hyphenated property name.
func lookupProperty(property string) (propertyGrammar, bool) {
	g, ok := properties[property]
	return g, ok
}

// IsCustomProperty reports whether property is a custom property (--name).
func IsCustomProperty(property string) bool {
	return strings.HasPrefix(property, "--")
}

// IsRepeatedByComma reports whether property values are comma separated
// layers (background-image, transition-duration and so on).
func IsRepeatedByComma(property string) bool {
	g, ok := lookupProperty(Hyphenate(property))
	return ok && g.comma
}

// Hyphenate converts camelCase property names to their CSS form. Hyphenated
// and custom property names are returned as is, except for case folding of
// regular properties.
func Hyphenate(property string) string {
	if IsCustomProperty(property) {
		return property
	}
	if strings.ContainsRune(property, '-') || strings.ToLower(property) == property || strings.ToUpper(property) == property {
		return strings.ToLower(property)
	}
	var b strings.Builder
	b.Grow(len(property) + 4)
	// msTransform -> -ms-transform
	if len(property) > 2 && strings.HasPrefix(property, "ms") && unicode.IsUpper(rune(property[2])) {
		b.WriteByte('-')
	}
	for i, r := range property {
		if unicode.IsUpper(r) {
			// WebkitBackgroundClip -> -webkit-background-clip
			if i > 0 || strings.HasPrefix(property, "Webkit") || strings.HasPrefix(property, "Moz") {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
