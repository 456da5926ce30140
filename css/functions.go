package css

import (
	"math"
	"strings"
)

// functionFamily tells which properties a function may appear in.
type functionFamily uint8

const (
	familyTransform functionFamily = 1 << iota
	familyFilter
	familyEasing
)

// argGrouping is how a function separates its arguments.
type argGrouping int

const (
	groupComma argGrouping = iota // parsed into layers
	groupSpace                    // parsed into a tuple
)

type functionSpec struct {
	family   functionFamily
	grouping argGrouping
	minArgs  int
	maxArgs  int // -1 for unlimited
	accept   accept
	keywords keywordSet
}

func transformFn(minArgs, maxArgs int, a accept) functionSpec {
	return functionSpec{family: familyTransform, minArgs: minArgs, maxArgs: maxArgs, accept: a}
}

func filterFn(a accept) functionSpec {
	return functionSpec{family: familyFilter, minArgs: 0, maxArgs: 1, accept: a}
}

// functions is keyed by lowercased function name.
var functions = map[string]functionSpec{
	"translate":   transformFn(1, 2, acceptLengthPercentage),
	"translatex":  transformFn(1, 1, acceptLengthPercentage),
	"translatey":  transformFn(1, 1, acceptLengthPercentage),
	"translatez":  transformFn(1, 1, acceptLength),
	"translate3d": transformFn(3, 3, acceptLengthPercentage),
	"scale":       transformFn(1, 2, acceptNumber|acceptPercentage),
	"scalex":      transformFn(1, 1, acceptNumber|acceptPercentage),
	"scaley":      transformFn(1, 1, acceptNumber|acceptPercentage),
	"scalez":      transformFn(1, 1, acceptNumber|acceptPercentage),
	"scale3d":     transformFn(3, 3, acceptNumber|acceptPercentage),
	"rotate":      transformFn(1, 1, acceptAngle),
	"rotatex":     transformFn(1, 1, acceptAngle),
	"rotatey":     transformFn(1, 1, acceptAngle),
	"rotatez":     transformFn(1, 1, acceptAngle),
	"rotate3d":    transformFn(4, 4, acceptNumber|acceptAngle),
	"skew":        transformFn(1, 2, acceptAngle),
	"skewx":       transformFn(1, 1, acceptAngle),
	"skewy":       transformFn(1, 1, acceptAngle),
	"matrix":      transformFn(6, 6, acceptNumber),
	"matrix3d":    transformFn(16, 16, acceptNumber),
	"perspective": {family: familyTransform, minArgs: 1, maxArgs: 1, accept: acceptLength, keywords: words("none")},

	"blur":        filterFn(acceptLength),
	"brightness":  filterFn(acceptNumber | acceptPercentage),
	"contrast":    filterFn(acceptNumber | acceptPercentage),
	"grayscale":   filterFn(acceptNumber | acceptPercentage),
	"invert":      filterFn(acceptNumber | acceptPercentage),
	"opacity":     filterFn(acceptNumber | acceptPercentage),
	"saturate":    filterFn(acceptNumber | acceptPercentage),
	"sepia":       filterFn(acceptNumber | acceptPercentage),
	"hue-rotate":  filterFn(acceptAngle),
	"drop-shadow": {family: familyFilter, grouping: groupSpace, minArgs: 2, maxArgs: 4, accept: acceptLength | acceptColor, keywords: words(kwColor)},

	"cubic-bezier": {family: familyEasing, minArgs: 4, maxArgs: 4, accept: acceptNumber},
	"steps":        {family: familyEasing, minArgs: 1, maxArgs: 2, accept: acceptInteger, keywords: words("jump-start jump-end jump-none jump-both start end")},
	"linear":       {family: familyEasing, minArgs: 1, maxArgs: -1, accept: acceptNumber | acceptPercentage},
}

func lookupFunction(name string) (functionSpec, bool) {
	spec, ok := functions[strings.ToLower(name)]
	return spec, ok
}

// mathFunctions cannot be evaluated here and are kept as unparsed arguments.
var mathFunctions = words("calc min max clamp round mod rem abs sign env")

func (s functionSpec) validArgs(args []Value) bool {
	if len(args) < s.minArgs || (s.maxArgs >= 0 && len(args) > s.maxArgs) {
		return false
	}
	for _, arg := range args {
		if !matchesAccept(arg, s.accept, s.keywords) {
			return false
		}
	}
	return true
}

// matchesAccept reports whether a parsed leaf belongs to one of the classes.
// References and math expressions always match, they are resolved later.
func matchesAccept(v Value, a accept, keywords keywordSet) bool {
	switch v := v.(type) {
	case VarValue, UnparsedValue:
		return true
	case KeywordValue:
		return keywords.has(v.Value)
	case ColorValue:
		return a&acceptColor != 0
	case ImageValue:
		return a&acceptImage != 0
	case TupleValue:
		for _, item := range v.Items {
			if !matchesAccept(item, a, keywords) {
				return false
			}
		}
		return len(v.Items) > 0
	case UnitValue:
		return unitMatches(v, a)
	}
	return false
}

func unitMatches(v UnitValue, a accept) bool {
	switch v.Unit {
	case UnitNumber:
		if a&acceptNumber != 0 {
			return true
		}
		if a&acceptInteger != 0 && v.Value == math.Trunc(v.Value) {
			return true
		}
		// unitless zero is a valid length and, in transforms, a valid angle
		return v.Value == 0 && a&(acceptLength|acceptAngle) != 0
	case UnitPercent:
		return a&acceptPercentage != 0
	}
	switch classifyUnit(string(v.Unit)) {
	case unitLength:
		return a&acceptLength != 0
	case unitAngle:
		return a&acceptAngle != 0
	case unitTime:
		return a&acceptTime != 0
	case unitResolution:
		return a&acceptResolution != 0
	case unitFlex:
		return a&acceptFlex != 0
	}
	return false
}
