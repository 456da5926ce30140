package css

// unitClass groups units by the kind of quantity they measure.
type unitClass int

const (
	unitUnknown unitClass = iota
	unitLength
	unitAngle
	unitTime
	unitFrequency
	unitResolution
	unitFlex
)

var units = map[string]unitClass{
	// absolute and font relative lengths
	"px": unitLength, "cm": unitLength, "mm": unitLength, "q": unitLength, "in": unitLength,
	"pt": unitLength, "pc": unitLength, "em": unitLength, "rem": unitLength, "ex": unitLength,
	"rex": unitLength, "cap": unitLength, "rcap": unitLength, "ch": unitLength, "rch": unitLength,
	"ic": unitLength, "ric": unitLength, "lh": unitLength, "rlh": unitLength,
	// viewport lengths
	"vw": unitLength, "vh": unitLength, "vi": unitLength, "vb": unitLength, "vmin": unitLength, "vmax": unitLength,
	"svw": unitLength, "svh": unitLength, "svi": unitLength, "svb": unitLength, "svmin": unitLength, "svmax": unitLength,
	"lvw": unitLength, "lvh": unitLength, "lvi": unitLength, "lvb": unitLength, "lvmin": unitLength, "lvmax": unitLength,
	"dvw": unitLength, "dvh": unitLength, "dvi": unitLength, "dvb": unitLength, "dvmin": unitLength, "dvmax": unitLength,
	// container query lengths
	"cqw": unitLength, "cqh": unitLength, "cqi": unitLength, "cqb": unitLength, "cqmin": unitLength, "cqmax": unitLength,

	"deg": unitAngle, "grad": unitAngle, "rad": unitAngle, "turn": unitAngle,
	"s": unitTime, "ms": unitTime,
	"hz": unitFrequency, "khz": unitFrequency,
	"dpi": unitResolution, "dpcm": unitResolution, "dppx": unitResolution, "x": unitResolution,
	"fr": unitFlex,
}

// classifyUnit returns the class of a lowercased unit.
func classifyUnit(unit string) unitClass {
	return units[unit]
}

// IsKnownUnit reports whether unit is a recognized CSS dimension unit,
// percent or "number".
func IsKnownUnit(u Unit) bool {
	if u == UnitNumber || u == UnitPercent {
		return true
	}
	return classifyUnit(string(u)) != unitUnknown
}

func isAngleValue(v Value) bool {
	u, ok := v.(UnitValue)
	if !ok {
		return false
	}
	return classifyUnit(string(u.Unit)) == unitAngle || (u.Unit == UnitNumber && u.Value == 0)
}

func isLengthPercentage(v Value) bool {
	u, ok := v.(UnitValue)
	if !ok {
		return false
	}
	switch {
	case u.Unit == UnitPercent:
		return true
	case u.Unit == UnitNumber:
		return u.Value == 0
	}
	return classifyUnit(string(u.Unit)) == unitLength
}
