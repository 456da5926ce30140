package css

// webkitPrefixed lists properties still needing a -webkit- copy.
var webkitPrefixed = map[string]bool{
	"background-clip":  true,
	"user-select":      true,
	"text-size-adjust": true,
	"backdrop-filter":  true,
}

// Prefix returns a copy of styles where every property needing a vendor
// prefix is preceded by its -webkit- twin.
func Prefix(styles *StyleMap) *StyleMap {
	m := styles.Clone()
	for _, d := range styles.Declarations() {
		if webkitPrefixed[d.Property] {
			m.insertBefore(d.Property, "-webkit-"+d.Property, d.Value)
		}
	}
	return m
}
