package css

// parseFunctionList parses space separated function calls such as transform
// and filter values into a tuple of functions. var() references are kept as
// tuple items.
func parseFunctionList(nodes []node, family functionFamily) (TupleValue, bool) {
	if len(nodes) == 0 {
		return TupleValue{}, false
	}
	tuple := TupleValue{Items: make([]Value, 0, len(nodes))}
	for _, n := range nodes {
		if n.kind != nodeFunction {
			return TupleValue{}, false
		}
		if v, ok := parseVarNode(n); ok {
			tuple.Items = append(tuple.Items, v)
			continue
		}
		spec, ok := lookupFunction(n.name)
		if !ok || spec.family&family == 0 {
			return TupleValue{}, false
		}
		fn, ok := parseFunctionNode(n)
		if !ok {
			return TupleValue{}, false
		}
		tuple.Items = append(tuple.Items, fn)
	}
	return tuple, true
}
