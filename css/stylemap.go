package css

import "iter"

// Declaration is a single property with its value.
type Declaration struct {
	Property string
	Value    Value
}

// StyleMap is a property to value map which remembers insertion order.
// Setting an existing property keeps its position. The zero value is ready
// to use.
type StyleMap struct {
	decls []Declaration
	index map[string]int
}

// NewStyleMap builds a map from declarations, later duplicates win.
func NewStyleMap(decls ...Declaration) *StyleMap {
	m := &StyleMap{}
	for _, d := range decls {
		m.Set(d.Property, d.Value)
	}
	return m
}

func (m *StyleMap) Len() int { return len(m.decls) }

func (m *StyleMap) Get(property string) (Value, bool) {
	i, ok := m.index[property]
	if !ok {
		return nil, false
	}
	return m.decls[i].Value, true
}

func (m *StyleMap) Has(property string) bool {
	_, ok := m.index[property]
	return ok
}

func (m *StyleMap) Set(property string, v Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[property]; ok {
		m.decls[i].Value = v
		return
	}
	m.index[property] = len(m.decls)
	m.decls = append(m.decls, Declaration{Property: property, Value: v})
}

func (m *StyleMap) Delete(property string) {
	i, ok := m.index[property]
	if !ok {
		return
	}
	m.decls = append(m.decls[:i], m.decls[i+1:]...)
	m.reindex()
}

// All iterates declarations in order.
func (m *StyleMap) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, d := range m.decls {
			if !yield(d.Property, d.Value) {
				return
			}
		}
	}
}

// Declarations returns a copy of the declarations in order.
func (m *StyleMap) Declarations() []Declaration {
	return append([]Declaration(nil), m.decls...)
}

func (m *StyleMap) Clone() *StyleMap {
	c := &StyleMap{decls: m.Declarations()}
	c.reindex()
	return c
}

// replace substitutes property for the given longhands. It sits where the
// first present longhand was, the others are removed.
func (m *StyleMap) replace(longhands []string, property string, v Value) {
	first := -1
	drop := make(map[string]bool, len(longhands))
	for _, lh := range longhands {
		if i, ok := m.index[lh]; ok && (first < 0 || i < first) {
			first = i
		}
		drop[lh] = true
	}
	if first < 0 {
		m.Set(property, v)
		return
	}
	decls := make([]Declaration, 0, len(m.decls))
	for i, d := range m.decls {
		switch {
		case i == first:
			decls = append(decls, Declaration{Property: property, Value: v})
		case drop[d.Property] || d.Property == property:
			continue
		default:
			decls = append(decls, d)
		}
	}
	m.decls = decls
	m.reindex()
}

// insertBefore puts a declaration right before an existing property.
func (m *StyleMap) insertBefore(before, property string, v Value) {
	i, ok := m.index[before]
	if !ok || m.Has(property) {
		m.Set(property, v)
		return
	}
	m.decls = append(m.decls[:i], append([]Declaration{{Property: property, Value: v}}, m.decls[i:]...)...)
	m.reindex()
}

func (m *StyleMap) reindex() {
	m.index = make(map[string]int, len(m.decls))
	for i, d := range m.decls {
		m.index[d.Property] = i
	}
}
