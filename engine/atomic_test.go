package engine_test

import (
	"slices"
	"strings"
	"testing"

	"wscss/css"
	"wscss/engine"
)

func TestGenerateAtomic(t *testing.T) {
	s := newSheet(t)
	a := s.AddNestingRule(".a", "")
	a.SetDeclaration(decl("display", kw("block")))
	a.SetDeclaration(decl("color", kw("red")))
	b := s.AddNestingRule(".b", "")
	b.SetDeclaration(decl("display", kw("block")))

	res := engine.GenerateAtomic(s, engine.AtomicOptions{})

	display := engine.AtomicClassName("c", 7, "base", "", "display", "block")
	color := engine.AtomicClassName("c", 7, "base", "", "color", "red")
	if got, want := res.Classes[".a"], []string{display, color}; !slices.Equal(got, want) {
		t.Errorf(".a classes = %q, want %q", got, want)
	}
	if got, want := res.Classes[".b"], []string{display}; !slices.Equal(got, want) {
		t.Errorf(".b classes = %q, want %q", got, want)
	}

	want := "@media all {\n" +
		"  ." + display + " {\n    display: block\n  }\n" +
		"  ." + color + " {\n    color: red\n  }\n}"
	if res.CSSText != want {
		t.Errorf("got\n%s\nwant\n%s", res.CSSText, want)
	}
}

func TestGenerateAtomic_States(t *testing.T) {
	s := newSheet(t)
	r := s.AddNestingRule(".a", "")
	r.SetDeclaration(engine.Declaration{Breakpoint: "base", Selector: ":hover", Property: "color", Value: kw("blue")})

	res := engine.GenerateAtomic(s, engine.AtomicOptions{ClassPrefix: "x", HashLength: 4})
	classes := res.Classes[".a"]
	if len(classes) != 1 {
		t.Fatalf("got classes %q, want one", classes)
	}
	if c := classes[0]; len(c) != 5 || !strings.HasPrefix(c, "x") {
		t.Errorf("class %q, want x followed by 4 digits", c)
	}
	if want := "." + classes[0] + ":hover {"; !strings.Contains(res.CSSText, want) {
		t.Errorf("got %q, want it to contain %q", res.CSSText, want)
	}
}

func TestGenerateAtomic_KeyAndTransform(t *testing.T) {
	s := newSheet(t)
	s.AddNestingRule(".a", "").SetDeclaration(decl("color", kw("brand")))
	s.AddNestingRule(".a", " > span").SetDeclaration(decl("display", kw("none")))

	res := engine.GenerateAtomic(s, engine.AtomicOptions{
		GetKey: func(*engine.NestingRule) string { return "owner" },
		Transform: func(v css.Value) css.Value {
			if k, ok := v.(css.KeywordValue); ok && k.Value == "brand" {
				return kw("navy")
			}
			return nil
		},
	})
	if got := len(res.Classes["owner"]); got != 2 {
		t.Errorf("got %d classes for owner, want 2", got)
	}
	if !strings.Contains(res.CSSText, "color: navy") {
		t.Errorf("transform not applied: %q", res.CSSText)
	}
	if want := engine.AtomicClassName("c", 7, "base", "", "color", "navy"); res.Classes["owner"][0] != want {
		t.Errorf("got class %q, want %q", res.Classes["owner"][0], want)
	}
}

func TestAtomicClassName(t *testing.T) {
	a := engine.AtomicClassName("c", 7, "base", "", "color", "red")
	if a != engine.AtomicClassName("c", 7, "base", "", "color", "red") {
		t.Error("class name is not stable")
	}
	if a == engine.AtomicClassName("c", 7, "tablet", "", "color", "red") {
		t.Error("breakpoint does not affect class name")
	}
	if a == engine.AtomicClassName("c", 7, "base", ":hover", "color", "red") {
		t.Error("state does not affect class name")
	}
	if len(a) != 8 {
		t.Errorf("len(%q) = %d, want 8", a, len(a))
	}
}
