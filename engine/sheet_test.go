package engine_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"wscss/css"
	"wscss/engine"
)

func kw(s string) css.KeywordValue { return css.KeywordValue{Value: s} }

func px(v float64) css.UnitValue { return css.UnitValue{Value: v, Unit: "px"} }

func newSheet(t *testing.T) *engine.StyleSheet {
	t.Helper()
	s := engine.NewStyleSheet(zap.NewNop(), engine.DefaultOptions())
	if _, err := s.AddMediaRule("base", engine.MediaRuleOptions{}); err != nil {
		t.Fatalf("AddMediaRule: %v", err)
	}
	return s
}

func decl(property string, value css.Value) engine.Declaration {
	return engine.Declaration{Breakpoint: "base", Property: property, Value: value}
}

func TestStyleSheet_CSSText(t *testing.T) {
	s := newSheet(t)
	if _, err := s.AddMediaRule("tablet", engine.MediaRuleOptions{MaxWidth: engine.Width(991)}); err != nil {
		t.Fatalf("AddMediaRule: %v", err)
	}
	r := s.AddNestingRule(".a", "")
	r.SetDeclaration(decl("display", kw("block")))
	r.SetDeclaration(engine.Declaration{Breakpoint: "tablet", Property: "width", Value: px(10)})

	want := "@media all {\n  .a {\n    display: block\n  }\n}\n" +
		"@media all and (max-width: 991px) {\n  .a {\n    width: 10px\n  }\n}"
	if got := s.CSSText(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestStyleSheet_Empty(t *testing.T) {
	s := newSheet(t)
	s.AddNestingRule(".a", "")
	if got := s.CSSText(); got != "" {
		t.Errorf("got %q, want empty text", got)
	}
}

func TestStyleSheet_Invalidation(t *testing.T) {
	s := newSheet(t)
	r := s.AddNestingRule(".a", "")
	r.SetDeclaration(decl("color", kw("red")))
	first := s.CSSText()
	if again := s.CSSText(); again != first {
		t.Fatalf("second CSSText = %q, want %q", again, first)
	}

	r.SetDeclaration(decl("color", kw("blue")))
	if got := s.CSSText(); !strings.Contains(got, "color: blue") {
		t.Errorf("after update got %q, want color: blue", got)
	}

	r.DeleteDeclaration(decl("color", nil))
	if got := s.CSSText(); got != "" {
		t.Errorf("after delete got %q, want empty text", got)
	}

	if r2 := s.AddNestingRule(".a", ""); r2 != r {
		t.Errorf("AddNestingRule returned a new rule for an existing selector")
	}
}

func TestStyleSheet_Mixins(t *testing.T) {
	s := newSheet(t)
	m := s.AddMixinRule("token")
	m.SetDeclaration(decl("display", kw("flex")))
	m.SetDeclaration(decl("color", kw("red")))

	r := s.AddNestingRule(".a", "")
	r.SetDeclaration(decl("display", kw("block")))
	r.ApplyMixins("token", "missing")

	want := "@media all {\n  .a {\n    display: block; color: red\n  }\n}"
	if got := s.CSSText(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}

	m.SetDeclaration(decl("color", kw("green")))
	if got := s.CSSText(); !strings.Contains(got, "color: green") {
		t.Errorf("mixin update not rendered: %q", got)
	}

	s.DeleteMixinRule("token")
	want = "@media all {\n  .a {\n    display: block\n  }\n}"
	if got := s.CSSText(); got != want {
		t.Errorf("after mixin delete got\n%s\nwant\n%s", got, want)
	}
}

func TestStyleSheet_States(t *testing.T) {
	s := newSheet(t)
	r := s.AddNestingRule(`[data-ws-id="x"]`, "")
	r.SetDeclaration(engine.Declaration{Breakpoint: "base", Selector: ":hover", Property: "color", Value: kw("blue")})
	r.SetDeclaration(decl("color", kw("red")))

	want := "@media all {\n" +
		"  [data-ws-id=\"x\"] {\n    color: red\n  }\n" +
		"  [data-ws-id=\"x\"]:hover {\n    color: blue\n  }\n}"
	if got := s.CSSText(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestStyleSheet_Transform(t *testing.T) {
	s := newSheet(t)
	r := s.AddNestingRule(".a", "")
	r.SetDeclaration(decl("color", kw("brand")))
	if got := s.CSSText(); !strings.Contains(got, "color: brand") {
		t.Fatalf("got %q, want color: brand", got)
	}

	s.SetTransformValue(func(v css.Value) css.Value {
		if k, ok := v.(css.KeywordValue); ok && k.Value == "brand" {
			return kw("rebeccapurple")
		}
		return nil
	})
	if got := s.CSSText(); !strings.Contains(got, "color: rebeccapurple") {
		t.Errorf("transform not applied: %q", got)
	}
}

func TestStyleSheet_ClearDetachesMixins(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := engine.NewStyleSheet(zap.New(core), engine.DefaultOptions())
	m := s.AddMixinRule("tokens")
	s.Clear()

	s.CSSText()
	m.SetDeclaration(decl("color", kw("red")))
	s.CSSText()
	if got := logs.FilterMessage("Style sheet generated").Len(); got != 1 {
		t.Errorf("got %d generations, want 1", got)
	}
	if _, ok := s.MixinRule("tokens"); ok {
		t.Error("mixin kept after Clear")
	}
}

func TestStyleSheet_PlaintextAndFonts(t *testing.T) {
	s := newSheet(t)
	s.AddPlaintextRule("html { margin: 0 }")
	s.AddPlaintextRule("html { margin: 0 }")
	s.AddFontFaceRule(engine.FontFace{Family: "Inter", Weight: "400", Src: `url("/inter.woff2") format("woff2")`})

	want := "@font-face {\n  font-family: \"Inter\"; font-weight: 400; src: url(\"/inter.woff2\") format(\"woff2\");\n}\n" +
		"html { margin: 0 }"
	if got := s.CSSText(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}

	s.Clear()
	if got := s.CSSText(); got != "" {
		t.Errorf("after Clear got %q, want empty text", got)
	}
}

func TestStyleSheet_MergeAndPrefix(t *testing.T) {
	s := newSheet(t)
	r := s.AddNestingRule(".a", "")
	r.SetDeclaration(decl("user-select", kw("none")))

	want := "@media all {\n  .a {\n    -webkit-user-select: none; user-select: none\n  }\n}"
	if got := s.CSSText(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}

	plain := engine.NewStyleSheet(nil, engine.Options{Indent: 0})
	if _, err := plain.AddMediaRule("base", engine.MediaRuleOptions{}); err != nil {
		t.Fatalf("AddMediaRule: %v", err)
	}
	plain.AddNestingRule(".a", "").SetDeclaration(decl("user-select", kw("none")))
	want = "@media all {\n.a {\n  user-select: none\n}\n}"
	if got := plain.CSSText(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestStyleSheet_AddMediaRule_Invalid(t *testing.T) {
	s := newSheet(t)
	_, err := s.AddMediaRule("bad", engine.MediaRuleOptions{MinWidth: engine.Width(10), MaxWidth: engine.Width(5)})
	if err == nil {
		t.Fatal("AddMediaRule succeeded, want error")
	}
	if _, ok := s.MediaRule("bad"); ok {
		t.Error("invalid breakpoint registered")
	}
}
