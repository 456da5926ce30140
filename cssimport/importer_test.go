package cssimport_test

import (
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"

	"wscss/css"
	"wscss/cssimport"
	"wscss/engine"
)

const stylesheet = `
@font-face {
  font-family: "Inter";
  font-weight: 400;
  src: url(/inter.woff2) format("woff2");
}
@import url(theme.css);

.btn, a.link:hover { color: red !important; display: block; }
.card::before { --gap: 4px; display: sideways }

@media (max-width: 767px) {
  .btn { display: none }
}
@media screen and (orientation: landscape) {
  .btn { display: flex }
}
@supports (display: grid) {
  .grid { display: grid }
}
`

func TestImport(t *testing.T) {
	im := cssimport.NewImporter(zap.NewNop())
	res := im.Import([]byte(stylesheet), "test.css")

	p := css.NewParser(zap.NewNop())
	red := p.ParseValue("color", "red")

	if len(res.FontFaces) != 1 {
		t.Fatalf("got %d font faces, want 1", len(res.FontFaces))
	}
	ff := res.FontFaces[0]
	if ff.Family != "Inter" || ff.Weight != "400" || ff.Src != `url(/inter.woff2) format("woff2")` {
		t.Errorf("font face = %+v", ff)
	}

	type summary struct {
		media, selector, state string
		properties           []string
	}
	var got []summary
	for _, r := range res.Rules {
		s := summary{media: r.Media.String(), selector: r.Selector, state: r.State}
		for _, d := range r.Declarations {
			s.properties = append(s.properties, d.Property)
		}
		got = append(got, s)
	}
	want := []summary{
		{"base", ".btn", "", []string{"color", "display"}},
		{"base", "a.link", ":hover", []string{"color", "display"}},
		{"base", ".card", "::before", []string{"--gap"}},
		{"(max-width: 767px)", ".btn", "", []string{"display"}},
		{"screen and (orientation: landscape)", ".btn", "", []string{"display"}},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rules %+v, want %d", len(got), got, len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.media != w.media || g.selector != w.selector || g.state != w.state || !slices.Equal(g.properties, w.properties) {
			t.Errorf("rule %d = %+v, want %+v", i, g, w)
		}
	}

	if v := res.Rules[0].Declarations[0].Value; !css.Equal(v, red) {
		t.Errorf("color = %#v, want %#v", v, red)
	}
	if v := res.Rules[2].Declarations[0].Value; !css.Equal(v, css.UnitValue{Value: 4, Unit: "px"}) {
		t.Errorf("--gap = %#v, want 4px", v)
	}

	for _, fragment := range []string{"@import", "sideways", "@supports"} {
		if !slices.ContainsFunc(res.Warnings, func(w string) bool { return strings.Contains(w, fragment) }) {
			t.Errorf("no warning mentions %q: %q", fragment, res.Warnings)
		}
	}
}

func TestResult_Apply(t *testing.T) {
	sheet := engine.NewStyleSheet(zap.NewNop(), engine.DefaultOptions())
	if _, err := sheet.AddMediaRule("mobile", engine.MediaRuleOptions{MaxWidth: engine.Width(767)}); err != nil {
		t.Fatalf("AddMediaRule: %v", err)
	}

	res := cssimport.NewImporter(nil).Import([]byte(`
.btn { display: block }
.btn:hover { display: flex }
@media (max-width: 767px) { .btn { display: none } }
@media (min-width: 1280px) { .btn { display: grid } }
`), "")
	if err := res.Apply(sheet); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var ids []string
	for _, m := range sheet.MediaRules() {
		ids = append(ids, m.ID())
	}
	if want := []string{"base", "min-width-1280px", "mobile"}; !slices.Equal(ids, want) {
		t.Errorf("breakpoints = %q, want %q", ids, want)
	}

	rules := sheet.NestingRules()
	if len(rules) != 1 || rules[0].Selector() != ".btn" {
		t.Fatalf("got %d nesting rules, want a single .btn rule", len(rules))
	}
	var got []string
	for _, d := range rules[0].Declarations() {
		got = append(got, d.Breakpoint+d.Selector+" "+css.ToValue(d.Value, nil))
	}
	want := []string{"base block", "base:hover flex", "mobile none", "min-width-1280px grid"}
	if !slices.Equal(got, want) {
		t.Errorf("declarations = %q, want %q", got, want)
	}

	text := sheet.CSSText()
	if !strings.Contains(text, ".btn:hover {\n    display: flex\n  }") {
		t.Errorf("hover state not rendered:\n%s", text)
	}
}

func TestResult_Apply_ReusesBreakpoint(t *testing.T) {
	sheet := engine.NewStyleSheet(nil, engine.DefaultOptions())
	im := cssimport.NewImporter(nil)
	for _, src := range []string{"@media print { .a { display: none } }", "@media print { .b { display: none } }"} {
		if err := im.Import([]byte(src), "").Apply(sheet); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	if got := len(sheet.MediaRules()); got != 1 {
		t.Errorf("got %d breakpoints, want 1", got)
	}
	if _, ok := sheet.MediaRule("print"); !ok {
		t.Errorf("breakpoint print not registered")
	}
}
