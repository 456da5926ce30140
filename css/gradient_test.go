package css_test

import (
	"testing"

	"wscss/css"
)

var (
	red  = rgb(255, 0, 0, 1)
	blue = rgb(0, 0, 255, 1)
)

func pct(v float64) css.UnitValue { return css.UnitValue{Value: v, Unit: css.UnitPercent} }

func expectStops(t *testing.T, got, want []css.GradientStop) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d stops, want %d: %#v", len(got), len(want), got)
	}
	for i := range want {
		if !css.Equal(got[i].Color, want[i].Color) ||
			!css.Equal(got[i].Position, want[i].Position) ||
			!css.Equal(got[i].Hint, want[i].Hint) {
			t.Errorf("stop %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestParseLinearGradient(t *testing.T) {
	g := css.ParseLinearGradient("linear-gradient(45deg, red, blue 50%)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	if g.Repeating || g.To != "" || !css.Equal(g.Angle, css.UnitValue{Value: 45, Unit: "deg"}) {
		t.Errorf("unexpected header %#v", g)
	}
	expectStops(t, g.Stops, []css.GradientStop{{Color: red}, {Color: blue, Position: pct(50)}})
	if got, want := g.String(), "linear-gradient(45deg, rgba(255, 0, 0, 1), rgba(0, 0, 255, 1) 50%)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseLinearGradient_Direction(t *testing.T) {
	g := css.ParseLinearGradient("repeating-linear-gradient(to top right, #000 0, #fff 10px)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	if !g.Repeating || g.To != "top right" || g.Angle != nil {
		t.Errorf("unexpected header %#v", g)
	}
	expectStops(t, g.Stops, []css.GradientStop{
		{Color: rgb(0, 0, 0, 1), Position: num(0)},
		{Color: rgb(255, 255, 255, 1), Position: px(10)},
	})
	if got, want := g.String(), "repeating-linear-gradient(to top right, rgba(0, 0, 0, 1) 0, rgba(255, 255, 255, 1) 10px)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseLinearGradient_Hints(t *testing.T) {
	g := css.ParseLinearGradient("linear-gradient(red, 30%, blue)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	expectStops(t, g.Stops, []css.GradientStop{{Color: red}, {Color: blue, Hint: pct(30)}})
	if got, want := g.String(), "linear-gradient(rgba(255, 0, 0, 1), 30%, rgba(0, 0, 255, 1))"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseLinearGradient_DoublePosition(t *testing.T) {
	g := css.ParseLinearGradient("linear-gradient(red 10% 20%, blue)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	expectStops(t, g.Stops, []css.GradientStop{
		{Color: red, Position: pct(10)},
		{Color: red, Position: pct(20)},
		{Color: blue},
	})
}

func TestParseLinearGradient_Vars(t *testing.T) {
	g := css.ParseLinearGradient("linear-gradient(var(--angle), red)")
	if g == nil || !css.Equal(g.Angle, css.VarValue{Name: "angle"}) {
		t.Fatalf("expected var angle, got %#v", g)
	}
	g = css.ParseLinearGradient("linear-gradient(var(--x, to right), red)")
	if g == nil || !css.Equal(g.Angle, css.VarValue{Name: "x", Fallback: css.UnparsedValue{Value: "to right"}}) {
		t.Fatalf("expected var direction, got %#v", g)
	}
	g = css.ParseLinearGradient("linear-gradient(var(--from), var(--to))")
	if g == nil {
		t.Fatal("expected gradient")
	}
	if g.Angle != nil {
		t.Errorf("color var taken for angle: %#v", g.Angle)
	}
	expectStops(t, g.Stops, []css.GradientStop{{Color: css.VarValue{Name: "from"}}, {Color: css.VarValue{Name: "to"}}})
}

func TestParseLinearGradient_UnknownColorFunction(t *testing.T) {
	g := css.ParseLinearGradient("linear-gradient(color-mix(in srgb, red, blue) 10%, blue)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	expectStops(t, g.Stops, []css.GradientStop{
		{Color: css.UnparsedValue{Value: "color-mix(in srgb, red, blue)"}, Position: pct(10)},
		{Color: blue},
	})
}

func TestParseLinearGradient_Rejected(t *testing.T) {
	for _, text := range []string{
		"",
		"red",
		"linear-gradient()",
		"linear-gradient(red,,blue)",
		"linear-gradient(30%, red)",
		"linear-gradient(red, 30%)",
		"linear-gradient(red, 10%, 20%, blue)",
		"linear-gradient(to left right, red)",
		"linear-gradient(to middle, red)",
		"linear-gradient(red 45deg)",
		"linear-gradient(red 1px 2px 3px)",
		"radial-gradient(red, blue)",
		"linear-gradient(45deg)",
		"linear-gradient(url(",
		"linear-gradient(url(a",
	} {
		if g := css.ParseLinearGradient(text); g != nil {
			t.Errorf("ParseLinearGradient(%q) = %#v, want nil", text, g)
		}
	}
}

func TestParseRadialGradient(t *testing.T) {
	g := css.ParseRadialGradient("radial-gradient(circle at center, red, blue)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	if g.Shape != "circle" || g.Size != nil || !css.Equal(g.Position, css.TupleValue{Items: []css.Value{kw("center")}}) {
		t.Errorf("unexpected header %#v", g)
	}
	if got, want := g.String(), "radial-gradient(circle at center, rgba(255, 0, 0, 1), rgba(0, 0, 255, 1))"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	g = css.ParseRadialGradient("repeating-radial-gradient(ellipse 10px 20px at 0 0, red, blue)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	if !g.Repeating || !css.Equal(g.Size, css.TupleValue{Items: []css.Value{px(10), px(20)}}) {
		t.Errorf("unexpected header %#v", g)
	}
	if got, want := g.String(), "repeating-radial-gradient(ellipse 10px 20px at 0 0, rgba(255, 0, 0, 1), rgba(0, 0, 255, 1))"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	g = css.ParseRadialGradient("radial-gradient(farthest-corner, red)")
	if g == nil || !css.Equal(g.Size, kw("farthest-corner")) {
		t.Errorf("expected extent keyword, got %#v", g)
	}

	g = css.ParseRadialGradient("radial-gradient(red, blue)")
	if g == nil || g.Shape != "" || g.Position != nil {
		t.Errorf("expected plain stops, got %#v", g)
	}
}

func TestParseRadialGradient_Rejected(t *testing.T) {
	for _, text := range []string{
		"radial-gradient(circle 10px 20px, red)",
		"radial-gradient(circle ellipse, red)",
		"radial-gradient(closest-side 10px, red)",
		"radial-gradient(circle at, red)",
		"radial-gradient(circle)",
		"linear-gradient(red)",
	} {
		if g := css.ParseRadialGradient(text); g != nil {
			t.Errorf("ParseRadialGradient(%q) = %#v, want nil", text, g)
		}
	}
}

func TestParseConicGradient(t *testing.T) {
	g := css.ParseConicGradient("conic-gradient(from 90deg at 50% 50%, red, 25%, blue 50%)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	if !css.Equal(g.Angle, css.UnitValue{Value: 90, Unit: "deg"}) ||
		!css.Equal(g.Position, css.TupleValue{Items: []css.Value{pct(50), pct(50)}}) {
		t.Errorf("unexpected header %#v", g)
	}
	expectStops(t, g.Stops, []css.GradientStop{{Color: red}, {Color: blue, Position: pct(50), Hint: pct(25)}})
	if got, want := g.String(), "conic-gradient(from 90deg at 50% 50%, rgba(255, 0, 0, 1), 25%, rgba(0, 0, 255, 1) 50%)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseConicGradient_Vars(t *testing.T) {
	g := css.ParseConicGradient("conic-gradient(var(--start-angle), red)")
	if g == nil || !css.Equal(g.Angle, css.VarValue{Name: "start-angle"}) {
		t.Fatalf("expected var angle, got %#v", g)
	}
	g = css.ParseConicGradient("conic-gradient(red, var(--mid-angle), blue)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	expectStops(t, g.Stops, []css.GradientStop{{Color: red}, {Color: blue, Hint: css.VarValue{Name: "mid-angle"}}})

	g = css.ParseConicGradient("conic-gradient(from var(--x), red)")
	if g == nil || !css.Equal(g.Angle, css.VarValue{Name: "x"}) {
		t.Fatalf("expected explicit var angle, got %#v", g)
	}
	if g := css.ParseConicGradient("conic-gradient(red 10px)"); g != nil {
		t.Errorf("length stop accepted in conic gradient: %#v", g)
	}
	if g := css.ParseConicGradient("conic-gradient(url("); g != nil {
		t.Errorf("unterminated url accepted in conic gradient: %#v", g)
	}
}

func TestGradientFormat_Transform(t *testing.T) {
	g := css.ParseLinearGradient("linear-gradient(to right, red, blue)")
	if g == nil {
		t.Fatal("expected gradient")
	}
	named := func(v css.Value) css.Value {
		if css.Equal(v, red) {
			return kw("red")
		}
		return nil
	}
	if got, want := g.Format(named), "linear-gradient(to right, red, rgba(0, 0, 255, 1))"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestGradientRoundTrip(t *testing.T) {
	for _, text := range []string{
		"linear-gradient(to bottom, rgba(255, 0, 0, 1) 0, 40%, rgba(0, 0, 255, 1) 100%)",
		"repeating-radial-gradient(circle 10px at left top, var(--a), var(--b) 20px)",
		"conic-gradient(from 0.25turn, rgba(0, 0, 0, 0.5), transparent)",
	} {
		var got string
		switch {
		case css.ParseLinearGradient(text) != nil:
			got = css.ParseLinearGradient(text).String()
		case css.ParseRadialGradient(text) != nil:
			got = css.ParseRadialGradient(text).String()
		case css.ParseConicGradient(text) != nil:
			got = css.ParseConicGradient(text).String()
		default:
			t.Errorf("%q did not parse", text)
			continue
		}
		if got != text {
			t.Errorf("round trip of %q gave %q", text, got)
		}
	}
}
