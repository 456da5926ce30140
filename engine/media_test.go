package engine_test

import (
	"slices"
	"testing"

	"wscss/engine"
)

func TestCompareMedia(t *testing.T) {
	media := []engine.MediaRuleOptions{
		{},
		{MaxWidth: engine.Width(991)},
		{MaxWidth: engine.Width(479)},
		{MinWidth: engine.Width(1440)},
		{MinWidth: engine.Width(1280)},
	}
	want := []engine.MediaRuleOptions{
		{},
		{MinWidth: engine.Width(1280)},
		{MinWidth: engine.Width(1440)},
		{MaxWidth: engine.Width(991)},
		{MaxWidth: engine.Width(479)},
	}
	slices.SortFunc(media, engine.CompareMedia)
	if !slices.EqualFunc(media, want, engine.EqualMedia) {
		t.Errorf("got %v, want %v", media, want)
	}
}

func TestCompareMedia_Conditions(t *testing.T) {
	media := []engine.MediaRuleOptions{
		{MinWidth: engine.Width(768)},
		{Condition: "orientation: portrait"},
		{Condition: "hover: hover"},
		{},
		{MinWidth: engine.Width(768), MaxWidth: engine.Width(991)},
	}
	want := []string{
		"base",
		"(hover: hover)",
		"(orientation: portrait)",
		"(min-width: 768px)",
		"(min-width: 768px) and (max-width: 991px)",
	}
	slices.SortFunc(media, engine.CompareMedia)
	var got []string
	for _, m := range media {
		got = append(got, m.String())
	}
	if !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMatchMedia(t *testing.T) {
	tests := []struct {
		options engine.MediaRuleOptions
		width   float64
		want    bool
	}{
		{engine.MediaRuleOptions{}, 0, true},
		{engine.MediaRuleOptions{MinWidth: engine.Width(768)}, 768, true},
		{engine.MediaRuleOptions{MinWidth: engine.Width(768)}, 767, false},
		{engine.MediaRuleOptions{MaxWidth: engine.Width(767)}, 767, true},
		{engine.MediaRuleOptions{MaxWidth: engine.Width(767)}, 768, false},
		{engine.MediaRuleOptions{MinWidth: engine.Width(100), MaxWidth: engine.Width(200)}, 150, true},
		{engine.MediaRuleOptions{Condition: "hover: hover"}, 500, false},
	}
	for _, tt := range tests {
		if got := engine.MatchMedia(tt.options, tt.width); got != tt.want {
			t.Errorf("MatchMedia(%v, %v) = %v, want %v", tt.options, tt.width, got, tt.want)
		}
	}
}

func TestFindApplicableMedia(t *testing.T) {
	media := []engine.MediaRuleOptions{
		{},
		{MaxWidth: engine.Width(991)},
		{MaxWidth: engine.Width(767)},
		{MaxWidth: engine.Width(479)},
	}
	tests := []struct {
		width float64
		want  engine.MediaRuleOptions
	}{
		{480, engine.MediaRuleOptions{MaxWidth: engine.Width(767)}},
		{479, engine.MediaRuleOptions{MaxWidth: engine.Width(479)}},
		{900, engine.MediaRuleOptions{MaxWidth: engine.Width(991)}},
		{1200, engine.MediaRuleOptions{}},
	}
	for _, tt := range tests {
		got, ok := engine.FindApplicableMedia(media, tt.width)
		if !ok || !engine.EqualMedia(got, tt.want) {
			t.Errorf("FindApplicableMedia(%v) = %v, %v, want %v", tt.width, got, ok, tt.want)
		}
	}

	if got, ok := engine.FindApplicableMedia(media[1:], 1200); ok {
		t.Errorf("FindApplicableMedia without base = %v, want no match", got)
	}
}

func TestParseMediaQuery(t *testing.T) {
	tests := []struct {
		query string
		want  engine.MediaRuleOptions
	}{
		{"", engine.MediaRuleOptions{}},
		{"(min-width: 768px)", engine.MediaRuleOptions{MinWidth: engine.Width(768)}},
		{"(MAX-WIDTH:991.5px)", engine.MediaRuleOptions{MaxWidth: engine.Width(991.5)}},
		{"screen and (min-width: 768px) and (max-width: 991px)",
			engine.MediaRuleOptions{MediaType: "screen", MinWidth: engine.Width(768), MaxWidth: engine.Width(991)}},
		{"print", engine.MediaRuleOptions{MediaType: "print"}},
		{"(orientation: landscape)", engine.MediaRuleOptions{Condition: "orientation: landscape"}},
		{"(hover: hover) and (min-width: 100px)",
			engine.MediaRuleOptions{Condition: "(hover: hover) and (min-width: 100px)"}},
		{"(min-width: 50em)", engine.MediaRuleOptions{Condition: "min-width: 50em"}},
	}
	for _, tt := range tests {
		got, err := engine.ParseMediaQuery(tt.query)
		if err != nil {
			t.Errorf("ParseMediaQuery(%q): %v", tt.query, err)
			continue
		}
		if !engine.EqualMedia(got, tt.want) {
			t.Errorf("ParseMediaQuery(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestParseMediaQuery_Errors(t *testing.T) {
	for _, query := range []string{
		"(min-width: 100px",
		"min-width: 100px)",
		"()",
		"(min-width: 900px) and (max-width: 100px)",
		"not screen",
	} {
		if got, err := engine.ParseMediaQuery(query); err == nil {
			t.Errorf("ParseMediaQuery(%q) = %v, want error", query, got)
		}
	}
}

func TestMediaRuleOptions_Validate(t *testing.T) {
	bad := engine.MediaRuleOptions{Condition: "hover: hover", MinWidth: engine.Width(1)}
	if err := bad.Validate(); err == nil {
		t.Errorf("Validate(%v) succeeded, want error", bad)
	}
	good := engine.MediaRuleOptions{MinWidth: engine.Width(1), MaxWidth: engine.Width(1)}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate(%v): %v", good, err)
	}
}
