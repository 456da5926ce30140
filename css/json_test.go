package css_test

import (
	"encoding/json"
	"testing"

	"wscss/css"
)

func TestMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value css.Value
		want  string
	}{
		{"unit", px(10), `{"type":"unit","unit":"px","value":10}`},
		{"keyword", kw("auto"), `{"type":"keyword","value":"auto"}`},
		{"color", rgb(1, 2, 3, 0.5), `{"type":"rgb","r":1,"g":2,"b":3,"alpha":0.5}`},
		{"asset", css.ImageValue{Asset: "a1"}, `{"type":"image","value":{"type":"asset","value":"a1"}}`},
		{"url", css.ImageValue{URL: "/x.png", Hidden: true}, `{"type":"image","value":{"type":"url","url":"/x.png"},"hidden":true}`},
		{"var", css.VarValue{Name: "gap", Fallback: px(4)}, `{"type":"var","value":"gap","fallback":{"type":"unit","unit":"px","value":4}}`},
		{"empty layers", css.LayersValue{}, `{"type":"layers","value":[]}`},
		{"unset", css.UnsetValue{}, `{"type":"unset","value":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("got %s, want %s", data, tt.want)
			}
		})
	}
}

func TestUnmarshalValue_RoundTrip(t *testing.T) {
	p := newParser()
	values := []css.Value{
		p.ParseValue("box-shadow", "inset 0 1px 2px rgba(0, 0, 0, 0.5), 0 0 4px var(--shadow-color)"),
		p.ParseValue("transform", "translate(10px, 20%) rotate(45deg)"),
		p.ParseValue("font-family", `"Open Sans", serif`),
		p.ParseValue("background-image", `url("a.png"), none`),
		css.ShadowValue{Position: css.ShadowInset, OffsetX: px(1), OffsetY: px(2), Color: rgb(0, 0, 0, 1), Hidden: true},
		css.FunctionValue{Name: "blur", Args: css.LayersValue{Items: []css.Value{px(2)}}, Hidden: true},
		css.UnparsedValue{Value: "calc(1px + 2px)", Hidden: true},
		css.InvalidValue{Value: "10ms, foo"},
	}
	for _, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%#v): %v", v, err)
		}
		got, err := css.UnmarshalValue(data)
		if err != nil {
			t.Fatalf("UnmarshalValue(%s): %v", data, err)
		}
		if !css.Equal(got, v) {
			t.Errorf("round trip of %s:\n got %#v\nwant %#v", data, got, v)
		}
	}
}

func TestUnmarshalValue_Defaults(t *testing.T) {
	tests := []struct {
		doc  string
		want css.Value
	}{
		{`{"type":"unit","value":1.5}`, num(1.5)},
		{`{"type":"rgb","r":255,"g":0,"b":0}`, rgb(255, 0, 0, 1)},
		{`{"type":"guaranteedInvalid"}`, css.UnsetValue{}},
		{`{"type":"shadow","offsetX":{"type":"unit","unit":"px","value":1},"offsetY":{"type":"unit","unit":"px","value":2}}`,
			css.ShadowValue{Position: css.ShadowOutset, OffsetX: px(1), OffsetY: px(2)}},
		{`{"type":"image","value":{"type":"asset","value":"logo"},"hidden":true}`, css.ImageValue{Asset: "logo", Hidden: true}},
	}
	for _, tt := range tests {
		got, err := css.UnmarshalValue([]byte(tt.doc))
		if err != nil {
			t.Errorf("UnmarshalValue(%s): %v", tt.doc, err)
			continue
		}
		if !css.Equal(got, tt.want) {
			t.Errorf("UnmarshalValue(%s) = %#v, want %#v", tt.doc, got, tt.want)
		}
	}
}

func TestUnmarshalValue_Errors(t *testing.T) {
	for _, doc := range []string{
		`{}`,
		`{"type":"nope"}`,
		`{"type":"unit","value":"10px"}`,
		`{"type":"image","value":{"type":"ftp"}}`,
		`{"type":"var","value":"x","fallback":{"type":"var","value":"y"}}`,
		`{"type":"function","name":"blur","args":{"type":"keyword","value":"x"}}`,
		`{"type":"shadow","offsetX":{"type":"unit","unit":"px","value":1}}`,
		`{"type":"layers","value":[{"type":"nope"}]}`,
		`not json`,
	} {
		if v, err := css.UnmarshalValue([]byte(doc)); err == nil {
			t.Errorf("UnmarshalValue(%s) = %#v, want error", doc, v)
		}
	}
}
