package css

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TypeGuaranteedInvalid is accepted when decoding and maps to UnsetValue.
const TypeGuaranteedInvalid ValueType = "guaranteedInvalid"

type jsonImageSource struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
	URL   string `json:"url,omitempty"`
}

// jsonValue is the union of all value fields in their document form.
type jsonValue struct {
	Type     ValueType       `json:"type"`
	Value    json.RawMessage `json:"value,omitempty"`
	Unit     Unit            `json:"unit,omitempty"`
	R        int             `json:"r,omitempty"`
	G        int             `json:"g,omitempty"`
	B        int             `json:"b,omitempty"`
	Alpha    *float64        `json:"alpha,omitempty"`
	Name     string          `json:"name,omitempty"`
	Args     json.RawMessage `json:"args,omitempty"`
	Fallback json.RawMessage `json:"fallback,omitempty"`
	Position ShadowPosition  `json:"position,omitempty"`
	OffsetX  json.RawMessage `json:"offsetX,omitempty"`
	OffsetY  json.RawMessage `json:"offsetY,omitempty"`
	Blur     json.RawMessage `json:"blur,omitempty"`
	Spread   json.RawMessage `json:"spread,omitempty"`
	Color    json.RawMessage `json:"color,omitempty"`
	Hidden   bool            `json:"hidden,omitempty"`
}

func (v UnitValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  ValueType `json:"type"`
		Unit  Unit      `json:"unit"`
		Value float64   `json:"value"`
	}{TypeUnit, v.Unit, v.Value})
}

func (v KeywordValue) MarshalJSON() ([]byte, error) {
	return marshalText(TypeKeyword, v.Value, false)
}

func (v ColorValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  ValueType `json:"type"`
		R     int       `json:"r"`
		G     int       `json:"g"`
		B     int       `json:"b"`
		Alpha float64   `json:"alpha"`
	}{TypeColor, v.R, v.G, v.B, v.Alpha})
}

func (v ImageValue) MarshalJSON() ([]byte, error) {
	src := jsonImageSource{Type: "url", URL: v.URL}
	if v.URL == "" {
		src = jsonImageSource{Type: "asset", Value: v.Asset}
	}
	return json.Marshal(struct {
		Type   ValueType       `json:"type"`
		Value  jsonImageSource `json:"value"`
		Hidden bool            `json:"hidden,omitempty"`
	}{TypeImage, src, v.Hidden})
}

func (v FontFamilyValue) MarshalJSON() ([]byte, error) {
	names := v.Names
	if names == nil {
		names = []string{}
	}
	return json.Marshal(struct {
		Type  ValueType `json:"type"`
		Value []string  `json:"value"`
	}{TypeFontFamily, names})
}

func (v TupleValue) MarshalJSON() ([]byte, error) {
	return marshalList(TypeTuple, v.Items, v.Hidden)
}

func (v LayersValue) MarshalJSON() ([]byte, error) {
	return marshalList(TypeLayers, v.Items, false)
}

func (v FunctionValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   ValueType `json:"type"`
		Name   string    `json:"name"`
		Args   Value     `json:"args"`
		Hidden bool      `json:"hidden,omitempty"`
	}{TypeFunction, v.Name, v.Args, v.Hidden})
}

func (v ShadowValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     ValueType      `json:"type"`
		Position ShadowPosition `json:"position"`
		OffsetX  Value          `json:"offsetX"`
		OffsetY  Value          `json:"offsetY"`
		Blur     Value          `json:"blur,omitempty"`
		Spread   Value          `json:"spread,omitempty"`
		Color    Value          `json:"color,omitempty"`
		Hidden   bool           `json:"hidden,omitempty"`
	}{TypeShadow, v.Position, v.OffsetX, v.OffsetY, v.Blur, v.Spread, v.Color, v.Hidden})
}

func (v VarValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     ValueType `json:"type"`
		Value    string    `json:"value"`
		Fallback Value     `json:"fallback,omitempty"`
	}{TypeVar, v.Name, v.Fallback})
}

func (v UnparsedValue) MarshalJSON() ([]byte, error) {
	return marshalText(TypeUnparsed, v.Value, v.Hidden)
}

func (v InvalidValue) MarshalJSON() ([]byte, error) {
	return marshalText(TypeInvalid, v.Value, false)
}

func (v UnsetValue) MarshalJSON() ([]byte, error) {
	return marshalText(TypeUnset, "", false)
}

func marshalText(t ValueType, s string, hidden bool) ([]byte, error) {
	return json.Marshal(struct {
		Type   ValueType `json:"type"`
		Value  string    `json:"value"`
		Hidden bool      `json:"hidden,omitempty"`
	}{t, s, hidden})
}

func marshalList(t ValueType, items []Value, hidden bool) ([]byte, error) {
	if items == nil {
		items = []Value{}
	}
	return json.Marshal(struct {
		Type   ValueType `json:"type"`
		Value  []Value   `json:"value"`
		Hidden bool      `json:"hidden,omitempty"`
	}{t, items, hidden})
}

var errMissingType = errors.New("value without type")

// UnmarshalValue decodes a value document produced by json.Marshal of any
// Value.
func UnmarshalValue(data []byte) (Value, error) {
	var w jsonValue
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch w.Type {
	case "":
		return nil, errMissingType
	case TypeUnit:
		var f float64
		if err := json.Unmarshal(w.Value, &f); err != nil {
			return nil, fmt.Errorf("unit value: %w", err)
		}
		if w.Unit == "" {
			w.Unit = UnitNumber
		}
		return UnitValue{Value: f, Unit: w.Unit}, nil
	case TypeKeyword, TypeUnparsed, TypeInvalid:
		var s string
		if len(w.Value) > 0 {
			if err := json.Unmarshal(w.Value, &s); err != nil {
				return nil, fmt.Errorf("%s value: %w", w.Type, err)
			}
		}
		switch w.Type {
		case TypeKeyword:
			return KeywordValue{Value: s}, nil
		case TypeUnparsed:
			return UnparsedValue{Value: s, Hidden: w.Hidden}, nil
		}
		return InvalidValue{Value: s}, nil
	case TypeUnset, TypeGuaranteedInvalid:
		return UnsetValue{}, nil
	case TypeColor:
		alpha := 1.0
		if w.Alpha != nil {
			alpha = *w.Alpha
		}
		return ColorValue{R: w.R, G: w.G, B: w.B, Alpha: alpha}, nil
	case TypeImage:
		var src jsonImageSource
		if err := json.Unmarshal(w.Value, &src); err != nil {
			return nil, fmt.Errorf("image source: %w", err)
		}
		switch src.Type {
		case "asset":
			return ImageValue{Asset: src.Value, Hidden: w.Hidden}, nil
		case "url":
			return ImageValue{URL: src.URL, Hidden: w.Hidden}, nil
		}
		return nil, fmt.Errorf("unknown image source %q", src.Type)
	case TypeFontFamily:
		var names []string
		if err := json.Unmarshal(w.Value, &names); err != nil {
			return nil, fmt.Errorf("font family: %w", err)
		}
		return FontFamilyValue{Names: names}, nil
	case TypeTuple, TypeLayers:
		items, err := unmarshalList(w.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", w.Type, err)
		}
		if w.Type == TypeTuple {
			return TupleValue{Items: items, Hidden: w.Hidden}, nil
		}
		return LayersValue{Items: items}, nil
	case TypeFunction:
		args, err := UnmarshalValue(w.Args)
		if err != nil {
			return nil, fmt.Errorf("function %s args: %w", w.Name, err)
		}
		switch args.(type) {
		case TupleValue, LayersValue:
		default:
			return nil, fmt.Errorf("function %s args must be tuple or layers, got %s", w.Name, args.Type())
		}
		return FunctionValue{Name: w.Name, Args: args, Hidden: w.Hidden}, nil
	case TypeShadow:
		s := ShadowValue{Position: w.Position, Hidden: w.Hidden}
		if s.Position == "" {
			s.Position = ShadowOutset
		}
		var err error
		for _, f := range []struct {
			raw  json.RawMessage
			dst  *Value
			need bool
		}{
			{w.OffsetX, &s.OffsetX, true},
			{w.OffsetY, &s.OffsetY, true},
			{w.Blur, &s.Blur, false},
			{w.Spread, &s.Spread, false},
			{w.Color, &s.Color, false},
		} {
			if len(f.raw) == 0 || string(f.raw) == "null" {
				if f.need {
					return nil, errors.New("shadow without offsets")
				}
				continue
			}
			if *f.dst, err = UnmarshalValue(f.raw); err != nil {
				return nil, fmt.Errorf("shadow: %w", err)
			}
		}
		return s, nil
	case TypeVar:
		var name string
		if err := json.Unmarshal(w.Value, &name); err != nil {
			return nil, fmt.Errorf("var name: %w", err)
		}
		v := VarValue{Name: name}
		if len(w.Fallback) > 0 && string(w.Fallback) != "null" {
			fb, err := UnmarshalValue(w.Fallback)
			if err != nil {
				return nil, fmt.Errorf("var %s fallback: %w", name, err)
			}
			if !IsValidStaticValue(fb) {
				return nil, fmt.Errorf("var %s fallback of type %s is not static", name, fb.Type())
			}
			v.Fallback = fb
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown value type %q", w.Type)
}

func unmarshalList(data json.RawMessage) ([]Value, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	items := make([]Value, 0, len(raws))
	for i, raw := range raws {
		item, err := UnmarshalValue(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}
