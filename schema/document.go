package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKind is returned when a wire document names a field type this
// package does not define.
var ErrUnknownKind = errors.New("unknown field type")

// Slider bounds assumed when a wire document leaves them out. They match the
// renderer's own defaults.
const (
	DefaultSliderMin  = 0
	DefaultSliderMax  = 100
	DefaultSliderStep = 1
)

// wireField is the attribute layout shared by the JSON and YAML documents.
type wireField struct {
	Type         Kind        `json:"type" yaml:"type"`
	MessageKey   MessageKey  `json:"messageKey,omitempty" yaml:"messageKey,omitempty"`
	DefaultValue *scalar     `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Label        string      `json:"label,omitempty" yaml:"label,omitempty"`
	Min          *int        `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *int        `json:"max,omitempty" yaml:"max,omitempty"`
	Step         *int        `json:"step,omitempty" yaml:"step,omitempty"`
	Items        []wireField `json:"items,omitempty" yaml:"items,omitempty"`
}

// scalar is a defaultValue. Hand-written documents often give slider
// defaults as bare numbers, so numbers are accepted and kept as text.
type scalar string

func (s *scalar) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = scalar(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("defaultValue must be a string or a number: %w", err)
	}
	*s = scalar(n.String())
	return nil
}

func (s *scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: defaultValue must be a scalar", n.Line)
	}
	*s = scalar(n.Value)
	return nil
}

func (s scalar) MarshalYAML() (any, error) {
	// Quote so "0x000000" and "35" stay strings for every YAML reader.
	return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: string(s)}, nil
}

func text(s string) *scalar {
	v := scalar(s)
	return &v
}

func toWire(fields []Field) []wireField {
	out := make([]wireField, 0, len(fields))
	for _, f := range fields {
		switch f := f.(type) {
		case Heading:
			out = append(out, wireField{Type: KindHeading, DefaultValue: text(f.Text)})
		case Color:
			out = append(out, wireField{Type: KindColor, MessageKey: f.Key, DefaultValue: text(f.Default), Label: f.Label})
		case Slider:
			lo, hi, step := f.Min, f.Max, f.Step
			out = append(out, wireField{
				Type: KindSlider, MessageKey: f.Key, DefaultValue: text(f.Default), Label: f.Label,
				Min: &lo, Max: &hi, Step: &step,
			})
		case Section:
			out = append(out, wireField{Type: KindSection, Items: toWire(f.Items)})
		case Submit:
			out = append(out, wireField{Type: KindSubmit, DefaultValue: text(f.Label)})
		}
	}
	return out
}

func fromWire(in []wireField, prefix string) ([]Field, error) {
	out := make([]Field, 0, len(in))
	for i, w := range in {
		path := prefix + "[" + strconv.Itoa(i) + "]"
		var def string
		if w.DefaultValue != nil {
			def = string(*w.DefaultValue)
		}
		switch w.Type {
		case KindHeading:
			out = append(out, Heading{Text: def})
		case KindColor:
			out = append(out, Color{Key: w.MessageKey, Default: def, Label: w.Label})
		case KindSlider:
			out = append(out, Slider{
				Key: w.MessageKey, Default: def, Label: w.Label,
				Min:  intOr(w.Min, DefaultSliderMin),
				Max:  intOr(w.Max, DefaultSliderMax),
				Step: intOr(w.Step, DefaultSliderStep),
			})
		case KindSection:
			items, err := fromWire(w.Items, path+".items")
			if err != nil {
				return nil, err
			}
			out = append(out, Section{Items: items})
		case KindSubmit:
			out = append(out, Submit{Label: def})
		default:
			return nil, fmt.Errorf("field %s: %w %q", path, ErrUnknownKind, w.Type)
		}
	}
	return out, nil
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// MarshalJSON encodes the document in the renderer's wire format.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(toWire(d))
}

// UnmarshalJSON decodes a wire document.
func (d *Document) UnmarshalJSON(b []byte) error {
	var w []wireField
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	fields, err := fromWire(w, "")
	if err != nil {
		return err
	}
	*d = fields
	return nil
}

// MarshalYAML encodes the document with the same attribute names as the
// JSON form.
func (d Document) MarshalYAML() (any, error) {
	return toWire(d), nil
}

// UnmarshalYAML decodes a YAML document.
func (d *Document) UnmarshalYAML(n *yaml.Node) error {
	var w []wireField
	if err := n.Decode(&w); err != nil {
		return err
	}
	fields, err := fromWire(w, "")
	if err != nil {
		return err
	}
	*d = fields
	return nil
}

// Load decodes a YAML or JSON document and validates it.
func Load(data []byte) (Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	if len(d) == 0 {
		return nil, errors.New("decoding schema: empty document")
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	return d, nil
}
