// Package schema describes the controls of the watchface configuration page
// and their default values.
//
// A Document is an ordered list of Fields. Field is closed: the only
// implementations are Heading, Color, Slider, Section and Submit, so a
// document can never carry a control kind the renderer does not know.
package schema

import "strconv"

// Kind names a field kind as it appears in the "type" attribute of the
// wire document.
type Kind string

const (
	KindHeading Kind = "heading"
	KindColor   Kind = "color"
	KindSlider  Kind = "slider"
	KindSection Kind = "section"
	KindSubmit  Kind = "submit"
)

// Field is one entry of a Document.
type Field interface {
	Kind() Kind
	field()
}

// KeyedField is a Field bound to a device setting.
type KeyedField interface {
	Field
	MessageKey() MessageKey
	DefaultValue() string
	FieldLabel() string
}

// Heading is a static caption.
type Heading struct {
	Text string
}

// Color is a color picker. Default holds "0xRRGGBB".
type Color struct {
	Key     MessageKey
	Default string
	Label   string
}

// Slider is a bounded integer control. Default holds the decimal value.
type Slider struct {
	Key     MessageKey
	Default string
	Label   string
	Min     int
	Max     int
	Step    int
}

// Section groups fields under a common frame.
type Section struct {
	Items []Field
}

// Submit is the button that sends the current control values.
type Submit struct {
	Label string
}

func (Heading) Kind() Kind { return KindHeading }
func (Color) Kind() Kind   { return KindColor }
func (Slider) Kind() Kind  { return KindSlider }
func (Section) Kind() Kind { return KindSection }
func (Submit) Kind() Kind  { return KindSubmit }

func (Heading) field() {}
func (Color) field()   {}
func (Slider) field()  {}
func (Section) field() {}
func (Submit) field()  {}

func (c Color) MessageKey() MessageKey { return c.Key }
func (c Color) DefaultValue() string   { return c.Default }
func (c Color) FieldLabel() string     { return c.Label }

func (s Slider) MessageKey() MessageKey { return s.Key }
func (s Slider) DefaultValue() string   { return s.Default }
func (s Slider) FieldLabel() string     { return s.Label }

// Document is the ordered list of top-level fields.
type Document []Field

// Walk calls fn for every field in document order, descending into
// sections after visiting the section itself. path is the field's position,
// e.g. "[2].items[1]". Walk stops at the first error fn returns.
func (d Document) Walk(fn func(path string, f Field) error) error {
	return walk(d, "", fn)
}

func walk(fields []Field, prefix string, fn func(string, Field) error) error {
	for i, f := range fields {
		path := prefix + "[" + strconv.Itoa(i) + "]"
		if err := fn(path, f); err != nil {
			return err
		}
		if s, ok := f.(Section); ok {
			if err := walk(s.Items, path+".items", fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Keyed returns the keyed fields in document order.
func (d Document) Keyed() []KeyedField {
	var out []KeyedField
	_ = d.Walk(func(_ string, f Field) error {
		if k, ok := f.(KeyedField); ok {
			out = append(out, k)
		}
		return nil
	})
	return out
}

// Lookup finds the first keyed field bound to key.
func (d Document) Lookup(key MessageKey) (KeyedField, bool) {
	for _, f := range d.Keyed() {
		if f.MessageKey() == key {
			return f, true
		}
	}
	return nil, false
}

// Defaults maps every message key to its default value text.
func (d Document) Defaults() map[MessageKey]string {
	out := make(map[MessageKey]string)
	for _, f := range d.Keyed() {
		out[f.MessageKey()] = f.DefaultValue()
	}
	return out
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneFields(d))
}

func cloneFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		if s, ok := f.(Section); ok {
			f = Section{Items: cloneFields(s.Items)}
		}
		out[i] = f
	}
	return out
}

// Map returns a copy of the document with every non-section field replaced
// by fn(f). Sections are rebuilt around their mapped items.
func (d Document) Map(fn func(Field) Field) Document {
	return Document(mapFields(d, fn))
}

func mapFields(fields []Field, fn func(Field) Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		if s, ok := f.(Section); ok {
			out[i] = Section{Items: mapFields(s.Items, fn)}
			continue
		}
		out[i] = fn(f)
	}
	return out
}
