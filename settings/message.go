// Package settings turns a schema plus submitted control values into the
// settings message delivered to the watchface, and back.
package settings

import (
	"fmt"
	"sort"

	"github.com/sardine-ai/go-watchface-config/schema"
	"github.com/sirupsen/logrus"
)

// Message maps message keys to control values in their text form:
// "0xRRGGBB" for colors and decimal integers for sliders.
type Message map[schema.MessageKey]string

// Keys returns the message keys in lexical order.
func (m Message) Keys() []schema.MessageKey {
	keys := make([]schema.MessageKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// UnrecognizedKeyWarning reports a submitted key that no field of the
// schema consumes. It is never fatal.
type UnrecognizedKeyWarning struct {
	Key string `json:"key"`
}

func (w UnrecognizedKeyWarning) String() string {
	return fmt.Sprintf("unrecognized message key %q", w.Key)
}

// InvalidValueError reports a submitted value its control cannot hold.
type InvalidValueError struct {
	Key    schema.MessageKey
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("settings: invalid value %q for %s: %s", e.Value, e.Key, e.Reason)
}

// Submission is the outcome of submitting a configuration page.
type Submission struct {
	Message Message
	Ignored []UnrecognizedKeyWarning
}

// Defaults returns the message produced by submitting the page untouched.
// Defaults are normalized like submitted values, so an untouched control and
// a resubmitted one produce the same text.
func Defaults(doc schema.Document) Message {
	msg := make(Message)
	for _, f := range doc.Keyed() {
		v, err := Normalize(f, f.DefaultValue())
		if err != nil {
			logrus.WithError(err).Warn("schema default is malformed, sending it as written")
			v = f.DefaultValue()
		}
		msg[f.MessageKey()] = v
	}
	return msg
}

// Submit overlays the submitted values on the schema defaults. Values are
// normalized to their canonical text form. Keys the schema does not define
// are reported in Ignored and logged. The first malformed value aborts the
// submission with an *InvalidValueError.
func Submit(doc schema.Document, submitted map[string]string) (*Submission, error) {
	msg := Defaults(doc)
	sub := &Submission{Message: msg}

	keys := make([]string, 0, len(submitted))
	for k := range submitted {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := schema.MessageKey(k)
		field, ok := doc.Lookup(key)
		if !ok {
			w := UnrecognizedKeyWarning{Key: k}
			logrus.WithField("messageKey", k).Warn(w.String())
			sub.Ignored = append(sub.Ignored, w)
			continue
		}
		v, err := Normalize(field, submitted[k])
		if err != nil {
			return nil, err
		}
		msg[key] = v
	}
	return sub, nil
}

// Normalize checks value against field and returns its canonical text form.
func Normalize(field schema.KeyedField, value string) (string, error) {
	switch f := field.(type) {
	case schema.Color:
		c, err := f.ParseValue(value)
		if err != nil {
			return "", &InvalidValueError{Key: f.Key, Value: value, Reason: err.Error()}
		}
		return c.String(), nil
	case schema.Slider:
		n, err := f.ParseValue(value)
		if err != nil {
			return "", &InvalidValueError{Key: f.Key, Value: value, Reason: err.Error()}
		}
		return fmt.Sprint(n), nil
	default:
		return "", &InvalidValueError{Key: field.MessageKey(), Value: value, Reason: fmt.Sprintf("unsupported field kind %s", field.Kind())}
	}
}

// Prepopulate returns a copy of doc whose control defaults are replaced by
// the prior values, so the page opens showing the current configuration.
// Prior values that are unknown to doc or malformed are skipped.
func Prepopulate(doc schema.Document, prior Message) schema.Document {
	for k := range prior {
		if _, ok := doc.Lookup(k); !ok {
			logrus.WithField("messageKey", k).Debug("prior value has no control, skipping")
		}
	}
	return doc.Map(func(f schema.Field) schema.Field {
		kf, ok := f.(schema.KeyedField)
		if !ok {
			return f
		}
		v, ok := prior[kf.MessageKey()]
		if !ok {
			return f
		}
		norm, err := Normalize(kf, v)
		if err != nil {
			logrus.WithError(err).Warn("ignoring prior value")
			return f
		}
		switch f := f.(type) {
		case schema.Color:
			f.Default = norm
			return f
		case schema.Slider:
			f.Default = norm
			return f
		}
		return f
	})
}
