package schema

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sardine-ai/go-watchface-config/model"
	"github.com/sirupsen/logrus"
)

// ValidationError reports one malformed field of a Document.
type ValidationError struct {
	Path   string     // position of the field, e.g. "[2].items[1]"
	Key    MessageKey // message key of the field, if any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("schema: field %s (%s): %s", e.Path, e.Key, e.Reason)
	}
	return fmt.Sprintf("schema: field %s: %s", e.Path, e.Reason)
}

// Validate checks the document for authoring errors. Every offending field
// produces a *ValidationError; the result joins all of them, or is nil.
// Keys the watchface does not recognize are logged, not rejected.
func Validate(d Document) error {
	var errs []error
	fail := func(path string, key MessageKey, format string, args ...any) {
		errs = append(errs, &ValidationError{Path: path, Key: key, Reason: fmt.Sprintf(format, args...)})
	}

	seen := make(map[MessageKey]string)
	submits := 0
	for i, f := range d {
		if s, ok := f.(Submit); ok {
			submits++
			if i != len(d)-1 {
				fail(fmt.Sprintf("[%d]", i), "", "submit %q must be the last entry", s.Label)
			}
		}
	}
	if submits != 1 {
		fail("[]", "", "want exactly one top-level submit entry, have %d", submits)
	}

	_ = d.Walk(func(path string, f Field) error {
		switch f := f.(type) {
		case nil:
			fail(path, "", "nil field")
			return nil
		case Section:
			for j, item := range f.Items {
				switch item.(type) {
				case Section:
					fail(fmt.Sprintf("%s.items[%d]", path, j), "", "sections cannot be nested")
				case Submit:
					fail(fmt.Sprintf("%s.items[%d]", path, j), "", "submit must be a top-level entry")
				}
			}
		case KeyedField:
			key := f.MessageKey()
			if key == "" {
				fail(path, "", "%s field has no messageKey", f.Kind())
				return nil
			}
			if prev, dup := seen[key]; dup {
				fail(path, key, "duplicate messageKey, first used at %s", prev)
			} else {
				seen[key] = path
			}
			if !key.Known() {
				logrus.WithField("messageKey", key).Warn("schema field uses a key the watchface does not recognize")
			}
			switch f := f.(type) {
			case Color:
				if _, err := model.ParseColor(f.Default); err != nil {
					fail(path, key, "malformed default: %v", err)
				}
			case Slider:
				validateSlider(path, f, fail)
			}
		}
		return nil
	})
	return errors.Join(errs...)
}

func validateSlider(path string, s Slider, fail func(string, MessageKey, string, ...any)) {
	if s.Step <= 0 {
		fail(path, s.Key, "step must be positive, have %d", s.Step)
	}
	if s.Min < 0 || s.Max < s.Min {
		fail(path, s.Key, "invalid bounds [%d, %d]", s.Min, s.Max)
		return
	}
	v, err := parseInt(s.Default)
	if err != nil {
		fail(path, s.Key, "malformed default: %v", err)
		return
	}
	if v < s.Min || v > s.Max {
		fail(path, s.Key, "default %d outside [%d, %d]", v, s.Min, s.Max)
	} else if s.Step > 0 && (v-s.Min)%s.Step != 0 {
		fail(path, s.Key, "default %d is not on the step grid (min %d, step %d)", v, s.Min, s.Step)
	}
}

// ParseValue parses a slider value and checks it against the slider bounds.
func (s Slider) ParseValue(v string) (int, error) {
	n, err := parseInt(v)
	if err != nil {
		return 0, err
	}
	if n < s.Min || n > s.Max {
		return 0, fmt.Errorf("%d outside [%d, %d]", n, s.Min, s.Max)
	}
	return n, nil
}

// ParseValue parses a color value in "0xRRGGBB" form.
func (c Color) ParseValue(v string) (model.Color, error) {
	return model.ParseColor(v)
}

// parseInt accepts plain non-negative decimal integers only.
func parseInt(v string) (int, error) {
	if v == "" {
		return 0, errors.New("empty value")
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%q is not a non-negative integer", v)
		}
	}
	return strconv.Atoi(v)
}
