package settings

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sardine-ai/go-watchface-config/model"
	"github.com/sardine-ai/go-watchface-config/schema"
)

func defaultMessage() Message {
	return Message{
		schema.BackgroundColor:           "0x000000",
		schema.HourHandLength:            "35",
		schema.MinuteHandLength:          "50",
		schema.HandsThickness:            "2",
		schema.HandsColor:                "0xFFFFFF",
		schema.TicksThickness:            "2",
		schema.TicksOverlayThickness:     "10",
		schema.TicksColor:                "0x555555",
		schema.BatteryIndicatorThickness: "3",
		schema.HighBatteryColor:          "0x55FF55",
		schema.MediumBatteryColor:        "0xFFAA00",
		schema.LowBatteryColor:           "0xFF0055",
	}
}

func TestSubmitUnmodified(t *testing.T) {
	sub, err := Submit(schema.Watchface(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(defaultMessage(), sub.Message); diff != "" {
		t.Fatalf("Unmodified submit mismatch (-want +got):\n%s", diff)
	}
	if len(sub.Ignored) != 0 {
		t.Errorf("Expected no ignored keys, got %v", sub.Ignored)
	}
}

func TestSubmitChangesOnlyHandsColor(t *testing.T) {
	sub, err := Submit(schema.Watchface(), map[string]string{"hands_color": "0x00FF00"})
	if err != nil {
		t.Fatal(err)
	}
	want := defaultMessage()
	want[schema.HandsColor] = "0x00FF00"
	if diff := cmp.Diff(want, sub.Message); diff != "" {
		t.Fatalf("Submit mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitNormalizesValues(t *testing.T) {
	sub, err := Submit(schema.Watchface(), map[string]string{
		"hands_color":      "0x00ff00",
		"hour_hand_length": "040",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := sub.Message[schema.HandsColor]; got != "0x00FF00" {
		t.Errorf("Expected canonical color, got %q", got)
	}
	if got := sub.Message[schema.HourHandLength]; got != "40" {
		t.Errorf("Expected canonical integer, got %q", got)
	}
}

func TestDefaultsMatchResubmittedValues(t *testing.T) {
	doc := schema.Document{
		schema.Color{Key: schema.HandsColor, Default: "0xffffff", Label: "Hands color"},
		schema.Slider{Key: schema.HandsThickness, Default: "02", Label: "Hands thickness", Min: 1, Max: 10, Step: 1},
		schema.Submit{Label: "Save"},
	}
	untouched, err := Submit(doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	resubmitted, err := Submit(doc, map[string]string{"hands_color": "0xffffff", "hands_thickness": "02"})
	if err != nil {
		t.Fatal(err)
	}
	want := Message{schema.HandsColor: "0xFFFFFF", schema.HandsThickness: "2"}
	if diff := cmp.Diff(want, untouched.Message); diff != "" {
		t.Errorf("Untouched message mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(untouched.Message, resubmitted.Message); diff != "" {
		t.Errorf("Untouched and resubmitted messages differ (-untouched +resubmitted):\n%s", diff)
	}
	if diff := cmp.Diff(want, Defaults(doc)); diff != "" {
		t.Errorf("Defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitIgnoresUnknownKeys(t *testing.T) {
	sub, err := Submit(schema.Watchface(), map[string]string{
		"second_hand_color": "0xFF0000",
		"date_format":       "%d",
		"ticks_color":       "0xAAAAAA",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []UnrecognizedKeyWarning{{Key: "date_format"}, {Key: "second_hand_color"}}
	if diff := cmp.Diff(want, sub.Ignored); diff != "" {
		t.Errorf("Ignored mismatch (-want +got):\n%s", diff)
	}
	if len(sub.Message) != 12 {
		t.Errorf("Expected 12 keys, got %d", len(sub.Message))
	}
	if got := sub.Message[schema.TicksColor]; got != "0xAAAAAA" {
		t.Errorf("Expected ticks_color 0xAAAAAA, got %q", got)
	}
}

func TestSubmitRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"color without prefix", "hands_color", "00FF00"},
		{"color name", "background_color", "black"},
		{"slider fraction", "hands_thickness", "2.5"},
		{"slider negative", "ticks_thickness", "-1"},
		{"slider above max", "hour_hand_length", "73"},
		{"slider below min", "battery_indicator_thickness", "0"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Submit(schema.Watchface(), map[string]string{tc.key: tc.value})
			var ierr *InvalidValueError
			if !errors.As(err, &ierr) {
				t.Fatalf("Expected *InvalidValueError, got %v", err)
			}
			if string(ierr.Key) != tc.key || ierr.Value != tc.value {
				t.Errorf("Unexpected error fields %+v", ierr)
			}
		})
	}
}

func TestSubmitDoesNotMutateSchema(t *testing.T) {
	doc := schema.Watchface()
	if _, err := Submit(doc, map[string]string{"hands_color": "0x00FF00"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(schema.Watchface(), doc); diff != "" {
		t.Fatalf("Submit modified the schema:\n%s", diff)
	}
}

func TestPrepopulate(t *testing.T) {
	doc := schema.Watchface()
	rendered := Prepopulate(doc, Message{
		schema.HandsColor:     "0x00ff00",
		schema.HandsThickness: "4",
		schema.TicksColor:     "grey",
		"unknown":             "1",
	})

	hands := rendered[2].(schema.Section)
	if got := hands.Items[3].(schema.Slider).Default; got != "4" {
		t.Errorf("Expected hands_thickness 4, got %q", got)
	}
	if got := hands.Items[4].(schema.Color).Default; got != "0x00FF00" {
		t.Errorf("Expected hands_color 0x00FF00, got %q", got)
	}
	if got := rendered[3].(schema.Section).Items[3].(schema.Color).Default; got != "0x555555" {
		t.Errorf("Expected malformed prior value to fall back to the default, got %q", got)
	}
	if diff := cmp.Diff(schema.Watchface(), doc); diff != "" {
		t.Fatalf("Prepopulate modified its input:\n%s", diff)
	}

	// Rendering twice yields the same ordered output.
	again := Prepopulate(doc, Message{schema.HandsColor: "0x00ff00", schema.HandsThickness: "4"})
	once := Prepopulate(doc, Message{schema.HandsColor: "0x00ff00", schema.HandsThickness: "4"})
	if diff := cmp.Diff(once, again); diff != "" {
		t.Fatalf("Prepopulate is not deterministic:\n%s", diff)
	}
	if diff := cmp.Diff(doc, Prepopulate(doc, nil)); diff != "" {
		t.Fatalf("Prepopulate without prior values changed the document:\n%s", diff)
	}
}

func TestConvertDefaults(t *testing.T) {
	dict, err := Convert(schema.Watchface(), defaultMessage())
	if err != nil {
		t.Fatal(err)
	}
	want := Dictionary{
		schema.BackgroundColor:           0xFF000000,
		schema.HourHandLength:            35,
		schema.MinuteHandLength:          50,
		schema.HandsThickness:            2,
		schema.HandsColor:                0xFFFFFFFF,
		schema.TicksThickness:            2,
		schema.TicksOverlayThickness:     10,
		schema.TicksColor:                0xFF555555,
		schema.BatteryIndicatorThickness: 3,
		schema.HighBatteryColor:          0xFF55FF55,
		schema.MediumBatteryColor:        0xFFFFAA00,
		schema.LowBatteryColor:           0xFFFF0055,
	}
	if diff := cmp.Diff(want, dict); diff != "" {
		t.Fatalf("Convert mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaultMessage(), Revert(schema.Watchface(), dict)); diff != "" {
		t.Fatalf("Revert mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertDropsUnknownAndRejectsMalformed(t *testing.T) {
	dict, err := Convert(schema.Watchface(), Message{"unknown": "1", schema.HandsThickness: "3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(dict) != 1 || dict[schema.HandsThickness] != 3 {
		t.Errorf("Unexpected dictionary %v", dict)
	}

	_, err = Convert(schema.Watchface(), Message{schema.HandsColor: "white"})
	var ierr *InvalidValueError
	if !errors.As(err, &ierr) {
		t.Fatalf("Expected *InvalidValueError, got %v", err)
	}
}

func TestApplyDefaultsMatchesNativeDefaults(t *testing.T) {
	dict, err := Convert(schema.Watchface(), Defaults(schema.Watchface()))
	if err != nil {
		t.Fatal(err)
	}
	var got model.Settings
	if ignored := Apply(&got, dict); len(ignored) != 0 {
		t.Errorf("Expected no ignored keys, got %v", ignored)
	}
	if diff := cmp.Diff(model.DefaultSettings(), got); diff != "" {
		t.Fatalf("Applied defaults differ from native defaults (-want +got):\n%s", diff)
	}
}

func TestApplyOverridesAndIgnoresUnknown(t *testing.T) {
	s := model.DefaultSettings()
	ignored := Apply(&s, Dictionary{
		schema.HandsColor:     0xFF00FF00,
		schema.HourHandLength: 40,
		"second_hand_color":   0xFFFF0000,
	})
	want := model.DefaultSettings()
	want.HandsColor = 0x00FF00
	want.HourHandLength = 40
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Apply mismatch (-want +got):\n%s", diff)
	}
	if len(ignored) != 1 || ignored[0].Key != "second_hand_color" {
		t.Errorf("Expected second_hand_color to be ignored, got %v", ignored)
	}
}

func TestCBORRoundTrip(t *testing.T) {
	dict, err := Convert(schema.Watchface(), defaultMessage())
	if err != nil {
		t.Fatal(err)
	}
	first, err := EncodeCBOR(dict)
	if err != nil {
		t.Fatal(err)
	}
	second, err := EncodeCBOR(dict)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("CBOR encoding is not deterministic")
	}
	decoded, err := DecodeCBOR(first)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(dict, decoded); diff != "" {
		t.Fatalf("CBOR round trip mismatch (-want +got):\n%s", diff)
	}
	if _, err := DecodeCBOR([]byte{0xff}); err == nil {
		t.Error("Expected error decoding garbage")
	}
}

func TestJSONCodec(t *testing.T) {
	data, err := EncodeJSON(Message{schema.HandsThickness: "2", schema.BackgroundColor: "0x000000"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"background_color":"0x000000","hands_thickness":"2"}`; got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	values, err := DecodeJSON([]byte(`{"hands_color":"0x00FF00","hands_thickness":4}`))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"hands_color": "0x00FF00", "hands_thickness": "4"}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("DecodeJSON mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{`[]`, `{"hands_color":true}`, `{"hands_color":{"r":1}}`, `not json`} {
		if _, err := DecodeJSON([]byte(bad)); err == nil {
			t.Errorf("Expected error decoding %s", bad)
		}
	}
}
