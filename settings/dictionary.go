package settings

import (
	"strconv"

	"github.com/sardine-ai/go-watchface-config/model"
	"github.com/sardine-ai/go-watchface-config/schema"
	"github.com/sirupsen/logrus"
)

// Dictionary is the settings message as the device receives it: colors are
// 32-bit ARGB integers with a full-opacity alpha byte, sliders are plain
// integers.
type Dictionary map[schema.MessageKey]int64

// Convert translates a message into its device dictionary. Keys without a
// control in doc are dropped with a warning.
func Convert(doc schema.Document, msg Message) (Dictionary, error) {
	dict := make(Dictionary, len(msg))
	for _, key := range msg.Keys() {
		field, ok := doc.Lookup(key)
		if !ok {
			logrus.WithField("messageKey", key).Warn(UnrecognizedKeyWarning{Key: string(key)}.String())
			continue
		}
		value := msg[key]
		switch f := field.(type) {
		case schema.Color:
			c, err := f.ParseValue(value)
			if err != nil {
				return nil, &InvalidValueError{Key: key, Value: value, Reason: err.Error()}
			}
			dict[key] = int64(c.ARGB())
		case schema.Slider:
			n, err := f.ParseValue(value)
			if err != nil {
				return nil, &InvalidValueError{Key: key, Value: value, Reason: err.Error()}
			}
			dict[key] = int64(n)
		}
	}
	return dict, nil
}

// Revert is the inverse of Convert.
func Revert(doc schema.Document, dict Dictionary) Message {
	msg := make(Message, len(dict))
	for key, v := range dict {
		field, ok := doc.Lookup(key)
		if !ok {
			continue
		}
		switch field.(type) {
		case schema.Color:
			msg[key] = model.ColorFromARGB(uint32(v)).String()
		case schema.Slider:
			msg[key] = strconv.FormatInt(v, 10)
		}
	}
	return msg
}

// Apply writes the recognized entries of dict into dst, the way the
// watchface consumes an incoming message. Unrecognized keys are returned
// and otherwise ignored.
func Apply(dst *model.Settings, dict Dictionary) []UnrecognizedKeyWarning {
	var ignored []UnrecognizedKeyWarning
	for key, v := range dict {
		color := model.ColorFromARGB(uint32(v))
		n := int(v)
		switch key {
		case schema.BackgroundColor:
			dst.BackgroundColor = color
		case schema.HourHandLength:
			dst.HourHandLength = n
		case schema.MinuteHandLength:
			dst.MinuteHandLength = n
		case schema.HandsThickness:
			dst.HandsThickness = n
		case schema.HandsColor:
			dst.HandsColor = color
		case schema.TicksThickness:
			dst.TicksThickness = n
		case schema.TicksOverlayThickness:
			dst.TicksOverlayThickness = n
		case schema.TicksColor:
			dst.TicksColor = color
		case schema.BatteryIndicatorThickness:
			dst.BatteryIndicatorThickness = n
		case schema.HighBatteryColor:
			dst.HighBatteryColor = color
		case schema.MediumBatteryColor:
			dst.MediumBatteryColor = color
		case schema.LowBatteryColor:
			dst.LowBatteryColor = color
		default:
			ignored = append(ignored, UnrecognizedKeyWarning{Key: string(key)})
		}
	}
	return ignored
}
