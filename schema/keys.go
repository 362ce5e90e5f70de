package schema

// MessageKey identifies the device-side setting a control writes to.
type MessageKey string

// Message keys recognized by the watchface application.
const (
	BackgroundColor           MessageKey = "background_color"
	HourHandLength            MessageKey = "hour_hand_length"
	MinuteHandLength          MessageKey = "minute_hand_length"
	HandsThickness            MessageKey = "hands_thickness"
	HandsColor                MessageKey = "hands_color"
	TicksThickness            MessageKey = "ticks_thickness"
	TicksOverlayThickness     MessageKey = "ticks_overlay_thickness"
	TicksColor                MessageKey = "ticks_color"
	BatteryIndicatorThickness MessageKey = "battery_indicator_thickness"
	HighBatteryColor          MessageKey = "high_battery_color"
	MediumBatteryColor        MessageKey = "medium_battery_color"
	LowBatteryColor           MessageKey = "low_battery_color"
)

// KnownKeys lists every recognized key in the order the watchface schema
// presents them.
var KnownKeys = []MessageKey{
	BackgroundColor,
	HourHandLength,
	MinuteHandLength,
	HandsThickness,
	HandsColor,
	TicksThickness,
	TicksOverlayThickness,
	TicksColor,
	BatteryIndicatorThickness,
	HighBatteryColor,
	MediumBatteryColor,
	LowBatteryColor,
}

var knownKeys = func() map[MessageKey]struct{} {
	m := make(map[MessageKey]struct{}, len(KnownKeys))
	for _, k := range KnownKeys {
		m[k] = struct{}{}
	}
	return m
}()

// Known reports whether the device application consumes k.
func (k MessageKey) Known() bool {
	_, ok := knownKeys[k]
	return ok
}

func (k MessageKey) String() string {
	return string(k)
}
