package model

// Settings is the device-side view of the watchface configuration.
// Geometry values are in pixels.
type Settings struct {
	BackgroundColor Color

	HourHandLength   int
	MinuteHandLength int
	HandsThickness   int
	HandsColor       Color

	TicksThickness        int
	TicksOverlayThickness int
	TicksColor            Color

	BatteryIndicatorThickness int
	HighBatteryColor          Color
	MediumBatteryColor        Color
	LowBatteryColor           Color
}

// DefaultSettings returns the values the watchface starts with before any
// configuration has been received.
func DefaultSettings() Settings {
	return Settings{
		BackgroundColor: ColorBlack,

		HourHandLength:   35,
		MinuteHandLength: 50,
		HandsThickness:   2,
		HandsColor:       ColorWhite,

		TicksThickness:        2,
		TicksOverlayThickness: 10,
		TicksColor:            ColorDarkGray,

		BatteryIndicatorThickness: 3,
		HighBatteryColor:          ColorScreaminGreen,
		MediumBatteryColor:        ColorChromeYellow,
		LowBatteryColor:           ColorFolly,
	}
}
