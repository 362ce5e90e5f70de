package schema

// Watchface returns the configuration schema of the analog watchface.
// Every call builds a new Document, so callers may modify the result freely.
func Watchface() Document {
	return Document{
		Heading{Text: "App Configuration"},
		Color{Key: BackgroundColor, Default: "0x000000", Label: "Background color"},
		Section{Items: []Field{
			Heading{Text: "Hands"},
			Slider{Key: HourHandLength, Default: "35", Label: "Hour hand length", Min: 10, Max: 72, Step: 1},
			Slider{Key: MinuteHandLength, Default: "50", Label: "Minute hand length", Min: 10, Max: 72, Step: 1},
			Slider{Key: HandsThickness, Default: "2", Label: "Hands thickness", Min: 1, Max: 10, Step: 1},
			Color{Key: HandsColor, Default: "0xFFFFFF", Label: "Hands color"},
		}},
		Section{Items: []Field{
			Heading{Text: "Ticks"},
			Slider{Key: TicksThickness, Default: "2", Label: "Tick thickness", Min: 1, Max: 10, Step: 1},
			Slider{Key: TicksOverlayThickness, Default: "10", Label: "Tick overlay thickness", Min: 0, Max: 30, Step: 1},
			Color{Key: TicksColor, Default: "0x555555", Label: "Ticks color"},
		}},
		Section{Items: []Field{
			Heading{Text: "Battery indicator"},
			Slider{Key: BatteryIndicatorThickness, Default: "3", Label: "Battery ring thickness", Min: 1, Max: 10, Step: 1},
			Color{Key: HighBatteryColor, Default: "0x55FF55", Label: "High battery color"},
			Color{Key: MediumBatteryColor, Default: "0xFFAA00", Label: "Medium battery color"},
			Color{Key: LowBatteryColor, Default: "0xFF0055", Label: "Low battery color"},
		}},
		Submit{Label: "Save Settings"},
	}
}
