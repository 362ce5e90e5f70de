package model

import (
	"fmt"
	"strconv"
)

// Color is a 24-bit RGB color as carried by the configuration page.
// It has no alpha channel: every Color is treated as fully opaque.
type Color uint32

// Named colors of the device palette used by the watchface defaults.
const (
	ColorBlack         Color = 0x000000
	ColorWhite         Color = 0xFFFFFF
	ColorDarkGray      Color = 0x555555
	ColorScreaminGreen Color = 0x55FF55
	ColorChromeYellow  Color = 0xFFAA00
	ColorFolly         Color = 0xFF0055
)

// ParseColor parses the "0xRRGGBB" text form. The lower-case "0x" prefix is
// mandatory and exactly six hex digits of either case must follow.
func ParseColor(s string) (Color, error) {
	if len(s) != 8 || s[0] != '0' || s[1] != 'x' {
		return 0, fmt.Errorf("color %q: want 0xRRGGBB", s)
	}
	for _, c := range s[2:] {
		if !isHex(c) {
			return 0, fmt.Errorf("color %q: invalid hex digit %q", s, c)
		}
	}
	v, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return Color(v), nil
}

func isHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// String returns the canonical "0xRRGGBB" form with upper-case digits.
func (c Color) String() string {
	return fmt.Sprintf("0x%06X", uint32(c)&0xFFFFFF)
}

// RGB returns the three 8-bit channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// ARGB returns the 32-bit value the device receives: the RGB channels with
// an implicit full-opacity alpha byte on top.
func (c Color) ARGB() uint32 {
	return 0xFF000000 | uint32(c)&0xFFFFFF
}

// ColorFromARGB drops the alpha byte of a device-side 32-bit color.
func ColorFromARGB(v uint32) Color {
	return Color(v & 0xFFFFFF)
}

// GColor8 quantizes the color to the device's 8-bit palette format
// (AARRGGBB, two bits per channel). Alpha is always 0b11 since Color cannot
// express translucency.
func (c Color) GColor8() uint8 {
	r, g, b := c.RGB()
	return 0b11<<6 | (r>>6)<<4 | (g>>6)<<2 | b>>6
}

// InPalette reports whether the color survives GColor8 quantization unchanged.
func (c Color) InPalette() bool {
	r, g, b := c.RGB()
	return r%0x55 == 0 && g%0x55 == 0 && b%0x55 == 0
}
