package sensor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

var (
	// ColorGreen is the default beam color while idle.
	ColorGreen = Color{R: 0, G: 255, B: 0, A: 255}
	// ColorRed is the default beam color while alerting.
	ColorRed = Color{R: 255, G: 0, B: 0, A: 255}
)

// errBadColor is returned for strings that are not #RRGGBB or #RRGGBBAA.
var errBadColor = errors.New("color must be #RRGGBB or #RRGGBBAA")

// ParseColor parses a #RRGGBB or #RRGGBBAA hex string.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 6 {
		hex += "ff"
	}

	if len(hex) != 8 {
		return Color{}, fmt.Errorf("%q: %w", s, errBadColor)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%q: %w", s, errBadColor)
	}

	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex returns the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// RGBHex returns the color as #RRGGBB, dropping alpha.
func (c Color) RGBHex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
