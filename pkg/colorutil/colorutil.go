// Package colorutil provides shared color utilities for the annotation editor.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common annotation colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 229, G: 57, B: 53, A: 255}
	Blue    = color.RGBA{R: 30, G: 136, B: 229, A: 255}
	Green   = color.RGBA{R: 67, G: 160, B: 71, A: 255}
	Yellow  = color.RGBA{R: 253, G: 216, B: 53, A: 255}
	Orange  = color.RGBA{R: 251, G: 140, B: 0, A: 255}
	Magenta = color.RGBA{R: 216, G: 27, B: 96, A: 255}
)

// Transparent is the sentinel used for shape fills that paint nothing.
const Transparent = "transparent"

// namedColors maps the palette names accepted in layer payloads.
var namedColors = map[string]color.RGBA{
	"black":   Black,
	"white":   White,
	"red":     Red,
	"blue":    Blue,
	"green":   Green,
	"yellow":  Yellow,
	"orange":  Orange,
	"magenta": Magenta,
}

// ParseHex parses an sRGB "#RRGGBB" (or "RRGGBB") string or a palette name.
func ParseHex(s string) (color.RGBA, error) {
	if c, ok := namedColors[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustParseHex parses a hex color, falling back to black on error. The
// annotation model validates colors on entry, so draw routines use this.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		return Black
	}
	return c
}

// FormatHex formats a color as "#rrggbb", discarding alpha.
func FormatHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// WithAlpha returns the color with its alpha replaced (not premultiplied).
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// BlendOver alpha-blends src over dst using src's alpha channel.
func BlendOver(dst color.RGBA, src color.RGBA) color.RGBA {
	a := float64(src.A) / 255.0
	inv := 1 - a
	return color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*inv),
		G: uint8(float64(src.G)*a + float64(dst.G)*inv),
		B: uint8(float64(src.B)*a + float64(dst.B)*inv),
		A: uint8(255*a + float64(dst.A)*inv),
	}
}
