// Package colormath provides the colour arithmetic shared by the theme engine:
// hex parsing, WCAG luminance and contrast, and channel mixing.
//
// Every function accepts hex strings with or without a leading '#', in 3- or
// 6-digit form. Functions that return colours always return lowercase
// 6-digit "#rrggbb" strings.
package colormath

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Reference colours used across the engine.
const (
	White = "#ffffff"
	Black = "#000000"
)

// HexToRGB parses a 3- or 6-digit hex colour. ok is false for anything that is
// not a colour; callers must treat that as "not a colour", not as black.
func HexToRGB(hex string) (r, g, b uint8, ok bool) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// RGBToHex formats channels as "#rrggbb".
func RGBToHex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// IsHex reports whether s parses as a hex colour.
func IsHex(s string) bool {
	_, _, _, ok := HexToRGB(s)
	return ok
}

// Normalize returns the canonical lowercase "#rrggbb" form of hex.
func Normalize(hex string) (string, bool) {
	r, g, b, ok := HexToRGB(hex)
	if !ok {
		return "", false
	}
	return RGBToHex(r, g, b), true
}

// Luminance returns the WCAG 2.x relative luminance of hex in [0,1].
// Malformed input yields 0.
func Luminance(hex string) float64 {
	r, g, b, ok := HexToRGB(hex)
	if !ok {
		return 0
	}
	return 0.2126*linearize(r) + 0.7152*linearize(g) + 0.0722*linearize(b)
}

func linearize(v uint8) float64 {
	c := float64(v) / 255
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG contrast ratio between two colours, in [1,21].
func ContrastRatio(a, b string) float64 {
	la, lb := Luminance(a), Luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// IsDark reports whether hex sits on the dark side of the luminance scale.
func IsDark(hex string) bool {
	return Luminance(hex) < 0.5
}

// Mix interpolates linearly per channel from a towards b. ratio is clamped to
// [0,1]; 0 returns a, 1 returns b. If either input is malformed, a is returned
// unchanged.
func Mix(a, b string, ratio float64) string {
	ca, okA := toColorful(a)
	cb, okB := toColorful(b)
	if !okA || !okB {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	return ca.BlendRgb(cb, ratio).Clamped().Hex()
}

// Lighten mixes c towards white by amount.
func Lighten(c string, amount float64) string {
	return Mix(c, White, amount)
}

// Darken mixes c towards black by amount.
func Darken(c string, amount float64) string {
	return Mix(c, Black, amount)
}

// AdjustBrightness adds delta to every channel and clamps to [0,255]. Unlike
// Mix it shifts channels by a fixed amount, so it is only meant for simple
// tints and shades.
func AdjustBrightness(c string, delta int) string {
	r, g, b, ok := HexToRGB(c)
	if !ok {
		return c
	}
	delta = max(-255, min(255, delta))
	return RGBToHex(shift(r, delta), shift(g, delta), shift(b, delta))
}

func shift(v uint8, delta int) uint8 {
	return uint8(max(0, min(255, int(v)+delta)))
}

// RGBA renders hex as an rgba() value with the given alpha.
func RGBA(hex string, alpha float64) string {
	r, g, b, ok := HexToRGB(hex)
	if !ok {
		return hex
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// Distance is the Euclidean distance between two colours in RGB space.
func Distance(r1, g1, b1, r2, g2, b2 uint8) float64 {
	dr := float64(r1) - float64(r2)
	dg := float64(g1) - float64(g2)
	db := float64(b1) - float64(b2)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func toColorful(hex string) (colorful.Color, bool) {
	r, g, b, ok := HexToRGB(hex)
	if !ok {
		return colorful.Color{}, false
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, true
}
