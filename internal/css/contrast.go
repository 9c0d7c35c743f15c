package css

import (
	"regexp"
	"strings"

	"github.com/podabio/podabio/pkg/colormath"
)

// MinTextContrast is the ratio text colors must reach against the page
// background.
const MinTextContrast = 4.0

// Fallbacks when neither white nor black reaches MinTextContrast.
const (
	fallbackOnDark  = "#f0f0f0"
	fallbackOnLight = "#1a1a1a"
)

// twoStopGradient matches "linear-gradient(<angle>, #a [n%], #b [n%])".
var twoStopGradient = regexp.MustCompile(
	`^linear-gradient\(\s*[^,()]+,\s*(#[0-9A-Fa-f]{3}(?:[0-9A-Fa-f]{3})?)(?:\s+[\d.]+%)?\s*,\s*(#[0-9A-Fa-f]{3}(?:[0-9A-Fa-f]{3})?)(?:\s+[\d.]+%)?\s*\)$`,
)

// representative reduces a background value to one color: the lighter stop
// of a two-stop gradient, a hex color as is, white for anything else.
func representative(bg string) string {
	bg = strings.TrimSpace(bg)
	if m := twoStopGradient.FindStringSubmatch(bg); m != nil {
		if colormath.Luminance(m[2]) > colormath.Luminance(m[1]) {
			return m[2]
		}
		return m[1]
	}
	if n, ok := colormath.Normalize(bg); ok {
		return n
	}
	return colormath.White
}

// OptimalTextColor returns def when it reaches MinTextContrast against bg.
// Otherwise it picks white or black, trying white first on dark backgrounds,
// and falls back to a near-white or near-black for the background's side.
func OptimalTextColor(bg, def string) string {
	rep := representative(bg)
	if colormath.IsHex(def) && colormath.ContrastRatio(def, rep) >= MinTextContrast {
		return def
	}

	candidates := []string{colormath.Black, colormath.White}
	fallback := fallbackOnLight
	if colormath.IsDark(rep) {
		candidates = []string{colormath.White, colormath.Black}
		fallback = fallbackOnDark
	}
	for _, c := range candidates {
		if colormath.ContrastRatio(c, rep) >= MinTextContrast {
			return c
		}
	}
	return fallback
}
