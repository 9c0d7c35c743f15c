package theme

import (
	"github.com/podabio/podabio/internal/tokens"
	"github.com/podabio/podabio/pkg/colormath"
)

// Fixed ratios used to derive a token palette from the three legacy colors.
const (
	legacyBorderLighten  = 0.2
	legacyFocusDarken    = 0.25
	legacySurfaceShift   = 0.12
	legacyRaisedShift    = 0.22
	legacySecondaryMix   = 0.35
	legacyMutedAccentMix = 0.75
)

// projectLegacyColors writes legacy primary/secondary/accent colors onto a
// copy of the resolved color tokens. Empty fields are left alone.
func projectLegacyColors(base tokens.Bundle, c Colors) tokens.Bundle {
	out := base.Clone()
	if out == nil {
		out = tokens.Bundle{}
	}

	if c.Primary != "" {
		out.Set("text.primary", c.Primary)
		out.Set("border.default", colormath.Lighten(c.Primary, legacyBorderLighten))
		out.Set("border.focus", colormath.Darken(c.Primary, legacyFocusDarken))
	}
	if c.Secondary != "" {
		out.Set("background.base", c.Secondary)
		out.Set("background.surface", shiftSurface(c.Secondary, legacySurfaceShift))
		out.Set("background.surface_raised", shiftSurface(c.Secondary, legacyRaisedShift))
		if c.Primary != "" {
			out.Set("text.secondary", colormath.Mix(c.Primary, c.Secondary, legacySecondaryMix))
		}
	}
	if c.Accent != "" {
		out.Set("accent.primary", c.Accent)
		out.Set("accent.muted", colormath.Lighten(c.Accent, legacyMutedAccentMix))
	}
	return out
}

// shiftSurface moves a background color away from its luminance side so
// raised surfaces stay distinguishable on both light and dark pages.
func shiftSurface(c string, amount float64) string {
	if colormath.IsDark(c) {
		return colormath.Lighten(c, amount)
	}
	return colormath.Darken(c, amount)
}

// legacyColorsFrom decodes a legacy colors column, keeping valid hex values
// only. ok is false when the column is empty or malformed.
func legacyColorsFrom(raw JSONText) (Colors, bool) {
	if raw == "" {
		return Colors{}, false
	}
	m, ok := decodeObject(string(raw))
	if !ok {
		return Colors{}, false
	}
	pick := func(key string) string {
		s, _ := m[key].(string)
		if n, valid := normalizeHex(s); valid {
			return n
		}
		return ""
	}
	c := Colors{Primary: pick("primary"), Secondary: pick("secondary"), Accent: pick("accent")}
	return c, c != Colors{}
}

// overlay returns c with every empty field taken from fallback.
func (c Colors) overlay(fallback Colors) Colors {
	if c.Primary == "" {
		c.Primary = fallback.Primary
	}
	if c.Secondary == "" {
		c.Secondary = fallback.Secondary
	}
	if c.Accent == "" {
		c.Accent = fallback.Accent
	}
	return c
}
