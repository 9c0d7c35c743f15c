package tokens

import (
	"math"
	"strconv"
	"strings"
)

// Spacing is a resolved spacing category: the merged tree, the density it was
// resolved for, and the final rem value for every base_scale key.
type Spacing struct {
	Bundle  Bundle            `json:"bundle"`
	Values  map[string]string `json:"values"`
	Density string            `json:"density"`
}

// ValidDensity reports whether d names a known density profile.
func ValidDensity(d string) bool {
	return d == DensityCompact || d == DensityComfortable
}

// ResolveDensity picks the first non-empty of page, theme and the bundle's own
// default, falling back to comfortable. Unknown names resolve to comfortable.
func ResolveDensity(page, theme, bundleDefault string) string {
	for _, d := range []string{page, theme, bundleDefault} {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if ValidDensity(d) {
			return d
		}
		return DensityComfortable
	}
	return DensityComfortable
}

// ResolveSpacing computes base_scale[key] * density_multipliers[density][key]
// for every base_scale key. A missing multiplier counts as 1.
func ResolveSpacing(bundle Bundle, pageDensity, themeDensity string) Spacing {
	density := ResolveDensity(pageDensity, themeDensity, bundle.GetString("density"))

	values := make(map[string]string)
	base, _ := bundle.Get("base_scale")
	scale, _ := asBundle(base)
	for key, raw := range scale {
		v, ok := toFloat(raw)
		if !ok {
			continue
		}
		mult, ok := bundle.GetFloat("density_multipliers." + density + "." + key)
		if !ok {
			mult = 1
		}
		values[key] = FormatRem(v * mult)
	}

	return Spacing{Bundle: bundle, Values: values, Density: density}
}

// FormatRem renders v as a trimmed rem value: rounded to four decimals,
// trailing zeros and a trailing dot removed ("2.50" -> "2.5rem",
// "2.00" -> "2rem", 0 -> "0rem").
func FormatRem(v float64) string {
	rounded := math.Round(v*10000) / 10000
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	s := strconv.FormatFloat(rounded, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		s = "0"
	}
	return s + "rem"
}
