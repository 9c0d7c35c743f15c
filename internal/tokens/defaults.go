package tokens

// Density profiles.
const (
	DensityCompact     = "compact"
	DensityComfortable = "comfortable"
)

// Unit conventions: typography scale values are unitless multipliers rendered
// as rem; spacing base_scale values are unitless and combined with the density
// multiplier before being rendered as rem; shape and motion values carry their
// CSS units.
var defaultTrees = map[Category]Bundle{
	CategoryColor: {
		"background": Bundle{
			"base":           "#ffffff",
			"surface":        "#f8fafc",
			"surface_raised": "#ffffff",
			"overlay":        "rgba(15, 23, 42, 0.6)",
		},
		"text": Bundle{
			"primary":   "#0f172a",
			"secondary": "#475569",
			"inverse":   "#ffffff",
		},
		"border": Bundle{
			"default": "#e2e8f0",
			"focus":   "#2563eb",
		},
		"accent": Bundle{
			"primary": "#2563eb",
			"muted":   "#dbeafe",
		},
		"stroke": Bundle{
			"subtle": "rgba(15, 23, 42, 0.08)",
		},
		"state": Bundle{
			"success": "#16a34a",
			"warning": "#f59e0b",
			"danger":  "#dc2626",
		},
		"text_state": Bundle{
			"success": "#166534",
			"warning": "#92400e",
			"danger":  "#991b1b",
		},
		"shadow": Bundle{
			"ambient": "rgba(15, 23, 42, 0.12)",
			"focus":   "rgba(37, 99, 235, 0.35)",
		},
		"gradient": Bundle{
			"page":   "linear-gradient(135deg, #ffffff 0%, #f8fafc 100%)",
			"accent": "linear-gradient(135deg, #2563eb 0%, #7c3aed 100%)",
			"widget": "linear-gradient(180deg, #ffffff 0%, #f1f5f9 100%)",
		},
		"glow": Bundle{
			"primary": "rgba(37, 99, 235, 0.45)",
		},
	},
	CategoryTypography: {
		"font": Bundle{
			"heading": "Inter",
			"body":    "Inter",
		},
		"scale": Bundle{
			"xl": 2.488,
			"lg": 1.777,
			"md": 1.333,
			"sm": 1.111,
			"xs": 0.889,
		},
		"line_height": Bundle{
			"tight":   1.2,
			"normal":  1.5,
			"relaxed": 1.7,
		},
		"weight": Bundle{
			"normal": 400,
			"medium": 500,
			"bold":   600,
		},
	},
	CategorySpacing: {
		"density": DensityComfortable,
		"base_scale": Bundle{
			"2xs": 0.25,
			"xs":  0.5,
			"sm":  0.75,
			"md":  1,
			"lg":  1.5,
			"xl":  2,
			"2xl": 3,
		},
		"density_multipliers": Bundle{
			DensityCompact: Bundle{
				"2xs": 0.75,
				"xs":  0.75,
				"sm":  0.8,
				"md":  0.85,
				"lg":  0.85,
				"xl":  0.9,
				"2xl": 0.9,
			},
			DensityComfortable: Bundle{
				"2xs": 1,
				"xs":  1,
				"sm":  1.1,
				"md":  1.25,
				"lg":  1.25,
				"xl":  1.3,
				"2xl": 1.35,
			},
		},
	},
	CategoryShape: {
		"corner": Bundle{
			"none": "0px",
			"sm":   "0.375rem",
			"md":   "0.75rem",
			"lg":   "1.5rem",
			"pill": "9999px",
		},
		"border_width": Bundle{
			"hairline": "1px",
			"regular":  "2px",
			"bold":     "4px",
		},
		"shadow": Bundle{
			"level_1": "0 2px 6px rgba(15, 23, 42, 0.12)",
			"level_2": "0 6px 16px rgba(15, 23, 42, 0.16)",
			"focus":   "0 0 0 4px rgba(37, 99, 235, 0.35)",
		},
	},
	CategoryMotion: {
		"duration": Bundle{
			"momentary": "75ms",
			"fast":      "150ms",
			"standard":  "250ms",
			"slow":      "400ms",
		},
		"easing": Bundle{
			"standard":   "cubic-bezier(0.4, 0, 0.2, 1)",
			"decelerate": "cubic-bezier(0, 0, 0.2, 1)",
			"accelerate": "cubic-bezier(0.4, 0, 1, 1)",
		},
		"focus": Bundle{
			"ring_thickness": "3px",
			"ring_offset":    "2px",
		},
	},
}

// Defaults returns a fresh copy of the default tree for cat. Unknown
// categories yield an empty Bundle.
func Defaults(cat Category) Bundle {
	if d, ok := defaultTrees[cat]; ok {
		return d.Clone()
	}
	return Bundle{}
}
