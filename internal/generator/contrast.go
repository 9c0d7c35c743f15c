package generator

import "github.com/podabio/podabio/pkg/colormath"

// Terminal fallbacks when neither pure white/black nor an adjusted color
// reaches the requested ratio.
const (
	FallbackOnLight = "#1a1a1a"
	FallbackOnDark  = "#f0f0f0"
)

const contrastAdjust = 0.30

// EnsureContrast returns fg when it already reaches minRatio against bg.
// Otherwise it tries pure white (dark bg) or black (light bg), then fg
// lightened or darkened by 30%, and finally the terminal fallback for the
// background's side. The result always meets minRatio or is a fallback.
func EnsureContrast(fg, bg string, minRatio float64) string {
	if n, ok := colormath.Normalize(fg); ok {
		fg = n
	} else {
		fg = "#000000"
	}
	if colormath.ContrastRatio(fg, bg) >= minRatio {
		return fg
	}

	dark := colormath.IsDark(bg)
	pure, fallback := "#000000", FallbackOnLight
	if dark {
		pure, fallback = "#ffffff", FallbackOnDark
	}
	if colormath.ContrastRatio(pure, bg) >= minRatio {
		return pure
	}

	var adjusted string
	if dark {
		adjusted = colormath.Lighten(fg, contrastAdjust)
	} else {
		adjusted = colormath.Darken(fg, contrastAdjust)
	}
	if colormath.ContrastRatio(adjusted, bg) >= minRatio {
		return adjusted
	}
	return fallback
}
