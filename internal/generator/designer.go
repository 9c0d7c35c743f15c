package generator

import (
	"context"

	"github.com/podabio/podabio/internal/palette"
	"github.com/podabio/podabio/internal/theme"
)

var _ theme.Designer = (*Designer)(nil)

// Designer turns a palette or cover image into a theme payload. It
// satisfies theme.Designer.
type Designer struct {
	gen       *Generator
	extractor *palette.Extractor
}

// NewDesigner creates a Designer. extractor may be nil, in which case image
// requests fall back to the default palette.
func NewDesigner(gen *Generator, extractor *palette.Extractor) *Designer {
	return &Designer{gen: gen, extractor: extractor}
}

// Design picks the palette (explicit colors, then the cover image, then the
// default palette) and generates a theme from it.
func (d *Designer) Design(ctx context.Context, req theme.DesignRequest) (string, theme.ThemeInput) {
	colors := req.Colors
	if len(colors) == 0 {
		switch {
		case req.ImageURL != "" && d.extractor != nil:
			colors = d.extractor.ExtractFromURL(ctx, req.ImageURL, PaletteSize)
		default:
			colors = palette.DefaultPalette(PaletteSize)
		}
	}
	gt := d.gen.GenerateTheme(colors, req.Name, req.Description)
	return gt.Name, gt.Input()
}
