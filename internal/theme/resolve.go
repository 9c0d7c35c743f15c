package theme

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/podabio/podabio/internal/tokens"
)

// Spatial effects.
const (
	SpatialNone     = "none"
	SpatialGlass    = "glass"
	SpatialDepth    = "depth"
	SpatialFloating = "floating"
	SpatialTilt     = "tilt"
)

// ValidSpatialEffect reports whether e names a known spatial effect.
func ValidSpatialEffect(e string) bool {
	switch e {
	case SpatialNone, SpatialGlass, SpatialDepth, SpatialFloating, SpatialTilt:
		return true
	}
	return false
}

// layers is the page and theme styling a resolution works from. Both are
// always non-nil; an absent record is an empty Styling.
type layers struct {
	page    *Styling
	theme   *Styling
	pageID  string
	record  *Theme
	themeID string
}

// layersFor pairs page with theme, fetching the page's theme through the
// cache when theme is nil. Lookup failures fall back to defaults.
func (s *Service) layersFor(ctx context.Context, page *Page, theme *Theme) layers {
	l := layers{page: &Styling{}, theme: &Styling{}}
	if page != nil {
		l.page = &page.Styling
		l.pageID = page.ID
		if theme == nil && page.ThemeID != "" {
			t, err := s.GetCachedTheme(ctx, page.ThemeID)
			if err != nil {
				s.logger.Warn("theme lookup failed, using defaults",
					zap.String("theme_id", page.ThemeID), zap.Error(err))
			}
			theme = t
		}
	}
	if theme != nil {
		l.theme = &theme.Styling
		l.record = theme
		l.themeID = theme.ID
	}
	return l
}

// parseTokens decodes one token column. Malformed JSON is logged and treated
// as absent.
func (s *Service) parseTokens(l layers, fromPage bool, cat tokens.Category) tokens.Bundle {
	st, owner, id := l.theme, "theme", l.themeID
	if fromPage {
		st, owner, id = l.page, "page", l.pageID
	}
	col, raw := st.tokenColumn(cat)
	b, err := tokens.ParseBundle(raw)
	if err != nil {
		s.logger.Warn("ignoring malformed token column",
			zap.String("owner", owner), zap.String("id", id),
			zap.String("column", col), zap.Error(err))
		return nil
	}
	return b
}

func (s *Service) merged(l layers, cat tokens.Category) tokens.Bundle {
	return tokens.Resolve(cat, s.parseTokens(l, false, cat), s.parseTokens(l, true, cat))
}

// colorTokens merges the color layers. When neither layer carries color
// tokens, explicit legacy colors are projected onto the result instead.
func (s *Service) colorTokens(l layers) (tokens.Bundle, bool) {
	themeTokens := s.parseTokens(l, false, tokens.CategoryColor)
	pageTokens := s.parseTokens(l, true, tokens.CategoryColor)
	merged := tokens.Resolve(tokens.CategoryColor, themeTokens, pageTokens)
	if len(themeTokens) > 0 || len(pageTokens) > 0 {
		return merged, false
	}

	pageColors, _ := legacyColorsFrom(l.page.Colors)
	themeColors, _ := legacyColorsFrom(l.theme.Colors)
	legacy := pageColors.overlay(themeColors)
	if legacy == (Colors{}) {
		return merged, false
	}
	return projectLegacyColors(merged, legacy), true
}

func (s *Service) spacingTokens(l layers) tokens.Spacing {
	return tokens.ResolveSpacing(s.merged(l, tokens.CategorySpacing), l.page.LayoutDensity, l.theme.LayoutDensity)
}

func (s *Service) colors(l layers, color tokens.Bundle) Colors {
	pageColors, _ := legacyColorsFrom(l.page.Colors)
	themeColors, _ := legacyColorsFrom(l.theme.Colors)
	return pageColors.overlay(themeColors).overlay(Colors{
		Primary:   color.GetString("text.primary"),
		Secondary: color.GetString("background.base"),
		Accent:    color.GetString("accent.primary"),
	})
}

func (s *Service) pageFonts(l layers, typography tokens.Bundle) FontPair {
	return FontPair{Primary: l.page.PagePrimaryFont, Secondary: l.page.PageSecondaryFont}.
		trimmed().
		overlay(fontsFrom(l.page.Fonts)).
		overlay(FontPair{Primary: l.theme.PagePrimaryFont, Secondary: l.theme.PageSecondaryFont}.trimmed()).
		overlay(fontsFrom(l.theme.Fonts)).
		overlay(FontPair{
			Primary:   typography.GetString("font.heading"),
			Secondary: typography.GetString("font.body"),
		})
}

func (s *Service) widgetFonts(l layers, pageFonts FontPair) FontPair {
	return FontPair{Primary: l.page.WidgetPrimaryFont, Secondary: l.page.WidgetSecondaryFont}.
		trimmed().
		overlay(FontPair{Primary: l.theme.WidgetPrimaryFont, Secondary: l.theme.WidgetSecondaryFont}.trimmed()).
		overlay(pageFonts)
}

func (s *Service) spatialEffect(l layers) string {
	for _, e := range []string{l.page.SpatialEffect, l.theme.SpatialEffect} {
		e = strings.TrimSpace(e)
		if e != "" && ValidSpatialEffect(e) {
			return e
		}
	}
	return SpatialNone
}

func (s *Service) widgetStyles(l layers) WidgetStyles {
	ws := DefaultWidgetStyles()
	for _, src := range []struct {
		owner string
		raw   JSONText
	}{{"theme", l.theme.WidgetStyles}, {"page", l.page.WidgetStyles}} {
		if src.raw == "" {
			continue
		}
		m, ok := decodeObject(string(src.raw))
		if !ok {
			s.logger.Warn("ignoring malformed widget_styles", zap.String("owner", src.owner))
			continue
		}
		if err := ws.apply(m); err != nil {
			s.logger.Warn("dropping undecodable widget_styles fields",
				zap.String("owner", src.owner), zap.Error(err))
		}
	}
	return ws
}

func (s *Service) visualEffects(l layers) VisualEffects {
	var ve VisualEffects
	if l.record == nil || l.record.VisualEffects == "" {
		return ve
	}
	if err := json.Unmarshal([]byte(l.record.VisualEffects), &ve); err != nil {
		s.logger.Warn("ignoring malformed visual_effects", zap.String("id", l.themeID), zap.Error(err))
		return VisualEffects{}
	}
	return ve
}

// GetThemeColors resolves the legacy primary/secondary/accent triple.
func (s *Service) GetThemeColors(ctx context.Context, page *Page, theme *Theme) Colors {
	l := s.layersFor(ctx, page, theme)
	color, _ := s.colorTokens(l)
	return s.colors(l, color)
}

// GetThemeFonts resolves the page font pair.
func (s *Service) GetThemeFonts(ctx context.Context, page *Page, theme *Theme) FontPair {
	l := s.layersFor(ctx, page, theme)
	return s.pageFonts(l, s.merged(l, tokens.CategoryTypography))
}

// GetPageFonts is an alias of GetThemeFonts.
func (s *Service) GetPageFonts(ctx context.Context, page *Page, theme *Theme) FontPair {
	return s.GetThemeFonts(ctx, page, theme)
}

// GetWidgetFonts resolves the widget font pair, defaulting to the page fonts.
func (s *Service) GetWidgetFonts(ctx context.Context, page *Page, theme *Theme) FontPair {
	l := s.layersFor(ctx, page, theme)
	return s.widgetFonts(l, s.pageFonts(l, s.merged(l, tokens.CategoryTypography)))
}

// GetPageBackground resolves the page background CSS value.
func (s *Service) GetPageBackground(ctx context.Context, page *Page, theme *Theme) string {
	l := s.layersFor(ctx, page, theme)
	color, _ := s.colorTokens(l)
	return firstNonEmpty(l.page.PageBackground, l.theme.PageBackground, color.GetString("background.base"))
}

// GetWidgetBackground resolves the widget background CSS value.
func (s *Service) GetWidgetBackground(ctx context.Context, page *Page, theme *Theme) string {
	l := s.layersFor(ctx, page, theme)
	color, _ := s.colorTokens(l)
	return firstNonEmpty(l.page.WidgetBackground, l.theme.WidgetBackground, color.GetString("background.surface"))
}

// GetWidgetBorderColor resolves the widget border color.
func (s *Service) GetWidgetBorderColor(ctx context.Context, page *Page, theme *Theme) string {
	l := s.layersFor(ctx, page, theme)
	color, _ := s.colorTokens(l)
	return firstNonEmpty(l.page.WidgetBorderColor, l.theme.WidgetBorderColor, color.GetString("border.default"))
}

// GetSpatialEffect resolves the spatial effect, ignoring unknown names.
func (s *Service) GetSpatialEffect(ctx context.Context, page *Page, theme *Theme) string {
	return s.spatialEffect(s.layersFor(ctx, page, theme))
}

// GetWidgetStyles resolves widget styles: defaults, then theme, then page,
// each key validated independently.
func (s *Service) GetWidgetStyles(ctx context.Context, page *Page, theme *Theme) WidgetStyles {
	return s.widgetStyles(s.layersFor(ctx, page, theme))
}

// GetColorTokens resolves the color tokens, including legacy projection.
func (s *Service) GetColorTokens(ctx context.Context, page *Page, theme *Theme) tokens.Bundle {
	color, _ := s.colorTokens(s.layersFor(ctx, page, theme))
	return color
}

// GetTypographyTokens resolves the typography tokens.
func (s *Service) GetTypographyTokens(ctx context.Context, page *Page, theme *Theme) tokens.Bundle {
	return s.merged(s.layersFor(ctx, page, theme), tokens.CategoryTypography)
}

// GetSpacingTokens resolves the spacing tokens for the effective density.
func (s *Service) GetSpacingTokens(ctx context.Context, page *Page, theme *Theme) tokens.Spacing {
	return s.spacingTokens(s.layersFor(ctx, page, theme))
}

// GetShapeTokens resolves the shape tokens.
func (s *Service) GetShapeTokens(ctx context.Context, page *Page, theme *Theme) tokens.Bundle {
	return s.merged(s.layersFor(ctx, page, theme), tokens.CategoryShape)
}

// GetMotionTokens resolves the motion tokens.
func (s *Service) GetMotionTokens(ctx context.Context, page *Page, theme *Theme) tokens.Bundle {
	return s.merged(s.layersFor(ctx, page, theme), tokens.CategoryMotion)
}

// GetThemeTokens resolves all five token categories.
func (s *Service) GetThemeTokens(ctx context.Context, page *Page, theme *Theme) Tokens {
	l := s.layersFor(ctx, page, theme)
	color, _ := s.colorTokens(l)
	return s.resolveTokens(l, color)
}

func (s *Service) resolveTokens(l layers, color tokens.Bundle) Tokens {
	spacing := s.spacingTokens(l)
	return Tokens{
		Color:         color,
		Typography:    s.merged(l, tokens.CategoryTypography),
		Spacing:       spacing,
		Shape:         s.merged(l, tokens.CategoryShape),
		Motion:        s.merged(l, tokens.CategoryMotion),
		LayoutDensity: spacing.Density,
	}
}

// GetThemeConfig resolves everything needed to render a page.
func (s *Service) GetThemeConfig(ctx context.Context, page *Page, theme *Theme) Config {
	l := s.layersFor(ctx, page, theme)
	color, legacy := s.colorTokens(l)
	tk := s.resolveTokens(l, color)
	pageFonts := s.pageFonts(l, tk.Typography)
	widgetFonts := s.widgetFonts(l, pageFonts)

	return Config{
		Colors:              s.colors(l, color),
		Fonts:               pageFonts,
		PageFonts:           pageFonts,
		WidgetFonts:         widgetFonts,
		PageBackground:      firstNonEmpty(l.page.PageBackground, l.theme.PageBackground, color.GetString("background.base")),
		WidgetBackground:    firstNonEmpty(l.page.WidgetBackground, l.theme.WidgetBackground, color.GetString("background.surface")),
		WidgetBorderColor:   firstNonEmpty(l.page.WidgetBorderColor, l.theme.WidgetBorderColor, color.GetString("border.default")),
		WidgetStyles:        s.widgetStyles(l),
		SpatialEffect:       s.spatialEffect(l),
		Tokens:              tk,
		FontURL:             FontURL(pageFonts.Primary, pageFonts.Secondary, widgetFonts.Primary, widgetFonts.Secondary),
		VisualEffects:       s.visualEffects(l),
		LegacyColorsApplied: legacy,
	}
}

func (p FontPair) trimmed() FontPair {
	return FontPair{Primary: strings.TrimSpace(p.Primary), Secondary: strings.TrimSpace(p.Secondary)}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
