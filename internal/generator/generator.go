// Package generator builds complete themes from a small color palette,
// typically the dominant colors of a podcast cover.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/podabio/podabio/internal/palette"
	"github.com/podabio/podabio/internal/theme"
	"github.com/podabio/podabio/internal/tokens"
	"github.com/podabio/podabio/pkg/colormath"
)

// PaletteSize is the number of role slots a generated theme fills.
const PaletteSize = 5

// Minimum contrast per role.
const (
	TitleContrast = 3.0
	BodyContrast  = 4.5
)

// shuffleContrast holds the minimum ratio for slots 1..4 against slot 0
// after a shuffle.
var shuffleContrast = [PaletteSize - 1]float64{3.0, 4.5, 2.5, 2.0}

// Fixed font pairings.
var (
	PageFonts   = theme.FontPair{Primary: "Playfair Display", Secondary: "Source Sans Pro"}
	WidgetFonts = theme.FontPair{Primary: "Montserrat", Secondary: "Open Sans"}
)

const defaultThemeName = "Podcast Theme"

// Limits caps the lengths of generated text fields, counted in runes.
type Limits struct {
	ThemeName          int `mapstructure:"theme_name_limit"`
	PodcastName        int `mapstructure:"podcast_name_limit"`
	PodcastDescription int `mapstructure:"podcast_description_limit"`
}

// DefaultLimits returns the stock truncation limits.
func DefaultLimits() Limits {
	return Limits{ThemeName: 60, PodcastName: 30, PodcastDescription: 113}
}

// GeneratedTheme is a theme derived from a palette, before persistence.
type GeneratedTheme struct {
	Name               string              `json:"name"`
	PodcastName        string              `json:"podcast_name"`
	PodcastDescription string              `json:"podcast_description"`
	Palette            []string            `json:"palette"`
	PageBackground     string              `json:"page_background"`
	PageTitleColor     string              `json:"page_title_color"`
	PageBodyColor      string              `json:"page_body_color"`
	WidgetBackground   string              `json:"widget_background"`
	WidgetTextColor    string              `json:"widget_text_color"`
	WidgetBorderColor  string              `json:"widget_border_color"`
	AccentColor        string              `json:"accent_color"`
	PageFonts          theme.FontPair      `json:"page_fonts"`
	WidgetFonts        theme.FontPair      `json:"widget_fonts"`
	WidgetStyles       theme.WidgetStyles  `json:"widget_styles"`
	VisualEffects      theme.VisualEffects `json:"visual_effects"`
}

// Option configures a Generator.
type Option func(*Generator)

// WithLimits overrides the truncation limits. Zero fields keep the default.
func WithLimits(l Limits) Option {
	return func(g *Generator) {
		if l.ThemeName > 0 {
			g.limits.ThemeName = l.ThemeName
		}
		if l.PodcastName > 0 {
			g.limits.PodcastName = l.PodcastName
		}
		if l.PodcastDescription > 0 {
			g.limits.PodcastDescription = l.PodcastDescription
		}
	}
}

// WithRand sets the random source used by ShuffleColors.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// Generator derives themes from palettes. It is safe for concurrent use.
type Generator struct {
	limits Limits
	logger *zap.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{limits: DefaultLimits(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		seed := uint64(time.Now().UnixNano())
		g.rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	return g
}

// Limits returns the active truncation limits.
func (g *Generator) Limits() Limits { return g.limits }

// GenerateTheme assigns palette slots to roles: 0 page background, 1 title,
// 2 body text, 3 widget background, 4 accent. Missing slots are padded from
// the default palette and text colors are forced to a readable contrast.
func (g *Generator) GenerateTheme(colors []string, name, description string) GeneratedTheme {
	p := padPalette(colors)
	base := p[0]

	title := orDerived(p[1], colormath.Darken(base, 0.30))
	body := orDerived(p[2], colormath.Darken(base, 0.50))
	widgetBg := orDerived(p[3], colormath.Lighten(base, 0.10))
	accent := orDerived(p[4], base)
	gradientEnd := orDerived(p[1], colormath.Darken(base, 0.20))

	title = EnsureContrast(title, base, TitleContrast)
	body = EnsureContrast(body, base, BodyContrast)
	widgetText := EnsureContrast(body, widgetBg, BodyContrast)

	styles := theme.DefaultWidgetStyles()
	styles.BorderEffect = theme.BorderEffectGlow
	styles.BorderGlowIntensity = theme.IntensitySubtle
	styles.GlowEnabled = true
	styles.GlowColor = accent
	styles.GlowWidth = 8
	styles.GlowIntensity = 0.6
	styles.GlowBlur = theme.GlowBlurMedium

	name = strings.TrimSpace(name)
	themeName := name
	if themeName == "" {
		themeName = defaultThemeName
	}

	gt := GeneratedTheme{
		Name:               truncate(themeName, g.limits.ThemeName),
		PodcastName:        truncate(name, g.limits.PodcastName),
		PodcastDescription: truncate(strings.TrimSpace(description), g.limits.PodcastDescription),
		Palette:            p,
		PageBackground:     fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", base, gradientEnd),
		PageTitleColor:     title,
		PageBodyColor:      body,
		WidgetBackground:   widgetBg,
		WidgetTextColor:    widgetText,
		WidgetBorderColor:  colormath.AdjustBrightness(accent, -20),
		AccentColor:        accent,
		PageFonts:          PageFonts,
		WidgetFonts:        WidgetFonts,
		WidgetStyles:       styles,
		VisualEffects: theme.VisualEffects{
			TitleShadow: &theme.TextShadow{
				Color:     colormath.Darken(title, 0.40),
				Intensity: 0.8,
				Depth:     3,
				Blur:      6,
			},
			TitleBorder: &theme.TextBorder{
				Color: colormath.Darken(title, 0.20),
				Width: 3,
			},
			ProfileImage: &theme.ProfileImage{
				Radius: "15%",
				Shadow: "0 8px 24px rgba(0, 0, 0, 0.25)",
			},
		},
	}
	g.logger.Debug("generated theme",
		zap.String("name", gt.Name),
		zap.Strings("palette", p),
	)
	return gt
}

// ShuffleColors pads colors to the palette size, permutes them and then
// enforces a per-slot contrast minimum for slots 1..4 against slot 0.
func (g *Generator) ShuffleColors(colors []string) []string {
	p := padPalette(colors)

	g.mu.Lock()
	g.rng.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })
	g.mu.Unlock()

	for i, ratio := range shuffleContrast {
		p[i+1] = EnsureContrast(p[i+1], p[0], ratio)
	}
	return p
}

// Input converts the generated theme into a create payload.
func (gt GeneratedTheme) Input() theme.ThemeInput {
	effects := gt.VisualEffects
	colorTokens := tokens.Bundle{}
	colorTokens.Set("background.base", gt.Palette[0])
	colorTokens.Set("background.surface", gt.WidgetBackground)
	colorTokens.Set("text.primary", gt.PageTitleColor)
	colorTokens.Set("text.secondary", gt.PageBodyColor)
	colorTokens.Set("border.default", gt.WidgetBorderColor)
	colorTokens.Set("accent.primary", gt.AccentColor)
	colorTokens.Set("accent.muted", colormath.Lighten(gt.AccentColor, 0.75))
	colorTokens.Set("gradient.page", gt.PageBackground)
	colorTokens.Set("glow.primary", colormath.RGBA(gt.AccentColor, gt.WidgetStyles.GlowIntensity))

	typography := tokens.Bundle{}
	typography.Set("font.heading", gt.PageFonts.Primary)
	typography.Set("font.body", gt.PageFonts.Secondary)

	ws := gt.WidgetStyles
	return theme.ThemeInput{
		Colors: map[string]string{
			"primary":   gt.PageTitleColor,
			"secondary": gt.Palette[0],
			"accent":    gt.AccentColor,
		},
		Fonts: map[string]string{
			"heading": gt.PageFonts.Primary,
			"body":    gt.PageFonts.Secondary,
		},
		PageBackground:      ptr(gt.PageBackground),
		WidgetBackground:    ptr(gt.WidgetBackground),
		WidgetBorderColor:   ptr(gt.WidgetBorderColor),
		PagePrimaryFont:     ptr(gt.PageFonts.Primary),
		PageSecondaryFont:   ptr(gt.PageFonts.Secondary),
		WidgetPrimaryFont:   ptr(gt.WidgetFonts.Primary),
		WidgetSecondaryFont: ptr(gt.WidgetFonts.Secondary),
		WidgetStyles: map[string]any{
			"border_width":            ws.BorderWidth,
			"border_effect":           ws.BorderEffect,
			"border_shadow_intensity": ws.BorderShadowIntensity,
			"border_glow_intensity":   ws.BorderGlowIntensity,
			"glow_color":              ws.GlowColor,
			"glow_enabled":            ws.GlowEnabled,
			"glow_width":              ws.GlowWidth,
			"glow_intensity":          ws.GlowIntensity,
			"glow_blur":               ws.GlowBlur,
			"spacing":                 ws.Spacing,
			"shape":                   ws.Shape,
		},
		ColorTokens:      colorTokens,
		TypographyTokens: typography,
		VisualEffects:    &effects,
	}
}

// padPalette normalizes colors and fills the five slots. Missing slots take
// the default palette entry at the same position; invalid entries become
// empty so role derivation can replace them. Slot 0 is always set.
func padPalette(colors []string) []string {
	defaults := palette.DefaultPalette(PaletteSize)
	p := make([]string, PaletteSize)
	for i := range p {
		if i >= len(colors) {
			p[i] = defaults[i]
			continue
		}
		if n, ok := colormath.Normalize(colors[i]); ok {
			p[i] = n
		}
	}
	if p[0] == "" {
		p[0] = defaults[0]
	}
	return p
}

func orDerived(c, derived string) string {
	if c != "" {
		return c
	}
	return derived
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func ptr(s string) *string { return &s }
