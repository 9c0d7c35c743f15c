package css

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/podabio/podabio/internal/theme"
	"github.com/podabio/podabio/internal/tokens"
	"github.com/podabio/podabio/pkg/colormath"
	"go.uber.org/zap"
)

// declarations accumulates custom properties in emission order.
type declarations struct {
	sb     strings.Builder
	logger *zap.Logger
}

func (d *declarations) add(name, value string) {
	d.addOr(name, value, "")
}

// addOr writes value, or fallback when value is set but unsafe.
func (d *declarations) addOr(name, value, fallback string) {
	if name == "" {
		return
	}
	v := safe(d.logger, "--"+name, value)
	if v == "" && strings.TrimSpace(value) != "" {
		v = clean(fallback)
	}
	if v == "" {
		return
	}
	fmt.Fprintf(&d.sb, "  --%s: %s;\n", name, v)
}

func (d *declarations) section(title string) {
	fmt.Fprintf(&d.sb, "  /* %s */\n", title)
}

// Variables returns the :root block with every custom property. Order is
// fixed: color tokens, computed text colors, typography, spacing, shape,
// motion, legacy aliases, then border-effect variables.
func (c *Compiler) Variables() string {
	d := declarations{logger: c.logger}
	cfg := c.cfg

	d.section("color")
	colorDefaults := tokens.Defaults(tokens.CategoryColor)
	for _, e := range cfg.Tokens.Color.Flatten() {
		d.addOr(varName("color", e.Path), e.Value, colorDefaults.GetString(e.Path))
	}
	d.add("color-on-background", OptimalTextColor(c.color.Background.Base, c.color.Text.Primary))
	d.add("color-on-surface", OptimalTextColor(c.color.Background.Surface, c.color.Text.Primary))
	d.add("color-on-accent", OptimalTextColor(c.color.Accent.Primary, c.color.Text.Inverse))
	d.add("page-title-color", OptimalTextColor(cfg.PageBackground, c.color.Text.Primary))
	d.add("page-description-color", OptimalTextColor(cfg.PageBackground, c.color.Text.Secondary))
	d.add("social-icon-color", OptimalTextColor(cfg.PageBackground, c.color.Accent.Primary))

	d.section("typography")
	typeDefaults := tokens.Defaults(tokens.CategoryTypography)
	for _, e := range cfg.Tokens.Typography.Flatten() {
		head, rest, _ := strings.Cut(e.Path, ".")
		def := typeDefaults.GetString(e.Path)
		switch head {
		case "font":
			d.addOr(varName("font-family", rest), fontStack(e.Value), fontStack(def))
		case "scale":
			d.addOr(varName("font-size", rest), remValue(e.Value), remValue(def))
		case "line_height":
			d.addOr(varName("line-height", rest), e.Value, def)
		case "weight":
			d.addOr(varName("font-weight", rest), e.Value, def)
		default:
			d.addOr(varName("typography", e.Path), e.Value, def)
		}
	}

	d.section("spacing")
	keys := make([]string, 0, len(cfg.Tokens.Spacing.Values))
	for k := range cfg.Tokens.Spacing.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.add(varName("spacing", k), cfg.Tokens.Spacing.Values[k])
	}
	d.add("layout-density", cfg.Tokens.Spacing.Density)

	d.section("shape")
	shapeDefaults := tokens.Defaults(tokens.CategoryShape)
	for _, e := range cfg.Tokens.Shape.Flatten() {
		d.addOr(varName("shape", e.Path), e.Value, shapeDefaults.GetString(e.Path))
	}

	d.section("motion")
	motionDefaults := tokens.Defaults(tokens.CategoryMotion)
	for _, e := range cfg.Tokens.Motion.Flatten() {
		d.addOr(varName("motion", e.Path), e.Value, motionDefaults.GetString(e.Path))
	}

	d.section("legacy")
	d.add("primary-color", cfg.Colors.Primary)
	d.add("secondary-color", cfg.Colors.Secondary)
	d.add("accent-color", cfg.Colors.Accent)
	d.add("heading-font", fontStack(cfg.Fonts.Primary))
	d.add("body-font", fontStack(cfg.Fonts.Secondary))
	d.add("page-primary-font", fontStack(cfg.PageFonts.Primary))
	d.add("page-secondary-font", fontStack(cfg.PageFonts.Secondary))
	d.add("widget-primary-font", fontStack(cfg.WidgetFonts.Primary))
	d.add("widget-secondary-font", fontStack(cfg.WidgetFonts.Secondary))
	d.add("page-background", theme.ParseBackground(cfg.PageBackground).String())
	d.add("widget-background", theme.ParseBackground(cfg.WidgetBackground).String())
	d.add("widget-border-color", cfg.WidgetBorderColor)
	d.add("widget-border-width", c.borderWidth())
	d.add("widget-spacing", c.widgetSpacing())
	d.add("widget-border-radius", c.borderRadius())

	ws := cfg.WidgetStyles
	switch ws.BorderEffect {
	case theme.BorderEffectGlow:
		d.section("glow")
		glow := c.glowColor()
		opacity := c.glowOpacity()
		d.add("widget-glow-color", alpha(glow, opacity))
		d.add("widget-glow-blur", c.glowBlur())
		d.add("widget-glow-opacity", num(opacity))
		if ws.GlowWidth > 0 {
			d.add("widget-glow-width", num(ws.GlowWidth)+"px")
		}
		d.add("glow-rotate-duration", "8s")
	default:
		d.section("shadow")
		d.add("widget-box-shadow", c.boxShadow())
	}

	return ":root {\n" + d.sb.String() + "}\n"
}

func (c *Compiler) borderWidth() string {
	switch c.cfg.WidgetStyles.BorderWidth {
	case theme.BorderWidthNone:
		return "0px"
	case theme.BorderWidthThick:
		return c.shape.BorderWidth.Bold
	default:
		return c.shape.BorderWidth.Regular
	}
}

func (c *Compiler) widgetSpacing() string {
	key := "md"
	switch c.cfg.WidgetStyles.Spacing {
	case theme.SpacingTight:
		key = "sm"
	case theme.SpacingSpacious:
		key = "lg"
	}
	if v := c.cfg.Tokens.Spacing.Values[key]; v != "" {
		return v
	}
	return "1rem"
}

func (c *Compiler) borderRadius() string {
	switch c.cfg.WidgetStyles.Shape {
	case theme.ShapeSquare:
		return c.shape.Corner.None
	case theme.ShapeRound:
		return c.shape.Corner.LG
	default:
		return c.shape.Corner.MD
	}
}

func (c *Compiler) boxShadow() string {
	switch c.cfg.WidgetStyles.BorderShadowIntensity {
	case theme.IntensityNone:
		return "none"
	case theme.IntensityPronounced:
		return c.shape.Shadow.Level2
	default:
		return c.shape.Shadow.Level1
	}
}

func (c *Compiler) glowColor() string {
	if g := c.cfg.WidgetStyles.GlowColor; g != "" {
		return g
	}
	return c.color.Accent.Primary
}

// glowOpacity prefers the explicit glow intensity, then the named level.
func (c *Compiler) glowOpacity() float64 {
	ws := c.cfg.WidgetStyles
	if ws.GlowIntensity > 0 {
		return ws.GlowIntensity
	}
	switch ws.BorderGlowIntensity {
	case theme.IntensityNone:
		return 0
	case theme.IntensityPronounced:
		return 0.85
	default:
		return 0.5
	}
}

func (c *Compiler) glowBlur() string {
	switch c.cfg.WidgetStyles.GlowBlur {
	case theme.GlowBlurSmall:
		return "8px"
	case theme.GlowBlurLarge:
		return "28px"
	case theme.GlowBlurMedium:
		return "16px"
	}
	if c.cfg.WidgetStyles.BorderGlowIntensity == theme.IntensityPronounced {
		return "24px"
	}
	return "12px"
}

// varName builds a custom-property name from a prefix and a token path.
// Characters outside [a-z0-9-] are dropped.
func varName(prefix, path string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('-')
	for _, r := range strings.ToLower(path) {
		switch {
		case r == '.' || r == '_' || r == '-' || r == ' ':
			sb.WriteByte('-')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// fontStack quotes a family name. Generic families stay bare.
func fontStack(family string) string {
	family = strings.Trim(strings.TrimSpace(family), `"'`)
	family = strings.NewReplacer(`"`, "", `\`, "").Replace(family)
	if family == "" {
		return ""
	}
	switch strings.ToLower(family) {
	case "serif", "sans-serif", "monospace", "cursive", "fantasy", "system-ui":
		return strings.ToLower(family)
	}
	return strconv.Quote(family)
}

// remValue renders unitless scale numbers as rem and passes anything else
// through.
func remValue(v string) string {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	return tokens.FormatRem(f)
}

// alpha applies an opacity to hex colors; other values pass through.
func alpha(c string, a float64) string {
	if !colormath.IsHex(c) {
		return c
	}
	return colormath.RGBA(c, a)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// clean trims v and returns "" when it could end the declaration, open a
// comment, or leave the style element.
func clean(v string) string {
	v = strings.TrimSpace(v)
	if !safeValue(v) {
		return ""
	}
	return v
}

func safeValue(v string) bool {
	var quote rune
	depth := 0
	for i, r := range v {
		switch {
		case strings.ContainsRune(";{}<>\\\n\r", r):
			return false
		case r == '/' && strings.HasPrefix(v[i+1:], "*"),
			r == '*' && strings.HasPrefix(v[i+1:], "/"):
			return false
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return quote == 0 && depth == 0
}

// safe is clean with a warning when a non-empty value is dropped.
func safe(logger *zap.Logger, property, v string) string {
	out := clean(v)
	if out == "" && strings.TrimSpace(v) != "" && logger != nil {
		logger.Warn("dropping unsafe css value",
			zap.String("property", property), zap.String("value", v))
	}
	return out
}
