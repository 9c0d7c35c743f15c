// Package css compiles a resolved theme into the stylesheet embedded in a
// public page: custom properties, widget and typography rules, spatial
// effects and the glow animation.
package css

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/podabio/podabio/internal/theme"
	"github.com/podabio/podabio/internal/tokens"
)

var compilations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "podabio_css_compilations_total",
		Help: "Stylesheets compiled, by spatial effect.",
	},
	[]string{"spatial_effect"},
)

func init() {
	prometheus.MustRegister(compilations)
}

// Compiler renders CSS for one resolved theme. It holds no state beyond the
// configuration it was built from.
type Compiler struct {
	cfg    theme.Config
	color  tokens.ColorTokens
	shape  tokens.ShapeTokens
	logger *zap.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// New creates a Compiler for a resolved configuration.
func New(cfg theme.Config, opts ...Option) *Compiler {
	c := &Compiler{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.color = c.decodeColor()
	c.shape = c.decodeShape()
	return c
}

// FromPage resolves page and t through svc and returns a Compiler for the
// result. t may be nil; a page theme_id is then looked up by svc.
func FromPage(ctx context.Context, svc *theme.Service, page *theme.Page, t *theme.Theme, opts ...Option) *Compiler {
	return New(svc.GetThemeConfig(ctx, page, t), opts...)
}

// Config returns the configuration the compiler renders.
func (c *Compiler) Config() theme.Config { return c.cfg }

func (c *Compiler) decodeColor() tokens.ColorTokens {
	ct, err := tokens.DecodeColor(tokens.Merge(tokens.Defaults(tokens.CategoryColor), c.cfg.Tokens.Color))
	if err != nil {
		c.logger.Warn("color tokens do not match the expected shape, using defaults", zap.Error(err))
		ct, _ = tokens.DecodeColor(tokens.Defaults(tokens.CategoryColor))
	}
	return ct
}

func (c *Compiler) decodeShape() tokens.ShapeTokens {
	st, err := tokens.DecodeShape(tokens.Merge(tokens.Defaults(tokens.CategoryShape), c.cfg.Tokens.Shape))
	if err != nil {
		c.logger.Warn("shape tokens do not match the expected shape, using defaults", zap.Error(err))
		st, _ = tokens.DecodeShape(tokens.Defaults(tokens.CategoryShape))
	}
	return st
}

// StyleBlock returns the complete stylesheet.
func (c *Compiler) StyleBlock() string {
	var sb strings.Builder

	sb.WriteString(c.Variables())
	sb.WriteString(c.baseCSS())
	sb.WriteString(c.typographyCSS())
	sb.WriteString(c.widgetCSS())
	sb.WriteString(c.visualEffectsCSS())
	sb.WriteString(c.SpatialEffectCSS())
	sb.WriteString(c.GlowAnimationCSS())

	compilations.WithLabelValues(c.spatialEffect()).Inc()
	return sb.String()
}

// StyleTag wraps StyleBlock in a <style> element.
func (c *Compiler) StyleTag() string {
	return "<style>\n" + c.StyleBlock() + "</style>\n"
}

func (c *Compiler) baseCSS() string {
	bg := theme.ParseBackground(c.cfg.PageBackground)

	var sb strings.Builder
	sb.WriteString("\nhtml, body {\n  margin: 0;\n  min-height: 100%;\n}\n")
	sb.WriteString("body {\n")
	sb.WriteString("  background: var(--page-background);\n")
	switch bg.Kind {
	case theme.BackgroundGradient:
		// Gradients scroll with the content.
		sb.WriteString("  background-attachment: scroll;\n")
	case theme.BackgroundImage:
		sb.WriteString("  background-size: cover;\n  background-position: center;\n  background-attachment: fixed;\n")
	default:
		sb.WriteString("  background-attachment: fixed;\n")
	}
	sb.WriteString("  color: var(--color-on-background);\n")
	sb.WriteString("  font-family: var(--page-secondary-font), sans-serif;\n")
	sb.WriteString("  line-height: var(--line-height-normal);\n")
	sb.WriteString("}\n")
	return sb.String()
}

func (c *Compiler) typographyCSS() string {
	return `
.page-title {
  color: var(--page-title-color);
  font-family: var(--page-primary-font), sans-serif;
  font-size: var(--font-size-xl);
  font-weight: var(--font-weight-bold);
  line-height: var(--line-height-tight);
}
.page-description {
  color: var(--page-description-color);
  font-family: var(--page-secondary-font), sans-serif;
  font-size: var(--font-size-sm);
}
.social-icon {
  color: var(--social-icon-color);
}
.social-icon svg {
  fill: currentColor;
}
`
}

func (c *Compiler) widgetCSS() string {
	ws := c.cfg.WidgetStyles

	shadow := "var(--widget-box-shadow)"
	hover := "var(--shape-shadow-level-2)"
	if ws.BorderEffect == theme.BorderEffectGlow {
		shadow = "0 0 var(--widget-glow-blur) var(--widget-glow-color)"
		hover = "0 0 calc(var(--widget-glow-blur) * 1.5) var(--widget-glow-color)"
	}

	var sb strings.Builder
	sb.WriteString(`
.widgets-container {
  display: flex;
  flex-direction: column;
  gap: var(--widget-spacing);
}
`)
	fmt.Fprintf(&sb, `.widget-item {
  background: var(--widget-background);
  border: var(--widget-border-width) solid var(--widget-border-color);
  border-radius: var(--widget-border-radius);
  box-shadow: %s;
  color: var(--color-on-surface);
  font-family: var(--widget-secondary-font, var(--page-secondary-font)), sans-serif;
  padding: var(--widget-spacing);
  transition: transform var(--motion-duration-fast) var(--motion-easing-standard), box-shadow var(--motion-duration-fast) var(--motion-easing-standard);
}
.widget-item:hover {
  transform: translateY(-2px);
  box-shadow: %s;
}
.widget-title {
  font-family: var(--widget-primary-font, var(--page-primary-font)), sans-serif;
  font-weight: var(--font-weight-medium);
}
.widget-item a {
  color: var(--color-accent-primary);
}
`, shadow, hover)
	return sb.String()
}

// visualEffectsCSS renders the page-title and profile-image presets.
func (c *Compiler) visualEffectsCSS() string {
	ve := c.cfg.VisualEffects
	var sb strings.Builder

	var title []string
	if s := ve.TitleShadow; s != nil {
		if col := safe(c.logger, "text-shadow", alpha(s.Color, s.Intensity)); col != "" {
			title = append(title, fmt.Sprintf("  text-shadow: %spx %spx %spx %s;",
				num(s.Depth), num(s.Depth), num(s.Blur), col))
		}
	}
	if b := ve.TitleBorder; b != nil && b.Width > 0 {
		if col := safe(c.logger, "-webkit-text-stroke", b.Color); col != "" {
			title = append(title,
				fmt.Sprintf("  -webkit-text-stroke: %spx %s;", num(b.Width), col),
				"  paint-order: stroke fill;")
		}
	}
	if len(title) > 0 {
		sb.WriteString("\n.page-title {\n" + strings.Join(title, "\n") + "\n}\n")
	}

	if p := ve.ProfileImage; p != nil {
		radius := safe(c.logger, "border-radius", p.Radius)
		shadow := safe(c.logger, "box-shadow", p.Shadow)
		if radius != "" || shadow != "" {
			sb.WriteString("\n.profile-image {\n")
			if radius != "" {
				fmt.Fprintf(&sb, "  border-radius: %s;\n", radius)
			}
			if shadow != "" {
				fmt.Fprintf(&sb, "  box-shadow: %s;\n", shadow)
			}
			sb.WriteString("}\n")
		}
	}
	return sb.String()
}

func (c *Compiler) spatialEffect() string {
	if theme.ValidSpatialEffect(c.cfg.SpatialEffect) {
		return c.cfg.SpatialEffect
	}
	return theme.SpatialNone
}
