package css

import (
	"github.com/podabio/podabio/internal/theme"
	"github.com/podabio/podabio/pkg/colormath"
)

// SpatialEffectCSS returns the rules for the configured spatial effect, or
// "" for none.
func (c *Compiler) SpatialEffectCSS() string {
	switch c.spatialEffect() {
	case theme.SpatialGlass:
		return glassCSS(safe(c.logger, "background", c.glassWidgetBackground()))
	case theme.SpatialDepth:
		return depthCSS
	case theme.SpatialFloating:
		return floatingCSS
	case theme.SpatialTilt:
		return tiltCSS
	}
	return ""
}

// glassWidgetBackground is the widget background at 70% opacity when it is
// a plain color.
func (c *Compiler) glassWidgetBackground() string {
	bg := theme.ParseBackground(c.cfg.WidgetBackground)
	if bg.Kind == theme.BackgroundSolid && colormath.IsHex(bg.Value) {
		return colormath.RGBA(bg.Value, 0.7)
	}
	return glassFallback
}

const glassFallback = "rgba(255, 255, 255, 0.15)"

func glassCSS(widgetBg string) string {
	if widgetBg == "" {
		widgetBg = glassFallback
	}
	return `
body.spatial-glass {
  backdrop-filter: blur(12px) saturate(140%);
  -webkit-backdrop-filter: blur(12px) saturate(140%);
}
body.spatial-glass .widget-item {
  background: ` + widgetBg + `;
  backdrop-filter: blur(16px) saturate(160%);
  -webkit-backdrop-filter: blur(16px) saturate(160%);
  border-color: rgba(255, 255, 255, 0.18);
}
`
}

const depthCSS = `
body.spatial-depth .widgets-container {
  perspective: 1200px;
  transform-style: preserve-3d;
}
body.spatial-depth .widget-item {
  transform: translateZ(0);
  transition: transform var(--motion-duration-standard) var(--motion-easing-standard), box-shadow var(--motion-duration-standard) var(--motion-easing-standard);
}
body.spatial-depth .widget-item:hover {
  transform: translateZ(24px) translateY(-2px);
  box-shadow: var(--shape-shadow-level-2);
}
`

const floatingCSS = `
body.spatial-floating {
  padding: var(--spacing-xl) var(--spacing-md);
}
body.spatial-floating .page-container {
  max-width: 640px;
  margin: 0 auto;
  padding: var(--spacing-xl);
  border-radius: var(--shape-corner-lg);
  background: var(--color-background-surface);
  box-shadow: 0 24px 64px rgba(0, 0, 0, 0.25);
}
`

// tiltCSS only prepares the elements; the tilt angles are set from script
// through --tilt-x and --tilt-y.
const tiltCSS = `
body.spatial-tilt .widgets-container {
  perspective: 1000px;
}
body.spatial-tilt .widget-item {
  transform-style: preserve-3d;
  transform: rotateX(var(--tilt-x, 0deg)) rotateY(var(--tilt-y, 0deg));
  transition: transform var(--motion-duration-fast) var(--motion-easing-decelerate);
  will-change: transform;
}
`

// GlowAnimationCSS returns the glow keyframes when the widget border effect
// is an active glow, otherwise "".
func (c *Compiler) GlowAnimationCSS() string {
	if !c.cfg.WidgetStyles.GlowActive() {
		return ""
	}
	return `
@keyframes glow-pulse {
  0%, 100% { opacity: 0.8; }
  50% { opacity: 1; }
}
@keyframes glow-rotate {
  from { filter: hue-rotate(0deg); }
  to { filter: hue-rotate(360deg); }
}
.widget-item.glow-pulse {
  animation: glow-pulse 3s ease-in-out infinite;
}
.widget-item.glow-rotate {
  animation: glow-rotate var(--glow-rotate-duration) linear infinite;
}
`
}
