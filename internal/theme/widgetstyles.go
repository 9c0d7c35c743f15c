package theme

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Widget style enum values.
const (
	BorderWidthNone  = "none"
	BorderWidthThin  = "thin"
	BorderWidthThick = "thick"

	BorderEffectShadow = "shadow"
	BorderEffectGlow   = "glow"

	IntensityNone       = "none"
	IntensitySubtle     = "subtle"
	IntensityPronounced = "pronounced"

	SpacingTight       = "tight"
	SpacingComfortable = "comfortable"
	SpacingSpacious    = "spacious"

	ShapeSquare  = "square"
	ShapeRounded = "rounded"
	ShapeRound   = "round"

	GlowBlurSmall  = "small"
	GlowBlurMedium = "medium"
	GlowBlurLarge  = "large"
)

var widgetEnums = map[string][]string{
	"border_width":            {BorderWidthNone, BorderWidthThin, BorderWidthThick},
	"border_effect":           {BorderEffectShadow, BorderEffectGlow},
	"border_shadow_intensity": {IntensityNone, IntensitySubtle, IntensityPronounced},
	"border_glow_intensity":   {IntensityNone, IntensitySubtle, IntensityPronounced},
	"spacing":                 {SpacingTight, SpacingComfortable, SpacingSpacious},
	"shape":                   {ShapeSquare, ShapeRounded, ShapeRound},
	"glow_blur":               {GlowBlurSmall, GlowBlurMedium, GlowBlurLarge},
}

// Glow extras are clamped to these ranges.
const (
	maxGlowWidth     = 20.0
	maxGlowIntensity = 1.0
)

// WidgetStyles is the enum-validated widget styling bag.
type WidgetStyles struct {
	BorderWidth           string  `json:"border_width"`
	BorderEffect          string  `json:"border_effect"`
	BorderShadowIntensity string  `json:"border_shadow_intensity"`
	BorderGlowIntensity   string  `json:"border_glow_intensity"`
	GlowColor             string  `json:"glow_color,omitempty"`
	Spacing               string  `json:"spacing"`
	Shape                 string  `json:"shape"`
	GlowEnabled           bool    `json:"glow_enabled,omitempty"`
	GlowWidth             float64 `json:"glow_width,omitempty"`
	GlowIntensity         float64 `json:"glow_intensity,omitempty"`
	GlowBlur              string  `json:"glow_blur,omitempty"`
}

// DefaultWidgetStyles returns the styles used when nothing is configured.
func DefaultWidgetStyles() WidgetStyles {
	return WidgetStyles{
		BorderWidth:           BorderWidthThin,
		BorderEffect:          BorderEffectShadow,
		BorderShadowIntensity: IntensitySubtle,
		BorderGlowIntensity:   IntensityNone,
		Spacing:               SpacingComfortable,
		Shape:                 ShapeRounded,
	}
}

// SanitizeWidgetStyles applies raw over the defaults, dropping every value
// that is not a member of its enum or not a valid color. The error names
// fields whose values could not be decoded; the returned styles are usable
// either way.
func SanitizeWidgetStyles(raw map[string]any) (WidgetStyles, error) {
	ws := DefaultWidgetStyles()
	err := ws.apply(raw)
	return ws, err
}

// GlowActive reports whether the glow border animation should run.
func (w WidgetStyles) GlowActive() bool {
	return w.BorderEffect == BorderEffectGlow && w.BorderGlowIntensity != IntensityNone
}

// rawWidgetStyles receives loosely typed input. Pointer fields distinguish an
// absent key from a zero value.
type rawWidgetStyles struct {
	BorderWidth           *string  `mapstructure:"border_width"`
	BorderEffect          *string  `mapstructure:"border_effect"`
	BorderShadowIntensity *string  `mapstructure:"border_shadow_intensity"`
	BorderGlowIntensity   *string  `mapstructure:"border_glow_intensity"`
	GlowColor             *string  `mapstructure:"glow_color"`
	Spacing               *string  `mapstructure:"spacing"`
	Shape                 *string  `mapstructure:"shape"`
	GlowEnabled           *bool    `mapstructure:"glow_enabled"`
	GlowWidth             *float64 `mapstructure:"glow_width"`
	GlowIntensity         *float64 `mapstructure:"glow_intensity"`
	GlowBlur              *string  `mapstructure:"glow_blur"`
}

// apply overlays the valid entries of raw onto w. Fields that fail to decode
// are left unchanged and reported in the returned error.
func (w *WidgetStyles) apply(raw map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	var in rawWidgetStyles
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &in,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("widget_styles decoder: %w", err)
	}
	decodeErr := dec.Decode(raw)

	setEnum(&w.BorderWidth, "border_width", in.BorderWidth)
	setEnum(&w.BorderEffect, "border_effect", in.BorderEffect)
	setEnum(&w.BorderShadowIntensity, "border_shadow_intensity", in.BorderShadowIntensity)
	setEnum(&w.BorderGlowIntensity, "border_glow_intensity", in.BorderGlowIntensity)
	setEnum(&w.Spacing, "spacing", in.Spacing)
	setEnum(&w.Shape, "shape", in.Shape)
	setEnum(&w.GlowBlur, "glow_blur", in.GlowBlur)

	if in.GlowColor != nil {
		if c, ok := normalizeHex(*in.GlowColor); ok {
			w.GlowColor = c
		}
	}
	if in.GlowEnabled != nil {
		w.GlowEnabled = *in.GlowEnabled
	}
	if in.GlowWidth != nil {
		w.GlowWidth = clamp(*in.GlowWidth, 0, maxGlowWidth)
	}
	if in.GlowIntensity != nil {
		w.GlowIntensity = clamp(*in.GlowIntensity, 0, maxGlowIntensity)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode widget_styles: %w", decodeErr)
	}
	return nil
}

// ValidWidgetStyle reports whether value is allowed for the enum key.
// Keys without an enum accept any value.
func ValidWidgetStyle(key, value string) bool {
	allowed, ok := widgetEnums[key]
	if !ok {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

func setEnum(dst *string, key string, v *string) {
	if v != nil && ValidWidgetStyle(key, *v) {
		*dst = *v
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
