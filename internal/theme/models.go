// Package theme resolves page and theme records into a complete visual
// configuration and manages user-created themes.
package theme

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/podabio/podabio/internal/tokens"
)

// JSONText is a JSON-encoded column value. It unmarshals from either a JSON
// string (taken verbatim) or any other JSON value (kept as raw text), so API
// clients may send "colors" as an object or as an already-encoded string.
type JSONText string

// MarshalJSON emits the text as raw JSON when it is valid and as a JSON
// string otherwise.
func (j JSONText) MarshalJSON() ([]byte, error) {
	if j == "" {
		return []byte(`""`), nil
	}
	if json.Valid([]byte(j)) {
		return []byte(j), nil
	}
	return json.Marshal(string(j))
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSONText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*j = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*j = JSONText(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*j = JSONText(buf.String())
	return nil
}

// Styling holds the token-relevant columns shared by pages and themes.
// JSON columns are kept encoded; they are decoded at resolution time so a
// malformed column only degrades that one value.
type Styling struct {
	Colors              JSONText `json:"colors,omitempty"`
	Fonts               JSONText `json:"fonts,omitempty"`
	PageBackground      string   `json:"page_background,omitempty"`
	WidgetBackground    string   `json:"widget_background,omitempty"`
	WidgetBorderColor   string   `json:"widget_border_color,omitempty"`
	PagePrimaryFont     string   `json:"page_primary_font,omitempty"`
	PageSecondaryFont   string   `json:"page_secondary_font,omitempty"`
	WidgetPrimaryFont   string   `json:"widget_primary_font,omitempty"`
	WidgetSecondaryFont string   `json:"widget_secondary_font,omitempty"`
	WidgetStyles        JSONText `json:"widget_styles,omitempty"`
	SpatialEffect       string   `json:"spatial_effect,omitempty"`
	ColorTokens         JSONText `json:"color_tokens,omitempty"`
	TypographyTokens    JSONText `json:"typography_tokens,omitempty"`
	SpacingTokens       JSONText `json:"spacing_tokens,omitempty"`
	ShapeTokens         JSONText `json:"shape_tokens,omitempty"`
	MotionTokens        JSONText `json:"motion_tokens,omitempty"`
	LayoutDensity       string   `json:"layout_density,omitempty"`
}

// field returns a pointer to the Styling field stored in the named column,
// or nil for unknown columns.
func (s *Styling) field(column string) *string {
	switch column {
	case "colors":
		return (*string)(&s.Colors)
	case "fonts":
		return (*string)(&s.Fonts)
	case "page_background":
		return &s.PageBackground
	case "widget_background":
		return &s.WidgetBackground
	case "widget_border_color":
		return &s.WidgetBorderColor
	case "page_primary_font":
		return &s.PagePrimaryFont
	case "page_secondary_font":
		return &s.PageSecondaryFont
	case "widget_primary_font":
		return &s.WidgetPrimaryFont
	case "widget_secondary_font":
		return &s.WidgetSecondaryFont
	case "widget_styles":
		return (*string)(&s.WidgetStyles)
	case "spatial_effect":
		return &s.SpatialEffect
	case "color_tokens":
		return (*string)(&s.ColorTokens)
	case "typography_tokens":
		return (*string)(&s.TypographyTokens)
	case "spacing_tokens":
		return (*string)(&s.SpacingTokens)
	case "shape_tokens":
		return (*string)(&s.ShapeTokens)
	case "motion_tokens":
		return (*string)(&s.MotionTokens)
	case "layout_density":
		return &s.LayoutDensity
	}
	return nil
}

// tokenColumn returns the raw token JSON stored for cat.
func (s *Styling) tokenColumn(cat tokens.Category) (string, string) {
	switch cat {
	case tokens.CategoryColor:
		return "color_tokens", string(s.ColorTokens)
	case tokens.CategoryTypography:
		return "typography_tokens", string(s.TypographyTokens)
	case tokens.CategorySpacing:
		return "spacing_tokens", string(s.SpacingTokens)
	case tokens.CategoryShape:
		return "shape_tokens", string(s.ShapeTokens)
	case tokens.CategoryMotion:
		return "motion_tokens", string(s.MotionTokens)
	}
	return "", ""
}

// Page is the subset of a page record that affects theming. Pages are owned
// elsewhere; they are only read here.
type Page struct {
	ID      string `json:"id,omitempty"`
	ThemeID string `json:"theme_id,omitempty"`
	Styling
}

// Theme is a persisted theme. A nil UserID marks a system theme.
type Theme struct {
	ID            string    `json:"id"`
	UserID        *string   `json:"user_id"`
	Name          string    `json:"name"`
	VisualEffects JSONText  `json:"visual_effects,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Styling
}

// IsSystem reports whether t is a built-in theme.
func (t *Theme) IsSystem() bool {
	return t.UserID == nil
}

// column resolves a column name to its backing field, including the
// theme-only visual_effects column.
func (t *Theme) column(name string) *string {
	if name == "visual_effects" {
		return (*string)(&t.VisualEffects)
	}
	return t.Styling.field(name)
}

func (t *Theme) clone() *Theme {
	if t == nil {
		return nil
	}
	c := *t
	if t.UserID != nil {
		uid := *t.UserID
		c.UserID = &uid
	}
	return &c
}

// ThemeInput is the create/update payload. A nil field is absent and leaves
// the stored value untouched; a non-nil field is written.
type ThemeInput struct {
	Colors              map[string]string `json:"colors,omitempty"`
	Fonts               map[string]string `json:"fonts,omitempty"`
	PageBackground      *string           `json:"page_background,omitempty"`
	WidgetBackground    *string           `json:"widget_background,omitempty"`
	WidgetBorderColor   *string           `json:"widget_border_color,omitempty"`
	PagePrimaryFont     *string           `json:"page_primary_font,omitempty"`
	PageSecondaryFont   *string           `json:"page_secondary_font,omitempty"`
	WidgetPrimaryFont   *string           `json:"widget_primary_font,omitempty"`
	WidgetSecondaryFont *string           `json:"widget_secondary_font,omitempty"`
	WidgetStyles        map[string]any    `json:"widget_styles,omitempty"`
	SpatialEffect       *string           `json:"spatial_effect,omitempty"`
	ColorTokens         tokens.Bundle     `json:"color_tokens,omitempty"`
	TypographyTokens    tokens.Bundle     `json:"typography_tokens,omitempty"`
	SpacingTokens       tokens.Bundle     `json:"spacing_tokens,omitempty"`
	ShapeTokens         tokens.Bundle     `json:"shape_tokens,omitempty"`
	MotionTokens        tokens.Bundle     `json:"motion_tokens,omitempty"`
	LayoutDensity       *string           `json:"layout_density,omitempty"`
	VisualEffects       *VisualEffects    `json:"visual_effects,omitempty"`
}

// FontPair is a primary (heading) and secondary (body) font family.
type FontPair struct {
	Primary   string `json:"primary_font"`
	Secondary string `json:"secondary_font"`
}

// Colors is the flat legacy color triple.
type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// TextShadow is a page-title shadow preset.
type TextShadow struct {
	Color     string  `json:"color"`
	Intensity float64 `json:"intensity"`
	Depth     float64 `json:"depth"`
	Blur      float64 `json:"blur"`
}

// TextBorder is a page-title outline preset.
type TextBorder struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// ProfileImage styles the avatar on a page.
type ProfileImage struct {
	Radius string `json:"radius"`
	Shadow string `json:"shadow,omitempty"`
}

// VisualEffects holds optional decoration presets stored with a theme.
type VisualEffects struct {
	TitleShadow  *TextShadow   `json:"page_title_shadow,omitempty"`
	TitleBorder  *TextBorder   `json:"page_title_border,omitempty"`
	ProfileImage *ProfileImage `json:"profile_image,omitempty"`
}

// Tokens is the resolved token set for a page.
type Tokens struct {
	Color         tokens.Bundle  `json:"color"`
	Typography    tokens.Bundle  `json:"typography"`
	Spacing       tokens.Spacing `json:"spacing"`
	Shape         tokens.Bundle  `json:"shape"`
	Motion        tokens.Bundle  `json:"motion"`
	LayoutDensity string         `json:"layout_density"`
}

// Config is the fully resolved theme for one page.
type Config struct {
	Colors            Colors        `json:"colors"`
	Fonts             FontPair      `json:"fonts"`
	PageFonts         FontPair      `json:"page_fonts"`
	WidgetFonts       FontPair      `json:"widget_fonts"`
	PageBackground    string        `json:"page_background"`
	WidgetBackground  string        `json:"widget_background"`
	WidgetBorderColor string        `json:"widget_border_color"`
	WidgetStyles      WidgetStyles  `json:"widget_styles"`
	SpatialEffect     string        `json:"spatial_effect"`
	Tokens            Tokens        `json:"tokens"`
	FontURL           string        `json:"font_url,omitempty"`
	VisualEffects     VisualEffects `json:"visual_effects"`

	// LegacyColorsApplied is set when legacy colors were projected onto
	// the color tokens because no structured color tokens exist.
	LegacyColorsApplied bool `json:"legacy_colors_applied"`
}
