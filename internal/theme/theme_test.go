package theme

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/podabio/podabio/internal/tokens"
	"github.com/podabio/podabio/pkg/colormath"
)

func TestParseBackground(t *testing.T) {
	tests := []struct {
		in       string
		wantKind BackgroundKind
		wantCSS  string
	}{
		{"", BackgroundNone, ""},
		{"#ffffff", BackgroundSolid, "#ffffff"},
		{"rgba(0, 0, 0, 0.5)", BackgroundSolid, "rgba(0, 0, 0, 0.5)"},
		{"linear-gradient(135deg, #000 0%, #fff 100%)", BackgroundGradient, "linear-gradient(135deg, #000 0%, #fff 100%)"},
		{"radial-gradient(circle, #000, #fff)", BackgroundGradient, "radial-gradient(circle, #000, #fff)"},
		{"https://cdn.example.com/bg.png", BackgroundImage, "url('https://cdn.example.com/bg.png')"},
		{"url(\"/uploads/bg.jpg\")", BackgroundImage, "url('/uploads/bg.jpg')"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bg := ParseBackground(tt.in)
			assert.Equal(t, tt.wantKind, bg.Kind)
			assert.Equal(t, tt.wantCSS, bg.String())
		})
	}
}

func TestBackground_TextRoundTrip(t *testing.T) {
	var bg Background
	require.NoError(t, bg.UnmarshalText([]byte("linear-gradient(90deg, #111 0%, #222 100%)")))
	assert.True(t, bg.IsGradient())
	text, err := bg.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "linear-gradient(90deg, #111 0%, #222 100%)", string(text))
}

func TestFontURL(t *testing.T) {
	assert.Equal(t, "", FontURL())
	assert.Equal(t, "", FontURL("sans-serif", " ", "serif"))

	u := FontURL("Playfair Display", "Source Sans Pro", "playfair display", "sans-serif")
	assert.Equal(t,
		"https://fonts.googleapis.com/css2?family=Playfair+Display:wght@400;500;600;700&family=Source+Sans+Pro:wght@400;500;600;700&display=swap",
		u)
}

func TestValidateTheme(t *testing.T) {
	valid := func() *Theme {
		return &Theme{ID: "t1", Name: "Valid"}
	}

	tests := []struct {
		name   string
		mutate func(*Theme)
		want   bool
	}{
		{"minimal", func(*Theme) {}, true},
		{"missing id", func(t *Theme) { t.ID = "" }, false},
		{"missing name", func(t *Theme) { t.Name = " " }, false},
		{"good colors", func(t *Theme) { t.Colors = `{"primary":"#fff","accent":"#0066FF"}` }, true},
		{"colors as empty array", func(t *Theme) { t.Colors = `[]` }, true},
		{"bad hex", func(t *Theme) { t.Colors = `{"primary":"red"}` }, false},
		{"colors not object", func(t *Theme) { t.Colors = `"red"` }, false},
		{"fonts malformed", func(t *Theme) { t.Fonts = `{` }, false},
		{"token object", func(t *Theme) { t.ColorTokens = `{"text":{"primary":"#000"}}` }, true},
		{"token null", func(t *Theme) { t.ShapeTokens = `null` }, true},
		{"token scalar", func(t *Theme) { t.MotionTokens = `42` }, false},
		{"token malformed", func(t *Theme) { t.SpacingTokens = `{"density":` }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := valid()
			tt.mutate(th)
			assert.Equal(t, tt.want, ValidateTheme(th))
		})
	}
	assert.False(t, ValidateTheme(nil))
}

func TestProjectLegacyColors(t *testing.T) {
	base := tokens.Defaults(tokens.CategoryColor)
	out := projectLegacyColors(base, Colors{Primary: "#000000", Secondary: "#ffffff", Accent: "#0066ff"})

	assert.Equal(t, "#000000", out.GetString("text.primary"))
	assert.Equal(t, colormath.Lighten("#000000", 0.2), out.GetString("border.default"))
	assert.Equal(t, colormath.Darken("#000000", 0.25), out.GetString("border.focus"))
	assert.Equal(t, "#ffffff", out.GetString("background.base"))
	assert.Equal(t, colormath.Darken("#ffffff", 0.12), out.GetString("background.surface"))
	assert.Equal(t, colormath.Darken("#ffffff", 0.22), out.GetString("background.surface_raised"))
	assert.Equal(t, colormath.Mix("#000000", "#ffffff", 0.35), out.GetString("text.secondary"))
	assert.Equal(t, "#0066ff", out.GetString("accent.primary"))
	assert.Equal(t, colormath.Lighten("#0066ff", 0.75), out.GetString("accent.muted"))

	// Dark secondaries lighten instead.
	dark := projectLegacyColors(base, Colors{Secondary: "#101010"})
	assert.Equal(t, colormath.Lighten("#101010", 0.12), dark.GetString("background.surface"))
	assert.Equal(t, base.GetString("text.primary"), dark.GetString("text.primary"))

	assert.Equal(t, tokens.Defaults(tokens.CategoryColor), base, "input is not mutated")
}

func TestJSONText(t *testing.T) {
	var p Page
	require.NoError(t, json.Unmarshal([]byte(`{
		"colors": {"primary": "#112233"},
		"fonts": "{\"heading\":\"Lora\"}",
		"color_tokens": null
	}`), &p))
	assert.Equal(t, JSONText(`{"primary":"#112233"}`), p.Colors)
	assert.Equal(t, JSONText(`{"heading":"Lora"}`), p.Fonts)
	assert.Equal(t, JSONText(""), p.ColorTokens)

	data, err := json.Marshal(Page{Styling: Styling{Colors: `{"primary":"#112233"}`, Fonts: "not json"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"colors":{"primary":"#112233"},"fonts":"not json"}`, string(data))
}

func TestHexRule_SameForValidationAndResolution(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#112233", "#112233"},
		{"#ABC", "#aabbcc"},
		{"112233", ""},
		{"bad", ""},
		{" #112233", ""},
		{"#12", ""},
		{"#ggg", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			raw, err := json.Marshal(map[string]string{"primary": tt.in})
			require.NoError(t, err)

			valid := ValidateTheme(&Theme{ID: "t1", Name: "Hex", Styling: Styling{Colors: JSONText(raw)}})
			assert.Equal(t, tt.want != "", valid, "ValidateTheme")

			colors, _ := legacyColorsFrom(JSONText(raw))
			assert.Equal(t, tt.want, colors.Primary, "legacy colors")

			ws, err := SanitizeWidgetStyles(map[string]any{"glow_color": tt.in})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ws.GlowColor, "glow color")
		})
	}
}

func TestSanitizeWidgetStyles(t *testing.T) {
	ws, err := SanitizeWidgetStyles(map[string]any{
		"border_width":          "none",
		"border_effect":         "glow",
		"border_glow_intensity": "pronounced",
		"glow_enabled":          true,
		"glow_intensity":        "1.7",
		"glow_blur":             "enormous",
		"glow_color":            "not-a-color",
		"unknown":               "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, BorderWidthNone, ws.BorderWidth)
	assert.Equal(t, BorderEffectGlow, ws.BorderEffect)
	assert.Equal(t, IntensityPronounced, ws.BorderGlowIntensity)
	assert.True(t, ws.GlowEnabled)
	assert.Equal(t, 1.0, ws.GlowIntensity)
	assert.Equal(t, "", ws.GlowBlur)
	assert.Equal(t, "", ws.GlowColor)
	assert.True(t, ws.GlowActive())

	ws, err = SanitizeWidgetStyles(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidgetStyles(), ws)
	assert.False(t, DefaultWidgetStyles().GlowActive())
}

func TestSanitizeWidgetStyles_ReportsUndecodableFields(t *testing.T) {
	ws, err := SanitizeWidgetStyles(map[string]any{
		"shape":        "square",
		"glow_width":   "wide",
		"glow_enabled": map[string]any{"on": true},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "glow_width")
	assert.Equal(t, ShapeSquare, ws.Shape)
	assert.Zero(t, ws.GlowWidth)
	assert.False(t, ws.GlowEnabled)
}

func TestRedisCache_Key(t *testing.T) {
	c := &RedisCache{prefix: "podabio:"}
	assert.Equal(t, "podabio:theme:abc", c.key("abc"))
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheWithClient(client, "test:", zaptest.NewLogger(t))
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, &Theme{ID: "t1", Name: "x"})
	got, ok := c.Get(ctx, "t1")
	assert.False(t, ok)
	assert.Nil(t, got)
	c.Invalidate(ctx, "t1")
	c.Clear(ctx)
}
