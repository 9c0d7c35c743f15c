package css

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/podabio/podabio/internal/testutil"
	"github.com/podabio/podabio/internal/theme"
	"github.com/podabio/podabio/internal/tokens"
	"github.com/podabio/podabio/pkg/colormath"
)

func newResolver(t *testing.T) *theme.Service {
	t.Helper()
	return theme.NewService(nil, theme.WithLogger(zaptest.NewLogger(t)))
}

func compile(t *testing.T, page theme.Page, th *theme.Theme) *Compiler {
	t.Helper()
	return FromPage(context.Background(), newResolver(t), &page, th, WithLogger(zaptest.NewLogger(t)))
}

// variable returns the value declared for --name in css.
func variable(t *testing.T, css, name string) string {
	t.Helper()
	m := regexp.MustCompile(`--` + regexp.QuoteMeta(name) + `: ([^;]+);`).FindStringSubmatch(css)
	require.NotNil(t, m, "missing --%s", name)
	return m[1]
}

func TestLegacyColorsProjectOntoTokens(t *testing.T) {
	page := testutil.NewPage(testutil.WithPageColors(`{"primary":"#112233"}`))

	css := compile(t, page, nil).Variables()
	assert.Equal(t, "#112233", variable(t, css, "color-text-primary"))

	th := testutil.NewTheme(testutil.WithThemeColorTokens(`{"text":{"primary":"#abcdef"}}`))
	css = compile(t, page, &th).Variables()
	assert.Equal(t, "#abcdef", variable(t, css, "color-text-primary"))
}

func TestGlassPageEndToEnd(t *testing.T) {
	page := testutil.NewPage(
		testutil.WithPageColors(`{"primary":"#000000","secondary":"#FFFFFF","accent":"#0066FF"}`),
		testutil.WithPageSpatialEffect("glass"),
	)

	c := compile(t, page, nil)
	assert.Equal(t, theme.SpatialGlass, c.Config().SpatialEffect)

	css := c.StyleBlock()
	assert.Contains(t, css, "body.spatial-glass {")
	assert.Regexp(t, `(?s)body\.spatial-glass \{[^}]*backdrop-filter`, css)

	title := variable(t, css, "page-title-color")
	assert.Equal(t, "#000000", title)
	assert.GreaterOrEqual(t, colormath.ContrastRatio(title, "#ffffff"), MinTextContrast)
	assert.Equal(t, "#0066ff", variable(t, css, "color-accent-primary"))
}

func TestGarbageColorTokensStillCompile(t *testing.T) {
	page := testutil.NewPage(testutil.WithPageColorTokens(`{"text": [not json`))

	css := compile(t, page, nil).StyleBlock()

	assert.True(t, strings.HasPrefix(css, ":root {\n"))
	assert.Equal(t, "#0f172a", variable(t, css, "color-text-primary"))
	assert.Equal(t, "#ffffff", variable(t, css, "color-background-base"))
	assert.Contains(t, css, ".widget-item {")
	assert.Contains(t, css, ".page-title {")
	assert.Equal(t, strings.Count(css, "{"), strings.Count(css, "}"))
}

func TestOptimalTextColor(t *testing.T) {
	tests := []struct {
		name   string
		bg     string
		def    string
		want   string
	}{
		{name: "default readable", bg: "#ffffff", def: "#000000", want: "#000000"},
		{name: "black on black", bg: "#000000", def: "#000000", want: "#ffffff"},
		{name: "gradient uses lighter stop", bg: "linear-gradient(135deg, #000000 0%, #ffffff 100%)", def: "#eeeeee", want: "#000000"},
		{name: "gradient without percentages", bg: "linear-gradient(90deg, #111111, #222222)", def: "#333333", want: "#ffffff"},
		{name: "image treated as white", bg: "url('cover.png')", def: "#222222", want: "#222222"},
		{name: "mid gray prefers white", bg: "#777777", def: "#777777", want: "#ffffff"},
		{name: "non-hex background", bg: "rgba(0, 0, 0, 0.5)", def: "#ffffff", want: "#000000"},
		{name: "non-hex default", bg: "#ffffff", def: "var(--x)", want: "#000000"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OptimalTextColor(tc.bg, tc.def))
		})
	}
}

func TestSpatialEffectCSS(t *testing.T) {
	tests := []struct {
		effect string
		want   string
	}{
		{effect: "", want: ""},
		{effect: "none", want: ""},
		{effect: "warp", want: ""},
		{effect: "glass", want: "body.spatial-glass"},
		{effect: "depth", want: "body.spatial-depth"},
		{effect: "floating", want: "body.spatial-floating"},
		{effect: "tilt", want: "body.spatial-tilt"},
	}
	for _, tc := range tests {
		t.Run(tc.effect, func(t *testing.T) {
			got := New(theme.Config{SpatialEffect: tc.effect}).SpatialEffectCSS()
			if tc.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tc.want)
		})
	}
}

func TestGlassUsesTranslucentWidgetBackground(t *testing.T) {
	c := New(theme.Config{SpatialEffect: theme.SpatialGlass, WidgetBackground: "#102030"})
	assert.Contains(t, c.SpatialEffectCSS(), "background: rgba(16, 32, 48, 0.7);")

	c = New(theme.Config{SpatialEffect: theme.SpatialGlass, WidgetBackground: "linear-gradient(#000, #fff)"})
	assert.Contains(t, c.SpatialEffectCSS(), "background: rgba(255, 255, 255, 0.15);")
}

func TestGlowAnimation(t *testing.T) {
	glow := theme.DefaultWidgetStyles()
	glow.BorderEffect = theme.BorderEffectGlow
	glow.BorderGlowIntensity = theme.IntensitySubtle
	glow.GlowColor = "#ff6600"
	glow.GlowIntensity = 0.6
	glow.GlowBlur = theme.GlowBlurMedium

	c := New(theme.Config{WidgetStyles: glow})
	anim := c.GlowAnimationCSS()
	assert.Contains(t, anim, "@keyframes glow-pulse")
	assert.Contains(t, anim, "@keyframes glow-rotate")
	assert.Contains(t, anim, "3s")

	vars := c.Variables()
	assert.Equal(t, "rgba(255, 102, 0, 0.6)", variable(t, vars, "widget-glow-color"))
	assert.Equal(t, "16px", variable(t, vars, "widget-glow-blur"))
	assert.NotContains(t, vars, "--widget-box-shadow")

	off := glow
	off.BorderGlowIntensity = theme.IntensityNone
	assert.Empty(t, New(theme.Config{WidgetStyles: off}).GlowAnimationCSS())

	shadow := New(theme.Config{WidgetStyles: theme.DefaultWidgetStyles()})
	assert.Empty(t, shadow.GlowAnimationCSS())
	assert.Contains(t, shadow.Variables(), "--widget-box-shadow: ")
	assert.NotContains(t, shadow.Variables(), "--widget-glow-color")
}

func TestBackgroundAttachment(t *testing.T) {
	gradient := New(theme.Config{PageBackground: "linear-gradient(135deg, #000000 0%, #333333 100%)"}).StyleBlock()
	assert.Contains(t, gradient, "background-attachment: scroll;")
	assert.NotContains(t, gradient, "background-attachment: fixed;")

	solid := New(theme.Config{PageBackground: "#123456"}).StyleBlock()
	assert.Contains(t, solid, "background-attachment: fixed;")

	image := New(theme.Config{PageBackground: "https://cdn.example.com/bg.jpg"}).StyleBlock()
	assert.Contains(t, image, "--page-background: url('https://cdn.example.com/bg.jpg');")
	assert.Contains(t, image, "background-size: cover;")
}

func TestVariables_SectionsAndDeterminism(t *testing.T) {
	page := testutil.NewPage(testutil.WithPageColors(`{"primary":"#112233","secondary":"#fafafa","accent":"#ff0000"}`))
	c := compile(t, page, nil)

	first := c.StyleBlock()
	assert.Equal(t, first, c.StyleBlock())

	order := []string{"--color-", "--page-title-color", "--font-family-", "--spacing-", "--shape-", "--motion-", "--primary-color", "--widget-box-shadow"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(first, marker)
		require.GreaterOrEqual(t, idx, 0, marker)
		assert.Greater(t, idx, last, marker)
		last = idx
	}

	assert.Equal(t, `"Inter"`, variable(t, first, "font-family-heading"))
	assert.Equal(t, "1.333rem", variable(t, first, "font-size-md"))
	assert.Equal(t, "#112233", variable(t, first, "primary-color"))
	assert.Equal(t, "comfortable", variable(t, first, "layout-density"))
	assert.Equal(t, "1.25rem", variable(t, first, "spacing-md"))
	assert.Equal(t, "1.25rem", variable(t, first, "widget-spacing"))
}

func TestCompactDensity(t *testing.T) {
	page := theme.Page{Styling: theme.Styling{LayoutDensity: "compact"}}

	css := compile(t, page, nil).Variables()

	assert.Equal(t, "compact", variable(t, css, "layout-density"))
	assert.Equal(t, "0.85rem", variable(t, css, "spacing-md"))
}

func TestVisualEffects(t *testing.T) {
	cfg := theme.Config{VisualEffects: theme.VisualEffects{
		TitleShadow:  &theme.TextShadow{Color: "#000000", Intensity: 0.8, Depth: 3, Blur: 6},
		TitleBorder:  &theme.TextBorder{Color: "#333333", Width: 3},
		ProfileImage: &theme.ProfileImage{Radius: "15%", Shadow: "0 8px 24px rgba(0, 0, 0, 0.25)"},
	}}

	css := New(cfg).StyleBlock()

	assert.Contains(t, css, "text-shadow: 3px 3px 6px rgba(0, 0, 0, 0.8);")
	assert.Contains(t, css, "-webkit-text-stroke: 3px #333333;")
	assert.Contains(t, css, ".profile-image {\n  border-radius: 15%;\n  box-shadow: 0 8px 24px rgba(0, 0, 0, 0.25);\n}")

	assert.NotContains(t, New(theme.Config{}).StyleBlock(), ".profile-image")
}

func TestValuesCannotBreakOutOfStyle(t *testing.T) {
	page := testutil.NewPage(testutil.WithPageBackground(`red;}</style><script>alert(1)</script>`))

	tag := compile(t, page, nil).StyleTag()

	assert.True(t, strings.HasPrefix(tag, "<style>\n"))
	assert.True(t, strings.HasSuffix(tag, "</style>\n"))
	assert.Equal(t, 1, strings.Count(tag, "</style>"))
	assert.NotContains(t, tag, "<script>")
}

func TestUnsafeTokenValueFallsBackToDefault(t *testing.T) {
	page := testutil.NewPage(testutil.WithPageColorTokens(`{"accent":{"primary":"#ff0000 /*"}}`))
	core, logs := observer.New(zap.WarnLevel)

	css := FromPage(context.Background(), newResolver(t), &page, nil, WithLogger(zap.New(core))).Variables()

	// Only the section headers open comments.
	assert.Equal(t, strings.Count(css, "/*"), strings.Count(css, " */\n"))
	assert.NotContains(t, css, "#ff0000")
	assert.Equal(t, tokens.Defaults(tokens.CategoryColor).GetString("accent.primary"),
		variable(t, css, "color-accent-primary"))
	for _, name := range []string{"color-text-primary", "page-title-color", "social-icon-color", "font-size-md", "motion-duration-fast"} {
		variable(t, css, name)
	}

	dropped := logs.FilterMessage("dropping unsafe css value").All()
	require.NotEmpty(t, dropped)
	assert.Equal(t, "--color-accent-primary", dropped[0].ContextMap()["property"])
}

func TestUnsafeVisualEffectValuesAreDropped(t *testing.T) {
	cfg := theme.Config{VisualEffects: theme.VisualEffects{
		TitleShadow:  &theme.TextShadow{Color: "red /*", Intensity: 0.8, Depth: 3, Blur: 6},
		TitleBorder:  &theme.TextBorder{Color: `#333333\`, Width: 3},
		ProfileImage: &theme.ProfileImage{Radius: "calc(15%", Shadow: "0 8px 24px rgba(0, 0, 0, 0.25)"},
	}}

	css := New(cfg, WithLogger(zaptest.NewLogger(t))).StyleBlock()

	assert.NotContains(t, css, "text-shadow")
	assert.NotContains(t, css, "-webkit-text-stroke")
	assert.NotContains(t, css, "border-radius: calc(15%")
	assert.Contains(t, css, ".profile-image {\n  box-shadow: 0 8px 24px rgba(0, 0, 0, 0.25);\n}")
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#ff0000", "#ff0000"},
		{"  1rem ", "1rem"},
		{`"Inter", sans-serif`, `"Inter", sans-serif`},
		{`"O'Neil"`, `"O'Neil"`},
		{`url("bg.png")`, `url("bg.png")`},
		{"calc(var(--a) * (1 + 2))", "calc(var(--a) * (1 + 2))"},
		{"#ff0000 /*", ""},
		{"1px */", ""},
		{`a\62 c`, ""},
		{`"open`, ""},
		{"'open", ""},
		{"calc(1px", ""},
		{"1px)", ""},
		{")(", ""},
		{"red;}", ""},
		{"</style>", ""},
		{"red\nblue", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, clean(tt.in))
		})
	}
}

func TestRenderer(t *testing.T) {
	svc := newResolver(t)
	page := testutil.NewPage(testutil.WithPageSpatialEffect("depth"))

	got := NewRenderer(svc, zaptest.NewLogger(t)).Render(context.Background(), &page, nil)

	assert.Equal(t, FromPage(context.Background(), svc, &page, nil).StyleBlock(), got)
	assert.Contains(t, got, "body.spatial-depth")
}
