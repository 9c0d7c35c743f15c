// Package seed populates a fresh database with the built-in system themes.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/podabio/podabio/internal/theme"
)

// SeedSystemThemes inserts the built-in themes when no system theme exists
// yet and returns how many were written. Re-running on a seeded database is
// a no-op.
func SeedSystemThemes(ctx context.Context, st *theme.Store) (int, error) {
	existing, err := st.ListSystem(ctx)
	if err != nil {
		return 0, fmt.Errorf("list system themes: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	themes := systemThemes(now)
	for i := range themes {
		if err := st.Insert(ctx, &themes[i]); err != nil {
			return i, fmt.Errorf("seed theme %s: %w", themes[i].Name, err)
		}
	}
	return len(themes), nil
}

// systemThemes returns the built-in catalogue. Classic uses only legacy
// columns so it exercises the legacy color projection; the rest are token
// based.
func systemThemes(now time.Time) []theme.Theme {
	mk := func(name string, st theme.Styling, effects theme.JSONText) theme.Theme {
		return theme.Theme{
			ID:            uuid.New().String(),
			Name:          name,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
			VisualEffects: effects,
			Styling:       st,
		}
	}

	return []theme.Theme{
		mk("Classic", theme.Styling{
			Colors:            `{"primary":"#1f2937","secondary":"#ffffff","accent":"#2563eb"}`,
			Fonts:             `{"heading":"Inter","body":"Inter"}`,
			PageBackground:    "#ffffff",
			WidgetBackground:  "#f9fafb",
			WidgetBorderColor: "#e5e7eb",
			WidgetStyles:      `{"border_width":"thin","border_effect":"shadow","border_shadow_intensity":"subtle","spacing":"comfortable","shape":"rounded"}`,
			SpatialEffect:     theme.SpatialNone,
		}, ""),
		mk("Midnight", theme.Styling{
			Colors:         `{"primary":"#e2e8f0","secondary":"#0f172a","accent":"#38bdf8"}`,
			PageBackground: "linear-gradient(135deg, #0f172a 0%, #1e293b 100%)",
			ColorTokens: `{"background":{"base":"#0f172a","surface":"#1e293b","surface_raised":"#334155"},` +
				`"text":{"primary":"#e2e8f0","secondary":"#94a3b8","inverse":"#0f172a"},` +
				`"border":{"default":"#334155","focus":"#38bdf8"},"accent":{"primary":"#38bdf8","muted":"#0c4a6e"}}`,
			TypographyTokens: `{"font":{"heading":"Space Grotesk","body":"Inter"}}`,
			WidgetStyles:     `{"border_width":"thin","border_effect":"glow","border_glow_intensity":"subtle","glow_color":"#38bdf8","shape":"rounded"}`,
			SpatialEffect:    theme.SpatialGlass,
			LayoutDensity:    "comfortable",
		}, ""),
		mk("Sunset", theme.Styling{
			Colors:         `{"primary":"#3b0a0a","secondary":"#fff7ed","accent":"#ea580c"}`,
			PageBackground: "linear-gradient(135deg, #fdba74 0%, #f472b6 100%)",
			ColorTokens: `{"background":{"base":"#fff7ed","surface":"#ffedd5"},` +
				`"text":{"primary":"#3b0a0a","secondary":"#7c2d12"},"accent":{"primary":"#ea580c","muted":"#fed7aa"}}`,
			TypographyTokens: `{"font":{"heading":"Playfair Display","body":"Source Sans Pro"}}`,
			ShapeTokens:      `{"corner":{"md":"1rem"}}`,
			WidgetStyles:     `{"border_width":"none","border_effect":"shadow","border_shadow_intensity":"pronounced","shape":"round"}`,
			SpatialEffect:    theme.SpatialFloating,
		}, `{"page_title_shadow":{"color":"#7c2d12","intensity":0.6,"depth":2,"blur":4}}`),
		mk("Compact Mono", theme.Styling{
			Colors: `{"primary":"#111111","secondary":"#fafafa","accent":"#111111"}`,
			ColorTokens: `{"background":{"base":"#fafafa","surface":"#ffffff"},` +
				`"text":{"primary":"#111111"},"border":{"default":"#111111"},"accent":{"primary":"#111111"}}`,
			TypographyTokens: `{"font":{"heading":"IBM Plex Mono","body":"IBM Plex Sans"}}`,
			SpacingTokens:    `{"density":"compact"}`,
			WidgetStyles:     `{"border_width":"thick","border_effect":"shadow","border_shadow_intensity":"none","shape":"square","spacing":"tight"}`,
			SpatialEffect:    theme.SpatialNone,
			LayoutDensity:    "compact",
		}, ""),
	}
}
