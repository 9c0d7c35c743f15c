// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/podabio/podabio/internal/store"
	"github.com/podabio/podabio/internal/theme"
)

// NewPage returns a Page with no styling of its own.
// Override individual fields with options.
func NewPage(opts ...func(*theme.Page)) theme.Page {
	p := theme.Page{ID: uuid.New().String()}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithPageTheme points the page at a theme.
func WithPageTheme(id string) func(*theme.Page) {
	return func(p *theme.Page) { p.ThemeID = id }
}

// WithPageColors sets the page's legacy colors JSON.
func WithPageColors(raw string) func(*theme.Page) {
	return func(p *theme.Page) { p.Colors = theme.JSONText(raw) }
}

// WithPageColorTokens sets the page's color token JSON.
func WithPageColorTokens(raw string) func(*theme.Page) {
	return func(p *theme.Page) { p.ColorTokens = theme.JSONText(raw) }
}

// WithPageSpatialEffect sets the page's spatial effect.
func WithPageSpatialEffect(e string) func(*theme.Page) {
	return func(p *theme.Page) { p.SpatialEffect = e }
}

// WithPageBackground sets the page background value.
func WithPageBackground(bg string) func(*theme.Page) {
	return func(p *theme.Page) { p.PageBackground = bg }
}

// WithPageWidgetStyles sets the page's widget_styles JSON.
func WithPageWidgetStyles(raw string) func(*theme.Page) {
	return func(p *theme.Page) { p.WidgetStyles = theme.JSONText(raw) }
}

// NewTheme returns an active system Theme named "Test Theme".
func NewTheme(opts ...func(*theme.Theme)) theme.Theme {
	now := time.Now().UTC()
	t := theme.Theme{
		ID:        uuid.New().String(),
		Name:      "Test Theme",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// WithThemeOwner makes the theme a user theme.
func WithThemeOwner(userID string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.UserID = &userID }
}

// WithThemeName sets the theme name.
func WithThemeName(name string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.Name = name }
}

// WithThemeColors sets the theme's legacy colors JSON.
func WithThemeColors(raw string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.Colors = theme.JSONText(raw) }
}

// WithThemeColorTokens sets the theme's color token JSON.
func WithThemeColorTokens(raw string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.ColorTokens = theme.JSONText(raw) }
}

// WithThemeSpacingTokens sets the theme's spacing token JSON.
func WithThemeSpacingTokens(raw string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.SpacingTokens = theme.JSONText(raw) }
}

// WithThemeWidgetStyles sets the theme's widget_styles JSON.
func WithThemeWidgetStyles(raw string) func(*theme.Theme) {
	return func(t *theme.Theme) { t.WidgetStyles = theme.JSONText(raw) }
}

// NewThemeStore opens an in-memory database with the theme schema applied
// up to and including version (0 means all migrations).
func NewThemeStore(t *testing.T, version int) *theme.Store {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrations := theme.Migrations()
	if version > 0 && version < len(migrations) {
		migrations = migrations[:version]
	}
	if err := db.Migrate(context.Background(), theme.ModuleName, migrations); err != nil {
		t.Fatalf("migrate themes: %v", err)
	}
	return theme.NewStore(db.DB())
}
