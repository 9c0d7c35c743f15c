package theme_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/podabio/podabio/internal/testutil"
	"github.com/podabio/podabio/internal/theme"
	"github.com/podabio/podabio/internal/tokens"
)

func newService(t *testing.T, opts ...theme.Option) (*theme.Service, *theme.Store) {
	t.Helper()
	st := testutil.NewThemeStore(t, 0)
	opts = append([]theme.Option{theme.WithLogger(zaptest.NewLogger(t))}, opts...)
	return theme.NewService(st, opts...), st
}

func strPtr(s string) *string { return &s }

func TestCreateTheme_RoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	in := theme.ThemeInput{
		Colors:        map[string]string{"primary": "#112233", "secondary": "#ffffff"},
		ColorTokens:   tokens.Bundle{"text": tokens.Bundle{"primary": "#123456"}},
		SpacingTokens: tokens.Bundle{"density": "compact"},
		ShapeTokens:   tokens.Bundle{"corner": tokens.Bundle{"md": "1rem"}},
		SpatialEffect: strPtr("glass"),
	}
	id, err := svc.CreateTheme(ctx, "user-1", "  Ocean  ", in)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := svc.GetTheme(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Ocean", got.Name)
	require.NotNil(t, got.UserID)
	assert.Equal(t, "user-1", *got.UserID)
	assert.True(t, got.IsActive)
	assert.Equal(t, "glass", got.SpatialEffect)

	color, err := tokens.ParseBundle(string(got.ColorTokens))
	require.NoError(t, err)
	assert.Equal(t, tokens.Bundle{"text": tokens.Bundle{"primary": "#123456"}}, color)

	spacing, err := tokens.ParseBundle(string(got.SpacingTokens))
	require.NoError(t, err)
	assert.Equal(t, tokens.Bundle{"density": "compact"}, spacing)

	shape, err := tokens.ParseBundle(string(got.ShapeTokens))
	require.NoError(t, err)
	assert.Equal(t, tokens.Bundle{"corner": tokens.Bundle{"md": "1rem"}}, shape)

	assert.Empty(t, got.MotionTokens, "absent categories are not written")
	assert.True(t, theme.ValidateTheme(got))
}

func TestUpdateAndDeleteUserTheme(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.CreateTheme(ctx, "user-1", "Before", theme.ThemeInput{})
	require.NoError(t, err)

	ok := svc.UpdateUserTheme(ctx, id, "user-1", strPtr("After"), &theme.ThemeInput{
		PageBackground: strPtr("#000000"),
	})
	require.True(t, ok)

	got, err := svc.GetTheme(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, "#000000", got.PageBackground)

	require.True(t, svc.DeleteUserTheme(ctx, id, "user-1"))
	got, err = svc.GetTheme(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateUserTheme_Rejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.CreateTheme(ctx, "owner", "Mine", theme.ThemeInput{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		id     string
		user   string
		rename *string
		input  *theme.ThemeInput
	}{
		{"not owner", id, "someone-else", strPtr("Stolen"), nil},
		{"missing theme", "does-not-exist", "owner", strPtr("Ghost"), nil},
		{"empty name", id, "owner", strPtr("   "), nil},
		{"invalid color", id, "owner", nil, &theme.ThemeInput{Colors: map[string]string{"primary": "blue"}}},
		{"no user", id, "", strPtr("Anon"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, svc.UpdateUserTheme(ctx, tt.id, tt.user, tt.rename, tt.input))
		})
	}

	got, err := svc.GetTheme(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Name)

	assert.False(t, svc.DeleteUserTheme(ctx, id, "someone-else"))
	assert.False(t, svc.DeleteUserTheme(ctx, "does-not-exist", "owner"))
}

func TestCreateTheme_Limit(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for i := 0; i < theme.DefaultMaxThemesPerUser; i++ {
		_, err := svc.CreateTheme(ctx, "user-1", "Theme", theme.ThemeInput{})
		require.NoError(t, err)
	}

	_, err := svc.CreateTheme(ctx, "user-1", "One Too Many", theme.ThemeInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, theme.ErrLimitExceeded)

	n, err := svc.CountUserThemes(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, theme.DefaultMaxThemesPerUser, n)

	// Another user is unaffected.
	_, err = svc.CreateTheme(ctx, "user-2", "Theme", theme.ThemeInput{})
	assert.NoError(t, err)
}

func TestCreateTheme_ConcurrentLimit(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CreateTheme(ctx, "user-1", "Race", theme.ThemeInput{}); err != nil {
				errs <- err
				return
			}
			created.Add(1)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.ErrorIs(t, err, theme.ErrLimitExceeded)
	}
	assert.Equal(t, int32(theme.DefaultMaxThemesPerUser), created.Load())

	n, err := svc.CountUserThemes(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, theme.DefaultMaxThemesPerUser, n)
}

func TestCreateTheme_ConfiguredLimit(t *testing.T) {
	svc, _ := newService(t, theme.WithMaxThemesPerUser(1))
	ctx := context.Background()

	_, err := svc.CreateTheme(ctx, "user-1", "Only", theme.ThemeInput{})
	require.NoError(t, err)
	_, err = svc.CreateTheme(ctx, "user-1", "Second", theme.ThemeInput{})
	assert.ErrorIs(t, err, theme.ErrLimitExceeded)
}

func TestCreateTheme_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		theme string
		input theme.ThemeInput
	}{
		{"empty name", "", theme.ThemeInput{}},
		{"whitespace name", "   ", theme.ThemeInput{}},
		{"name too long", strings.Repeat("x", theme.MaxNameLength+1), theme.ThemeInput{}},
		{"bad hex", "Bad", theme.ThemeInput{Colors: map[string]string{"accent": "#12345"}}},
		{"bad spatial effect", "Bad", theme.ThemeInput{SpatialEffect: strPtr("wobble")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTheme(ctx, "user-1", tt.theme, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, theme.ErrValidation)

			var terr *theme.Error
			require.ErrorAs(t, err, &terr)
			assert.NotEmpty(t, terr.Message)
		})
	}

	_, err := svc.CreateTheme(ctx, "user-1", strings.Repeat("x", theme.MaxNameLength), theme.ThemeInput{})
	assert.NoError(t, err, "a name of exactly the maximum length is accepted")

	_, err = svc.CreateTheme(ctx, "", "No Owner", theme.ThemeInput{})
	assert.ErrorIs(t, err, theme.ErrValidation)
}

func TestCreateTheme_SanitizesWidgetStyles(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.CreateTheme(ctx, "user-1", "Styled", theme.ThemeInput{
		WidgetStyles: map[string]any{
			"border_width": "huge",
			"shape":        "round",
			"glow_width":   50,
		},
	})
	require.NoError(t, err)

	got, err := svc.GetTheme(ctx, id)
	require.NoError(t, err)

	var ws theme.WidgetStyles
	require.NoError(t, json.Unmarshal([]byte(got.WidgetStyles), &ws))
	assert.Equal(t, theme.BorderWidthThin, ws.BorderWidth, "invalid enum falls back to default")
	assert.Equal(t, theme.ShapeRound, ws.Shape)
	assert.Equal(t, 20.0, ws.GlowWidth)
}

func TestCloneTheme(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	sys := testutil.NewTheme(
		testutil.WithThemeName("Midnight"),
		testutil.WithThemeColorTokens(`{"text":{"primary":"#e2e8f0"}}`),
		testutil.WithThemeColors(`{"primary":"#e2e8f0","secondary":"#0f172a"}`),
	)
	require.NoError(t, st.Insert(ctx, &sys))

	id, err := svc.CloneTheme(ctx, sys.ID, "user-1", "")
	require.NoError(t, err)

	got, err := svc.GetTheme(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Midnight Copy", got.Name)
	assert.Equal(t, sys.ColorTokens, got.ColorTokens)
	assert.Equal(t, sys.Colors, got.Colors)
	assert.False(t, got.IsSystem())

	id, err = svc.CloneTheme(ctx, sys.ID, "user-1", "Night Shift")
	require.NoError(t, err)
	got, err = svc.GetTheme(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Night Shift", got.Name)

	_, err = svc.CloneTheme(ctx, "missing", "user-1", "")
	assert.ErrorIs(t, err, theme.ErrNotFound)
}

func TestCache_InvalidatedOnMutation(t *testing.T) {
	cache := theme.NewMemoryCache()
	svc, _ := newService(t, theme.WithCache(cache))
	ctx := context.Background()

	id, err := svc.CreateTheme(ctx, "user-1", "Original", theme.ThemeInput{})
	require.NoError(t, err)

	cached, err := svc.GetCachedTheme(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Original", cached.Name)
	assert.Equal(t, 1, cache.Len())

	require.True(t, svc.UpdateUserTheme(ctx, id, "user-1", strPtr("Renamed"), nil))
	assert.Equal(t, 0, cache.Len(), "update invalidates the entry")

	cached, err = svc.GetCachedTheme(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", cached.Name)

	require.True(t, svc.DeleteUserTheme(ctx, id, "user-1"))
	cached, err = svc.GetCachedTheme(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, cached, "delete must not leave a stale cached copy")
}

func TestCache_ClearAll(t *testing.T) {
	cache := theme.NewMemoryCache()
	svc, _ := newService(t, theme.WithCache(cache))
	ctx := context.Background()

	for _, name := range []string{"A", "B"} {
		id, err := svc.CreateTheme(ctx, "user-1", name, theme.ThemeInput{})
		require.NoError(t, err)
		_, err = svc.GetCachedTheme(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Len())

	svc.ClearAllCache(ctx)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	cache := theme.NewMemoryCache()
	ctx := context.Background()
	th := testutil.NewTheme(testutil.WithThemeOwner("user-1"))
	cache.Set(ctx, &th)

	got, ok := cache.Get(ctx, th.ID)
	require.True(t, ok)
	got.Name = "mutated"
	*got.UserID = "mutated"

	again, ok := cache.Get(ctx, th.ID)
	require.True(t, ok)
	assert.Equal(t, "Test Theme", again.Name)
	assert.Equal(t, "user-1", *again.UserID)
}

func TestStore_LegacySchemaSkipsTokenColumns(t *testing.T) {
	st := testutil.NewThemeStore(t, 1)
	svc := theme.NewService(st, theme.WithLogger(zaptest.NewLogger(t)))
	ctx := context.Background()

	has, err := st.HasColumn(ctx, "color_tokens")
	require.NoError(t, err)
	assert.False(t, has)

	id, err := svc.CreateTheme(ctx, "user-1", "Legacy", theme.ThemeInput{
		Colors:      map[string]string{"primary": "#112233"},
		ColorTokens: tokens.Bundle{"text": tokens.Bundle{"primary": "#abcdef"}},
	})
	require.NoError(t, err)

	got, err := svc.GetTheme(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.ColorTokens)
	assert.JSONEq(t, `{"primary":"#112233"}`, string(got.Colors))

	require.True(t, svc.UpdateUserTheme(ctx, id, "user-1", nil, &theme.ThemeInput{
		MotionTokens: tokens.Bundle{"duration": tokens.Bundle{"fast": "100ms"}},
	}))
}

func TestGetAvailableThemes(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()

	sys := testutil.NewTheme(testutil.WithThemeName("System"))
	require.NoError(t, st.Insert(ctx, &sys))
	_, err := svc.CreateTheme(ctx, "user-1", "Mine", theme.ThemeInput{})
	require.NoError(t, err)
	_, err = svc.CreateTheme(ctx, "user-2", "Theirs", theme.ThemeInput{})
	require.NoError(t, err)

	themes, err := svc.GetAvailableThemes(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "System", themes[0].Name)
	assert.Equal(t, "Mine", themes[1].Name)

	system, err := svc.GetSystemThemes(ctx)
	require.NoError(t, err)
	require.Len(t, system, 1)
	assert.True(t, system[0].IsSystem())

	own, err := svc.GetUserThemes(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Theirs", own[0].Name)
}
