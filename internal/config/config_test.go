package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podabio/podabio/internal/server"
)

func TestApp_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	v, err := server.LoadConfig("")
	require.NoError(t, err)

	app, err := New(v).App()
	require.NoError(t, err)

	assert.Equal(t, 8080, app.Server.Port)
	assert.Equal(t, 15*time.Second, app.Server.ReadTimeout)
	assert.Equal(t, "./data/podabio.db", app.Database.Path)
	assert.Equal(t, 3, app.Themes.MaxPerUser)
	assert.True(t, app.Themes.SeedSystem)
	assert.Equal(t, "memory", app.Cache.Backend)
	assert.Equal(t, 10*time.Second, app.Palette.FetchTimeout)
	assert.Equal(t, 200, app.Palette.MaxDimension)
	assert.Equal(t, 60, app.Generator.ThemeName)
	assert.Equal(t, 30, app.Generator.PodcastName)
	assert.Equal(t, 113, app.Generator.PodcastDescription)
}

func TestApp_InvalidCacheBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	v, err := server.LoadConfig("")
	require.NoError(t, err)
	v.Set("cache.backend", "memcached")

	_, err = New(v).App()
	assert.ErrorContains(t, err, "invalid cache backend")
}

func TestSub(t *testing.T) {
	t.Chdir(t.TempDir())
	v, err := server.LoadConfig("")
	require.NoError(t, err)
	c := New(v)

	assert.Equal(t, 3, c.Sub("themes").GetInt("max_per_user"))
	assert.False(t, c.Sub("missing").IsSet("anything"))
	assert.Same(t, v, c.Viper())
}
