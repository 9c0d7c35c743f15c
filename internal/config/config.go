// Package config wraps Viper and decodes the typed application settings.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/podabio/podabio/internal/generator"
	"github.com/podabio/podabio/internal/palette"
	"github.com/podabio/podabio/internal/server"
)

// Database configures the SQLite store.
type Database struct {
	Path string `mapstructure:"path"`
}

// Themes configures theme management.
type Themes struct {
	MaxPerUser int  `mapstructure:"max_per_user"`
	SeedSystem bool `mapstructure:"seed_system"`
}

// Cache selects the theme cache backend.
type Cache struct {
	Backend  string `mapstructure:"backend"` // memory or redis
	RedisURL string `mapstructure:"redis_url"`
	Prefix   string `mapstructure:"prefix"`
}

// App is the complete typed configuration.
type App struct {
	Server    server.Config    `mapstructure:"server"`
	Database  Database         `mapstructure:"database"`
	Themes    Themes           `mapstructure:"themes"`
	Cache     Cache            `mapstructure:"cache"`
	Palette   palette.Config   `mapstructure:"palette"`
	Generator generator.Limits `mapstructure:"generator"`
}

// ViperConfig wraps a Viper instance.
type ViperConfig struct {
	v *viper.Viper
}

// New creates a Config backed by the given Viper instance.
func New(v *viper.Viper) *ViperConfig {
	if v == nil {
		v = viper.New()
	}
	return &ViperConfig{v: v}
}

// App decodes every section into its typed form.
func (c *ViperConfig) App() (App, error) {
	var app App
	if err := c.v.Unmarshal(&app); err != nil {
		return App{}, fmt.Errorf("decode config: %w", err)
	}
	switch app.Cache.Backend {
	case "", "memory", "redis":
	default:
		return App{}, fmt.Errorf("invalid cache backend %q: must be \"memory\" or \"redis\"", app.Cache.Backend)
	}
	return app, nil
}

func (c *ViperConfig) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}

func (c *ViperConfig) Get(key string) any {
	return c.v.Get(key)
}

func (c *ViperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *ViperConfig) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *ViperConfig) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *ViperConfig) GetDuration(key string) time.Duration {
	return c.v.GetDuration(key)
}

func (c *ViperConfig) IsSet(key string) bool {
	return c.v.IsSet(key)
}

// Sub returns the settings below key. A missing key yields an empty Config.
func (c *ViperConfig) Sub(key string) *ViperConfig {
	sub := c.v.Sub(key)
	if sub == nil {
		return New(nil)
	}
	return New(sub)
}

// Viper returns the underlying Viper instance for direct access
// (e.g., by the logger for the logging section).
func (c *ViperConfig) Viper() *viper.Viper {
	return c.v
}
