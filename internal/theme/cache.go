package theme

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var cacheLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "podabio_theme_cache_lookups_total",
		Help: "Theme cache lookups by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(cacheLookups)
}

// Cache holds themes by id. Entries never expire; they are removed only by
// Invalidate or Clear, which Service calls on every mutation.
type Cache interface {
	Get(ctx context.Context, id string) (*Theme, bool)
	Set(ctx context.Context, t *Theme)
	Invalidate(ctx context.Context, id string)
	Clear(ctx context.Context)
}

// MemoryCache is an in-process Cache safe for concurrent use.
type MemoryCache struct {
	mu     sync.RWMutex
	themes map[string]*Theme
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{themes: make(map[string]*Theme)}
}

// Get returns a copy of the cached theme.
func (c *MemoryCache) Get(_ context.Context, id string) (*Theme, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.themes[id]
	return t.clone(), ok
}

// Set stores a copy of t.
func (c *MemoryCache) Set(_ context.Context, t *Theme) {
	if t == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.themes[t.ID] = t.clone()
}

// Invalidate drops one entry.
func (c *MemoryCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.themes, id)
}

// Clear drops every entry.
func (c *MemoryCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.themes = make(map[string]*Theme)
}

// Len returns the number of cached themes.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.themes)
}
