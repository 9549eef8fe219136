package cache

import (
	"github.com/maypok86/otter/v2"

	"github.com/doeshing/retest-go/internal/domain"
	"github.com/doeshing/retest-go/internal/ports"
)

// PatternCache memoizes compiled patterns in front of another engine.
// Compile failures are never cached.
type PatternCache struct {
	engine ports.Engine
	cache  *otter.Cache[string, ports.Matcher]
}

// NewPatternCache wraps engine with a bounded cache.
func NewPatternCache(engine ports.Engine, maxEntries int) *PatternCache {
	if maxEntries <= 0 {
		maxEntries = domain.DefaultMaxCacheEntries
	}
	return &PatternCache{
		engine: engine,
		cache: otter.Must(&otter.Options[string, ports.Matcher]{
			MaximumSize: maxEntries,
		}),
	}
}

// Name implements ports.Engine.
func (c *PatternCache) Name() string {
	return c.engine.Name()
}

// Compile implements ports.Engine.
func (c *PatternCache) Compile(pattern string) (ports.Matcher, error) {
	if m, ok := c.cache.GetIfPresent(pattern); ok {
		return m, nil
	}
	m, err := c.engine.Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.cache.Set(pattern, m)
	return m, nil
}

// Purge drops every cached pattern.
func (c *PatternCache) Purge() {
	c.cache.InvalidateAll()
}

var _ ports.Engine = (*PatternCache)(nil)
