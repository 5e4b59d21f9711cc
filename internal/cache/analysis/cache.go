// Package analysis caches scanned projects per root.
package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"codebundle/internal/scan"
)

// Loader produces a fresh project for an absolute root.
type Loader func(ctx context.Context, root string) (*scan.Project, error)

// Cache is a threadsafe LRU of scanned projects with per-entry TTL.
type Cache struct {
	lru  *expirable.LRU[string, *scan.Project]
	load Loader
}

func New(maxEntries int, ttl time.Duration, load Loader) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{
		lru:  expirable.NewLRU[string, *scan.Project](maxEntries, nil, ttl),
		load: load,
	}
}

// Get returns the cached project for root, scanning on a miss.
func (c *Cache) Get(ctx context.Context, root string) (*scan.Project, error) {
	key, err := Key(root)
	if err != nil {
		return nil, err
	}
	if p, ok := c.lru.Get(key); ok {
		return p, nil
	}
	return c.fill(ctx, key)
}

// Refresh always rescans and replaces the cached entry.
func (c *Cache) Refresh(ctx context.Context, root string) (*scan.Project, error) {
	key, err := Key(root)
	if err != nil {
		return nil, err
	}
	return c.fill(ctx, key)
}

func (c *Cache) fill(ctx context.Context, key string) (*scan.Project, error) {
	if c.load == nil {
		return nil, fmt.Errorf("analysis cache: loader is nil")
	}
	p, err := c.load(ctx, key)
	if err != nil {
		c.lru.Remove(key)
		return nil, err
	}
	c.lru.Add(key, p)
	return p, nil
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

// Key normalizes root to the absolute path used as cache key.
func Key(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
