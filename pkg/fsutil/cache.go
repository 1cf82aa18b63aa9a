package fsutil

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Cache is a read-through file content cache.
//
// Each path is loaded at most once; later reads return the cached content or
// the cached failure. Content is immutable once loaded, so a Cache may be
// shared by any number of concurrent expansions.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry

	read func(ctx context.Context, key string) ([]byte, error)
	key  func(name string) (string, error)

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	once    sync.Once
	content string
	err     error
}

// NewCache returns a Cache that reads from the operating system. Paths are
// keyed by their cleaned absolute form.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		read:    ReadFile,
		key: func(name string) (string, error) {
			abs, err := filepath.Abs(name)
			if err != nil {
				return "", fmt.Errorf("resolve absolute path: %w", err)
			}
			return abs, nil
		},
	}
}

// NewCacheFS returns a Cache that reads from fsys. Names use forward
// slashes and are cleaned before lookup.
func NewCacheFS(fsys fs.FS) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		read: func(_ context.Context, key string) ([]byte, error) {
			return ReadFileFS(fsys, key)
		},
		key: func(name string) (string, error) {
			return path.Clean(filepath.ToSlash(name)), nil
		},
	}
}

// Read returns the content of the named file, loading it on first use.
func (c *Cache) Read(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	key, err := c.key(name)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	loaded := false
	entry.once.Do(func() {
		loaded = true
		content, readErr := c.read(context.WithoutCancel(ctx), key)
		entry.content, entry.err = string(content), readErr
	})

	if loaded {
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}

	return entry.content, entry.err
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the number of reads served from the cache and the number
// that loaded the file.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
