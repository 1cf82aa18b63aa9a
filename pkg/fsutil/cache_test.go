package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/litpp/pkg/fsutil"
)

func TestCacheReadsOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))

	cache := fsutil.NewCache()
	ctx := context.Background()

	content, err := cache.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "first", content)

	// Content is immutable once loaded.
	require.NoError(t, os.WriteFile(path, []byte("second"), 0o644))

	content, err = cache.Read(ctx, filepath.Join(dir, ".", "a.c"))
	require.NoError(t, err)
	assert.Equal(t, "first", content)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheCachesFailures(t *testing.T) {
	t.Parallel()

	cache := fsutil.NewCacheFS(fstest.MapFS{})

	_, err := cache.Read(context.Background(), "missing.c")
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, err = cache.Read(context.Background(), "./missing.c")
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCacheConcurrentReads(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a.c": {Data: []byte("A")},
		"b.c": {Data: []byte("B")},
	}
	cache := fsutil.NewCacheFS(fsys)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, want := "a.c", "A"
			if i%2 == 1 {
				name, want = "b.c", "B"
			}
			got, err := cache.Read(context.Background(), name)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()

	hits, misses := cache.Stats()
	assert.Equal(t, int64(2), misses)
	assert.Equal(t, int64(30), hits)
}

func TestCacheCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fsutil.NewCacheFS(fstest.MapFS{}).Read(ctx, "a.c")
	require.ErrorIs(t, err, context.Canceled)
}
