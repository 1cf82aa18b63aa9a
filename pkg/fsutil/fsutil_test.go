package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/litpp/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))

	content, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "int x;\n", string(content))
}

func TestReadFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := fsutil.ReadFile(context.Background(), filepath.Join(dir, "missing.c"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, err = fsutil.ReadFile(context.Background(), dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fsutil.ReadFile(ctx, filepath.Join(dir, "missing.c"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadFileFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"src/a.c": {Data: []byte("a")},
	}

	content, err := fsutil.ReadFileFS(fsys, "src/a.c")
	require.NoError(t, err)
	assert.Equal(t, "a", string(content))

	_, err = fsutil.ReadFileFS(fsys, "src/b.c")
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, err = fsutil.ReadFileFS(fsys, "src")
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "nested", "doc.md")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("hello"), 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.md")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0o600))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "doc.md"), nil, 0)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWriteIfChanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.md")
	ctx := context.Background()

	written, err := fsutil.WriteIfChanged(ctx, path, []byte("v1"), 0)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = fsutil.WriteIfChanged(ctx, path, []byte("v1"), 0)
	require.NoError(t, err)
	assert.False(t, written)

	written, err = fsutil.WriteIfChanged(ctx, path, []byte("v2"), 0)
	require.NoError(t, err)
	assert.True(t, written)
}
