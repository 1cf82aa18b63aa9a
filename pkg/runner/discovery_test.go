package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/litpp/pkg/runner"
)

// writeTree creates files (relative paths) under dir.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// relAll returns paths relative to dir with forward slashes.
func relAll(t *testing.T, dir string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"prog.c": "int x;"})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{filepath.Join(dir, "prog.c")},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "prog.c")}, files)
}

func TestDiscover_NamedFileIgnoresExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"notes.org": "text"})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"notes.org"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.org"}, relAll(t, dir, files))
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"readme.md":       "# Test",
		"src/main.c":      "int main;",
		"src/util.h":      "int util;",
		"src/script.lua":  "return 1",
		"src/image.png":   "png",
		"notes.txt":       "text",
		"build/output.go": "package build",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"notes.txt",
		"readme.md",
		"src/main.c",
		"src/script.lua",
		"src/util.h",
	}, relAll(t, dir, files))
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.c":   "",
		"b.go":  "",
		"c.GO":  "",
		"d.lua": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".go"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.go", "c.GO"}, relAll(t, dir, files))
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "no patterns",
			patterns: nil,
			want:     []string{"a.c", "gen/b.c", "gen/deep/c.c", "lib/d.lua"},
		},
		{
			name:     "base name",
			patterns: []string{"*.lua"},
			want:     []string{"a.c", "gen/b.c", "gen/deep/c.c"},
		},
		{
			name:     "directory tree",
			patterns: []string{"gen/**"},
			want:     []string{"a.c", "lib/d.lua"},
		},
		{
			name:     "anywhere",
			patterns: []string{"**/c.c"},
			want:     []string{"a.c", "gen/b.c", "lib/d.lua"},
		},
		{
			name:     "directory name",
			patterns: []string{"lib"},
			want:     []string{"a.c", "gen/b.c", "gen/deep/c.c"},
		},
		{
			name:     "single star stays in component",
			patterns: []string{"gen/*.c"},
			want:     []string{"a.c", "gen/deep/c.c", "lib/d.lua"},
		},
	}

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.c":          "",
		"gen/b.c":      "",
		"gen/deep/c.c": "",
		"lib/d.lua":    "",
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := runner.Discover(context.Background(), runner.Options{
				WorkingDir:   dir,
				ExcludeGlobs: tt.patterns,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, relAll(t, dir, files))
		})
	}
}

func TestDiscover_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   t.TempDir(),
		ExcludeGlobs: []string{"[unclosed"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ignore pattern")
}

func TestDiscover_HiddenFilesAndDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"visible.c":       "",
		".hidden.c":       "",
		".cache/inner.c":  "",
		"src/.secret.lua": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"visible.c"}, relAll(t, dir, files))
}

func TestDiscover_Vendored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.c":              "",
		"vendor/lib/dep.c":    "",
		"node_modules/pkg.md": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.c"}, relAll(t, dir, files))

	files, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir:      dir,
		IncludeVendored: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.c", "node_modules/pkg.md", "vendor/lib/dep.c"}, relAll(t, dir, files))
}

func TestDiscover_DeduplicationAndOrdering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"z.c":     "",
		"a.c":     "",
		"sub/m.c": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"sub", ".", "z.c", "sub/m.c"},
		WorkingDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.c", "sub/m.c", "z.c"}, relAll(t, dir, files))
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: t.TempDir(),
	})
	require.Error(t, err)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.c": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"real/doc.c": ""})

	externalDir := t.TempDir()
	writeTree(t, externalDir, map[string]string{"external.c": ""})

	if err := os.Symlink(externalDir, filepath.Join(dir, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	opts := runner.Options{WorkingDir: dir}
	files, err := runner.Discover(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0], filepath.Join("real", "doc.c")))

	opts.FollowSymlinks = true
	files, err = runner.Discover(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestGlobSet_Match(t *testing.T) {
	t.Parallel()

	set, err := runner.CompileGlobs([]string{"*.tmp", "docs/**", "**/generated"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"a.tmp", true},
		{"deep/dir/a.tmp", true},
		{"docs/guide.md", true},
		{"docs/api/ref.md", true},
		{"src/docs/guide.md", false},
		{"generated", true},
		{"src/generated", true},
		{"src/main.c", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, set.Match(tt.path), tt.path)
	}

	var empty *runner.GlobSet
	assert.False(t, empty.Match("anything"))
}
