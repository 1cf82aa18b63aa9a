package reporter

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/litpp/pkg/fsutil"
	"github.com/yaklabco/litpp/pkg/textpos"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// SourceReader loads file content for source context. *fsutil.Cache
// satisfies it, so a report can reuse the files a run already read.
type SourceReader interface {
	Read(ctx context.Context, name string) (string, error)
}

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowContext includes the offending source line under each error.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Verbose lists every file, not only failures.
	Verbose bool

	// Compact uses compact/minified output where applicable.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string

	// Sources reads files for source context. Defaults to the file system.
	Sources SourceReader
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
	}
}

// rel makes path relative to the working directory when it lies below it.
func (o Options) rel(path string) string {
	if o.WorkingDir == "" || path == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// sourceLine returns line (1-based) of the named file, or "" when the
// file cannot be read.
func (o Options) sourceLine(ctx context.Context, path string, line int) string {
	if path == "" || line <= 0 {
		return ""
	}

	var content string
	if o.Sources != nil {
		c, err := o.Sources.Read(ctx, path)
		if err != nil {
			return ""
		}
		content = c
	} else {
		c, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return ""
		}
		content = string(c)
	}

	return textpos.NewIndex(content).LineContent(line)
}
