// Package fsutil provides file access for the preprocessor: classified file
// reads, a concurrency-safe read-through cache used as the File Accessor, and
// atomic output writes.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// ReadFile reads a file from the operating system and classifies failures
// with the package sentinels.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, classify(path, err)
	}

	return content, nil
}

// ReadFileFS reads a file from fsys with the same error classification as
// ReadFile.
func ReadFileFS(fsys fs.FS, name string) ([]byte, error) {
	stat, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, classify(name, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, name)
	}

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, classify(name, err)
	}

	return content, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
