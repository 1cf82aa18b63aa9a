package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaklabco/litpp/internal/ui/pretty"
	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/runner"
)

// jsonVersion is the version of the JSON report layout.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Path       string     `json:"path"`
	Status     string     `json:"status"`
	Output     string     `json:"output,omitempty"`
	Bytes      int        `json:"bytes,omitempty"`
	Content    *string    `json:"content,omitempty"`
	SkipReason string     `json:"skipReason,omitempty"`
	Diff       string     `json:"diff,omitempty"`
	Error      *JSONError `json:"error,omitempty"`
}

// JSONError describes a failure. Location fields are set for expansion
// errors; other failures only carry a message.
type JSONError struct {
	Kind    string `json:"kind"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Offset  *int   `json:"offset,omitempty"`
	Message string `json:"message"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesFound     int            `json:"filesFound"`
	FilesExpanded  int            `json:"filesExpanded"`
	FilesWritten   int            `json:"filesWritten"`
	FilesUnchanged int            `json:"filesUnchanged"`
	FilesSkipped   int            `json:"filesSkipped"`
	FilesStale     int            `json:"filesStale"`
	FilesFailed    int            `json:"filesFailed"`
	FailuresByKind map[string]int `json:"failuresByKind"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesFailed, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			FailuresByKind: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:       r.opts.rel(file.Path),
			Status:     pretty.Status(file),
			Output:     r.opts.rel(file.Output),
			Bytes:      file.Bytes,
			SkipReason: file.SkipReason,
			Diff:       file.Diff.String(),
		}
		if file.Error == nil && !file.Skipped && !file.Stale && file.Output == "" {
			content := file.Content
			fileResult.Content = &content
		}
		if file.Error != nil {
			fileResult.Error = r.buildError(file.Error)
		}
		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary.FilesFound = stats.FilesDiscovered
	output.Summary.FilesExpanded = stats.FilesExpanded
	output.Summary.FilesWritten = stats.FilesWritten
	output.Summary.FilesUnchanged = stats.FilesUnchanged
	output.Summary.FilesSkipped = stats.FilesSkipped
	output.Summary.FilesStale = stats.FilesStale
	output.Summary.FilesFailed = stats.FilesFailed
	for kind, n := range stats.FailuresByKind {
		output.Summary.FailuresByKind[string(kind)] = n
	}

	return output
}

func (r *JSONReporter) buildError(err error) *JSONError {
	var de *diag.Error
	if !errors.As(err, &de) {
		return &JSONError{Kind: string(runner.KindIO), Message: err.Error()}
	}

	je := &JSONError{
		Kind:    string(de.Kind),
		Path:    r.opts.rel(de.Path),
		Line:    de.Line,
		Column:  de.Column,
		Message: de.Message,
	}
	if de.Offset >= 0 {
		offset := de.Offset
		je.Offset = &offset
	}
	if de.Err != nil {
		je.Message += ": " + de.Err.Error()
	}
	return je
}
