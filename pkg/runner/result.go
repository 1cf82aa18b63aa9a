package runner

import (
	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/textdiff"
)

// FileOutcome is the result of expanding one input document.
type FileOutcome struct {
	// Path is the input file that was processed.
	Path string

	// Output is the file the expansion was written to. Empty when writing
	// to standard output or when the file failed or was skipped.
	Output string

	// Content holds the expanded text when writing to standard output.
	Content string

	// Bytes is the size of the expanded text.
	Bytes int

	// Written is true if Output was created or changed.
	Written bool

	// Stale is set in check mode when Output is missing or differs from
	// the expansion; Diff shows how.
	Stale bool
	Diff  *textdiff.Diff

	// Skipped is true if the file was not expanded; SkipReason says why.
	Skipped    bool
	SkipReason string

	// Error is set if the file could not be expanded or written. Expansion
	// failures are *diag.Error values.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesExpanded is the number of files expanded without error.
	FilesExpanded int

	// FilesWritten is the number of output files created or changed.
	FilesWritten int

	// FilesUnchanged is the number of output files that already held the
	// expanded content.
	FilesUnchanged int

	// FilesStale is the number of outputs that check mode found out of date.
	FilesStale int

	// FilesSkipped is the number of files that were not expanded.
	FilesSkipped int

	// FilesFailed is the number of files that encountered errors.
	FilesFailed int

	// FailuresByKind counts expansion failures by error kind.
	FailuresByKind map[diag.Kind]int

	// CacheHits and CacheMisses report the shared file cache usage.
	CacheHits   int64
	CacheMisses int64
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesFailed > 0
}

// HasStale reports whether check mode found outputs out of date.
func (r *Result) HasStale() bool {
	return r != nil && r.Stats.FilesStale > 0
}

// Failures returns the outcomes that carry an error.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	var failed []FileOutcome
	for _, f := range r.Files {
		if f.Error != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// newStats creates a new Stats with initialized maps.
func newStats() Stats {
	return Stats{
		FailuresByKind: make(map[diag.Kind]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesFailed++
		kind := diag.KindOf(outcome.Error)
		if kind == "" {
			kind = KindIO
		}
		r.Stats.FailuresByKind[kind]++
	case outcome.Skipped:
		r.Stats.FilesSkipped++
	default:
		r.Stats.FilesExpanded++
		if outcome.Stale {
			r.Stats.FilesStale++
		} else if outcome.Output != "" {
			if outcome.Written {
				r.Stats.FilesWritten++
			} else {
				r.Stats.FilesUnchanged++
			}
		}
	}
}
