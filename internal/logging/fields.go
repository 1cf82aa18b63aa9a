// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Expansion fields.
	FieldCall     = "call"
	FieldDepth    = "depth"
	FieldMaxDepth = "max_depth"
	FieldDialect  = "dialect"
	FieldSpans    = "spans"
	FieldCalls    = "calls"
	FieldBytes    = "bytes"

	// Runner fields.
	FieldJobs           = "jobs"
	FieldFilesFound     = "files_found"
	FieldFilesExpanded  = "files_expanded"
	FieldFilesFailed    = "files_failed"
	FieldFilesWritten   = "files_written"
	FieldFilesUnchanged = "files_unchanged"
	FieldCacheHits      = "cache_hits"
	FieldCacheMisses    = "cache_misses"
	FieldDuration       = "duration"
	FieldWritten        = "written"
	FieldReason         = "reason"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
