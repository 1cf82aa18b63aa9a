// Package config defines core configuration types for litpp.
// These types are pure data structures; loading and layering live in
// internal/configloader.
package config

import "runtime"

// OutputFormat specifies how expansion results are reported.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatJSON:
		return true
	default:
		return false
	}
}

// Flavor specifies the Markdown flavor used to find headings for
// include.section.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// TopLevel spellings for dialects.
const (
	TopLevelProse = "prose"
	TopLevelCode  = "code"
)

// MarkerPair holds the open and close tokens of one block kind.
// Equal tokens toggle.
type MarkerPair struct {
	Open  string `yaml:"open,omitempty"`
	Close string `yaml:"close,omitempty"`
}

// DialectConfig defines or overrides a marker dialect.
type DialectConfig struct {
	// TopLevel is "prose" or "code": how text outside any block is treated.
	TopLevel string `yaml:"top_level"`

	Prose   MarkerPair `yaml:"prose,omitempty"`
	Code    MarkerPair `yaml:"code,omitempty"`
	Discard MarkerPair `yaml:"discard,omitempty"`
}

// Defaults.
const (
	DefaultMaxDepth  = 32
	DefaultOutputExt = ".md"
	DefaultFallback  = "markdown"
)

// DefaultExtensions are the file extensions picked up when a directory is
// expanded.
func DefaultExtensions() []string {
	return []string{".c", ".h", ".lua", ".md", ".txt"}
}

// Config is the root configuration structure for litpp.
type Config struct {
	// MaxDepth bounds call and include nesting.
	MaxDepth int `yaml:"max_depth"`

	// Jobs is the number of parallel workers. 0 means one per CPU.
	Jobs int `yaml:"jobs"`

	// Extensions selects files when walking directories.
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// OutputDir receives the expanded files. Empty means next to each input.
	OutputDir string `yaml:"output_dir"`

	// OutputExt replaces the extension of each input to name its output.
	OutputExt string `yaml:"output_ext"`

	// Flavor is the Markdown flavor for include.section.
	Flavor Flavor `yaml:"flavor"`

	// FallbackDialect is used for languages without a dialect mapping.
	FallbackDialect string `yaml:"fallback_dialect"`

	// Dialects adds or replaces marker dialects by name.
	Dialects map[string]DialectConfig `yaml:"dialects,omitempty"`

	// Languages maps language names, as detected from file names and
	// content, to dialect names.
	Languages map[string]string `yaml:"languages,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the report format.
	Format OutputFormat `yaml:"-"`

	// Stdout writes expanded output to standard output instead of files.
	Stdout bool `yaml:"-"`

	// Check compares expansions with the existing outputs instead of
	// writing them.
	Check bool `yaml:"-"`

	// Dialect forces one dialect for every input.
	Dialect string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		MaxDepth:        DefaultMaxDepth,
		Jobs:            0,
		Extensions:      DefaultExtensions(),
		OutputExt:       DefaultOutputExt,
		Flavor:          FlavorGFM,
		FallbackDialect: DefaultFallback,
		Format:          FormatText,
	}
}

// EffectiveJobs returns the worker count, resolving 0 to the CPU count.
func (c *Config) EffectiveJobs() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.NumCPU()
}
