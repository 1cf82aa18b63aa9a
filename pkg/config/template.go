package config

import (
	"fmt"
	"maps"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value, including the
	// built-in dialects. If false, generates a minimal commented template.
	Full bool

	// Dialects are written under "dialects" in a full template.
	Dialects map[string]DialectConfig

	// Languages are written under "languages" in a full template.
	Languages map[string]string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Full {
		return generateFullTemplate(opts)
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# litpp configuration
# See: https://github.com/yaklabco/litpp

# Maximum nesting of macro calls and includes
max_depth: 32

# Number of parallel workers (0 = one per CPU)
jobs: 0

# Extensions picked up when expanding a directory
extensions: [".c", ".h", ".lua", ".md", ".txt"]

# File patterns to skip (glob patterns)
# ignore:
#   - "vendor/**"
#   - "build/**"

# Where expanded files go (empty = next to each input) and their extension
# output_dir: docs
output_ext: .md

# Markdown flavor used by include.section: commonmark or gfm
flavor: gfm

# Dialect for files whose language has no mapping
fallback_dialect: markdown

# Custom marker dialects
# dialects:
#   shell:
#     top_level: code
#     prose:
#       open: "#@@@"
#       close: "#@@@"
#     discard:
#       open: "#---"
#       close: "#---"

# Language to dialect mappings
# languages:
#   shell: shell
`

func generateFullTemplate(opts TemplateOptions) ([]byte, error) {
	cfg := NewConfig()
	cfg.Ignore = []string{"vendor/**", "node_modules/**", ".git/**"}
	cfg.Dialects = maps.Clone(opts.Dialects)
	cfg.Languages = maps.Clone(opts.Languages)

	out, err := cfg.ToYAMLWithHeader(DefaultTemplateHeader() + "\n#\n# Full template: every setting with its default value.")
	if err != nil {
		return nil, fmt.Errorf("generate template: %w", err)
	}
	return out, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# litpp configuration
# See: https://github.com/yaklabco/litpp`
}
