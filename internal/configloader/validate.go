package configloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/litpp/pkg/config"
	"github.com/yaklabco/litpp/pkg/runner"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "dialects.c.top_level").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown fields).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// knownFlavors lists valid flavor values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFlavors = map[config.Flavor]bool{
	config.FlavorCommonMark: true,
	config.FlavorGFM:        true,
}

// Validate checks a resolved configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	return validate(cfg, true)
}

// validate checks cfg. A single file may map languages to dialects defined
// in another layer, so cross references are only checked when resolved.
func validate(cfg *config.Config, resolved bool) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.Flavor != "" && !knownFlavors[cfg.Flavor] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "flavor",
			Value:   cfg.Flavor,
			Message: fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, table, json", cfg.Format),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.MaxDepth < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "max_depth",
			Value:   cfg.MaxDepth,
			Message: "max_depth must be >= 0 (0 keeps the default)",
		})
	}

	if cfg.OutputExt != "" && !strings.HasPrefix(cfg.OutputExt, ".") {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output_ext",
			Value:   cfg.OutputExt,
			Message: fmt.Sprintf("extension %q must start with a dot", cfg.OutputExt),
		})
	}

	if cfg.Stdout && cfg.OutputDir != "" {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "output_dir",
			Value:   cfg.OutputDir,
			Message: "ignored when writing to standard output",
		})
	}

	if cfg.Check && cfg.Stdout {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "check",
			Value:   true,
			Message: "check mode compares output files and cannot be combined with stdout",
		})
	}

	validateExtensions(cfg, result)
	validateIgnorePatterns(cfg, result)
	if resolved {
		validateDialects(cfg, result)
	} else {
		validateDialectDefinitions(cfg, result)
	}

	return result
}

// validateExtensions checks that every extension starts with a dot.
func validateExtensions(cfg *config.Config, result *ValidationResult) {
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("extension %q must start with a dot", ext),
			})
		}
	}
}

// validateIgnorePatterns compiles each ignore pattern the way discovery does.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := runner.CompileGlobs([]string{pattern}); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: err.Error(),
			})
		}
	}
}

// validateDialects builds the dialect set the runner would use and reports
// every problem it finds.
func validateDialects(cfg *config.Config, result *ValidationResult) {
	_, err := runner.BuildDialects(cfg)
	if err == nil {
		return
	}

	for _, e := range unjoin(err) {
		field := "dialects"
		var de *runner.DialectError
		if errors.As(e, &de) {
			field = de.Field
		}
		result.Errors = append(result.Errors, ValidationError{
			Field:   field,
			Message: e.Error(),
		})
	}
}

// validateDialectDefinitions checks each dialect definition on its own.
func validateDialectDefinitions(cfg *config.Config, result *ValidationResult) {
	for name, dc := range cfg.Dialects {
		if _, err := runner.DialectFromConfig(name, dc); err != nil {
			for _, e := range unjoin(err) {
				result.Errors = append(result.Errors, ValidationError{
					Field:   "dialects." + name,
					Value:   dc,
					Message: e.Error(),
				})
			}
		}
	}
}

// unjoin splits an errors.Join result into its parts.
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// ValidateWithFile validates configuration and includes file path in errors.
// Cross-layer references are left to the resolved check.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := validate(cfg, false)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return knownFlavors[f]
}
