package configloader

import (
	"maps"

	"github.com/yaklabco/litpp/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: merged by key, with override's entries replacing base's
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.OutputDir != "" {
		result.OutputDir = override.OutputDir
	}
	if override.OutputExt != "" {
		result.OutputExt = override.OutputExt
	}
	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.FallbackDialect != "" {
		result.FallbackDialect = override.FallbackDialect
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Dialect != "" {
		result.Dialect = override.Dialect
	}

	// Only true can be detected; a file cannot switch stdout off again.
	if override.Stdout {
		result.Stdout = true
	}
	if override.Check {
		result.Check = true
	}

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	result.Dialects = mergeMap(base.Dialects, override.Dialects)
	result.Languages = mergeMap(base.Languages, override.Languages)

	return &result
}

// mergeMap copies base and lays override's entries over it.
// Dialects are replaced whole rather than field by field.
func mergeMap[V any](base, override map[string]V) map[string]V {
	if base == nil && override == nil {
		return nil
	}
	result := make(map[string]V, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
