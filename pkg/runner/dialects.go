package runner

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/litpp/pkg/config"
	"github.com/yaklabco/litpp/pkg/literate"
)

// DialectError reports a dialect configuration problem together with the
// configuration field it came from.
type DialectError struct {
	Field string
	Err   error
}

func (e *DialectError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *DialectError) Unwrap() error {
	return e.Err
}

// DialectFromConfig converts one configured dialect.
func DialectFromConfig(name string, dc config.DialectConfig) (literate.Dialect, error) {
	field := "dialects." + name
	kind, err := literate.ParseKind(dc.TopLevel)
	if err != nil {
		return literate.Dialect{}, &DialectError{Field: field + ".top_level", Err: err}
	}

	d := literate.Dialect{
		Name:         name,
		TopLevel:     kind,
		ProseOpen:    dc.Prose.Open,
		ProseClose:   dc.Prose.Close,
		CodeOpen:     dc.Code.Open,
		CodeClose:    dc.Code.Close,
		DiscardOpen:  dc.Discard.Open,
		DiscardClose: dc.Discard.Close,
	}
	if err := d.Validate(); err != nil {
		return literate.Dialect{}, &DialectError{Field: field, Err: err}
	}
	return d, nil
}

// BuildDialects returns the built-in dialects extended by cfg: configured
// dialects, language mappings and the fallback. A forced dialect must name
// a known dialect. Every problem is reported, joined.
func BuildDialects(cfg *config.Config) (*literate.DialectSet, error) {
	set := literate.NewDialectSet()
	var errs []error

	for _, name := range slices.Sorted(maps.Keys(cfg.Dialects)) {
		d, err := DialectFromConfig(name, cfg.Dialects[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := set.Add(d); err != nil {
			errs = append(errs, &DialectError{Field: "dialects." + name, Err: err})
		}
	}

	for _, lang := range slices.Sorted(maps.Keys(cfg.Languages)) {
		if err := set.MapLanguage(lang, cfg.Languages[lang]); err != nil {
			errs = append(errs, &DialectError{Field: "languages." + lang, Err: err})
		}
	}

	if cfg.FallbackDialect != "" {
		if err := set.SetFallback(cfg.FallbackDialect); err != nil {
			errs = append(errs, &DialectError{Field: "fallback_dialect", Err: err})
		}
	}

	if cfg.Dialect != "" {
		if _, ok := set.Lookup(cfg.Dialect); !ok {
			errs = append(errs, &DialectError{
				Field: "dialect",
				Err:   fmt.Errorf("unknown dialect %q", cfg.Dialect),
			})
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return set, nil
}

// ConfigFromDialect is the inverse of DialectFromConfig.
func ConfigFromDialect(d literate.Dialect) config.DialectConfig {
	return config.DialectConfig{
		TopLevel: d.TopLevel.String(),
		Prose:    config.MarkerPair{Open: d.ProseOpen, Close: d.ProseClose},
		Code:     config.MarkerPair{Open: d.CodeOpen, Close: d.CodeClose},
		Discard:  config.MarkerPair{Open: d.DiscardOpen, Close: d.DiscardClose},
	}
}

// DefaultDialectConfigs returns the built-in dialects in configuration form.
func DefaultDialectConfigs() map[string]config.DialectConfig {
	out := make(map[string]config.DialectConfig)
	for name, d := range literate.DefaultDialects() {
		out[name] = ConfigFromDialect(d)
	}
	return out
}
