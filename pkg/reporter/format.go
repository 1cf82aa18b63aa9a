package reporter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/litpp/pkg/config"
)

// Format names a report layout. It shares its values with the format field
// of the configuration.
type Format = config.OutputFormat

// Report layouts.
const (
	FormatText  = config.FormatText
	FormatTable = config.FormatTable
	FormatJSON  = config.FormatJSON
)

// constructors builds the reporter of each format.
//
//nolint:gochecknoglobals // Read-only lookup table.
var constructors = map[Format]func(Options) Reporter{
	FormatText:  func(o Options) Reporter { return NewTextReporter(o) },
	FormatTable: func(o Options) Reporter { return NewTableReporter(o) },
	FormatJSON:  func(o Options) Reporter { return NewJSONReporter(o) },
}

// Formats lists the supported formats in name order.
func Formats() []Format {
	formats := make([]Format, 0, len(constructors))
	for f := range constructors {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// ParseFormat parses a format name. The empty name is text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	if f := Format(name); constructors[f] != nil {
		return f, nil
	}

	names := make([]string, 0, len(constructors))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(names, ", "))
}
