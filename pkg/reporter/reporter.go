// Package reporter writes the outcome of an expansion run for people
// (text, table) and for tools (JSON).
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/litpp/pkg/runner"
)

// Reporter writes a run result. Report returns the number of failed files.
type Reporter interface {
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New returns the reporter for opts.Format, text when unset.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	build := constructors[opts.Format]
	if build == nil {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return build(opts), nil
}
