package reporter

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/litpp/internal/ui/pretty"
	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to expand."))
		}
		return 0, nil
	}

	var failed int
	for _, file := range result.Files {
		switch {
		case file.Error != nil:
			failed++
			fmt.Fprint(r.bw, r.formatFailure(ctx, file))
		case file.Stale:
			fmt.Fprintf(r.bw, "%s  %s\n",
				r.styles.FormatFileHeader(r.opts.rel(file.Path), r.opts.rel(file.Output)),
				r.styles.Warning.Render("stale"))
			if !file.Diff.Empty() {
				fmt.Fprintln(r.bw, r.styles.FormatDiff(file.Diff))
			}
		case !r.opts.Verbose:
		case file.Skipped:
			fmt.Fprintf(r.bw, "%s  %s\n",
				r.styles.FormatFileHeader(r.opts.rel(file.Path), ""),
				r.styles.Warning.Render("skipped: "+file.SkipReason))
		default:
			fmt.Fprintln(r.bw, r.styles.FormatFileHeader(r.opts.rel(file.Path), r.opts.rel(file.Output)))
		}
	}

	if r.opts.ShowSummary {
		if failed > 0 || result.HasStale() {
			fmt.Fprintln(r.bw)
		}
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return failed, nil
}

// formatFailure renders one failed file, with the offending line when the
// error is located.
func (r *TextReporter) formatFailure(ctx context.Context, file runner.FileOutcome) string {
	path := r.opts.rel(file.Path)

	var de *diag.Error
	if !errors.As(file.Error, &de) {
		return r.styles.FormatError(path, file.Error, false, "")
	}

	var sourceLine string
	if r.opts.ShowContext {
		sourceLine = r.opts.sourceLine(ctx, de.Path, de.Line)
	}

	shown := *de
	shown.Path = r.opts.rel(de.Path)
	return r.styles.FormatError(path, &shown, r.opts.ShowContext, sourceLine)
}
