package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/litpp/internal/ui/pretty"
	"github.com/yaklabco/litpp/pkg/runner"
)

// TableReporter prints one row per file followed by the summary block.
// In check mode the diffs of stale outputs follow the table.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter returns a table reporter sized to the terminal behind
// opts.Writer, if any.
func NewTableReporter(opts Options) *TableReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: pretty.NewTableFormatter(styles, writerWidth(opts.Writer)),
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	fmt.Fprint(r.bw, r.formatter.FormatTable(pretty.Rows(result.Files, r.opts.rel)))

	for _, file := range result.Files {
		if file.Stale && !file.Diff.Empty() {
			fmt.Fprintln(r.bw)
			fmt.Fprint(r.bw, r.styles.FormatDiff(file.Diff))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	}
	return result.Stats.FilesFailed, nil
}

// writerWidth is the column count of a terminal writer, 0 otherwise.
func writerWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 0
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return width
	}
	return 0
}
