package pretty

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/runner"
)

// Outcome statuses shown in the STATUS column.
const (
	StatusWritten   = "written"
	StatusUnchanged = "unchanged"
	StatusStale     = "stale"
	StatusStdout    = "stdout"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// TableRow represents a single row in the outcome table.
type TableRow struct {
	File   string
	Output string
	Bytes  string
	Status string
}

// TableFormatter formats run outcomes as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter. A termWidth of 0 leaves
// the table at its natural width.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

// Status returns the STATUS column value of an outcome.
func Status(outcome runner.FileOutcome) string {
	switch {
	case outcome.Error != nil:
		return StatusFailed
	case outcome.Skipped:
		return StatusSkipped
	case outcome.Stale:
		return StatusStale
	case outcome.Output == "":
		return StatusStdout
	case outcome.Written:
		return StatusWritten
	default:
		return StatusUnchanged
	}
}

// Rows builds table rows for outcomes. rel shortens paths for display.
func Rows(outcomes []runner.FileOutcome, rel func(string) string) []TableRow {
	rows := make([]TableRow, 0, len(outcomes))
	for _, o := range outcomes {
		row := TableRow{
			File:   rel(o.Path),
			Status: Status(o),
		}
		switch row.Status {
		case StatusFailed:
			if kind := diag.KindOf(o.Error); kind != "" {
				row.Output = string(kind)
			} else {
				row.Output = string(runner.KindIO)
			}
		case StatusSkipped:
			row.Output = o.SkipReason
		default:
			row.Output = rel(o.Output)
			row.Bytes = strconv.Itoa(o.Bytes)
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatTable renders rows with a FILE, OUTPUT, BYTES and STATUS header.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.File, r.Output, r.Bytes, r.Status})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(t.styles.TableBorder).
		Headers("FILE", "OUTPUT", "BYTES", "STATUS").
		Rows(data...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.styles.TableHeader
			}
			switch rows[row].Status {
			case StatusFailed:
				return t.styles.TableFailed
			case StatusSkipped, StatusStale:
				return t.styles.TableSkipped
			case StatusWritten:
				return t.styles.TableWritten
			default:
				return t.styles.TableCell
			}
		})
	if t.termWidth > 0 {
		tbl = tbl.Width(t.termWidth)
	}

	return tbl.Render() + "\n"
}
