package pretty

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/litpp/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files expanded (2 written, 1 unchanged), 1 failed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No files to expand.") + "\n"
	}

	var parts []string

	expanded := fmt.Sprintf("%d %s expanded", stats.FilesExpanded, plural(stats.FilesExpanded))
	if stats.FilesFailed == 0 {
		expanded = s.Success.Render(expanded)
	}
	var detail []string
	if stats.FilesWritten > 0 {
		detail = append(detail, fmt.Sprintf("%d written", stats.FilesWritten))
	}
	if stats.FilesUnchanged > 0 {
		detail = append(detail, fmt.Sprintf("%d unchanged", stats.FilesUnchanged))
	}
	if stats.FilesStale > 0 {
		detail = append(detail, fmt.Sprintf("%d stale", stats.FilesStale))
	}
	if len(detail) > 0 {
		expanded += s.Dim.Render(" (" + strings.Join(detail, ", ") + ")")
	}
	parts = append(parts, expanded)

	if stats.FilesFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesFailed)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files found:       " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files expanded:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesExpanded)) + "\n")

	if stats.FilesWritten > 0 {
		builder.WriteString("    Written:         " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesUnchanged > 0 {
		builder.WriteString("    Unchanged:       " +
			s.SummaryValue.Render(strconv.Itoa(stats.FilesUnchanged)) + "\n")
	}
	if stats.FilesStale > 0 {
		builder.WriteString("    Stale:           " +
			s.Warning.Render(strconv.Itoa(stats.FilesStale)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.Warning.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesFailed > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesFailed)) + "\n")
		for _, kind := range slices.Sorted(maps.Keys(stats.FailuresByKind)) {
			builder.WriteString(fmt.Sprintf("    %-17s%s\n",
				string(kind)+":",
				s.Error.Render(strconv.Itoa(stats.FailuresByKind[kind]))))
		}
	}

	if total := stats.CacheHits + stats.CacheMisses; total > 0 {
		builder.WriteString(fmt.Sprintf("  File reads:        %s\n",
			s.Dim.Render(fmt.Sprintf("%d (%d cached)", total, stats.CacheHits))))
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesFailed > 0:
		builder.WriteString(s.Failure.Render("Expansion failed"))
	case stats.FilesStale > 0:
		builder.WriteString(s.Failure.Render("Outputs out of date"))
	default:
		builder.WriteString(s.Success.Render("Expansion succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
