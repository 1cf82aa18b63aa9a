package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/litpp/pkg/textdiff"
)

// FormatDiff renders a unified diff with added and removed lines colored.
// A nil diff renders as nothing.
func (s *Styles) FormatDiff(d *textdiff.Diff) string {
	if d.Empty() {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(s.Bold.Render("--- "+d.OldName) + "\n")
	builder.WriteString(s.Bold.Render("+++ "+d.NewName) + "\n")

	for _, line := range strings.Split(strings.TrimSuffix(d.String(), "\n"), "\n")[2:] {
		switch {
		case strings.HasPrefix(line, "@@"):
			builder.WriteString(s.DiffHunk.Render(line))
		case strings.HasPrefix(line, "+"):
			builder.WriteString(s.DiffAdd.Render(line))
		case strings.HasPrefix(line, "-"):
			builder.WriteString(s.DiffRemove.Render(line))
		default:
			builder.WriteString(line)
		}
		builder.WriteString("\n")
	}

	builder.WriteString(s.Dim.Render(fmt.Sprintf("%d added, %d removed", d.Added, d.Removed)))
	builder.WriteString("\n")
	return builder.String()
}
