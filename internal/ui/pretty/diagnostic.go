package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/litpp/pkg/diag"
)

// FormatError formats the failure of one document for terminal output.
// path is the document; located expansion errors point into the file they
// carry, which may be an included file. sourceLine is the text of the
// reported line, or empty to omit the context.
func (s *Styles) FormatError(path string, err error, showContext bool, sourceLine string) string {
	var builder strings.Builder

	var de *diag.Error
	if !errors.As(err, &de) {
		builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			s.FilePath.Render(path),
			s.Error.Render("error"),
			s.Message.Render(err.Error()),
		))
		return builder.String()
	}

	location := s.FormatLocation(de, path)
	message := de.Message
	if de.Err != nil {
		message += ": " + de.Err.Error()
	}

	// Main line: location  error  message  (kind)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(message),
		s.Kind.Render("("+string(de.Kind)+")"),
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, de.Column))
	}

	if de.Path != "" && de.Path != path {
		builder.WriteString("    " + s.Dim.Render("while expanding "+path) + "\n")
	}

	return builder.String()
}

// FormatLocation renders path:line:col for a located error, falling back to
// the document path.
func (s *Styles) FormatLocation(de *diag.Error, path string) string {
	if de.Path != "" {
		path = de.Path
	}
	if de.Line <= 0 {
		return s.FilePath.Render(path)
	}
	return fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), de.Line, de.Column)
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with error output
	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", caretOffset(line, column))
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// caretOffset converts a 1-based byte column into the number of runes
// before it.
func caretOffset(line string, column int) int {
	if column-1 > len(line) {
		column = len(line) + 1
	}
	return len([]rune(line[:column-1]))
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, output string) string {
	header := s.FilePath.Render(path)
	if output != "" {
		header += s.Dim.Render(" -> " + output)
	}
	return header
}
