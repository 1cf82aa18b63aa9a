// Package textpos maps byte offsets in document text to 1-based line and
// column positions.
package textpos

import "sort"

// LineInfo describes where a line starts and ends in the content.
type LineInfo struct {
	// StartOffset is the byte index of the first character of the line.
	StartOffset int

	// NewlineStart is the byte index where the line ending begins
	// (position of \r in CRLF, or of \n). Equals EndOffset on the last line
	// when there is no trailing newline.
	NewlineStart int

	// EndOffset is the byte index just past the line ending (exclusive).
	EndOffset int
}

// Position is a 1-based line and column. Columns count bytes, not runes.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Index is a line table over a piece of text.
type Index struct {
	content string
	lines   []LineInfo
}

// NewIndex builds the line table for content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func NewIndex(content string) *Index {
	return &Index{content: content, lines: BuildLines(content)}
}

// BuildLines constructs line metadata from content.
func BuildLines(content string) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx := 0; idx < len(content); idx++ {
		if content[idx] != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// Last line may not have a trailing newline.
	if lineStart < len(content) {
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: len(content),
			EndOffset:    len(content),
		})
	}

	return lines
}

// Lines returns the line table.
func (x *Index) Lines() []LineInfo {
	return x.lines
}

// LineCount returns the number of lines.
func (x *Index) LineCount() int {
	return len(x.lines)
}

// Position converts a byte offset to a 1-based line and column.
// Offsets at or past the end of content map to the position just after
// the last character. Negative offsets return the zero Position.
func (x *Index) Position(offset int) Position {
	if offset < 0 {
		return Position{}
	}
	if len(x.lines) == 0 {
		return Position{Line: 1, Column: 1}
	}

	if offset >= len(x.content) {
		last := x.lines[len(x.lines)-1]
		if last.EndOffset > last.NewlineStart {
			// Content ends with a newline: the end sits on a fresh line.
			return Position{Line: len(x.lines) + 1, Column: 1}
		}
		return Position{Line: len(x.lines), Column: len(x.content) - last.StartOffset + 1}
	}

	lineIdx := sort.Search(len(x.lines), func(i int) bool {
		return x.lines[i].EndOffset > offset
	})
	if lineIdx >= len(x.lines) {
		lineIdx = len(x.lines) - 1
	}

	info := x.lines[lineIdx]
	return Position{Line: lineIdx + 1, Column: offset - info.StartOffset + 1}
}

// LineContent returns the text of a 1-based line, excluding the line ending.
// Returns "" if the line number is out of range.
func (x *Index) LineContent(line int) string {
	if line < 1 || line > len(x.lines) {
		return ""
	}
	info := x.lines[line-1]
	return x.content[info.StartOffset:info.NewlineStart]
}
