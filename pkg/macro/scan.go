package macro

import (
	"strings"

	"github.com/yaklabco/litpp/pkg/diag"
)

// callOpen starts a call region.
const callOpen = "@("

// HasCalls reports whether text contains a call region opener.
func HasCalls(text string) bool {
	return strings.Contains(text, callOpen)
}

// Scan splits text into literal segments and parsed calls, left to right.
// Literal text is returned unchanged. Offsets in errors and in the returned
// calls are relative to text.
func Scan(text string) ([]Segment, error) {
	var segments []Segment

	pos := 0
	for pos < len(text) {
		idx := strings.Index(text[pos:], callOpen)
		if idx < 0 {
			break
		}
		open := pos + idx

		closing, err := regionEnd(text, open)
		if err != nil {
			return nil, err
		}

		call, err := ParseCall(text[open+len(callOpen):closing], open+len(callOpen))
		if err != nil {
			return nil, err
		}
		call.Start, call.End = open, closing+1

		if open > pos {
			segments = append(segments, Segment{Text: text[pos:open], Start: pos, End: open})
		}
		segments = append(segments, Segment{Text: text[open : closing+1], Call: call, Start: open, End: closing + 1})
		pos = closing + 1
	}

	if pos < len(text) {
		segments = append(segments, Segment{Text: text[pos:], Start: pos, End: len(text)})
	}

	return segments, nil
}

// regionEnd returns the offset of the ')' that closes the region opened at
// open. Parentheses inside quoted strings do not count, and a backslash in
// a string escapes the next byte.
func regionEnd(text string, open int) (int, error) {
	depth := 1
	var quote byte
	quoteStart := -1

	for i := open + len(callOpen); i < len(text); i++ {
		c := text[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
			quoteStart = i
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}

	if quote != 0 {
		return 0, diag.Newf(diag.KindMalformedCall, quoteStart, "unterminated string")
	}
	return 0, diag.Newf(diag.KindMalformedCall, open, "unterminated macro call")
}
