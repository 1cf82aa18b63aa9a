// Package splice replaces byte ranges of a text with new content.
//
// The expansion engine records one Edit per evaluated macro call and applies
// them in a single pass, so every replacement is computed against the
// original text and substituted text is never scanned again.
package splice

import (
	"fmt"
	"sort"
	"strings"
)

// Edit replaces text[Start:End] with NewText.
type Edit struct {
	// Start is the byte index where the edit begins (inclusive).
	Start int

	// End is the byte index where the edit ends (exclusive).
	End int

	// NewText is the replacement text.
	NewText string
}

// RangeError describes an edit whose range does not fit the text.
type RangeError struct {
	Edit    Edit
	Message string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.Start, e.Edit.End, e.Message)
}

// OverlapError describes two edits whose ranges partially overlap.
type OverlapError struct {
	First  Edit
	Second Edit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.End, e.Second.Start, e.Second.End)
}

// Validate checks that every edit lies within a text of length textLen.
func Validate(edits []Edit, textLen int) error {
	for _, edit := range edits {
		switch {
		case edit.Start < 0:
			return &RangeError{Edit: edit, Message: "start offset is negative"}
		case edit.End < edit.Start:
			return &RangeError{Edit: edit, Message: "end offset is before start offset"}
		case edit.End > textLen:
			return &RangeError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds text length %d", edit.End, textLen),
			}
		}
	}
	return nil
}

// Sort orders edits by start offset, then by end offset.
func Sort(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}
		return edits[i].End < edits[j].End
	})
}

// CheckOverlaps returns an error if two edits of a sorted slice overlap.
func CheckOverlaps(edits []Edit) error {
	for i := 1; i < len(edits); i++ {
		if edits[i].Start < edits[i-1].End {
			return &OverlapError{First: edits[i-1], Second: edits[i]}
		}
	}
	return nil
}

// Apply validates, sorts and applies edits to text.
func Apply(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	if err := Validate(edits, len(text)); err != nil {
		return "", err
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	Sort(sorted)

	if err := CheckOverlaps(sorted); err != nil {
		return "", err
	}

	delta := 0
	for _, e := range sorted {
		delta += len(e.NewText) - (e.End - e.Start)
	}

	var out strings.Builder
	out.Grow(len(text) + delta)

	cursor := 0
	for _, e := range sorted {
		out.WriteString(text[cursor:e.Start])
		out.WriteString(e.NewText)
		cursor = e.End
	}
	out.WriteString(text[cursor:])

	return out.String(), nil
}
