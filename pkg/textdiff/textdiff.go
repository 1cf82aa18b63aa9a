// Package textdiff computes line-based unified diffs. It backs check mode,
// which compares expanded documents with the outputs already on disk.
package textdiff

import (
	"fmt"
	"strings"
)

// Op is the kind of a diff line.
type Op int

const (
	// Equal is a context line present on both sides.
	Equal Op = iota

	// Delete is a line present only in the old text.
	Delete

	// Insert is a line present only in the new text.
	Insert
)

func (op Op) prefix() byte {
	switch op {
	case Delete:
		return '-'
	case Insert:
		return '+'
	default:
		return ' '
	}
}

// Line is one line of a hunk, without its line ending.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
	Lines              []Line
}

// Diff is the difference between two texts.
type Diff struct {
	OldName string
	NewName string
	Hunks   []Hunk

	// Added and Removed count inserted and deleted lines.
	Added   int
	Removed int
}

// ContextLines is the number of unchanged lines kept around each change.
const ContextLines = 3

// Compute returns the diff from oldText to newText, or nil when they have
// the same lines.
func Compute(oldName, newName, oldText, newText string) *Diff {
	a, b := splitLines(oldText), splitLines(newText)
	ops := lineOps(a, b)

	d := &Diff{OldName: oldName, NewName: newName}
	for _, op := range ops {
		switch op.Op {
		case Insert:
			d.Added++
		case Delete:
			d.Removed++
		}
	}
	if d.Added == 0 && d.Removed == 0 {
		return nil
	}
	d.Hunks = hunks(ops)
	return d
}

// Empty reports whether d has no changes. A nil diff is empty.
func (d *Diff) Empty() bool {
	return d == nil || len(d.Hunks) == 0
}

// String renders d in unified format.
func (d *Diff) String() string {
	if d.Empty() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", d.OldName, d.NewName)
	for _, h := range d.Hunks {
		fmt.Fprintf(&b, "@@ -%s +%s @@\n", span(h.OldStart, h.OldCount), span(h.NewStart, h.NewCount))
		for _, l := range h.Lines {
			b.WriteByte(l.Op.prefix())
			b.WriteString(l.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// span formats a hunk range. An empty range names the line before it.
func span(start, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", start-1)
	}
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// splitLines splits text into lines. A final line ending does not start an
// extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// lineOps aligns a and b along a longest common subsequence. The common
// prefix and suffix are matched directly to keep the table small.
func lineOps(a, b []string) []Line {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]Line, 0, len(a)+len(b))
	for _, l := range a[:prefix] {
		ops = append(ops, Line{Equal, l})
	}

	midA, midB := a[prefix:len(a)-suffix], b[prefix:len(b)-suffix]

	// lcs[i][j] is the LCS length of midA[i:] and midB[j:].
	lcs := make([][]int, len(midA)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(midB)+1)
	}
	for i := len(midA) - 1; i >= 0; i-- {
		for j := len(midB) - 1; j >= 0; j-- {
			if midA[i] == midB[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < len(midA) || j < len(midB) {
		switch {
		case i < len(midA) && j < len(midB) && midA[i] == midB[j]:
			ops = append(ops, Line{Equal, midA[i]})
			i++
			j++
		case j == len(midB) || (i < len(midA) && lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, Line{Delete, midA[i]})
			i++
		default:
			ops = append(ops, Line{Insert, midB[j]})
			j++
		}
	}

	for _, l := range a[len(a)-suffix:] {
		ops = append(ops, Line{Equal, l})
	}
	return ops
}

// hunks groups ops into hunks. Changes separated by at most twice the
// context share a hunk.
func hunks(ops []Line) []Hunk {
	var out []Hunk
	oldLine, newLine := 1, 1

	for idx := 0; idx < len(ops); {
		if ops[idx].Op == Equal {
			oldLine++
			newLine++
			idx++
			continue
		}

		// Back up over leading context.
		start := max(idx-ContextLines, 0)
		for k := start; k < idx; k++ {
			if ops[k].Op == Equal {
				oldLine--
				newLine--
			}
		}
		h := Hunk{OldStart: oldLine, NewStart: newLine}

		end := idx
		for end < len(ops) {
			if ops[end].Op != Equal {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].Op == Equal {
				run++
			}
			if run == len(ops) || run-end > 2*ContextLines {
				end = min(end+ContextLines, len(ops))
				break
			}
			end = run
		}

		for _, op := range ops[start:end] {
			h.Lines = append(h.Lines, op)
			if op.Op != Insert {
				h.OldCount++
				oldLine++
			}
			if op.Op != Delete {
				h.NewCount++
				newLine++
			}
		}
		out = append(out, h)
		idx = end
	}
	return out
}
