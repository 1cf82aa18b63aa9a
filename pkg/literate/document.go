// Package literate splits literate source files into classified spans and
// joins them back into the assembled output.
//
// A file is read line by line. Lines whose only content is a block marker
// switch the classification of the text that follows; the marker lines
// themselves are removed from the output. Which tokens act as markers, and
// how unmarked text is classified, is defined by a Dialect.
package literate

import "fmt"

// Kind classifies a span of document text.
type Kind int

const (
	// Prose is documentation text.
	Prose Kind = iota
	// CodeKept is code that appears in the output.
	CodeKept
	// CodeDiscarded is code that is dropped from the output.
	CodeDiscarded
)

func (k Kind) String() string {
	switch k {
	case Prose:
		return "prose"
	case CodeKept:
		return "code"
	case CodeDiscarded:
		return "discarded"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the configuration spelling of a top-level kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "prose":
		return Prose, nil
	case "code":
		return CodeKept, nil
	default:
		return 0, fmt.Errorf("unknown span kind %q (expected prose or code)", s)
	}
}

// MarkerKind identifies a block marker.
type MarkerKind int

const (
	ProseOpen MarkerKind = iota
	ProseClose
	CodeOpen
	CodeClose
	DiscardOpen
	DiscardClose
)

func (k MarkerKind) String() string {
	switch k {
	case ProseOpen:
		return "prose-open"
	case ProseClose:
		return "prose-close"
	case CodeOpen:
		return "code-open"
	case CodeClose:
		return "code-close"
	case DiscardOpen:
		return "discard-open"
	case DiscardClose:
		return "discard-close"
	default:
		return fmt.Sprintf("MarkerKind(%d)", int(k))
	}
}

// Span is a classified, contiguous range of the raw text.
type Span struct {
	Kind Kind

	// Start and End are byte offsets into the raw text (End exclusive).
	Start int
	End   int

	// Text is raw[Start:End].
	Text string
}

// Marker is a stripped marker line.
type Marker struct {
	Kind MarkerKind

	// Line is the 1-based line number of the marker.
	Line int

	// Start and End cover the whole line including its line ending.
	Start int
	End   int
}

// Document is one input file split into spans.
//
// Spans and Markers together partition Raw: every byte belongs to exactly
// one span or one marker line.
type Document struct {
	Path    string
	Raw     string
	Dialect Dialect
	Spans   []Span
	Markers []Marker
}

// Join concatenates the Prose and CodeKept spans in order.
func Join(doc *Document) string {
	size := 0
	for _, span := range doc.Spans {
		if span.Kind != CodeDiscarded {
			size += len(span.Text)
		}
	}

	buf := make([]byte, 0, size)
	for _, span := range doc.Spans {
		if span.Kind != CodeDiscarded {
			buf = append(buf, span.Text...)
		}
	}
	return string(buf)
}
