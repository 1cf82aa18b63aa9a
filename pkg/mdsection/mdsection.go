// Package mdsection extracts heading-delimited sections from Markdown
// documents using goldmark.
package mdsection

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Flavor identifies the Markdown flavor used to find headings.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Heading is a top-level heading and the extent of its section.
type Heading struct {
	// Level is 1 to 6.
	Level int

	// Text is the plain text of the heading, trimmed.
	Text string

	// Line is the 1-based line the heading starts on.
	Line int

	// Start is the offset of the heading's first line. End is the offset
	// where the section ends: the next heading of the same or higher rank,
	// or the end of the document.
	Start int
	End   int
}

// Extractor finds sections in Markdown source.
type Extractor struct {
	flavor string
	md     goldmark.Markdown
}

// New creates an extractor for the given flavor. Unknown flavors fall back
// to CommonMark.
func New(flavor string) *Extractor {
	f := flavorOrDefault(flavor)
	return &Extractor{flavor: f, md: newGoldmarkInstance(f)}
}

// Flavor returns the configured Markdown flavor.
func (e *Extractor) Flavor() string {
	return e.flavor
}

// Headings returns the document-level headings of source in order.
// Headings nested in block quotes or lists do not delimit sections.
func (e *Extractor) Headings(source []byte) []Heading {
	doc := e.md.Parser().Parse(text.NewReader(source), parser.WithContext(parser.NewContext()))

	var headings []Heading
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		h, ok := child.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		start := lineStart(source, h.Lines().At(0).Start)
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(plainText(h, source)),
			Line:  bytes.Count(source[:start], []byte{'\n'}) + 1,
			Start: start,
		})
	}

	for i := range headings {
		headings[i].End = len(source)
		for _, next := range headings[i+1:] {
			if next.Level <= headings[i].Level {
				headings[i].End = next.Start
				break
			}
		}
	}

	return headings
}

// Section returns the section that starts at the first heading whose text
// equals title. A non-zero level also requires the heading level to match.
// The section includes its heading line.
func (e *Extractor) Section(source []byte, title string, level int) (string, bool) {
	for _, h := range e.Headings(source) {
		if h.Text != title || (level != 0 && h.Level != level) {
			continue
		}
		return string(source[h.Start:h.End]), true
	}
	return "", false
}

// plainText concatenates the literal text below an inline container.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func lineStart(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.LastIndexByte(source[:offset], '\n') + 1
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}
