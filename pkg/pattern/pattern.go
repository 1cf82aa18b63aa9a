// Package pattern implements the search-pattern dialect used to extract text
// from files.
//
// The dialect is the Lua pattern language restricted to at most one capture:
//
//	x        a literal character (anything not listed below)
//	.        any single character
//	%a %c %d %g %l %p %s %u %w %x
//	         letters, controls, digits, printable non-space, lower case,
//	         punctuation, spaces, upper case, alphanumerics, hex digits;
//	         the upper-case letter is the complement (%S = non-space)
//	%y       y literally, for any non-alphanumeric y (%% %. %( ...)
//	[set]    any character in set; ranges a-z and classes allowed;
//	         [^set] is the complement
//	*  +     zero-or-more / one-or-more, longest match
//	-        zero-or-more, shortest match
//	?        optional
//	^        at the start of the pattern: anchor at the search start
//	$        at the end of the pattern: anchor at end of text
//	( )      the capture
//
// Matching is leftmost-first with deterministic backtracking.
package pattern

import (
	"fmt"

	"github.com/yaklabco/litpp/pkg/diag"
)

type itemKind int

const (
	itemLiteral itemKind = iota
	itemAny
	itemClass
	itemSet
	itemCaptureOpen
	itemCaptureClose
	itemEnd
)

type setRange struct {
	lo, hi byte
}

type item struct {
	kind  itemKind
	lit   byte
	class byte // class letter for itemClass, e.g. 's' or 'S'

	// itemSet
	negate  bool
	ranges  []setRange
	classes []byte

	quant byte // 0, '*', '+', '-', '?'
}

// Pattern is a compiled search pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	source     string
	items      []item
	anchored   bool
	hasCapture bool
}

// MatchResult describes the outcome of a search.
type MatchResult struct {
	// Matched is false when the pattern was not found.
	Matched bool

	// Start and End delimit the whole match in the text (End exclusive).
	Start int
	End   int

	// Full is the whole matched text.
	Full string

	// Captured is the text spanned by the capture, or Full when the
	// pattern has no capture.
	Captured string

	// CaptureStart is the offset of Captured in the text.
	CaptureStart int
}

// Compile parses a pattern. Errors are of kind diag.KindPatternSyntax.
func Compile(src string) (*Pattern, error) {
	c := compiler{src: src}
	return c.compile()
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string) *Pattern {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text of the pattern.
func (p *Pattern) String() string {
	return p.source
}

// HasCapture reports whether the pattern declares a capture.
func (p *Pattern) HasCapture() bool {
	return p.hasCapture
}

// FindFirst returns the leftmost match at or after start.
func (p *Pattern) FindFirst(text string, start int) MatchResult {
	if start < 0 {
		start = 0
	}
	for init := start; init <= len(text); init++ {
		if res, ok := p.matchAt(text, init); ok {
			return res
		}
		if p.anchored {
			break
		}
	}
	return MatchResult{}
}

// FindAll returns all successive non-overlapping matches in order of
// appearance. An empty match advances the search by one byte.
func (p *Pattern) FindAll(text string) []MatchResult {
	var results []MatchResult

	pos := 0
	for pos <= len(text) {
		res := p.FindFirst(text, pos)
		if !res.Matched {
			break
		}
		results = append(results, res)
		if p.anchored {
			break
		}
		if res.End > res.Start {
			pos = res.End
		} else {
			pos = res.End + 1
		}
	}

	return results
}

func (p *Pattern) matchAt(text string, init int) (MatchResult, bool) {
	m := matcher{text: text, items: p.items, capStart: -1, capEnd: -1}

	end := m.match(init, 0)
	if end < 0 {
		return MatchResult{}, false
	}

	res := MatchResult{
		Matched: true,
		Start:   init,
		End:     end,
		Full:    text[init:end],
	}
	if p.hasCapture {
		res.Captured = text[m.capStart:m.capEnd]
		res.CaptureStart = m.capStart
	} else {
		res.Captured = res.Full
		res.CaptureStart = init
	}
	return res, true
}

type compiler struct {
	src string
	pos int
}

func (c *compiler) errorf(pos int, format string, args ...any) error {
	return diag.Newf(diag.KindPatternSyntax, -1, "pattern %q at position %d: %s",
		c.src, pos, fmt.Sprintf(format, args...))
}

func (c *compiler) compile() (*Pattern, error) {
	p := &Pattern{source: c.src}

	if len(c.src) > 0 && c.src[0] == '^' {
		p.anchored = true
		c.pos = 1
	}

	captureOpen := -1
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		switch {
		case ch == '(':
			if p.hasCapture {
				return nil, c.errorf(c.pos, "at most one capture is allowed")
			}
			if c.pos+1 < len(c.src) && c.src[c.pos+1] == ')' {
				return nil, c.errorf(c.pos, "empty capture")
			}
			p.hasCapture = true
			captureOpen = c.pos
			p.items = append(p.items, item{kind: itemCaptureOpen})
			c.pos++

		case ch == ')':
			if captureOpen < 0 {
				return nil, c.errorf(c.pos, "unbalanced ')'")
			}
			captureOpen = -1
			p.items = append(p.items, item{kind: itemCaptureClose})
			c.pos++

		case ch == '$' && c.pos == len(c.src)-1:
			p.items = append(p.items, item{kind: itemEnd})
			c.pos++

		default:
			it, err := c.single()
			if err != nil {
				return nil, err
			}
			if c.pos < len(c.src) {
				switch q := c.src[c.pos]; q {
				case '*', '+', '-', '?':
					it.quant = q
					c.pos++
				}
			}
			p.items = append(p.items, it)
		}
	}

	if captureOpen >= 0 {
		return nil, c.errorf(captureOpen, "unfinished capture")
	}

	return p, nil
}

// single parses one single-character item at c.pos.
func (c *compiler) single() (item, error) {
	start := c.pos
	ch := c.src[c.pos]

	switch ch {
	case '.':
		c.pos++
		return item{kind: itemAny}, nil

	case '%':
		if c.pos+1 >= len(c.src) {
			return item{}, c.errorf(start, "pattern ends with '%%'")
		}
		esc := c.src[c.pos+1]
		c.pos += 2
		switch {
		case isClassLetter(esc):
			return item{kind: itemClass, class: esc}, nil
		case esc == 'b' || esc == 'f':
			return item{}, c.errorf(start, "'%%%c' is not supported", esc)
		case isDigit(esc):
			return item{}, c.errorf(start, "back-references are not supported")
		case isAlnum(esc):
			return item{}, c.errorf(start, "unknown class '%%%c'", esc)
		default:
			return item{kind: itemLiteral, lit: esc}, nil
		}

	case '[':
		return c.set()

	default:
		c.pos++
		return item{kind: itemLiteral, lit: ch}, nil
	}
}

// set parses a bracketed set starting at c.pos ('[').
func (c *compiler) set() (item, error) {
	start := c.pos
	it := item{kind: itemSet}
	c.pos++

	if c.pos < len(c.src) && c.src[c.pos] == '^' {
		it.negate = true
		c.pos++
	}

	first := true
	for {
		if c.pos >= len(c.src) {
			return item{}, c.errorf(start, "missing ']'")
		}
		ch := c.src[c.pos]
		if ch == ']' && !first {
			c.pos++
			return it, nil
		}
		first = false

		if ch == '%' {
			if c.pos+1 >= len(c.src) {
				return item{}, c.errorf(c.pos, "missing ']'")
			}
			esc := c.src[c.pos+1]
			c.pos += 2
			if isClassLetter(esc) {
				it.classes = append(it.classes, esc)
			} else {
				it.ranges = append(it.ranges, setRange{lo: esc, hi: esc})
			}
			continue
		}

		if c.pos+2 < len(c.src) && c.src[c.pos+1] == '-' && c.src[c.pos+2] != ']' {
			it.ranges = append(it.ranges, setRange{lo: ch, hi: c.src[c.pos+2]})
			c.pos += 3
			continue
		}

		it.ranges = append(it.ranges, setRange{lo: ch, hi: ch})
		c.pos++
	}
}
