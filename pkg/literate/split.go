package literate

import (
	"strings"

	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/textpos"
)

type state int

const (
	stateTop state = iota
	stateProse
	stateCode
	stateDiscard
)

// splitter tracks the open blocks while scanning lines.
type splitter struct {
	doc     *Document
	dialect Dialect
	index   *textpos.Index

	state        state
	discardOuter state

	// open holds the markers of currently open blocks, innermost last.
	open []Marker

	spanStart int
}

// Split classifies raw into spans according to dialect. Marker lines are
// recorded in Document.Markers and excluded from every span. Misplaced or
// unclosed markers fail with a diag.KindUnbalancedMarker error naming the
// marker kind and line.
func Split(path, raw string, dialect Dialect) (*Document, error) {
	s := &splitter{
		doc:     &Document{Path: path, Raw: raw, Dialect: dialect},
		dialect: dialect,
		index:   textpos.NewIndex(raw),
	}

	for lineIdx, line := range s.index.Lines() {
		content := strings.TrimSpace(raw[line.StartOffset:line.NewlineStart])
		if content == "" {
			continue
		}

		kind, ok := s.classify(content)
		if !ok {
			continue
		}

		marker := Marker{Kind: kind, Line: lineIdx + 1, Start: line.StartOffset, End: line.EndOffset}
		if err := s.apply(marker); err != nil {
			return nil, err
		}
	}

	if len(s.open) > 0 {
		unclosed := s.open[len(s.open)-1]
		return nil, s.errorAt(unclosed, "%s at line %d is never closed", unclosed.Kind, unclosed.Line)
	}

	s.closeSpan(len(raw))
	return s.doc, nil
}

// classify decides whether a trimmed line is a marker in the current state.
// Closing tokens of the innermost block win over opening tokens so that
// toggle markers (open == close) work.
func (s *splitter) classify(line string) (MarkerKind, bool) {
	d := s.dialect

	switch s.state {
	case stateProse:
		if d.ProseClose == line {
			return ProseClose, true
		}
	case stateCode:
		if d.CodeClose == line {
			return CodeClose, true
		}
	case stateDiscard:
		if d.DiscardClose == line {
			return DiscardClose, true
		}
	}

	candidates := []struct {
		token string
		kind  MarkerKind
	}{
		{d.ProseOpen, ProseOpen},
		{d.CodeOpen, CodeOpen},
		{d.DiscardOpen, DiscardOpen},
		{d.ProseClose, ProseClose},
		{d.CodeClose, CodeClose},
		{d.DiscardClose, DiscardClose},
	}
	for _, c := range candidates {
		if c.token != "" && c.token == line {
			return c.kind, true
		}
	}

	return 0, false
}

func (s *splitter) apply(m Marker) error {
	switch m.Kind {
	case ProseOpen:
		if s.state != stateTop {
			return s.misplaced(m)
		}
		s.push(m, stateProse)

	case CodeOpen:
		if s.state != stateTop {
			return s.misplaced(m)
		}
		s.push(m, stateCode)

	case DiscardOpen:
		inCode := s.state == stateCode || (s.state == stateTop && s.dialect.TopLevel == CodeKept)
		if !inCode {
			return s.errorAt(m, "%s outside a code block", m.Kind)
		}
		s.discardOuter = s.state
		s.push(m, stateDiscard)

	case ProseClose, CodeClose, DiscardClose:
		if !s.closes(m.Kind) {
			return s.errorAt(m, "%s without matching open", m.Kind)
		}
		s.pop(m)
	}

	return nil
}

func (s *splitter) closes(kind MarkerKind) bool {
	switch s.state {
	case stateProse:
		return kind == ProseClose
	case stateCode:
		return kind == CodeClose
	case stateDiscard:
		return kind == DiscardClose
	default:
		return false
	}
}

func (s *splitter) push(m Marker, next state) {
	s.closeSpan(m.Start)
	s.doc.Markers = append(s.doc.Markers, m)
	s.open = append(s.open, m)
	s.state = next
	s.spanStart = m.End
}

func (s *splitter) pop(m Marker) {
	s.closeSpan(m.Start)
	s.doc.Markers = append(s.doc.Markers, m)
	s.open = s.open[:len(s.open)-1]
	if s.state == stateDiscard {
		s.state = s.discardOuter
	} else {
		s.state = stateTop
	}
	s.spanStart = m.End
}

// closeSpan ends the current span at end, dropping empty spans.
func (s *splitter) closeSpan(end int) {
	if end <= s.spanStart {
		return
	}
	s.doc.Spans = append(s.doc.Spans, Span{
		Kind:  s.kind(),
		Start: s.spanStart,
		End:   end,
		Text:  s.doc.Raw[s.spanStart:end],
	})
}

func (s *splitter) kind() Kind {
	switch s.state {
	case stateProse:
		return Prose
	case stateCode:
		return CodeKept
	case stateDiscard:
		return CodeDiscarded
	default:
		return s.dialect.TopLevel
	}
}

func (s *splitter) misplaced(m Marker) error {
	outer := s.open[len(s.open)-1]
	return s.errorAt(m, "%s inside %s block opened at line %d", m.Kind, blockName(outer.Kind), outer.Line)
}

func (s *splitter) errorAt(m Marker, format string, args ...any) error {
	err := diag.Newf(diag.KindUnbalancedMarker, m.Start, format, args...)
	return diag.Locate(err, s.doc.Path, s.index, 0)
}

func blockName(kind MarkerKind) string {
	switch kind {
	case ProseOpen:
		return "prose"
	case CodeOpen:
		return "code"
	default:
		return "discard"
	}
}
