package literate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/literate"
)

func cDialect(t *testing.T) literate.Dialect {
	t.Helper()
	d, ok := literate.NewDialectSet().Lookup(literate.DialectC)
	require.True(t, ok)
	return d
}

func markdownDialect(t *testing.T) literate.Dialect {
	t.Helper()
	d, ok := literate.NewDialectSet().Lookup(literate.DialectMarkdown)
	require.True(t, ok)
	return d
}

const reversedSource = `/*@@@
# Title
@@@*/

int x;
//---
#include <assert.h>
//---
int y;
`

func TestSplitReversed(t *testing.T) {
	t.Parallel()

	doc, err := literate.Split("a.c", reversedSource, cDialect(t))
	require.NoError(t, err)

	kinds := make([]literate.Kind, 0, len(doc.Spans))
	for _, span := range doc.Spans {
		kinds = append(kinds, span.Kind)
	}
	assert.Equal(t, []literate.Kind{
		literate.Prose, literate.CodeKept, literate.CodeDiscarded, literate.CodeKept,
	}, kinds)

	assert.Equal(t, "# Title\n", doc.Spans[0].Text)
	assert.Equal(t, "#include <assert.h>\n", doc.Spans[2].Text)

	require.Len(t, doc.Markers, 4)
	assert.Equal(t, literate.ProseOpen, doc.Markers[0].Kind)
	assert.Equal(t, 1, doc.Markers[0].Line)
	assert.Equal(t, literate.DiscardClose, doc.Markers[3].Kind)
	assert.Equal(t, 8, doc.Markers[3].Line)

	assert.Equal(t, "# Title\n\nint x;\nint y;\n", literate.Join(doc))
}

func TestSplitPartitionsText(t *testing.T) {
	t.Parallel()

	doc, err := literate.Split("a.c", reversedSource, cDialect(t))
	require.NoError(t, err)

	type piece struct{ start, end int }
	pieces := make([]piece, 0, len(doc.Spans)+len(doc.Markers))
	for _, span := range doc.Spans {
		assert.Equal(t, reversedSource[span.Start:span.End], span.Text)
		pieces = append(pieces, piece{span.Start, span.End})
	}
	for _, m := range doc.Markers {
		pieces = append(pieces, piece{m.Start, m.End})
	}

	covered := make([]int, len(reversedSource))
	for _, p := range pieces {
		for i := p.start; i < p.end; i++ {
			covered[i]++
		}
	}
	for i, n := range covered {
		assert.Equal(t, 1, n, "byte %d covered %d times", i, n)
	}
}

func TestJoinStripsOnlyMarkers(t *testing.T) {
	t.Parallel()

	raw := "intro\n<!-- code -->\nx := 1\n<!-- discard -->\nsecret()\n<!-- /discard -->\n<!-- /code -->\noutro\n"

	doc, err := literate.Split("doc.md", raw, markdownDialect(t))
	require.NoError(t, err)

	joined := literate.Join(doc)
	assert.Equal(t, "intro\nx := 1\noutro\n", joined)
	assert.NotContains(t, joined, "secret")
	assert.NotContains(t, joined, "<!--")
}

func TestSplitWithoutMarkersIsIdentity(t *testing.T) {
	t.Parallel()

	raw := "just text\n  with lines\nno markers"
	doc, err := literate.Split("doc.md", raw, markdownDialect(t))
	require.NoError(t, err)

	require.Len(t, doc.Spans, 1)
	assert.Equal(t, literate.Prose, doc.Spans[0].Kind)
	assert.Equal(t, raw, literate.Join(doc))
}

func TestSplitMarkersAllowSurroundingWhitespace(t *testing.T) {
	t.Parallel()

	raw := "  /*@@@  \r\nprose\r\n\t@@@*/\r\ncode\r\n"
	doc, err := literate.Split("a.c", raw, cDialect(t))
	require.NoError(t, err)

	assert.Equal(t, "prose\r\ncode\r\n", literate.Join(doc))
}

func TestSplitMarkerMustBeAloneOnLine(t *testing.T) {
	t.Parallel()

	raw := "int a; //---\nint b;\n"
	doc, err := literate.Split("a.c", raw, cDialect(t))
	require.NoError(t, err)
	assert.Equal(t, raw, literate.Join(doc))
}

func TestSplitUnbalanced(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		dialect func(*testing.T) literate.Dialect
		line    int
		message string
	}{
		{
			name:    "unclosed prose",
			raw:     "int x;\n/*@@@\ntext\n",
			dialect: cDialect,
			line:    2,
			message: "prose-open at line 2 is never closed",
		},
		{
			name:    "close without open",
			raw:     "int x;\n@@@*/\n",
			dialect: cDialect,
			line:    2,
			message: "prose-close without matching open",
		},
		{
			name:    "unclosed discard",
			raw:     "a\n//---\nb\n",
			dialect: cDialect,
			line:    2,
			message: "discard-open at line 2 is never closed",
		},
		{
			name:    "discard inside prose",
			raw:     "/*@@@\n//---\n@@@*/\n",
			dialect: cDialect,
			line:    2,
			message: "discard-open outside a code block",
		},
		{
			name:    "discard at prose top level",
			raw:     "text\n<!-- discard -->\nx\n<!-- /discard -->\n",
			dialect: markdownDialect,
			line:    2,
			message: "discard-open outside a code block",
		},
		{
			name:    "nested code block",
			raw:     "<!-- code -->\n<!-- code -->\n",
			dialect: markdownDialect,
			line:    2,
			message: "code-open inside code block opened at line 1",
		},
		{
			name:    "code close inside discard",
			raw:     "<!-- code -->\n<!-- discard -->\n<!-- /code -->\n",
			dialect: markdownDialect,
			line:    3,
			message: "code-close without matching open",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := literate.Split("doc", tc.raw, tc.dialect(t))
			require.ErrorIs(t, err, diag.ErrUnbalancedMarker)

			var de *diag.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "doc", de.Path)
			assert.Equal(t, tc.line, de.Line)
			assert.Equal(t, tc.message, de.Message)
		})
	}
}

func TestSplitOriginalSample(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"/*@@@",
		"## Fibonacci sequence",
		"@@@*/",
		"",
		"int fib(int n) {",
		"    return n <= 1 ? 1 : fib(n-1) + fib(n-2);",
		"}",
		"",
	}, "\n")

	doc, err := literate.Split("test2.c", raw, cDialect(t))
	require.NoError(t, err)

	joined := literate.Join(doc)
	assert.True(t, strings.HasPrefix(joined, "## Fibonacci sequence\n\nint fib"))
}
