package macro_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/macro"
)

func TestScanLiteralOnly(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"plain text",
		"email me @ home (not a call)",
		"an @ sign then ( later",
	}

	for _, text := range tests {
		segments, err := macro.Scan(text)
		require.NoError(t, err)
		if text == "" {
			assert.Empty(t, segments)
			continue
		}
		require.Len(t, segments, 1)
		assert.False(t, segments[0].IsCall())
		assert.Equal(t, text, segments[0].Text)
	}
}

func TestScanFlagshipCall(t *testing.T) {
	t.Parallel()

	text := "The code is:\n@(include.raw(\"test.c\", {pattern=\"//\"..\"===%s*(.-)%s*$\"}))\nend"

	segments, err := macro.Scan(text)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, "The code is:\n", segments[0].Text)
	assert.Equal(t, "\nend", segments[2].Text)

	call := segments[1].Call
	require.NotNil(t, call)
	assert.Equal(t, "include.raw", call.Name)
	assert.Equal(t, 13, call.Start)
	assert.Equal(t, len(text)-4, call.End)
	assert.Equal(t, text[call.Start:call.End], segments[1].Text)

	require.Len(t, call.Args, 1)
	assert.Equal(t, macro.ValueString, call.Args[0].Kind)
	assert.Equal(t, "test.c", call.Args[0].Str)

	assert.Equal(t, []string{"pattern"}, call.Options.Keys())
	pattern, ok := call.Options.Get("pattern")
	require.True(t, ok)
	require.Equal(t, macro.ValueConcat, pattern.Kind)
	require.Len(t, pattern.Parts, 2)
	assert.Equal(t, "//", pattern.Parts[0].Str)
	assert.Equal(t, "===%s*(.-)%s*$", pattern.Parts[1].Str)
}

func TestScanParenthesesInStrings(t *testing.T) {
	t.Parallel()

	text := `@(f("a)b", 'c(d', "e\")f"))tail`

	segments, err := macro.Scan(text)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	call := segments[0].Call
	require.NotNil(t, call)
	require.Len(t, call.Args, 3)
	assert.Equal(t, "a)b", call.Args[0].Str)
	assert.Equal(t, "c(d", call.Args[1].Str)
	assert.Equal(t, `e")f`, call.Args[2].Str)
	assert.Equal(t, "tail", segments[1].Text)
}

func TestScanMultipleAndAdjacentCalls(t *testing.T) {
	t.Parallel()

	text := "a@(x())@(y())b@@(z())"

	segments, err := macro.Scan(text)
	require.NoError(t, err)

	var names []string
	var literal string
	for _, seg := range segments {
		if seg.IsCall() {
			names = append(names, seg.Call.Name)
		} else {
			literal += seg.Text
		}
	}
	assert.Equal(t, []string{"x", "y", "z"}, names)
	assert.Equal(t, "ab@", literal)
}

func TestScanSegmentsCoverText(t *testing.T) {
	t.Parallel()

	text := "one @(a.b(1, true, {k='v'})) two @(c(@(d()))) three"

	segments, err := macro.Scan(text)
	require.NoError(t, err)

	pos := 0
	for _, seg := range segments {
		assert.Equal(t, pos, seg.Start)
		assert.Equal(t, text[seg.Start:seg.End], seg.Text)
		pos = seg.End
	}
	assert.Equal(t, len(text), pos)
}

func TestScanErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		kind   error
		offset int
	}{
		{
			name:   "unterminated region",
			text:   `x @(include.raw("x")`,
			kind:   diag.ErrMalformedCall,
			offset: 2,
		},
		{
			name:   "unterminated string",
			text:   `@(include.raw("x))`,
			kind:   diag.ErrMalformedCall,
			offset: 14,
		},
		{
			name:   "missing name",
			text:   `@(("x"))`,
			kind:   diag.ErrMalformedCall,
			offset: 2,
		},
		{
			name:   "trailing garbage",
			text:   `@(f() g)`,
			kind:   diag.ErrMalformedCall,
			offset: 6,
		},
		{
			name:   "unbalanced brace",
			text:   `@(f({a=1))`,
			kind:   diag.ErrMalformedCall,
			offset: 8,
		},
		{
			name:   "two options groups",
			text:   `@(f({a=1}, {b=2}))`,
			kind:   diag.ErrMalformedCall,
			offset: 11,
		},
		{
			name:   "duplicate option",
			text:   `@(f({a=1, a=2}))`,
			kind:   diag.ErrDuplicateOption,
			offset: 10,
		},
		{
			name:   "bad character",
			text:   `@(f(#))`,
			kind:   diag.ErrMalformedCall,
			offset: 4,
		},
		{
			name:   "empty region",
			text:   `@()`,
			kind:   diag.ErrMalformedCall,
			offset: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := macro.Scan(tc.text)
			require.ErrorIs(t, err, tc.kind)

			var de *diag.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tc.offset, de.Offset)
		})
	}
}
