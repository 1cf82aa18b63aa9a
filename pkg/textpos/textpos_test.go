package textpos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/litpp/pkg/textpos"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []textpos.LineInfo
	}{
		{
			name:     "empty content",
			content:  "",
			expected: []textpos.LineInfo{},
		},
		{
			name:    "single line no newline",
			content: "hello",
			expected: []textpos.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 5},
			},
		},
		{
			name:    "single line with LF",
			content: "hello\n",
			expected: []textpos.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 6},
			},
		},
		{
			name:    "CRLF endings",
			content: "a\r\nb\r\n",
			expected: []textpos.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 3},
				{StartOffset: 3, NewlineStart: 4, EndOffset: 6},
			},
		},
		{
			name:    "multiple lines LF",
			content: "line1\nline2\nline3",
			expected: []textpos.LineInfo{
				{StartOffset: 0, NewlineStart: 5, EndOffset: 6},
				{StartOffset: 6, NewlineStart: 11, EndOffset: 12},
				{StartOffset: 12, NewlineStart: 17, EndOffset: 17},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, textpos.BuildLines(tc.content))
		})
	}
}

func TestIndexPosition(t *testing.T) {
	t.Parallel()

	idx := textpos.NewIndex("ab\ncde\nf")

	tests := []struct {
		offset int
		want   textpos.Position
	}{
		{0, textpos.Position{Line: 1, Column: 1}},
		{2, textpos.Position{Line: 1, Column: 3}},
		{3, textpos.Position{Line: 2, Column: 1}},
		{5, textpos.Position{Line: 2, Column: 3}},
		{7, textpos.Position{Line: 3, Column: 1}},
		{8, textpos.Position{Line: 3, Column: 2}},
		{-1, textpos.Position{}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, idx.Position(tc.offset), "offset %d", tc.offset)
	}
}

func TestIndexPositionTrailingNewline(t *testing.T) {
	t.Parallel()

	idx := textpos.NewIndex("x\n")
	assert.Equal(t, textpos.Position{Line: 2, Column: 1}, idx.Position(2))
	assert.Equal(t, 1, idx.LineCount())
}

func TestIndexLineContent(t *testing.T) {
	t.Parallel()

	idx := textpos.NewIndex("first\r\nsecond\n")
	assert.Equal(t, "first", idx.LineContent(1))
	assert.Equal(t, "second", idx.LineContent(2))
	assert.Empty(t, idx.LineContent(3))
	assert.Empty(t, idx.LineContent(0))
}

func TestPositionIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, textpos.Position{Line: 1, Column: 1}.IsValid())
	assert.False(t, textpos.Position{}.IsValid())
}
