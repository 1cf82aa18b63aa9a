package mdsection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/litpp/pkg/mdsection"
)

const guide = `# Guide

Intro.

## Install

Run the installer.

### From source

Build it.

## Usage

Use it.

> ## Quoted
> not a section
`

func TestHeadings(t *testing.T) {
	t.Parallel()

	headings := mdsection.New(mdsection.FlavorGFM).Headings([]byte(guide))
	require.Len(t, headings, 4)

	var titles []string
	for _, h := range headings {
		titles = append(titles, h.Text)
	}
	assert.Equal(t, []string{"Guide", "Install", "From source", "Usage"}, titles)

	assert.Equal(t, 1, headings[0].Line)
	assert.Equal(t, 0, headings[0].Start)
	assert.Equal(t, len(guide), headings[0].End)
	assert.Equal(t, 5, headings[1].Line)
	assert.Equal(t, 3, headings[2].Level)
}

func TestSection(t *testing.T) {
	t.Parallel()

	ex := mdsection.New("")
	assert.Equal(t, mdsection.FlavorCommonMark, ex.Flavor())

	tests := []struct {
		name  string
		title string
		level int
		want  string
		found bool
	}{
		{
			name:  "stops at same level",
			title: "Install",
			want:  "## Install\n\nRun the installer.\n\n### From source\n\nBuild it.\n\n",
			found: true,
		},
		{
			name:  "deeper heading ends at parent sibling",
			title: "From source",
			want:  "### From source\n\nBuild it.\n\n",
			found: true,
		},
		{
			name:  "level mismatch",
			title: "Install",
			level: 3,
		},
		{
			name:  "level match",
			title: "Usage",
			level: 2,
			want:  "## Usage\n\nUse it.\n\n> ## Quoted\n> not a section\n",
			found: true,
		},
		{
			name:  "absent",
			title: "Quoted",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ex.Section([]byte(guide), tc.title, tc.level)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSectionInlineMarkup(t *testing.T) {
	t.Parallel()

	src := "Title\n=====\n\nbody\n\n## The `answer` *function*\n\ncode\n"
	ex := mdsection.New(mdsection.FlavorCommonMark)

	got, ok := ex.Section([]byte(src), "The answer function", 0)
	require.True(t, ok)
	assert.Equal(t, "## The `answer` *function*\n\ncode\n", got)

	got, ok = ex.Section([]byte(src), "Title", 1)
	require.True(t, ok)
	assert.Equal(t, src, got)
}
