package diag_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/textpos"
)

func TestErrorIsSentinel(t *testing.T) {
	t.Parallel()

	err := diag.Newf(diag.KindUnknownOption, 4, "unknown option %q", "patern")

	assert.ErrorIs(t, err, diag.ErrUnknownOption)
	assert.NotErrorIs(t, err, diag.ErrMissingArgument)

	wrapped := fmt.Errorf("expand doc.c: %w", err)
	assert.ErrorIs(t, wrapped, diag.ErrUnknownOption)
	assert.Equal(t, diag.KindUnknownOption, diag.KindOf(wrapped))
}

func TestErrorUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk on fire")
	err := diag.Wrap(diag.KindFileNotFound, -1, cause, "cannot read %s", "x.c")

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, diag.ErrFileNotFound)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *diag.Error
		want string
	}{
		{
			name: "located",
			err: &diag.Error{
				Kind: diag.KindMalformedCall, Path: "doc.c", Line: 3, Column: 7,
				Message: "unterminated call",
			},
			want: "doc.c:3:7: malformed call: unterminated call",
		},
		{
			name: "offset only",
			err:  diag.Newf(diag.KindPatternSyntax, 2, "unbalanced %s", "("),
			want: "offset 2: pattern syntax error: unbalanced (",
		},
		{
			name: "no location",
			err:  diag.Newf(diag.KindPatternNotFound, -1, "no match"),
			want: "pattern not found: no match",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	index := textpos.NewIndex("one\ntwo @(x\n")
	err := diag.Newf(diag.KindMalformedCall, 2, "unterminated")

	located := diag.Locate(err, "doc.md", index, 6)

	var de *diag.Error
	require.ErrorAs(t, located, &de)
	assert.Equal(t, "doc.md", de.Path)
	assert.Equal(t, 8, de.Offset)
	assert.Equal(t, 2, de.Line)
	assert.Equal(t, 5, de.Column)

	// A second pass from an enclosing document leaves the location alone.
	diag.Locate(located, "outer.md", textpos.NewIndex("zzz"), 100)
	assert.Equal(t, "doc.md", de.Path)
	assert.Equal(t, 8, de.Offset)
}

func TestLocateIgnoresForeignErrors(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")
	assert.Same(t, plain, diag.Locate(plain, "x", nil, 0))
}

func TestAnchor(t *testing.T) {
	t.Parallel()

	err := diag.Newf(diag.KindFileNotFound, -1, "missing")
	diag.Anchor(err, 12)
	assert.Equal(t, 12, err.Offset)

	diag.Anchor(err, 40)
	assert.Equal(t, 12, err.Offset, "known offsets are kept")
}
