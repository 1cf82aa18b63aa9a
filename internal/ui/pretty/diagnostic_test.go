package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/litpp/internal/ui/pretty"
	"github.com/yaklabco/litpp/pkg/diag"
)

func TestFormatError_Located(t *testing.T) {
	styles := pretty.NewStyles(false)

	err := &diag.Error{
		Kind:    diag.KindUnknownOption,
		Path:    "doc.c",
		Line:    3,
		Column:  5,
		Message: `unknown option "patern" (known: pattern, all)`,
	}

	result := styles.FormatError("doc.c", err, false, "")

	assert.Contains(t, result, "doc.c:3:5")
	assert.Contains(t, result, "error")
	assert.Contains(t, result, `unknown option "patern"`)
	assert.Contains(t, result, "(unknown-option)")
	assert.NotContains(t, result, "while expanding")
}

func TestFormatError_WithContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	err := &diag.Error{Kind: diag.KindMalformedCall, Path: "a.md", Line: 1, Column: 5, Message: "unterminated call"}
	result := styles.FormatError("a.md", err, true, "see @(include.raw(\"x\")")

	lines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, `        see @(include.raw("x")`, lines[1])
	assert.Equal(t, "            ^", lines[2])
}

func TestFormatError_IncludedFile(t *testing.T) {
	styles := pretty.NewStyles(false)

	err := &diag.Error{Kind: diag.KindPatternNotFound, Path: "inc.md", Line: 2, Column: 1}
	result := styles.FormatError("main.md", err, false, "")

	assert.Contains(t, result, "inc.md:2:1")
	assert.Contains(t, result, "while expanding main.md")
}

func TestFormatError_Plain(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatError("out.c", errors.New("write out.md: permission denied"), true, "ignored")

	assert.Contains(t, result, "out.c")
	assert.Contains(t, result, "permission denied")
	assert.NotContains(t, result, "^")
}

func TestFormatSourceContext_MultiByte(t *testing.T) {
	styles := pretty.NewStyles(false)

	// "é" is two bytes; column 4 is the byte after "é ".
	result := styles.FormatSourceContext("é @(x)", 4)
	assert.Equal(t, "        é @(x)\n          ^\n", result)
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.c -> a.md", styles.FormatFileHeader("a.c", "a.md"))
	assert.Equal(t, "a.c", styles.FormatFileHeader("a.c", ""))
}
