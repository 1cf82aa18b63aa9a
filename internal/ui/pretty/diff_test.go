package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/litpp/internal/ui/pretty"
	"github.com/yaklabco/litpp/pkg/textdiff"
)

func TestFormatDiff(t *testing.T) {
	styles := pretty.NewStyles(false)

	d := textdiff.Compute("doc.md", "doc.md (expanded)", "a\nold\n", "a\nnew\n")
	result := styles.FormatDiff(d)

	assert.Contains(t, result, "--- doc.md\n+++ doc.md (expanded)\n")
	assert.Contains(t, result, "@@ -1,2 +1,2 @@\n a\n-old\n+new\n")
	assert.Contains(t, result, "1 added, 1 removed")
}

func TestFormatDiff_Nil(t *testing.T) {
	styles := pretty.NewStyles(false)
	assert.Empty(t, styles.FormatDiff(nil))
}
