package pretty_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/litpp/internal/ui/pretty"
	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/runner"
)

func TestRowsAndStatus(t *testing.T) {
	outcomes := []runner.FileOutcome{
		{Path: "/w/a.c", Output: "/w/a.md", Bytes: 10, Written: true},
		{Path: "/w/b.c", Output: "/w/b.md", Bytes: 3},
		{Path: "/w/c.c", Bytes: 7},
		{Path: "/w/d.md", Skipped: true, SkipReason: "output would overwrite the input"},
		{Path: "/w/e.c", Error: diag.Newf(diag.KindFileNotFound, 0, "x")},
		{Path: "/w/f.c", Error: errors.New("disk full")},
		{Path: "/w/g.c", Output: "/w/g.md", Bytes: 5, Stale: true},
	}
	rel := func(p string) string {
		if p == "" {
			return ""
		}
		return filepath.Base(p)
	}

	rows := pretty.Rows(outcomes, rel)

	assert.Equal(t, []pretty.TableRow{
		{File: "a.c", Output: "a.md", Bytes: "10", Status: pretty.StatusWritten},
		{File: "b.c", Output: "b.md", Bytes: "3", Status: pretty.StatusUnchanged},
		{File: "c.c", Output: "", Bytes: "7", Status: pretty.StatusStdout},
		{File: "d.md", Output: "output would overwrite the input", Status: pretty.StatusSkipped},
		{File: "e.c", Output: "file-not-found", Status: pretty.StatusFailed},
		{File: "f.c", Output: "io", Status: pretty.StatusFailed},
		{File: "g.c", Output: "g.md", Bytes: "5", Status: pretty.StatusStale},
	}, rows)
}

func TestFormatTable(t *testing.T) {
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	assert.Empty(t, formatter.FormatTable(nil))

	out := formatter.FormatTable([]pretty.TableRow{
		{File: "a.c", Output: "a.md", Bytes: "10", Status: pretty.StatusWritten},
		{File: "e.c", Output: "file-not-found", Status: pretty.StatusFailed},
	})

	for _, want := range []string{"FILE", "OUTPUT", "BYTES", "STATUS", "a.c", "a.md", "written", "file-not-found", "failed"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "FILE"), strings.Index(out, "a.c"))
	assert.Less(t, strings.Index(out, "a.c"), strings.Index(out, "e.c"))
}
