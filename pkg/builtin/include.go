package builtin

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/mdsection"
	"github.com/yaklabco/litpp/pkg/pattern"
	"github.com/yaklabco/litpp/pkg/textpos"
)

// Builtin names.
const (
	NameIncludeRaw     = "include.raw"
	NameInclude        = "include"
	NameIncludeSection = "include.section"
	NameIncludeLines   = "include.lines"
)

func pathParam() []Param {
	return []Param{{Name: "path", Kind: KindString, Required: true}}
}

func patternOptions() []Option {
	return []Option{
		{Name: "pattern", Kind: KindString},
		{Name: "all", Kind: KindBool, Default: false},
	}
}

// IncludeRaw returns the include.raw builtin: the content of a file, or the
// text a pattern extracts from it, inserted without further expansion.
func IncludeRaw() Builtin {
	return Builtin{
		Name:    NameIncludeRaw,
		Summary: "insert a file, or the part of it matched by a pattern",
		Params:  pathParam(),
		Options: patternOptions(),
		Func: func(ctx context.Context, env Env, args Args) (string, error) {
			_, pieces, err := extract(ctx, env, args)
			if err != nil {
				return "", err
			}
			texts := make([]string, len(pieces))
			for i, p := range pieces {
				texts[i] = p.text
			}
			return strings.Join(texts, "\n"), nil
		},
	}
}

// Include returns the include builtin. It extracts like include.raw and then
// expands the macros of the extracted text in the context of the included
// file.
func Include() Builtin {
	return Builtin{
		Name:    NameInclude,
		Summary: "insert a file, or part of it, and expand its macros",
		Params:  pathParam(),
		Options: patternOptions(),
		Func: func(ctx context.Context, env Env, args Args) (string, error) {
			path, pieces, err := extract(ctx, env, args)
			if err != nil {
				return "", err
			}
			expanded := make([]string, len(pieces))
			for i, p := range pieces {
				if expanded[i], err = env.Expand(ctx, path, p.text, p.offset); err != nil {
					return "", err
				}
			}
			return strings.Join(expanded, "\n"), nil
		},
	}
}

// IncludeSection returns the include.section builtin, which inserts the
// Markdown section under a heading.
func IncludeSection(extractor *mdsection.Extractor) Builtin {
	return Builtin{
		Name:    NameIncludeSection,
		Summary: "insert the Markdown section under a heading",
		Params:  pathParam(),
		Options: []Option{
			{Name: "heading", Kind: KindString},
			{Name: "level", Kind: KindInt, Default: float64(0)},
		},
		Func: func(ctx context.Context, env Env, args Args) (string, error) {
			if err := args.Need("heading"); err != nil {
				return "", err
			}
			path, content, err := read(ctx, env, args.String("path"))
			if err != nil {
				return "", err
			}

			heading, level := args.String("heading"), args.Int("level")
			section, ok := extractor.Section([]byte(content), heading, level)
			if !ok {
				return "", diag.Newf(diag.KindPatternNotFound, -1, "no heading %q in %s", heading, path)
			}
			return section, nil
		},
	}
}

// IncludeLines returns the include.lines builtin, which inserts a 1-based
// inclusive line range. A "to" of 0 means the last line.
func IncludeLines() Builtin {
	return Builtin{
		Name:    NameIncludeLines,
		Summary: "insert a range of lines from a file",
		Params:  pathParam(),
		Options: []Option{
			{Name: "from", Kind: KindInt, Default: float64(1)},
			{Name: "to", Kind: KindInt, Default: float64(0)},
		},
		Func: func(ctx context.Context, env Env, args Args) (string, error) {
			path, content, err := read(ctx, env, args.String("path"))
			if err != nil {
				return "", err
			}

			lines := textpos.BuildLines(content)
			from, to := args.Int("from"), args.Int("to")
			if to == 0 {
				to = len(lines)
			}
			if from < 1 || from > to || to > len(lines) {
				return "", diag.Newf(diag.KindPatternNotFound, -1,
					"line range %d..%d is outside %s (%d lines)", from, args.Int("to"), path, len(lines))
			}
			return content[lines[from-1].StartOffset:lines[to-1].EndOffset], nil
		},
	}
}

// piece is extracted text and its offset in the file it came from.
type piece struct {
	text   string
	offset int
}

// extract reads the file named by the path argument and applies the
// pattern options. It returns the resolved path and the extracted pieces:
// the whole file, the first match, or every match with all=true.
func extract(ctx context.Context, env Env, args Args) (string, []piece, error) {
	path, content, err := read(ctx, env, args.String("path"))
	if err != nil {
		return "", nil, err
	}
	if !args.Has("pattern") {
		return path, []piece{{text: content}}, nil
	}

	src := args.String("pattern")
	pat, err := pattern.Compile(src)
	if err != nil {
		return "", nil, err
	}

	var matches []pattern.MatchResult
	if args.Bool("all") {
		matches = pat.FindAll(content)
	} else if m := pat.FindFirst(content, 0); m.Matched {
		matches = append(matches, m)
	}
	if len(matches) == 0 {
		return "", nil, notFound(src, path)
	}

	pieces := make([]piece, len(matches))
	for i, m := range matches {
		pieces[i] = piece{text: m.Captured, offset: m.CaptureStart}
	}
	return path, pieces, nil
}

func notFound(src, path string) error {
	return diag.Newf(diag.KindPatternNotFound, -1, "pattern %q not found in %s", src, path)
}

// read resolves name against the directory of the current document and
// reads it through the environment.
func read(ctx context.Context, env Env, name string) (string, string, error) {
	path := Resolve(env.File(), name)

	content, err := env.Read(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", "", err
		}
		return "", "", diag.Wrap(diag.KindFileNotFound, -1, err, "cannot read %s", name)
	}
	return path, content, nil
}

// Resolve interprets name relative to the directory of the file current.
// Absolute names are returned cleaned.
func Resolve(current, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(filepath.Dir(current), name)
}
