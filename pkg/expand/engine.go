// Package expand evaluates the macro calls of literate documents.
//
// The engine expands every prose and kept code span of a document in a
// single pass: calls are found by the macro scanner, evaluated depth-first
// through the builtin registry, and replaced by their results. Substituted
// text is not scanned again, except where a builtin such as include asks
// for a nested expansion.
package expand

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/litpp/internal/logging"
	"github.com/yaklabco/litpp/pkg/builtin"
	"github.com/yaklabco/litpp/pkg/diag"
	"github.com/yaklabco/litpp/pkg/fsutil"
	"github.com/yaklabco/litpp/pkg/literate"
	"github.com/yaklabco/litpp/pkg/macro"
	"github.com/yaklabco/litpp/pkg/splice"
	"github.com/yaklabco/litpp/pkg/textpos"
)

// Engine expands documents. An Engine is safe for concurrent use as long
// as each expansion has its own Context.
type Engine struct {
	// Registry resolves builtin names. Defaults to builtin.Default().
	Registry *builtin.Registry

	// Files is the shared file cache. Defaults to an OS-backed cache.
	Files *fsutil.Cache

	// Dialects selects the marker dialect in ExpandSource. Defaults to the
	// built-in dialects.
	Dialects *literate.DialectSet

	// MaxDepth is the nesting ceiling. Defaults to DefaultMaxDepth.
	MaxDepth int

	// Logger receives debug output. Defaults to the context logger.
	Logger *log.Logger
}

// New creates an engine with the default registry, an OS file cache and the
// built-in dialects.
func New() *Engine {
	return &Engine{
		Registry: builtin.Default(),
		Files:    fsutil.NewCache(),
		Dialects: literate.NewDialectSet(),
		MaxDepth: DefaultMaxDepth,
	}
}

// ExpandSource splits raw with the dialect chosen for path, expands it, and
// returns the assembled output.
func (e *Engine) ExpandSource(ctx context.Context, path, raw string) (string, error) {
	dialect := e.dialects().For(path, []byte(raw))
	doc, err := literate.Split(path, raw, dialect)
	if err != nil {
		return "", err
	}
	return e.Expand(ctx, doc, NewContext(path, e.MaxDepth))
}

// Expand expands the prose and kept code spans of doc and joins them.
// Discarded spans are dropped without being scanned.
func (e *Engine) Expand(ctx context.Context, doc *literate.Document, ectx *Context) (string, error) {
	index := textpos.NewIndex(doc.Raw)
	logger := e.logger(ctx)
	logger.Debug("expanding document",
		logging.FieldPath, doc.Path,
		logging.FieldDialect, doc.Dialect.Name,
		logging.FieldSpans, len(doc.Spans))

	var b strings.Builder
	b.Grow(len(doc.Raw))
	for _, span := range doc.Spans {
		if span.Kind == literate.CodeDiscarded {
			continue
		}
		out, err := e.expandText(ctx, span.Text, ectx, index, span.Start)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// ExpandText expands the macros of text as if it were the whole content of
// ectx.Path. Markers are not interpreted.
func (e *Engine) ExpandText(ctx context.Context, text string, ectx *Context) (string, error) {
	return e.expandText(ctx, text, ectx, textpos.NewIndex(text), 0)
}

// expandText expands one piece of text that starts at byte base of the
// file indexed by index.
func (e *Engine) expandText(ctx context.Context, text string, ectx *Context, index *textpos.Index, base int) (string, error) {
	if !macro.HasCalls(text) {
		return text, nil
	}

	segments, err := macro.Scan(text)
	if err != nil {
		return "", diag.Locate(err, ectx.Path, index, base)
	}

	var edits []splice.Edit
	for _, seg := range segments {
		if !seg.IsCall() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		out, err := e.evalCall(ctx, seg.Call, ectx, ectx.Depth)
		if err != nil {
			err = diag.Anchor(err, seg.Call.Start)
			return "", diag.Locate(err, ectx.Path, index, base)
		}
		edits = append(edits, splice.Edit{Start: seg.Start, End: seg.End, NewText: out})
	}

	return splice.Apply(text, edits)
}

// evalCall evaluates call and its nested calls at the given depth.
func (e *Engine) evalCall(ctx context.Context, call *macro.Call, ectx *Context, depth int) (string, error) {
	if err := ectx.check(depth); err != nil {
		return "", err
	}

	b, ok := e.registry().Lookup(call.Name)
	if !ok {
		return "", diag.Newf(diag.KindUnknownBuiltin, call.Start,
			"no builtin named %q (known: %s)", call.Name, strings.Join(e.registry().Names(), ", "))
	}

	positional := make([]any, len(call.Args))
	for i, arg := range call.Args {
		v, err := e.evalValue(ctx, arg, ectx, depth)
		if err != nil {
			return "", err
		}
		positional[i] = v
	}

	var fields []builtin.Field
	if call.Options != nil {
		for _, opt := range call.Options.Entries {
			v, err := e.evalValue(ctx, opt.Value, ectx, depth)
			if err != nil {
				return "", err
			}
			fields = append(fields, builtin.Field{Key: opt.Key, Value: v})
		}
	}

	args, err := b.Bind(positional, fields)
	if err != nil {
		return "", diag.Anchor(err, call.Start)
	}

	e.logger(ctx).Debug("calling builtin",
		logging.FieldCall, call.String(),
		logging.FieldPath, ectx.Path,
		logging.FieldDepth, depth)

	env := &callEnv{engine: e, ectx: ectx}
	out, err := b.Func(ctx, env, args)
	if err != nil {
		return "", diag.Anchor(err, call.Start)
	}
	return out, nil
}

// evalValue reduces an argument to a string, float64, bool or
// builtin.Record. Nested calls run one level deeper than their parent.
func (e *Engine) evalValue(ctx context.Context, v macro.Value, ectx *Context, depth int) (any, error) {
	switch v.Kind {
	case macro.ValueString:
		return v.Str, nil
	case macro.ValueNumber:
		return v.Num, nil
	case macro.ValueBool:
		return v.Bool, nil
	case macro.ValueIdent:
		return lookupIdent(v, ectx)
	case macro.ValueCall:
		out, err := e.evalCall(ctx, v.Call, ectx, depth+1)
		if err != nil {
			return nil, diag.Anchor(err, v.Call.Start)
		}
		return out, nil
	case macro.ValueOptions:
		record := make(builtin.Record, len(v.Options.Entries))
		for _, opt := range v.Options.Entries {
			val, err := e.evalValue(ctx, opt.Value, ectx, depth)
			if err != nil {
				return nil, err
			}
			record[opt.Key] = val
		}
		return record, nil
	case macro.ValueConcat:
		var b strings.Builder
		for _, part := range v.Parts {
			val, err := e.evalValue(ctx, part, ectx, depth)
			if err != nil {
				return nil, err
			}
			if _, ok := val.(builtin.Record); ok {
				return nil, diag.Newf(diag.KindArgumentType, part.Start, "cannot concatenate options")
			}
			b.WriteString(builtin.Stringify(val))
		}
		return b.String(), nil
	default:
		return nil, diag.Newf(diag.KindMalformedCall, v.Start, "unexpected %s value", v.Kind)
	}
}

// Context variables available as bare identifiers.
const (
	identSelf = "self"
	identFile = "file"
)

func lookupIdent(v macro.Value, ectx *Context) (any, error) {
	switch v.Str {
	case identSelf:
		return filepath.Base(ectx.Path), nil
	case identFile:
		return ectx.Path, nil
	default:
		return nil, diag.Newf(diag.KindMalformedCall, v.Start,
			"unknown identifier %q (known: %s, %s)", v.Str, identSelf, identFile)
	}
}

//nolint:gochecknoglobals // Shared fallbacks for zero-valued Engine fields.
var (
	defaultRegistry = sync.OnceValue(builtin.Default)
	defaultFiles    = sync.OnceValue(fsutil.NewCache)
	defaultDialects = sync.OnceValue(literate.NewDialectSet)
)

func (e *Engine) registry() *builtin.Registry {
	if e.Registry != nil {
		return e.Registry
	}
	return defaultRegistry()
}

// Cache returns the file cache used by the engine.
func (e *Engine) Cache() *fsutil.Cache {
	if e.Files != nil {
		return e.Files
	}
	return defaultFiles()
}

func (e *Engine) dialects() *literate.DialectSet {
	if e.Dialects != nil {
		return e.Dialects
	}
	return defaultDialects()
}

func (e *Engine) logger(ctx context.Context) *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.FromContext(ctx)
}
