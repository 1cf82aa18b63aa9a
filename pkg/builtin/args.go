package builtin

import (
	"fmt"
	"strings"

	"github.com/yaklabco/litpp/pkg/diag"
)

// Args holds the bound arguments of one call, with option defaults applied.
type Args struct {
	call   string
	values map[string]any
}

// Bind checks positional values and options against the builtin's schema.
// Errors carry no offset; the caller anchors them to the call.
func (b *Builtin) Bind(positional []any, options []Field) (Args, error) {
	args := Args{call: b.Name, values: make(map[string]any, len(b.Params)+len(b.Options))}

	if len(positional) > len(b.Params) {
		return Args{}, diag.Newf(diag.KindMalformedCall, -1,
			"%s takes at most %d argument(s), got %d", b.Name, len(b.Params), len(positional))
	}

	for i, p := range b.Params {
		if i >= len(positional) {
			if p.Required {
				return Args{}, diag.Newf(diag.KindMissingArgument, -1,
					"%s: missing required argument %q", b.Name, p.Name)
			}
			continue
		}
		if !p.Kind.Accepts(positional[i]) {
			return Args{}, typeError(b.Name, "argument", p.Name, p.Kind, positional[i])
		}
		args.values[p.Name] = positional[i]
	}

	for _, o := range b.Options {
		if o.Default != nil {
			args.values[o.Name] = o.Default
		}
	}

	for _, f := range options {
		opt, ok := b.option(f.Key)
		if !ok {
			return Args{}, diag.Newf(diag.KindUnknownOption, -1,
				"%s has no option %q (known: %s)", b.Name, f.Key, b.optionNames())
		}
		if !opt.Kind.Accepts(f.Value) {
			return Args{}, typeError(b.Name, "option", f.Key, opt.Kind, f.Value)
		}
		args.values[f.Key] = f.Value
	}

	return args, nil
}

func (b *Builtin) option(name string) (Option, bool) {
	for _, o := range b.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

func (b *Builtin) optionNames() string {
	if len(b.Options) == 0 {
		return "none"
	}
	names := make([]string, len(b.Options))
	for i, o := range b.Options {
		names[i] = o.Name
	}
	return strings.Join(names, ", ")
}

func typeError(call, what, name string, want Kind, got any) error {
	kind, _ := KindOf(got)
	return diag.Newf(diag.KindArgumentType, -1, "%s: %s %q must be a %s, got %s", call, what, name, want, kind)
}

// Call returns the name of the bound builtin.
func (a Args) Call() string {
	return a.call
}

// Has reports whether name was given or has a default.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Value returns the raw value of name, or nil.
func (a Args) Value(name string) any {
	return a.values[name]
}

// String returns a string argument, or "" when absent.
func (a Args) String(name string) string {
	s, _ := a.values[name].(string)
	return s
}

// Number returns a numeric argument, or 0 when absent.
func (a Args) Number(name string) float64 {
	n, _ := a.values[name].(float64)
	return n
}

// Int returns an integer argument, or 0 when absent.
func (a Args) Int(name string) int {
	return int(a.Number(name))
}

// Bool returns a boolean argument, or false when absent.
func (a Args) Bool(name string) bool {
	v, _ := a.values[name].(bool)
	return v
}

// Record returns an options argument, or nil when absent.
func (a Args) Record(name string) Record {
	r, _ := a.values[name].(Record)
	return r
}

// Need returns an error of kind diag.KindMissingArgument unless name is
// present. Builtins use it for options that have no default but are
// mandatory.
func (a Args) Need(name string) error {
	if a.Has(name) {
		return nil
	}
	return diag.Newf(diag.KindMissingArgument, -1, "%s: missing required option %q", a.call, name)
}

// String describes the schema, e.g. include.raw(path, {pattern, all=false}).
func (b *Builtin) String() string {
	var parts []string
	for _, p := range b.Params {
		if p.Required {
			parts = append(parts, p.Name)
		} else {
			parts = append(parts, "["+p.Name+"]")
		}
	}
	if len(b.Options) > 0 {
		opts := make([]string, len(b.Options))
		for i, o := range b.Options {
			if o.Default != nil {
				opts[i] = fmt.Sprintf("%s=%s", o.Name, Stringify(o.Default))
			} else {
				opts[i] = o.Name
			}
		}
		parts = append(parts, "{"+strings.Join(opts, ", ")+"}")
	}
	return b.Name + "(" + strings.Join(parts, ", ") + ")"
}
