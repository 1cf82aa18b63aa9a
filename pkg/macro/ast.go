// Package macro finds and parses macro calls embedded in document text.
//
// A call region starts with "@(" and ends at the parenthesis that balances
// it. Inside, a call names a dotted builtin and passes positional values and
// at most one group of keyword options:
//
//	@(include.raw("test.c", {pattern="//".."===%s*(.-)%s*$"}))
//
// Parsing only builds the call tree. Nested calls are evaluated by the
// expansion engine.
package macro

import (
	"fmt"
	"strings"
)

// ValueKind identifies the variant held by a Value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
	ValueOptions
	ValueCall
	ValueIdent
	ValueConcat
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "boolean"
	case ValueOptions:
		return "options"
	case ValueCall:
		return "call"
	case ValueIdent:
		return "identifier"
	case ValueConcat:
		return "concatenation"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is an unevaluated argument or option value.
type Value struct {
	Kind ValueKind

	// Str holds the decoded string, the number literal as written, or the
	// identifier name.
	Str string

	Num  float64
	Bool bool

	Options *Options
	Call    *Call

	// Parts are the operands of a ".." concatenation.
	Parts []Value

	// Start and End delimit the value in the scanned text.
	Start int
	End   int
}

// Option is one key=value entry of an options group.
type Option struct {
	Key   string
	Value Value

	// Start is the offset of the key.
	Start int
}

// Options is a brace-delimited group of keyword options in source order.
type Options struct {
	Entries []Option
	Start   int
	End     int
}

// Get returns the value of key.
func (o *Options) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	for _, e := range o.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Keys returns the option keys in source order.
func (o *Options) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.Entries))
	for i, e := range o.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Call is a parsed macro call.
type Call struct {
	// Name is the dotted builtin name, e.g. "include.raw".
	Name string

	Args    []Value
	Options *Options

	// Start and End delimit the call in the scanned text. For a top-level
	// call they cover the whole "@(...)" region.
	Start int
	End   int
}

// String renders the call name with its argument count, for logs.
func (c *Call) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	fmt.Fprintf(&b, "/%d", len(c.Args))
	if c.Options != nil {
		b.WriteString("{")
		b.WriteString(strings.Join(c.Options.Keys(), ","))
		b.WriteString("}")
	}
	return b.String()
}

// Segment is a piece of scanned text: either literal text or a call.
type Segment struct {
	// Text is the literal text, or the raw "@(...)" source of a call.
	Text string

	// Call is nil for literal text.
	Call *Call

	Start int
	End   int
}

// IsCall reports whether the segment is a macro call.
func (s Segment) IsCall() bool {
	return s.Call != nil
}
