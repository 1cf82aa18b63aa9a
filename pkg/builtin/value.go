package builtin

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the type of an evaluated argument value.
type Kind int

const (
	// KindAny accepts every value.
	KindAny Kind = iota
	KindString
	KindNumber
	// KindInt is a number without a fractional part.
	KindInt
	KindBool
	KindOptions
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindOptions:
		return "options"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Record is an evaluated options group.
type Record map[string]any

// Field is one evaluated option in source order.
type Field struct {
	Key   string
	Value any
}

// KindOf returns the kind of an evaluated value: string, float64, bool or
// Record. Integral numbers report KindInt.
func KindOf(v any) (Kind, bool) {
	switch x := v.(type) {
	case string:
		return KindString, true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return KindInt, true
		}
		return KindNumber, true
	case bool:
		return KindBool, true
	case Record:
		return KindOptions, true
	default:
		return KindAny, false
	}
}

// Accepts reports whether v may be passed where k is expected.
func (k Kind) Accepts(v any) bool {
	got, ok := KindOf(v)
	if !ok {
		return false
	}
	switch k {
	case KindAny:
		return true
	case KindNumber:
		return got == KindNumber || got == KindInt
	default:
		return got == k
	}
}

// Stringify renders an evaluated value as text, the way it is substituted
// into a document or concatenated with "..".
func Stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
