// Package diag defines the error taxonomy of the preprocessor.
//
// Every failure that aborts a document's expansion is a *Error carrying a
// Kind and, when determinable, the file path and source location of the
// offending construct. Each Kind has a sentinel so callers can test with
// errors.Is, and errors.As recovers the full location.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/litpp/pkg/textpos"
)

// Kind classifies an expansion failure.
type Kind string

const (
	KindPatternSyntax          Kind = "pattern-syntax"
	KindMalformedCall          Kind = "malformed-call"
	KindDuplicateOption        Kind = "duplicate-option"
	KindUnknownOption          Kind = "unknown-option"
	KindMissingArgument        Kind = "missing-argument"
	KindArgumentType           Kind = "argument-type"
	KindUnknownBuiltin         Kind = "unknown-builtin"
	KindFileNotFound           Kind = "file-not-found"
	KindPatternNotFound        Kind = "pattern-not-found"
	KindRecursionLimitExceeded Kind = "recursion-limit-exceeded"
	KindUnbalancedMarker       Kind = "unbalanced-marker"
)

// Sentinel errors, one per Kind.
var (
	ErrPatternSyntax          = errors.New("pattern syntax error")
	ErrMalformedCall          = errors.New("malformed call")
	ErrDuplicateOption        = errors.New("duplicate option")
	ErrUnknownOption          = errors.New("unknown option")
	ErrMissingArgument        = errors.New("missing argument")
	ErrArgumentType           = errors.New("argument type mismatch")
	ErrUnknownBuiltin         = errors.New("unknown builtin")
	ErrFileNotFound           = errors.New("file not found")
	ErrPatternNotFound        = errors.New("pattern not found")
	ErrRecursionLimitExceeded = errors.New("recursion limit exceeded")
	ErrUnbalancedMarker       = errors.New("unbalanced marker")
)

//nolint:gochecknoglobals // Read-only lookup table.
var sentinels = map[Kind]error{
	KindPatternSyntax:          ErrPatternSyntax,
	KindMalformedCall:          ErrMalformedCall,
	KindDuplicateOption:        ErrDuplicateOption,
	KindUnknownOption:          ErrUnknownOption,
	KindMissingArgument:        ErrMissingArgument,
	KindArgumentType:           ErrArgumentType,
	KindUnknownBuiltin:         ErrUnknownBuiltin,
	KindFileNotFound:           ErrFileNotFound,
	KindPatternNotFound:        ErrPatternNotFound,
	KindRecursionLimitExceeded: ErrRecursionLimitExceeded,
	KindUnbalancedMarker:       ErrUnbalancedMarker,
}

// Sentinel returns the sentinel error for the kind, or nil for an unknown kind.
func (k Kind) Sentinel() error {
	return sentinels[k]
}

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	if s := sentinels[k]; s != nil {
		return s.Error()
	}
	return string(k)
}

// Error is a located expansion failure.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Path is the file the offending construct lives in. Empty when unknown.
	Path string

	// Offset is the byte offset of the construct in the file, or -1.
	Offset int

	// Line and Column are 1-based; zero when not determined.
	Line   int
	Column int

	// Message describes the failure.
	Message string

	// Err is an optional underlying cause.
	Err error
}

// Newf creates an Error of the given kind at a byte offset.
// Pass -1 when the offset is unknown.
func Newf(kind Kind, offset int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error of the given kind with an underlying cause.
func Wrap(kind Kind, offset int, err error, format string, args ...any) *Error {
	e := Newf(kind, offset, format, args...)
	e.Err = err
	return e
}

func (e *Error) Error() string {
	var b strings.Builder

	if e.Path != "" {
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
		}
		b.WriteString(": ")
	} else if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Line, e.Column)
	} else if e.Offset >= 0 {
		fmt.Fprintf(&b, "offset %d: ", e.Offset)
	}

	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && target == s
}

// Located reports whether the error already carries a file location.
func (e *Error) Located() bool {
	return e.Path != "" && e.Line > 0
}

// Locate fills in the path and line/column of err if it is a *Error that
// has not been located yet. base is added to the error's offset before the
// position is looked up in index; it is how offsets relative to a span or
// call region are turned into file offsets.
//
// Errors that already carry a line (for example, raised while expanding an
// included file) keep their location. Non-diag errors are returned as-is.
func Locate(err error, path string, index *textpos.Index, base int) error {
	var de *Error
	if !errors.As(err, &de) {
		return err
	}

	if de.Path == "" {
		de.Path = path
	}
	if de.Line > 0 || de.Offset < 0 {
		return err
	}

	de.Offset += base
	if index != nil {
		pos := index.Position(de.Offset)
		de.Line, de.Column = pos.Line, pos.Column
	}
	return err
}

// Anchor sets the offset of err to offset when err is an unlocated *Error
// whose own offset is unknown. Builtins report failures without knowing
// where their call sits; the engine anchors them to the call.
func Anchor(err error, offset int) error {
	var de *Error
	if errors.As(err, &de) && !de.Located() && de.Path == "" && de.Offset < 0 {
		de.Offset = offset
	}
	return err
}

// KindOf returns the Kind of err, or "" if err is not a *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
