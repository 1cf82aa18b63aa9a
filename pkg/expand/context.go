package expand

import "github.com/yaklabco/litpp/pkg/diag"

// DefaultMaxDepth is the default nesting ceiling for calls and includes.
const DefaultMaxDepth = 32

// Context is the state of one top-level expansion request: the file whose
// text is being expanded and how deeply calls and includes are nested.
// A Context belongs to a single document and is never shared.
type Context struct {
	// Path is the current file. Relative include paths resolve against its
	// directory.
	Path string

	// Depth is 0 for the document itself and grows by one for every nested
	// call argument and every include.
	Depth int

	// MaxDepth is the ceiling for Depth.
	MaxDepth int
}

// NewContext creates the context for expanding the file at path. A
// non-positive maxDepth selects DefaultMaxDepth.
func NewContext(path string, maxDepth int) *Context {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Context{Path: path, MaxDepth: maxDepth}
}

// Child returns the context for expanding text taken from path one level
// deeper. It fails with diag.KindRecursionLimitExceeded past the ceiling.
func (c *Context) Child(path string) (*Context, error) {
	if err := c.check(c.Depth + 1); err != nil {
		return nil, err
	}
	return &Context{Path: path, Depth: c.Depth + 1, MaxDepth: c.MaxDepth}, nil
}

func (c *Context) check(depth int) error {
	if depth > c.MaxDepth {
		return diag.Newf(diag.KindRecursionLimitExceeded, -1,
			"nesting depth %d exceeds the limit of %d", depth, c.MaxDepth)
	}
	return nil
}
