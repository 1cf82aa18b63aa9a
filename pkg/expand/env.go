package expand

import (
	"context"

	"github.com/yaklabco/litpp/internal/logging"
	"github.com/yaklabco/litpp/pkg/textpos"
)

// callEnv is the builtin.Env of a call evaluated in ectx.
type callEnv struct {
	engine *Engine
	ectx   *Context
}

func (c *callEnv) File() string {
	return c.ectx.Path
}

func (c *callEnv) Read(ctx context.Context, path string) (string, error) {
	return c.engine.Cache().Read(ctx, path)
}

// Expand expands text taken from path at offset one level deeper. Errors
// inside the text are located in path.
func (c *callEnv) Expand(ctx context.Context, path, text string, offset int) (string, error) {
	child, err := c.ectx.Child(path)
	if err != nil {
		return "", err
	}

	c.engine.logger(ctx).Debug("expanding include",
		logging.FieldPath, path,
		logging.FieldDepth, child.Depth)

	index := textpos.NewIndex(text)
	base := 0
	if content, err := c.Read(ctx, path); err == nil && offset >= 0 && offset+len(text) <= len(content) {
		index, base = textpos.NewIndex(content), offset
	}

	return c.engine.expandText(ctx, text, child, index, base)
}
