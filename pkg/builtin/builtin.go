// Package builtin defines the closed set of functions that macro calls can
// invoke, their argument schemas, and the registry that maps dotted names
// to them.
package builtin

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Env is what a builtin sees of the expansion in progress.
type Env interface {
	// File is the path of the document being expanded.
	File() string

	// Read returns the content of a file through the shared file cache.
	Read(ctx context.Context, path string) (string, error)

	// Expand expands the macros in text, which was taken from path at the
	// given byte offset, one level deeper than the current expansion.
	Expand(ctx context.Context, path, text string, offset int) (string, error)
}

// Func implements a builtin.
type Func func(ctx context.Context, env Env, args Args) (string, error)

// Param is a positional parameter.
type Param struct {
	Name     string
	Kind     Kind
	Required bool
}

// Option is a keyword option. A nil Default means the option is absent
// unless given.
type Option struct {
	Name    string
	Kind    Kind
	Default any
}

// Builtin is a named function with its argument schema.
type Builtin struct {
	Name    string
	Summary string
	Params  []Param
	Options []Option
	Func    Func
}

// Validate checks the schema.
func (b *Builtin) Validate() error {
	var errs []error

	if !validName(b.Name) {
		errs = append(errs, fmt.Errorf("invalid builtin name %q", b.Name))
	}
	if b.Func == nil {
		errs = append(errs, fmt.Errorf("builtin %s: no function", b.Name))
	}

	seen := make(map[string]bool)
	optional := false
	for _, p := range b.Params {
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("builtin %s: duplicate name %q", b.Name, p.Name))
		}
		seen[p.Name] = true
		if p.Required && optional {
			errs = append(errs, fmt.Errorf("builtin %s: required parameter %q follows an optional one", b.Name, p.Name))
		}
		optional = optional || !p.Required
	}
	for _, o := range b.Options {
		if seen[o.Name] {
			errs = append(errs, fmt.Errorf("builtin %s: duplicate name %q", b.Name, o.Name))
		}
		seen[o.Name] = true
		if o.Default != nil && !o.Kind.Accepts(o.Default) {
			errs = append(errs, fmt.Errorf("builtin %s: default of option %q is not a %s", b.Name, o.Name, o.Kind))
		}
	}

	return errors.Join(errs...)
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for i, c := range part {
			letter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
			if !letter && (i == 0 || c < '0' || c > '9') {
				return false
			}
		}
	}
	return true
}

// Registry maps dotted names to builtins.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]*Builtin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builtins: make(map[string]*Builtin)}
}

// Register validates b and adds it, replacing any builtin of the same name.
func (r *Registry) Register(b Builtin) error {
	if err := b.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[b.Name] = &b
	return nil
}

// MustRegister is like Register but panics on an invalid schema.
func (r *Registry) MustRegister(b Builtin) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Lookup returns the builtin registered under name.
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builtins[name]
	return b, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.builtins))
}
