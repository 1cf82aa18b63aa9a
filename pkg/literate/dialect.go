package literate

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/litpp/pkg/langdetect"
)

// Dialect names the marker tokens of one family of source files.
// Empty tokens are disabled. When an open and close token are equal the
// token toggles.
type Dialect struct {
	Name string

	// TopLevel classifies text outside any block: Prose for documents that
	// embed code, CodeKept for code that embeds documentation.
	TopLevel Kind

	ProseOpen    string
	ProseClose   string
	CodeOpen     string
	CodeClose    string
	DiscardOpen  string
	DiscardClose string
}

// Validate checks that the dialect is usable.
func (d Dialect) Validate() error {
	var errs []error

	if d.Name == "" {
		errs = append(errs, errors.New("dialect name is empty"))
	}
	if d.TopLevel != Prose && d.TopLevel != CodeKept {
		errs = append(errs, fmt.Errorf("dialect %q: top level must be prose or code", d.Name))
	}

	pairs := []struct {
		what        string
		open, close string
	}{
		{"prose", d.ProseOpen, d.ProseClose},
		{"code", d.CodeOpen, d.CodeClose},
		{"discard", d.DiscardOpen, d.DiscardClose},
	}
	for _, p := range pairs {
		if (p.open == "") != (p.close == "") {
			errs = append(errs, fmt.Errorf("dialect %q: %s markers must have both open and close", d.Name, p.what))
		}
	}

	return errors.Join(errs...)
}

// Built-in dialect names.
const (
	DialectC        = "c"
	DialectLua      = "lua"
	DialectMarkdown = "markdown"
)

// DefaultDialects returns the built-in dialects keyed by name.
func DefaultDialects() map[string]Dialect {
	return map[string]Dialect{
		DialectC: {
			Name:         DialectC,
			TopLevel:     CodeKept,
			ProseOpen:    "/*@@@",
			ProseClose:   "@@@*/",
			DiscardOpen:  "//---",
			DiscardClose: "//---",
		},
		DialectLua: {
			Name:         DialectLua,
			TopLevel:     CodeKept,
			ProseOpen:    "--[[@@@",
			ProseClose:   "@@@]]",
			DiscardOpen:  "-----",
			DiscardClose: "-----",
		},
		DialectMarkdown: {
			Name:         DialectMarkdown,
			TopLevel:     Prose,
			CodeOpen:     "<!-- code -->",
			CodeClose:    "<!-- /code -->",
			DiscardOpen:  "<!-- discard -->",
			DiscardClose: "<!-- /discard -->",
		},
	}
}

// DefaultLanguages maps normalized language names (see langdetect) to the
// built-in dialect used for them.
func DefaultLanguages() map[string]string {
	langs := make(map[string]string)
	for _, lang := range []string{
		"c", "c++", "c#", "go", "java", "javascript", "typescript", "rust",
		"swift", "kotlin", "scala", "php", "css", "dart", "objective-c", "zig",
	} {
		langs[lang] = DialectC
	}
	for _, lang := range []string{"lua", "sql", "haskell", "ada", "elm"} {
		langs[lang] = DialectLua
	}
	return langs
}

// DialectSet resolves the dialect of a file.
type DialectSet struct {
	dialects  map[string]Dialect
	languages map[string]string
	fallback  string
}

// NewDialectSet returns the built-in dialects with markdown as the fallback.
func NewDialectSet() *DialectSet {
	return &DialectSet{
		dialects:  DefaultDialects(),
		languages: DefaultLanguages(),
		fallback:  DialectMarkdown,
	}
}

// Add registers or replaces a dialect after validating it.
func (s *DialectSet) Add(d Dialect) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.dialects[d.Name] = d
	return nil
}

// MapLanguage makes files of the normalized language use the named dialect.
func (s *DialectSet) MapLanguage(lang, dialect string) error {
	if _, ok := s.dialects[dialect]; !ok {
		return fmt.Errorf("unknown dialect %q", dialect)
	}
	s.languages[langdetect.Normalize(lang)] = dialect
	return nil
}

// SetFallback selects the dialect used for unmapped languages.
func (s *DialectSet) SetFallback(dialect string) error {
	if _, ok := s.dialects[dialect]; !ok {
		return fmt.Errorf("unknown dialect %q", dialect)
	}
	s.fallback = dialect
	return nil
}

// Lookup returns the named dialect.
func (s *DialectSet) Lookup(name string) (Dialect, bool) {
	d, ok := s.dialects[name]
	return d, ok
}

// Names returns the dialect names in sorted order.
func (s *DialectSet) Names() []string {
	return slices.Sorted(maps.Keys(s.dialects))
}

// For returns the dialect for a file, detecting its language from the path
// and content.
func (s *DialectSet) For(path string, content []byte) Dialect {
	lang := langdetect.Detect(path, content)
	if name, ok := s.languages[lang]; ok {
		if d, ok := s.dialects[name]; ok {
			return d
		}
	}
	return s.dialects[s.fallback]
}

// DialectFor returns the built-in dialect for a file.
func DialectFor(path string, content []byte) Dialect {
	return NewDialectSet().For(path, content)
}
