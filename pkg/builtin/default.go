package builtin

import "github.com/yaklabco/litpp/pkg/mdsection"

// Default returns a registry holding every shipped builtin, with GFM
// headings for include.section.
func Default() *Registry {
	return WithExtractor(mdsection.New(mdsection.FlavorGFM))
}

// WithExtractor returns a registry holding every shipped builtin, with
// include.section reading headings through extractor.
func WithExtractor(extractor *mdsection.Extractor) *Registry {
	r := NewRegistry()
	r.MustRegister(IncludeRaw())
	r.MustRegister(Include())
	r.MustRegister(IncludeSection(extractor))
	r.MustRegister(IncludeLines())
	return r
}
