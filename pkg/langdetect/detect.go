// Package langdetect identifies the programming language of an input file.
// It uses go-enry (the Go port of GitHub linguist) and is how the document
// assembler picks the marker dialect for a file.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language can be determined.
const Text = "text"

// Detect returns the normalized language name for a file, or Text.
//
// Detection strategies, in order:
//  1. unambiguous file extension or file name
//  2. shebang line
//  3. linguist heuristics and classifier over the content
func Detect(path string, content []byte) string {
	base := filepath.Base(path)

	if lang, safe := enry.GetLanguageByExtension(base); safe && lang != "" {
		return Normalize(lang)
	}
	if lang, safe := enry.GetLanguageByFilename(base); safe && lang != "" {
		return Normalize(lang)
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe && lang != "" {
		return Normalize(lang)
	}
	if lang := enry.GetLanguage(base, content); lang != "" {
		return Normalize(lang)
	}

	return Text
}

// IsVendored reports whether a relative path looks like third-party or
// generated content that should not be discovered as input.
func IsVendored(relPath string) bool {
	return enry.IsVendor(filepath.ToSlash(relPath))
}

// Normalize converts a linguist language name to the lower-case,
// dash-separated form used in configuration ("Objective-C" -> "objective-c",
// "Common Lisp" -> "common-lisp").
func Normalize(lang string) string {
	lang = strings.TrimSpace(strings.ToLower(lang))
	return strings.Join(strings.Fields(lang), "-")
}
