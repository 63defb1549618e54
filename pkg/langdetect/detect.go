// Package langdetect decides which files hold Ruby source.
// It uses go-enry's linguist data: well-known file names, extensions and
// shebang lines.
package langdetect

import (
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// Ruby is the linguist name of the Ruby language.
const Ruby = "Ruby"

// ByPath returns the language implied by the file name or extension of
// path. It returns "" when linguist does not know the name or the
// extension is ambiguous.
func ByPath(path string) string {
	base := filepath.Base(path)

	if lang, safe := enry.GetLanguageByFilename(base); safe && lang != "" {
		return lang
	}
	if lang, safe := enry.GetLanguageByExtension(base); safe && lang != "" {
		return lang
	}
	return ""
}

// IsRubyPath reports whether path names a Ruby file (foo.rb, Gemfile,
// tasks.rake, ...).
func IsRubyPath(path string) bool {
	return ByPath(path) == Ruby
}

// IsRuby reports whether a file is Ruby. The path decides when it names a
// known language; otherwise the shebang line of content does.
func IsRuby(path string, content []byte) bool {
	if lang := ByPath(path); lang != "" {
		return lang == Ruby
	}
	lang, safe := enry.GetLanguageByShebang(content)
	return safe && lang == Ruby
}

// IsVendored reports whether path lies in a vendored or dependency tree,
// such as vendor/bundle.
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}
