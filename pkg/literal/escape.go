package literal

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yaklabco/rbfix/pkg/ast"
)

var (
	interpolatingDelimiter = regexp.MustCompile("^(%[WIQsrx\\W]|[\"`/]|:\")")
	plainDelimiter         = regexp.MustCompile(`^(%[wiq]|')`)
)

// FindContainer returns the nearest ancestor of node that delimits the
// text node is interpolated into. The walk passes through string-like
// literals, arrays and interpolation segments and stops at the first of
// them that has a begin delimiter. Containers without one, such as
// heredocs, fail with ErrUnsupportedDelimiter.
func FindContainer(ps *ast.ParsedSource, node *ast.Node) (*ast.Node, error) {
	var container *ast.Node

	ps.Parents().EachAncestor(node, func(ancestor *ast.Node) bool {
		if !ancestor.Kind.IsStringFamily() && !ancestor.Is(ast.NodeArray, ast.NodeBegin) {
			return false
		}
		if ancestor.Kind != ast.NodeBegin && ancestor.Loc.Begin.Valid() {
			container = ancestor
			return false
		}
		return true
	})

	if container == nil {
		return nil, &DelimiterError{}
	}
	return container, nil
}

// ClassifyDelimiter reports whether the begin delimiter opens a literal that
// interpolates "#{...}".
func ClassifyDelimiter(begin string) (bool, error) {
	switch {
	case interpolatingDelimiter.MatchString(begin):
		return true, nil
	case plainDelimiter.MatchString(begin):
		return false, nil
	default:
		return false, &DelimiterError{Delimiter: begin}
	}
}

// EscapeSet is the set of characters that must be backslash-escaped for
// text spliced into one container.
type EscapeSet struct {
	chars      []rune
	whitespace bool
}

// NewEscapeSet builds the set for a container with the given delimiters.
// It holds the last character of begin, the first character of end, the
// backslash, "#" when the container interpolates, and every whitespace
// character when the container is a word list.
func NewEscapeSet(begin, end string, array bool) (EscapeSet, error) {
	interpolates, err := ClassifyDelimiter(begin)
	if err != nil {
		return EscapeSet{}, err
	}

	var set EscapeSet
	if last, _ := utf8.DecodeLastRuneInString(begin); last != utf8.RuneError {
		set.add(last)
	}
	if first, _ := utf8.DecodeRuneInString(end); first != utf8.RuneError {
		set.add(first)
	}
	set.add('\\')
	if interpolates {
		set.add('#')
	}
	set.whitespace = array

	return set, nil
}

// ContainerEscapeSet builds the set for container.
func ContainerEscapeSet(container *ast.Node) (EscapeSet, error) {
	if container == nil || !container.Loc.Begin.Valid() {
		return EscapeSet{}, &DelimiterError{}
	}
	return NewEscapeSet(container.Loc.Begin.Source(), container.Loc.End.Source(), container.Kind == ast.NodeArray)
}

func (s *EscapeSet) add(char rune) {
	if !s.Has(char) {
		s.chars = append(s.chars, char)
	}
}

// Has reports whether char needs escaping.
func (s EscapeSet) Has(char rune) bool {
	if s.whitespace && unicode.IsSpace(char) {
		return true
	}
	for _, c := range s.chars {
		if c == char {
			return true
		}
	}
	return false
}

// Escape inserts a backslash before every character of text in the set.
// Bytes that are not valid UTF-8 are copied through unchanged.
func (s EscapeSet) Escape(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	for idx := 0; idx < len(text); {
		char, size := utf8.DecodeRuneInString(text[idx:])
		if s.Has(char) && !rawByte(char, size) {
			out.WriteByte('\\')
		}
		out.WriteString(text[idx : idx+size])
		idx += size
	}
	return out.String()
}

// Unescape reverses Escape: a backslash followed by a character of the set
// is dropped. Other backslashes are kept.
func (s EscapeSet) Unescape(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	escaped := false
	for idx := 0; idx < len(text); {
		char, size := utf8.DecodeRuneInString(text[idx:])
		switch {
		case escaped:
			if !s.Has(char) || rawByte(char, size) {
				out.WriteByte('\\')
			}
			out.WriteString(text[idx : idx+size])
			escaped = false
		case char == '\\':
			escaped = true
		default:
			out.WriteString(text[idx : idx+size])
		}
		idx += size
	}
	if escaped {
		out.WriteByte('\\')
	}

	return out.String()
}

// rawByte reports whether a decoded rune stands for one invalid byte.
func rawByte(char rune, size int) bool {
	return char == utf8.RuneError && size == 1
}

// Escape escapes text for splicing into container.
func Escape(text string, container *ast.Node) (string, error) {
	set, err := ContainerEscapeSet(container)
	if err != nil {
		return "", err
	}
	return set.Escape(text), nil
}
