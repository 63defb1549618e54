package lint

import (
	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/source"
)

// Line helpers.

// IsBlankLine returns true if the 1-based line holds only spaces and tabs.
func IsBlankLine(buf *source.Buffer, line int) bool {
	return source.IsBlank(buf.LineContent(line))
}

// LineIndent returns the number of leading spaces and tabs of a 1-based line.
func LineIndent(buf *source.Buffer, line int) int {
	content := buf.LineContent(line)
	indent := 0
	for indent < len(content) && (content[indent] == ' ' || content[indent] == '\t') {
		indent++
	}
	return indent
}

// BeginsLine reports whether only whitespace precedes r on its line.
func BeginsLine(r source.Range) bool {
	if !r.Valid() {
		return false
	}
	return r.Column() == LineIndent(r.Buffer(), r.Line())
}

// TrailingWhitespace returns the run of spaces and tabs before the
// terminator of a 1-based line. Whitespace-only lines are covered whole.
func TrailingWhitespace(buf *source.Buffer, line int) (source.Range, bool) {
	info, ok := buf.Line(line)
	if !ok {
		return source.Range{}, false
	}

	content := buf.Source()
	end := info.NewlineStart
	begin := end
	for begin > info.StartOffset && (content[begin-1] == ' ' || content[begin-1] == '\t') {
		begin--
	}
	if begin == end {
		return source.Range{}, false
	}

	r, err := buf.Range(begin, end)
	if err != nil {
		return source.Range{}, false
	}
	return r, true
}

// WholeLine returns the range of the 1-based line including its terminator.
func WholeLine(buf *source.Buffer, line int) (source.Range, bool) {
	info, ok := buf.Line(line)
	if !ok {
		return source.Range{}, false
	}
	r, err := buf.Range(info.StartOffset, info.EndOffset)
	if err != nil {
		return source.Range{}, false
	}
	return r, true
}

// WithLeadingSpace extends r to the left over spaces and tabs on its line.
func WithLeadingSpace(r source.Range) source.Range {
	content := r.Buffer().Source()
	begin := r.Begin()
	for begin > 0 && (content[begin-1] == ' ' || content[begin-1] == '\t') {
		begin--
	}
	extended, err := r.Buffer().Range(begin, r.End())
	if err != nil {
		return r
	}
	return extended
}

// Token helpers.

// IsCodeToken reports whether tok is a code token rather than a newline
// or comment token.
func IsCodeToken(tok ast.Token) bool {
	return tok.Kind != ast.TokNewline && tok.Kind != ast.TokComment
}

// PrecedingToken returns the last code token on the same line that ends at
// or before offset.
func PrecedingToken(ps *ast.ParsedSource, line, offset int) (ast.Token, bool) {
	var found ast.Token
	ok := false
	for _, tok := range ps.TokensOnLine(line) {
		if !IsCodeToken(tok) || tok.Range.End() > offset {
			continue
		}
		if !ok || tok.Range.End() >= found.Range.End() {
			found, ok = tok, true
		}
	}
	return found, ok
}

// CodeTokens returns the code tokens of ps in source order.
func CodeTokens(ps *ast.ParsedSource) []ast.Token {
	tokens := make([]ast.Token, 0, len(ps.Tokens))
	for _, tok := range ps.Tokens {
		if IsCodeToken(tok) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Node helpers.

// IsInterpolation reports whether n is a "#{...}" segment of a string-like literal.
func IsInterpolation(n *ast.Node) bool {
	return n != nil && n.Kind == ast.NodeBegin && n.Loc.Begin.Valid() && n.Loc.Begin.Source() == "#{"
}

// IsDelimitedString reports whether n is a str or dstr with both delimiters.
func IsDelimitedString(n *ast.Node) bool {
	return n != nil && n.Is(ast.NodeStr, ast.NodeDstr) && n.HasDelimiters()
}

// StringContents returns the range between the delimiters of a delimited
// string, or its expression otherwise.
func StringContents(n *ast.Node) source.Range {
	if !n.HasDelimiters() {
		return n.SourceRange()
	}
	r, err := source.NewRange(n.Loc.Begin.Buffer(), n.Loc.Begin.End(), n.Loc.End.Begin())
	if err != nil {
		return n.SourceRange()
	}
	return r
}

// KeywordEnd returns the keyword and closing "end" of a definition or
// control-flow node when both are present.
func KeywordEnd(n *ast.Node) (source.Range, source.Range, bool) {
	if n == nil || !n.Loc.Keyword.Valid() || !n.Loc.End.Valid() {
		return source.Range{}, source.Range{}, false
	}
	if n.Loc.End.Source() != "end" {
		return source.Range{}, source.Range{}, false
	}
	return n.Loc.Keyword, n.Loc.End, true
}
