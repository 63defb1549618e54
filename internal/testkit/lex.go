package testkit

import (
	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/source"
)

//nolint:gochecknoglobals // Static keyword table.
var keywords = map[string]bool{
	"def": true, "end": true, "class": true, "module": true, "if": true, "else": true,
	"elsif": true, "unless": true, "while": true, "until": true, "do": true, "case": true,
	"when": true, "then": true, "return": true, "begin": true, "rescue": true, "ensure": true,
	"nil": true, "true": true, "false": true, "self": true, "yield": true,
}

// Lex splits a snippet into tokens and comments. It understands identifiers,
// numbers, simple quoted strings, "#" and "=begin" comments, and single-byte
// punctuation; it is meant for test inputs, not arbitrary Ruby.
func Lex(buf *source.Buffer) ([]ast.Token, []ast.Comment) {
	src := buf.Source()

	var tokens []ast.Token
	var comments []ast.Comment

	emit := func(kind ast.TokenKind, begin, end int) {
		rng := buf.MustRange(begin, end)
		tokens = append(tokens, ast.Token{Kind: kind, Range: rng, Line: rng.Line()})
	}

	pos := 0
	for pos < len(src) {
		char := src[pos]
		switch {
		case char == ' ' || char == '\t' || char == '\r':
			pos++
		case char == '\\' && pos+1 < len(src) && src[pos+1] == '\n':
			pos += 2
		case char == '\n':
			emit(ast.TokNewline, pos, pos+1)
			pos++
		case char == '=' && atLineStart(src, pos) && hasPrefix(src[pos:], "=begin"):
			end := docCommentEnd(src, pos)
			comments = append(comments, ast.Comment{Kind: ast.CommentDocument, Range: buf.MustRange(pos, end)})
			pos = end
		case char == '#':
			end := pos
			for end < len(src) && src[end] != '\n' {
				end++
			}
			comments = append(comments, ast.Comment{Kind: ast.CommentLine, Range: buf.MustRange(pos, end)})
			pos = end
		case char == '"' || char == '\'' || char == '`':
			end := quotedEnd(src, pos)
			emit(ast.TokStringContent, pos, end)
			pos = end
		case isDigit(char):
			end, kind := numberEnd(src, pos)
			emit(kind, pos, end)
			pos = end
		case isIdentStart(char):
			end := pos
			for end < len(src) && isIdentPart(src[end]) {
				end++
			}
			if end < len(src) && (src[end] == '?' || src[end] == '!') {
				end++
			}
			word := src[pos:end]
			kind := ast.TokIdentifier
			switch {
			case keywords[word]:
				kind = ast.TokKeyword
			case word[0] >= 'A' && word[0] <= 'Z':
				kind = ast.TokConstant
			}
			emit(kind, pos, end)
			pos = end
		case char == ':' && pos+1 < len(src) && isIdentStart(src[pos+1]):
			end := pos + 1
			for end < len(src) && isIdentPart(src[end]) {
				end++
			}
			emit(ast.TokSymbol, pos, end)
			pos = end
		default:
			emit(ast.TokPunct, pos, pos+1)
			pos++
		}
	}

	return tokens, comments
}

func atLineStart(src string, pos int) bool {
	return pos == 0 || src[pos-1] == '\n'
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// docCommentEnd returns the offset just past the "=end" line.
func docCommentEnd(src string, pos int) int {
	for idx := pos; idx < len(src); idx++ {
		if atLineStart(src, idx) && hasPrefix(src[idx:], "=end") {
			end := idx
			for end < len(src) && src[end] != '\n' {
				end++
			}
			if end < len(src) {
				end++
			}
			return end
		}
	}
	return len(src)
}

func quotedEnd(src string, pos int) int {
	quote := src[pos]
	for idx := pos + 1; idx < len(src); idx++ {
		switch src[idx] {
		case '\\':
			idx++
		case quote:
			return idx + 1
		}
	}
	return len(src)
}

func numberEnd(src string, pos int) (int, ast.TokenKind) {
	end := pos
	for end < len(src) && (isDigit(src[end]) || src[end] == '_') {
		end++
	}
	if end+1 < len(src) && src[end] == '.' && isDigit(src[end+1]) {
		end++
		for end < len(src) && isDigit(src[end]) {
			end++
		}
		return end, ast.TokFloat
	}
	return end, ast.TokInteger
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

func isIdentStart(char byte) bool {
	return char == '_' || char == '@' || char == '$' ||
		(char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}

func isIdentPart(char byte) bool {
	return isIdentStart(char) || isDigit(char)
}
