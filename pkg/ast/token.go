package ast

import (
	"slices"
	"strings"

	"github.com/yaklabco/rbfix/pkg/source"
)

// TokenKind classifies a lexical token.
type TokenKind uint16

// Token kinds. The parser's finer-grained token types are folded into these.
const (
	TokOther TokenKind = iota
	TokIdentifier
	TokConstant
	TokKeyword
	TokInteger
	TokFloat
	TokStringBegin
	TokStringContent
	TokStringEnd
	TokSymbol
	TokOperator
	TokPunct
	TokComment
	TokNewline
)

//nolint:gochecknoglobals // Static lookup table.
var tokenKindNames = map[TokenKind]string{
	TokOther:         "other",
	TokIdentifier:    "identifier",
	TokConstant:      "constant",
	TokKeyword:       "keyword",
	TokInteger:       "integer",
	TokFloat:         "float",
	TokStringBegin:   "string_begin",
	TokStringContent: "string_content",
	TokStringEnd:     "string_end",
	TokSymbol:        "symbol",
	TokOperator:      "operator",
	TokPunct:         "punct",
	TokComment:       "comment",
	TokNewline:       "newline",
}

// String returns the token kind name.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "other"
}

// ParseTokenKind maps a parser token type (e.g. "tIDENTIFIER", "kDEF",
// "tSTRING_BEG") or one of the folded names to a TokenKind.
func ParseTokenKind(name string) TokenKind {
	for kind, kindName := range tokenKindNames {
		if name == kindName {
			return kind
		}
	}

	switch {
	case name == "tIDENTIFIER" || name == "tFID" || name == "tIVAR" || name == "tGVAR" ||
		name == "tCVAR" || name == "tLABEL":
		return TokIdentifier
	case name == "tCONSTANT":
		return TokConstant
	case strings.HasPrefix(name, "k"):
		return TokKeyword
	case name == "tINTEGER":
		return TokInteger
	case name == "tFLOAT" || name == "tRATIONAL" || name == "tIMAGINARY":
		return TokFloat
	case strings.HasSuffix(name, "_BEG") || name == "tXSTRING_BEG":
		return TokStringBegin
	case name == "tSTRING_CONTENT" || name == "tSTRING":
		return TokStringContent
	case name == "tSTRING_END" || name == "tREGEXP_OPT":
		return TokStringEnd
	case name == "tSYMBOL" || name == "tSYMBEG":
		return TokSymbol
	case name == "tCOMMENT":
		return TokComment
	case name == "tNL":
		return TokNewline
	case strings.HasPrefix(name, "tL") || strings.HasPrefix(name, "tR") ||
		name == "tCOMMA" || name == "tSEMI" || name == "tDOT":
		return TokPunct
	case strings.HasPrefix(name, "t"):
		return TokOperator
	default:
		return TokOther
	}
}

// Token is a lexical unit of the source.
type Token struct {
	Kind  TokenKind
	Range source.Range

	// Line is the 1-based line of the token start.
	Line int
}

// SourceRange returns the token range.
func (t Token) SourceRange() source.Range {
	return t.Range
}

// Text returns the token source text.
func (t Token) Text() string {
	return t.Range.Source()
}

// Column returns the 0-based column of the token start.
func (t Token) Column() int {
	return t.Range.Column()
}

// SortTokens orders tokens by range begin, then end.
func SortTokens(tokens []Token) {
	slices.SortStableFunc(tokens, func(a, b Token) int {
		if a.Range.Begin() != b.Range.Begin() {
			return a.Range.Begin() - b.Range.Begin()
		}
		return a.Range.End() - b.Range.End()
	})
}
