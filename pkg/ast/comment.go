package ast

import (
	"strings"

	"github.com/yaklabco/rbfix/pkg/source"
)

// CommentKind distinguishes end-of-line comments from document comments.
type CommentKind uint8

const (
	// CommentLine is a "#" comment running to the end of the line.
	CommentLine CommentKind = iota

	// CommentDocument is a "=begin" ... "=end" block.
	CommentDocument
)

// String returns the comment kind name.
func (k CommentKind) String() string {
	if k == CommentDocument {
		return "document"
	}
	return "line"
}

// Comment is one source comment.
type Comment struct {
	Kind  CommentKind
	Range source.Range
}

// SourceRange returns the comment range.
func (c Comment) SourceRange() source.Range {
	return c.Range
}

// Text returns the comment source, without a trailing newline.
func (c Comment) Text() string {
	return strings.TrimRight(c.Range.Source(), "\r\n")
}

// Document reports whether this is a block/doc comment.
func (c Comment) Document() bool {
	return c.Kind == CommentDocument
}

// Line returns the 1-based line of the comment start.
func (c Comment) Line() int {
	return c.Range.Line()
}
