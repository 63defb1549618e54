package ast

import (
	"fmt"
	"slices"
	"sync"

	"github.com/yaklabco/rbfix/pkg/source"
)

// ParsedSource is the immutable input of one correction pass: the buffer,
// its AST, tokens and comments.
type ParsedSource struct {
	// Path is the file path.
	Path string

	// Buffer holds the source text.
	Buffer *source.Buffer

	// Root is the AST root. It may be nil for an empty file.
	Root *Node

	// Tokens are ordered by range begin, then end.
	Tokens []Token

	// Comments are ordered by range begin.
	Comments []Comment

	parentsOnce sync.Once
	parents     *Parents
}

// NewParsedSource numbers and validates the tree, orders tokens and comments,
// and checks that every range belongs to buf.
func NewParsedSource(buf *source.Buffer, root *Node, tokens []Token, comments []Comment) (*ParsedSource, error) {
	if buf == nil {
		return nil, fmt.Errorf("parsed source: %w", source.ErrInvalidRange)
	}

	if root != nil {
		Number(root)
		if err := Validate(root); err != nil {
			return nil, fmt.Errorf("parsed source %s: %w", buf.Name(), err)
		}
	}

	tokens = slices.Clone(tokens)
	SortTokens(tokens)
	for _, tok := range tokens {
		if tok.Range.Buffer() != buf {
			return nil, fmt.Errorf("token %s: %w", tok.Range, source.ErrInvalidRange)
		}
	}

	comments = slices.Clone(comments)
	slices.SortStableFunc(comments, func(a, b Comment) int {
		return a.Range.Begin() - b.Range.Begin()
	})
	for _, comment := range comments {
		if comment.Range.Buffer() != buf {
			return nil, fmt.Errorf("comment %s: %w", comment.Range, source.ErrInvalidRange)
		}
	}

	return &ParsedSource{
		Path:     buf.Name(),
		Buffer:   buf,
		Root:     root,
		Tokens:   tokens,
		Comments: comments,
	}, nil
}

// Parents returns the parent lookup table, building it on first use.
func (p *ParsedSource) Parents() *Parents {
	p.parentsOnce.Do(func() {
		p.parents = NewParents(p.Root)
	})
	return p.parents
}

// Content returns the source text.
func (p *ParsedSource) Content() string {
	return p.Buffer.Source()
}

// CommentsWithin returns the comments lying inside r.
func (p *ParsedSource) CommentsWithin(r source.Range) []Comment {
	var result []Comment
	for _, comment := range p.Comments {
		if comment.Range.Within(r) {
			result = append(result, comment)
		}
	}
	return result
}

// CommentAtLine returns the comment starting on the 1-based line, if any.
func (p *ParsedSource) CommentAtLine(line int) (Comment, bool) {
	for _, comment := range p.Comments {
		if comment.Line() == line {
			return comment, true
		}
	}
	return Comment{}, false
}

// TokensOnLine returns the tokens starting on the 1-based line.
func (p *ParsedSource) TokensOnLine(line int) []Token {
	var result []Token
	for _, tok := range p.Tokens {
		if tok.Line == line {
			result = append(result, tok)
		}
	}
	return result
}
